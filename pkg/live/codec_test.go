package live

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteUvarint(300)
	enc.WriteString("skin")
	enc.WriteString("")

	dec := NewDecoder(&buf)
	v, err := dec.ReadUvarint()
	if err != nil || v != 300 {
		t.Fatalf("Expected 300, got %d (%v)", v, err)
	}
	s, err := dec.ReadString()
	if err != nil || s != "skin" {
		t.Fatalf("Expected skin, got %q (%v)", s, err)
	}
	s, err = dec.ReadString()
	if err != nil || s != "" {
		t.Fatalf("Expected empty string, got %q (%v)", s, err)
	}
}

func TestDecoder_LongString(t *testing.T) {
	long := strings.Repeat("x", 5000)

	var buf bytes.Buffer
	NewEncoder(&buf).WriteString(long)

	s, err := NewDecoder(&buf).ReadString()
	if err != nil {
		t.Fatalf("ReadString failed: %v", err)
	}
	if s != long {
		t.Errorf("Expected %d bytes, got %d", len(long), len(s))
	}
}

func TestDecoder_RejectsHugeLength(t *testing.T) {
	var buf bytes.Buffer
	NewEncoder(&buf).WriteUvarint(maxStringLen + 1)

	if _, err := NewDecoder(&buf).ReadString(); err == nil {
		t.Error("Expected error for oversized length prefix")
	}
}

func TestPropsFrame(t *testing.T) {
	json := []byte(`{"fov":70}`)
	frame := EncodeProps(7, json)

	if frame[0] != byte(FrameProps) {
		t.Errorf("Expected props frame type, got %#x", frame[0])
	}

	seq, data, err := DecodeProps(frame)
	if err != nil {
		t.Fatalf("DecodeProps failed: %v", err)
	}
	if seq != 7 || string(data) != string(json) {
		t.Errorf("Expected seq 7 and %s, got %d and %s", json, seq, data)
	}
}

func TestEventFrame(t *testing.T) {
	frame := EncodeEvent(Event{Type: EventLoadError, Message: "loadSkin: 404"})

	evt, err := DecodeEvent(frame)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if evt.Type != EventLoadError || evt.Message != "loadSkin: 404" {
		t.Errorf("Expected loadError event, got %s %q", evt.Type, evt.Message)
	}

	evt, err = DecodeEvent(EncodeEvent(Event{Type: EventMounted}))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if evt.Type != EventMounted || evt.Message != "" {
		t.Errorf("Expected bare mounted event, got %s %q", evt.Type, evt.Message)
	}
}

func TestControlFrame(t *testing.T) {
	c, err := DecodeControl(EncodeControl(Control{Name: ControlHello, Seq: 42}))
	if err != nil {
		t.Fatalf("DecodeControl failed: %v", err)
	}
	if c.Name != ControlHello || c.Seq != 42 {
		t.Errorf("Expected HELLO 42, got %s %d", c.Name, c.Seq)
	}

	c, err = DecodeControl(EncodeControl(Control{Name: ControlPing, Seq: 9}))
	if err != nil {
		t.Fatalf("DecodeControl failed: %v", err)
	}
	if c.Name != ControlPing || c.Seq != 0 {
		t.Errorf("Expected PING without sequence, got %s %d", c.Name, c.Seq)
	}
}

func TestDecode_WrongFrame(t *testing.T) {
	event := EncodeEvent(Event{Type: EventMounted})

	if _, _, err := DecodeProps(event); !errors.Is(err, ErrWrongFrame) {
		t.Errorf("Expected ErrWrongFrame, got %v", err)
	}
	if _, err := DecodeControl(event); !errors.Is(err, ErrWrongFrame) {
		t.Errorf("Expected ErrWrongFrame, got %v", err)
	}
	if _, err := DecodeEvent(EncodeProps(1, []byte("{}"))); !errors.Is(err, ErrWrongFrame) {
		t.Errorf("Expected ErrWrongFrame, got %v", err)
	}
	if _, err := DecodeEvent([]byte{byte(FrameEvent)}); !errors.Is(err, ErrShortFrame) {
		t.Errorf("Expected ErrShortFrame, got %v", err)
	}
}

func TestEventType_String(t *testing.T) {
	if EventDisposed.String() != "disposed" {
		t.Errorf("Expected disposed, got %s", EventDisposed)
	}
	if EventType(0x7f).String() != "unknown" {
		t.Errorf("Expected unknown, got %s", EventType(0x7f))
	}
}
