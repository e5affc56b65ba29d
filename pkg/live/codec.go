package live

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrShortFrame is returned for frames missing required fields
	ErrShortFrame = errors.New("frame too short")
	// ErrWrongFrame is returned when a frame has an unexpected type byte
	ErrWrongFrame = errors.New("unexpected frame type")
)

// maxStringLen bounds length prefixes read from the wire
const maxStringLen = 1 << 20

// Encoder handles encoding of live protocol messages
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new encoder
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteUvarint writes an unsigned varint
func (e *Encoder) WriteUvarint(v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	_, err := e.w.Write(buf[:n])
	return err
}

// WriteString writes a length-prefixed string
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

// WriteBytes writes raw bytes
func (e *Encoder) WriteBytes(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

// Decoder handles decoding of live protocol messages
type Decoder struct {
	r   io.Reader
	buf []byte
}

// NewDecoder creates a new decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 1024),
	}
}

// ReadUvarint reads an unsigned varint
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d)
}

// ReadByte implements io.ByteReader
func (d *Decoder) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadString reads a length-prefixed string
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > maxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit", length)
	}

	if length > uint64(len(d.buf)) {
		d.buf = make([]byte, length)
	}

	n, err := io.ReadFull(d.r, d.buf[:length])
	if err != nil {
		return "", err
	}

	return string(d.buf[:n]), nil
}

// EncodeProps encodes a props snapshot frame. data is the JSON snapshot.
func EncodeProps(seq uint64, data []byte) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	enc.WriteBytes([]byte{byte(FrameProps)})
	enc.WriteUvarint(seq)
	enc.WriteString(string(data))

	return buf.Bytes()
}

// DecodeProps decodes a props frame into its sequence number and JSON
func DecodeProps(data []byte) (uint64, []byte, error) {
	if len(data) < 3 {
		return 0, nil, ErrShortFrame
	}
	if data[0] != byte(FrameProps) {
		return 0, nil, fmt.Errorf("%w: %#x", ErrWrongFrame, data[0])
	}

	dec := NewDecoder(bytes.NewReader(data[1:]))
	seq, err := dec.ReadUvarint()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to decode sequence: %w", err)
	}
	s, err := dec.ReadString()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to decode props: %w", err)
	}
	return seq, []byte(s), nil
}

// EncodeEvent encodes an event to binary format
func EncodeEvent(evt Event) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	enc.WriteBytes([]byte{byte(FrameEvent), byte(evt.Type)})
	enc.WriteString(evt.Message)

	return buf.Bytes()
}

// DecodeEvent decodes an event from binary format
func DecodeEvent(data []byte) (*Event, error) {
	if len(data) < 3 {
		return nil, ErrShortFrame
	}
	if data[0] != byte(FrameEvent) {
		return nil, fmt.Errorf("%w: %#x", ErrWrongFrame, data[0])
	}

	evt := &Event{
		Type: EventType(data[1]),
	}

	msg, err := NewDecoder(bytes.NewReader(data[2:])).ReadString()
	if err != nil {
		return nil, fmt.Errorf("failed to decode event message: %w", err)
	}
	evt.Message = msg

	return evt, nil
}

// EncodeControl encodes a control frame
func EncodeControl(c Control) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	enc.WriteBytes([]byte{byte(FrameControl)})
	enc.WriteString(c.Name)
	if c.Name == ControlHello {
		enc.WriteUvarint(c.Seq)
	}

	return buf.Bytes()
}

// DecodeControl decodes a control frame
func DecodeControl(data []byte) (Control, error) {
	if len(data) < 2 {
		return Control{}, ErrShortFrame
	}
	if data[0] != byte(FrameControl) {
		return Control{}, fmt.Errorf("%w: %#x", ErrWrongFrame, data[0])
	}

	dec := NewDecoder(bytes.NewReader(data[1:]))
	name, err := dec.ReadString()
	if err != nil {
		return Control{}, fmt.Errorf("failed to decode control message type: %w", err)
	}

	c := Control{Name: name}
	if name == ControlHello {
		if c.Seq, err = dec.ReadUvarint(); err != nil {
			return Control{}, fmt.Errorf("failed to decode HELLO sequence: %w", err)
		}
	}
	return c, nil
}
