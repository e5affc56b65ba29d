//go:build js && wasm
// +build js,wasm

package live

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/recera/skinview/pkg/skinview"
)

// Client receives props snapshots in the browser and reports viewer events
type Client struct {
	ws      js.Value
	url     string
	lastSeq uint64
	funcs   []js.Func

	onProps func(seq uint64, p skinview.Props)
	onReady func()
	onError func(error)
}

// NewClient creates a new live protocol client
func NewClient(url string) *Client {
	return &Client{
		url: url,
		ws:  js.Undefined(),
	}
}

// Connect establishes the WebSocket connection
func (c *Client) Connect() error {
	ctor := js.Global().Get("WebSocket")
	if ctor.Type() != js.TypeFunction {
		return errors.New("WebSocket is not available")
	}

	c.ws = ctor.New(c.url)
	c.ws.Set("binaryType", "arraybuffer")

	c.on("onopen", func(args []js.Value) {
		if debugLog != nil {
			debugLog("[Live Client] Connected")
		}
		c.sendFrame(EncodeControl(Control{Name: ControlHello, Seq: c.lastSeq}))
		if c.onReady != nil {
			c.onReady()
		}
	})

	c.on("onmessage", func(args []js.Value) {
		buffer := js.Global().Get("Uint8Array").New(args[0].Get("data"))
		data := make([]byte, buffer.Get("length").Int())
		js.CopyBytesToGo(data, buffer)
		c.handleFrame(data)
	})

	c.on("onerror", func(args []js.Value) {
		c.fail(errors.New("websocket error"))
	})

	c.on("onclose", func(args []js.Value) {
		if debugLog != nil {
			debugLog("[Live Client] Disconnected")
		}
	})

	return nil
}

func (c *Client) on(event string, fn func(args []js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn(args)
		return nil
	})
	c.funcs = append(c.funcs, f)
	c.ws.Set(event, f)
}

func (c *Client) handleFrame(data []byte) {
	if len(data) == 0 {
		return
	}

	switch MessageType(data[0]) {
	case FrameProps:
		seq, raw, err := DecodeProps(data)
		if err != nil {
			c.fail(err)
			return
		}
		// Snapshots can race with the one sent on connect
		if seq <= c.lastSeq {
			return
		}
		p, err := skinview.DecodePropsJSON(raw)
		if err != nil {
			c.fail(err)
			return
		}
		c.lastSeq = seq
		if c.onProps != nil {
			c.onProps(seq, p)
		}

	case FrameControl:
		ctl, err := DecodeControl(data)
		if err != nil {
			c.fail(err)
			return
		}
		if ctl.Name == ControlPing {
			c.sendFrame(EncodeControl(Control{Name: ControlPong}))
		}
	}
}

func (c *Client) fail(err error) {
	if debugLog != nil {
		debugLog(fmt.Sprintf("[Live Client] %v", err))
	}
	if c.onError != nil {
		c.onError(err)
	}
}

// SendEvent sends a viewer event to the server
func (c *Client) SendEvent(evt Event) error {
	return c.sendFrame(EncodeEvent(evt))
}

func (c *Client) sendFrame(data []byte) error {
	if c.ws.IsNull() || c.ws.IsUndefined() {
		return errors.New("not connected")
	}
	// WebSocket.OPEN
	if c.ws.Get("readyState").Int() != 1 {
		return errors.New("connection is not open")
	}

	array := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(array, data)
	c.ws.Call("send", array)
	return nil
}

// Close closes the WebSocket connection and releases its callbacks
func (c *Client) Close() {
	if !c.ws.IsNull() && !c.ws.IsUndefined() {
		c.ws.Call("close")
	}
	for _, f := range c.funcs {
		f.Release()
	}
	c.funcs = nil
}

// LastSeq returns the sequence number of the last applied snapshot
func (c *Client) LastSeq() uint64 {
	return c.lastSeq
}

// OnProps sets the snapshot handler
func (c *Client) OnProps(handler func(seq uint64, p skinview.Props)) {
	c.onProps = handler
}

// OnReady sets the ready handler
func (c *Client) OnReady(handler func()) {
	c.onReady = handler
}

// OnError sets the error handler
func (c *Client) OnError(handler func(error)) {
	c.onError = handler
}
