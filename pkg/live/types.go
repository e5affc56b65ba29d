package live

// debugLog is set by pkg/debug
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function for the live client and bridge
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// DefaultPath is the URL prefix the live endpoint is mounted under
const DefaultPath = "/skinview/live/"

// MessageType represents the type of live protocol frame
type MessageType uint8

const (
	// Frame types
	FrameProps   MessageType = 0x00
	FrameEvent   MessageType = 0x01
	FrameControl MessageType = 0x02
)

// EventType represents client-side viewer events
type EventType uint8

const (
	EventMounted   EventType = 0x01
	EventDisposed  EventType = 0x02
	EventLoadError EventType = 0x03
)

func (t EventType) String() string {
	switch t {
	case EventMounted:
		return "mounted"
	case EventDisposed:
		return "disposed"
	case EventLoadError:
		return "loadError"
	}
	return "unknown"
}

// Event is reported by the browser client about its viewer
type Event struct {
	Type    EventType
	Message string
}

// Control message names
const (
	ControlHello = "HELLO"
	ControlPing  = "PING"
	ControlPong  = "PONG"
)

// Control is a control frame. Seq is only carried by HELLO.
type Control struct {
	Name string
	Seq  uint64
}
