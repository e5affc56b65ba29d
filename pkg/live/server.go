//go:build !wasm
// +build !wasm

package live

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/recera/skinview/pkg/skinview"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 64
)

var (
	// ErrSessionClosed is returned when sending to a closed session
	ErrSessionClosed = errors.New("session closed")
	// ErrSendBufferFull is returned when a slow client falls behind
	ErrSendBufferFull = errors.New("send buffer full")
)

// Server pushes props snapshots to connected browsers over WebSocket
type Server struct {
	upgrader websocket.Upgrader
	path     string
	sessions map[string]*Session
	mu       sync.RWMutex

	// Latest snapshot, sent to every new session after HELLO
	seq      uint64
	snapshot []byte

	onEvent func(sessionID string, evt Event)
}

// Session represents one browser connection
type Session struct {
	ID        string
	conn      *websocket.Conn
	sendChan  chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
	lastSeq   uint64
	mu        sync.Mutex
}

// NewServer creates a new live protocol server
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			// The playground is a local development server
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		path:     DefaultPath,
		sessions: make(map[string]*Session),
	}
}

// OnEvent sets the handler for events reported by clients
func (s *Server) OnEvent(fn func(sessionID string, evt Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = fn
}

// Path returns the URL prefix HandleWebSocket expects
func (s *Server) Path() string {
	return s.path
}

// HandleWebSocket handles WebSocket upgrade and session management
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, s.path)
	if sessionID == "" || sessionID == r.URL.Path || strings.Contains(sessionID, "/") {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live Server] Failed to upgrade connection: %v", err)
		return
	}

	session := s.addSession(sessionID, conn)
	go s.handleConnection(session)
}

// addSession registers a session, replacing a previous connection that
// used the same ID
func (s *Server) addSession(sessionID string, conn *websocket.Conn) *Session {
	session := &Session{
		ID:        sessionID,
		conn:      conn,
		sendChan:  make(chan []byte, sendBuffer),
		closeChan: make(chan struct{}),
	}

	s.mu.Lock()
	old := s.sessions[sessionID]
	s.sessions[sessionID] = session
	s.mu.Unlock()

	if old != nil {
		log.Printf("[Live Session %s] Replacing previous connection", sessionID)
		old.Close()
	}
	return session
}

// removeSession drops session unless a newer connection took its ID
func (s *Server) removeSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[session.ID] == session {
		delete(s.sessions, session.ID)
	}
}

// GetSession retrieves a session by ID
func (s *Server) GetSession(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// SessionCount returns the number of connected sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns the latest broadcast sequence number and JSON props
func (s *Server) Snapshot() (uint64, []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq, s.snapshot
}

// Broadcast validates p, stores it as the current snapshot and sends it to
// every session. Sessions that cannot keep up are closed.
func (s *Server) Broadcast(p skinview.Props) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := skinview.EncodePropsJSON(p)
	if err != nil {
		return fmt.Errorf("failed to encode props: %w", err)
	}

	s.mu.Lock()
	s.seq++
	s.snapshot = data
	frame := EncodeProps(s.seq, data)
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	seq := s.seq
	s.mu.Unlock()

	for _, session := range sessions {
		if err := session.send(frame); err != nil {
			log.Printf("[Live Session %s] Dropping session: %v", session.ID, err)
			session.Close()
			continue
		}
		session.setLastSeq(seq)
	}

	log.Printf("[Live Server] Broadcast props #%d to %d sessions", seq, len(sessions))
	return nil
}

// Close closes every session
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// handleConnection manages the WebSocket connection for a session
func (s *Server) handleConnection(session *Session) {
	defer func() {
		session.Close()
		s.removeSession(session)
	}()

	go session.writer()

	seq, snapshot := s.Snapshot()
	session.send(EncodeControl(Control{Name: ControlHello, Seq: seq}))
	log.Printf("[Live Session %s] Sent server HELLO", session.ID)

	if snapshot != nil {
		if err := session.send(EncodeProps(seq, snapshot)); err == nil {
			session.setLastSeq(seq)
		}
	}

	session.conn.SetReadDeadline(time.Now().Add(pongWait))
	session.conn.SetPongHandler(func(string) error {
		session.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := session.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Live Session %s] Unexpected close: %v", session.ID, err)
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			s.handleBinaryMessage(session, data)
		case websocket.TextMessage:
			log.Printf("[Live Session %s] Ignoring text message: %s", session.ID, string(data))
		}
	}
}

// handleBinaryMessage processes binary protocol messages
func (s *Server) handleBinaryMessage(session *Session, data []byte) {
	if len(data) == 0 {
		return
	}

	switch MessageType(data[0]) {
	case FrameEvent:
		event, err := DecodeEvent(data)
		if err != nil {
			log.Printf("[Live Session %s] Failed to decode event: %v", session.ID, err)
			return
		}
		log.Printf("[Live Session %s] Event: %s %s", session.ID, event.Type, event.Message)

		s.mu.RLock()
		onEvent := s.onEvent
		s.mu.RUnlock()
		if onEvent != nil {
			onEvent(session.ID, *event)
		}

	case FrameControl:
		c, err := DecodeControl(data)
		if err != nil {
			log.Printf("[Live Session %s] Failed to decode control message: %v", session.ID, err)
			return
		}

		switch c.Name {
		case ControlHello:
			log.Printf("[Live Session %s] Client hello: lastSeq=%d", session.ID, c.Seq)
			// A client that missed snapshots gets the current one again
			if seq, snapshot := s.Snapshot(); snapshot != nil && c.Seq < seq && session.LastSeq() < seq {
				session.send(EncodeProps(seq, snapshot))
				session.setLastSeq(seq)
			}
		case ControlPing:
			session.send(EncodeControl(Control{Name: ControlPong}))
		}

	default:
		log.Printf("[Live Session %s] Unknown frame type %#x", session.ID, data[0])
	}
}

// writer handles writing messages to the WebSocket
func (s *Session) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.sendChan:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				log.Printf("[Live Session %s] Failed to write message: %v", s.ID, err)
				s.Close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.closeChan:
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			s.conn.Close()
			return
		}
	}
}

// send queues a frame without blocking
func (s *Session) send(frame []byte) error {
	select {
	case <-s.closeChan:
		return ErrSessionClosed
	default:
	}

	select {
	case s.sendChan <- frame:
		return nil
	case <-s.closeChan:
		return ErrSessionClosed
	default:
		return ErrSendBufferFull
	}
}

// Close stops the session's writer, which closes the connection
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})
}

// LastSeq returns the sequence number of the last snapshot queued
func (s *Session) LastSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeq
}

func (s *Session) setLastSeq(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.lastSeq {
		s.lastSeq = seq
	}
}
