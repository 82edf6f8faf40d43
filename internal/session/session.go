// Package session holds per-connection state: the phase state machine
// (spec.md §4.7 diagram), the outbound queue a connection's writer drains,
// and the ignore list consulted on delivery. Adapted from Hillside's
// internal/client/session.go (a mutex-guarded struct of connection state)
// but built around the server-side phase machine instead of a p2p client's
// handshake state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"streamline/internal/protocol"
)

// Phase is a session's coarse-grained state (spec.md §3/§4.7).
type Phase int

const (
	PhaseGuest Phase = iota
	PhaseLoggedIn
	PhaseInRoom
)

func (p Phase) String() string {
	switch p {
	case PhaseGuest:
		return "guest"
	case PhaseLoggedIn:
		return "logged_in"
	case PhaseInRoom:
		return "in_room"
	}
	return "unknown"
}

const outboundQueueDepth = 256

// Session is the ephemeral, per-connection state described in spec.md §3.
// All mutation happens under the dispatcher's global lock; the mutex here
// only protects the fields the connection's own writer goroutine reads
// concurrently (Outbound, Closed).
type Session struct {
	ID       string
	PeerAddr string

	Phase    Phase
	Username string // set once Phase >= LoggedIn
	Room     string // set once Phase == InRoom

	IgnoreSet map[string]bool

	LastActivity time.Time

	mu       sync.Mutex
	outbound chan protocol.Frame
	closed   bool
}

// New creates a fresh Guest-phase session for a newly accepted connection.
func New(peerAddr string) *Session {
	return &Session{
		ID:           uuid.NewString(),
		PeerAddr:     peerAddr,
		Phase:        PhaseGuest,
		IgnoreSet:    map[string]bool{},
		LastActivity: time.Now(),
		outbound:     make(chan protocol.Frame, outboundQueueDepth),
	}
}

// Send enqueues a frame for delivery without blocking. It reports false
// (and closes the session) if the outbound queue is full, per spec.md
// §4.6's Backpressure policy: dispatch never blocks on a slow peer.
func (s *Session) Send(f protocol.Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.outbound <- f:
		return true
	default:
		s.closeLocked()
		return false
	}
}

// Outbound returns the channel the connection's writer goroutine drains.
func (s *Session) Outbound() <-chan protocol.Frame {
	return s.outbound
}

// Close marks the session terminal and closes the outbound channel so the
// writer goroutine exits once it has drained any pending frames.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.outbound)
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Ignores reports whether s is ignoring sender (spec.md §3: non-command
// broadcasts from ignored senders are suppressed on delivery).
func (s *Session) Ignores(sender string) bool {
	return s.IgnoreSet[sender]
}
