// Package server implements the TCP connection front end (spec.md §4.6):
// a listener accept loop plus one reader and one writer goroutine per
// connection. Grounded on Hillside's internal/utils.RemoteLogger
// (net.Listen/Accept loop, one goroutine per accepted conn) and
// internal/hub/server.go's handleRPC (per-stream read/dispatch/close
// shape), adapted from a single decode-dispatch-encode RPC call to a
// long-lived line-oriented session.
package server

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"time"

	"streamline/internal/dispatcher"
	"streamline/internal/protocol"
	"streamline/internal/session"
)

// flushTimeout bounds how long a closing connection waits for its writer
// to drain the outbound queue.
const flushTimeout = 2 * time.Second

// Server accepts TCP connections and feeds each line to the Dispatcher.
type Server struct {
	listener net.Listener
	disp     *dispatcher.Dispatcher
	log      *slog.Logger
}

// Listen binds addr and returns a Server ready to Serve.
func Listen(addr string, disp *dispatcher.Dispatcher, log *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{listener: ln, disp: disp, log: log}, nil
}

// Addr reports the bound address, useful when addr was ":0" in tests.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Close stops accepting new connections. In-flight connections are not
// forcibly closed; they drain on their own EOF/backpressure.
func (s *Server) Close() error { return s.listener.Close() }

// Serve runs the accept loop until ctx is cancelled or the listener is
// closed. Each accepted connection is handled on its own goroutine and
// does not block the loop.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.handleConn(conn)
	}
}

// handleConn runs the reader loop for one connection and starts its
// writer goroutine. It returns once the connection is done, by EOF,
// protocol violation, or backpressure close.
func (s *Server) handleConn(conn net.Conn) {
	peer := conn.RemoteAddr().String()
	sess := session.New(peer)
	s.log.Info("connection accepted", "peer", peer, "session", sess.ID)

	done := make(chan struct{})
	go s.writeLoop(conn, sess, done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), protocol.MaxFrameBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		s.disp.HandleLine(sess, line)
		if sess.Closed() {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Warn("connection read error", "peer", peer, "session", sess.ID, "error", err)
	}
	s.disp.Disconnect(sess)
	// Let the writer flush frames already queued (e.g. the "bye" after
	// /quit) before the socket closes, bounded so a peer that has stopped
	// reading cannot hold the connection open.
	conn.SetWriteDeadline(time.Now().Add(flushTimeout))
	<-done
	conn.Close()
	s.log.Info("connection closed", "peer", peer, "session", sess.ID)
}

// writeLoop drains sess's outbound queue to conn until the queue is
// closed (Session.Close, called by the dispatcher on /quit, account
// deletion or disconnect, or by Send itself on backpressure overflow, per
// spec.md §4.6).
func (s *Server) writeLoop(conn net.Conn, sess *session.Session, done chan struct{}) {
	defer close(done)
	for f := range sess.Outbound() {
		b, err := protocol.Encode(f)
		if err != nil {
			s.log.Error("frame encode failed", "session", sess.ID, "error", err)
			continue
		}
		if _, err := conn.Write(b); err != nil {
			sess.Close()
			return
		}
	}
	conn.Close()
}
