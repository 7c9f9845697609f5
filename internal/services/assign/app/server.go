// Package server wires the assign runtime: listener, storage, session
// verification, and the message dispatch loop.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Bram-Hub/assign/internal/platform/config"
	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/platform/requestctx"
	"github.com/Bram-Hub/assign/internal/platform/timeouts"
	"github.com/Bram-Hub/assign/internal/services/assign/api/wire"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/message"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
	"github.com/Bram-Hub/assign/internal/services/assign/session"
	assignsqlite "github.com/Bram-Hub/assign/internal/services/assign/storage/sqlite"
)

type serverEnv struct {
	DBPath string `env:"ARIS_ASSIGN_DB_PATH"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "assign.db")
	}
	return cfg
}

// Server hosts the assign protocol listener and storage lifecycle.
type Server struct {
	listener   net.Listener
	store      *assignsqlite.Store
	registry   *message.Registry
	dispatcher *message.Dispatcher
	sessionCfg session.Config

	mu     sync.Mutex
	closed bool
	conns  map[net.Conn]struct{}
	wg     sync.WaitGroup
}

// New creates a configured assign server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured assign server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	sessionCfg, err := session.LoadConfigFromEnv(nil)
	if err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	store, err := openAssignStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	return &Server{
		listener:   listener,
		store:      store,
		registry:   message.DefaultRegistry(),
		dispatcher: message.NewDispatcher(store, perm.DefaultRoles()),
		sessionCfg: sessionCfg,
		conns:      make(map[net.Conn]struct{}),
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an assign server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve accepts connections until context cancellation. Each connection is
// handled on its own goroutine; shutdown waits briefly for in-flight work.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("assign server listening at %v", s.listener.Addr())
	acceptErr := make(chan error, 1)
	go func() {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				acceptErr <- err
				return
			}
			if !s.track(conn) {
				_ = conn.Close()
				continue
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer s.untrack(conn)
				s.handleConn(ctx, conn)
			}()
		}
	}()

	select {
	case <-ctx.Done():
		s.closeListener()
		<-acceptErr
		s.waitForConns()
		return nil
	case err := <-acceptErr:
		if s.isClosed() {
			return nil
		}
		return fmt.Errorf("accept: %w", err)
	}
}

// handleConn reads request envelopes line by line and answers each with
// exactly one outcome envelope.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(timeouts.ReadRequest)); err != nil {
			return
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		outcome := s.processLine(ctx, line)
		encoded, err := wire.EncodeOutcome(outcome, apperrors.DefaultLocale)
		if err != nil {
			log.Printf("encode outcome: %v", err)
			return
		}
		if err := conn.SetWriteDeadline(time.Now().Add(timeouts.WriteResponse)); err != nil {
			return
		}
		if _, err := conn.Write(append(encoded, '\n')); err != nil {
			return
		}
	}
}

// processLine resolves one request line to one outcome: decode the envelope,
// verify the session token, decode the message variant, dispatch.
func (s *Server) processLine(ctx context.Context, line []byte) message.Outcome {
	req, err := wire.DecodeRequest(line)
	if err != nil {
		return wire.OutcomeForError(err)
	}

	principal, err := session.VerifyToken(req.Token, s.sessionCfg)
	if err != nil {
		return wire.OutcomeForError(err)
	}

	msg, err := s.registry.Decode(req.Type, req.Payload)
	if err != nil {
		return wire.OutcomeForError(err)
	}

	ctx = requestctx.WithPrincipalID(ctx, principal.ID)
	ctx = requestctx.WithUsername(ctx, principal.Username)
	dispatchCtx, cancel := context.WithTimeout(ctx, timeouts.Dispatch)
	defer cancel()
	return s.dispatcher.Dispatch(dispatchCtx, msg, principal)
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) closeListener() {
	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()
	if !alreadyClosed && s.listener != nil {
		_ = s.listener.Close()
	}
}

// waitForConns gives in-flight connections a bounded window to finish, then
// closes any stragglers.
func (s *Server) waitForConns() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeouts.Shutdown):
		s.mu.Lock()
		for conn := range s.conns {
			_ = conn.Close()
		}
		s.mu.Unlock()
		<-done
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeListener()
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close assign store: %v", err)
		}
	}
}

func openAssignStore(path string) (*assignsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := assignsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open assign sqlite store: %w", err)
	}
	return store, nil
}
