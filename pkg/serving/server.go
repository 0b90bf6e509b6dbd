// Package serving exposes the latest host snapshot over HTTP.
//
// Connections are served one at a time: the listener admits a single
// connection and keep-alives are disabled, so every request is handled and
// closed before the next connection is accepted.
package serving

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/netutil"
	"golang.org/x/sys/unix"

	"HostMonitor/pkg/metrics"
)

// Defaults applied when no option overrides them.
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxHeaderBytes  = 8 << 10
)

// Source produces a fresh snapshot on demand.
type Source interface {
	CollectAll() metrics.Snapshot
}

// State is the lifecycle phase of a Server.
type State int32

const (
	Stopped State = iota
	Starting
	Listening
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Listening:
		return "listening"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Option configures a Server.
type Option func(*Server)

// WithReadTimeout bounds how long a client may take to send its request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

// WithWriteTimeout bounds how long writing a response may take.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

// WithShutdownTimeout bounds how long Stop waits for an in-flight request
// before the connection is closed forcibly.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithMaxHeaderBytes limits the size of request headers.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) { s.maxHeaderBytes = n }
}

// Server is the HTTP exposition endpoint for a Source.
type Server struct {
	source Source

	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	maxHeaderBytes  int

	// mu serializes Start and Stop.
	mu    sync.Mutex
	state atomic.Int32
	srv   *http.Server
	ln    net.Listener
	done  chan struct{}
}

// New creates a stopped server that collects from source on every metrics
// request.
func New(source Source, opts ...Option) *Server {
	s := &Server{
		source:          source,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds port on all interfaces and begins serving in the background.
// It is a no-op when the server is already running. Port 0 picks a free port;
// see Addr. A bind failure leaves the server stopped and is returned.
func (s *Server) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != Stopped {
		return nil
	}
	s.setState(Starting)

	ln, err := listen(port)
	if err != nil {
		s.setState(Stopped)
		log.Printf("serving: cannot listen on port %d: %v", port, err)
		return err
	}
	ln = netutil.LimitListener(ln, 1)

	srv := &http.Server{
		Handler:        s,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
	}
	srv.SetKeepAlivesEnabled(false)

	done := make(chan struct{})
	s.srv, s.ln, s.done = srv, ln, done
	s.setState(Listening)

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("serving: %v", err)
			s.state.CompareAndSwap(int32(Listening), int32(Stopped))
		}
	}()

	log.Printf("serving: listening on %s", ln.Addr())
	return nil
}

// Stop marks the server stopped, closes the listener and waits for the
// serving loop to exit. No request is processed after Stop returns. Stopping
// a stopped server is a no-op.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return
	}
	s.setState(Stopped)

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Printf("serving: graceful shutdown: %v", err)
		_ = s.srv.Close()
	}
	<-s.done

	s.srv, s.ln, s.done = nil, nil, nil
	log.Printf("serving: stopped")
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	return s.State() == Listening
}

// State returns the current lifecycle phase.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Addr returns the bound listen address, or "" when stopped.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) setState(st State) {
	s.state.Store(int32(st))
}

// listen binds a TCP listener on all interfaces with SO_REUSEADDR set.
func listen(port int) (net.Listener, error) {
	if port < 0 || port > 65535 {
		return nil, errors.Newf("invalid port %d", port)
	}

	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	ln, err := lc.Listen(context.Background(), "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, errors.Wrapf(err, "listen on port %d", port)
	}
	return ln, nil
}
