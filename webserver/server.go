// Package webserver is a single-threaded HTTP/1.0 file server. Connections are
// accepted and answered one at a time on the goroutine that calls Listen.
package webserver

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-git/go-billy/v5"

	"minihttpd/utils"
)

// Config describes a Server. Zero timeouts mean none.
type Config struct {
	// Port to bind; 0 lets the operating system pick one.
	Port int
	// Root holds the served files. Nil serves the working directory.
	Root         billy.Filesystem
	Logger       *log.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	port     int
	listener net.Listener
	handler  *handler
	logger   *log.Logger

	stopped  atomic.Bool
	stopOnce sync.Once
	stopErr  error
}

// New binds the listening socket. On error no Server is returned.
func New(cfg Config) (*Server, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Port)
	}
	root := cfg.Root
	if root == nil {
		var err error
		if root, err = utils.OpenRoot("."); err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("tcp", utils.HostPort(cfg.Port))
	if err != nil {
		return nil, &BindError{Port: cfg.Port, Err: err}
	}

	return &Server{
		port:     ln.Addr().(*net.TCPAddr).Port,
		listener: ln,
		logger:   cfg.Logger,
		handler: &handler{
			root:         root,
			logger:       cfg.Logger,
			readTimeout:  cfg.ReadTimeout,
			writeTimeout: cfg.WriteTimeout,
		},
	}, nil
}

// Port returns the bound port, never 0.
func (s *Server) Port() int { return s.port }

func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Listen accepts and serves connections until Stop is called, then returns nil.
// A failing connection is logged and never ends the loop.
func (s *Server) Listen() error {
	s.logf("listening on port %d", s.port)
	var delay time.Duration
	for !s.stopped.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopped.Load() {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > time.Second {
				delay = time.Second
			}
			s.logf("accept error: %v; retrying in %v", err, delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		s.serveConn(conn)
	}
	return nil
}

func (s *Server) serveConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer func() {
		if r := recover(); r != nil {
			s.logf("%s: panic serving connection: %v", remote, r)
		}
	}()
	if err := s.handler.serve(conn); err != nil && !answered(err) {
		s.logf("%s: %v", remote, err)
	}
}

// answered reports errors the handler already logged as a request outcome.
func answered(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidVerb) ||
		errors.Is(err, ErrMalformedRequest)
}

// Stop ends Listen. It closes the listening socket so a pending accept returns
// at once; a connection being served is completed first. Calling Stop again
// is a no-op.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		s.stopErr = s.listener.Close()
	})
	return s.stopErr
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
