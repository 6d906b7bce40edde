package tftp

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	tftp "github.com/pin/tftp/v3"

	"minihttpd/utils"
)

// Server is a read-only TFTP front-end for a document root.
type Server struct {
	srv    *tftp.Server
	conn   *net.UDPConn
	root   billy.Filesystem
	logger *log.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// resolveName maps a TFTP filename onto the document root the same way the
// HTTP server maps a target: leading slashes dropped, empty means index.html.
func resolveName(filename string) string {
	name := strings.TrimLeft(strings.TrimSpace(filename), "/")
	if name == "" {
		return "index.html"
	}
	return path.Clean(name)
}

func (s *Server) serveFile(filename string, rf io.ReaderFrom) error {
	name := resolveName(filename)
	f, err := s.root.Open(name)
	if err != nil {
		s.logf("RRQ %q: %v", filename, err)
		return err
	}
	defer f.Close()
	if fi, err := s.root.Stat(name); err == nil {
		if ot, ok := rf.(tftp.OutgoingTransfer); ok {
			ot.SetSize(fi.Size())
		}
	}
	n, err := rf.ReadFrom(f)
	if err != nil {
		s.logf("RRQ %q: %v", filename, err)
		return err
	}
	s.logf("RRQ %q -> %d bytes", filename, n)
	return nil
}

func (s *Server) refuseWrite(filename string, _ io.WriterTo) error {
	s.logf("WRQ %q refused", filename)
	return fmt.Errorf("%s: %w", filename, billy.ErrReadOnly)
}

// Start binds addr and serves read requests from root in the background.
func Start(addr string, root billy.Filesystem, logger *log.Logger) (*Server, error) {
	if root == nil {
		return nil, errors.New("tftp: nil document root")
	}
	ua, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", ua)
	if err != nil {
		return nil, err
	}

	s := &Server{
		conn:   conn,
		root:   utils.ReadOnly(root),
		logger: logger,
		done:   make(chan struct{}),
	}
	s.srv = tftp.NewServer(s.serveFile, s.refuseWrite)
	s.srv.SetTimeout(5 * time.Second)

	go func() {
		defer close(s.done)
		s.logf("TFTP server listening on %s", conn.LocalAddr())
		if err := s.srv.Serve(conn); err != nil {
			s.logf("TFTP server error: %v", err)
		}
	}()
	return s, nil
}

func (s *Server) Addr() net.Addr { return s.conn.LocalAddr() }

// Close stops accepting requests and waits for transfers in flight.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.srv.Shutdown()
		<-s.done
	})
	return nil
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
