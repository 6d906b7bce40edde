package webserver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// handler answers exactly one request per connection.
type handler struct {
	root         billy.Filesystem
	logger       *log.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

const (
	// drainTimeout and drainLimit bound how long and how much unread request
	// data is discarded after the response, so closing does not reset the
	// connection before the client has read it.
	drainTimeout = 500 * time.Millisecond
	drainLimit   = 256 << 10
)

// serve reads the request line from conn, writes the response and closes conn.
// A non-nil error describes a failed request. Protocol, not-found and file
// errors have already been answered with a status line by then.
func (h *handler) serve(conn net.Conn) error {
	defer conn.Close()

	if h.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
	r := bufio.NewReader(conn)
	line, rerr := readRequestLine(r)

	// The write budget starts once the request line is in.
	if h.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	}

	rw := newResponseWriter(bufio.NewWriter(conn))
	var err error
	if rerr != nil {
		err = h.readFailed(rerr, rw)
	} else {
		err = h.respond(line, rw)
	}
	if ferr := rw.flush(); ferr != nil && err == nil {
		err = fmt.Errorf("write response: %w", ferr)
	}
	if rerr == nil || errors.Is(rerr, ErrMalformedRequest) {
		drain(conn, r)
	}
	return err
}

func (h *handler) readFailed(err error, rw *responseWriter) error {
	if errors.Is(err, io.EOF) {
		// Nothing was asked; nothing to answer.
		return nil
	}
	if errors.Is(err, ErrMalformedRequest) {
		rw.writeStatus(statusBadRequest)
		h.logf("request line too long -> 400")
	}
	return err
}

func (h *handler) respond(line string, rw *responseWriter) error {
	req, err := parseRequestLine(line)
	if err != nil {
		rw.writeStatus(statusBadRequest)
		h.logf("%q -> 400", line)
		return err
	}

	switch req.Verb {
	case verbGet:
		return h.serveFile(rw, req, true)
	case verbHead:
		return h.serveFile(rw, req, false)
	default:
		rw.writeStatus(statusInvalidVerb)
		h.logf("%s %s -> 400", req.Verb, req.Target)
		return fmt.Errorf("%w: %q", ErrInvalidVerb, req.Verb)
	}
}

// drain half-closes conn and discards what the client still sends, within
// drainTimeout and drainLimit.
func drain(conn net.Conn, r io.Reader) {
	cw, ok := conn.(interface{ CloseWrite() error })
	if !ok || cw.CloseWrite() != nil {
		return
	}
	_ = conn.SetReadDeadline(time.Now().Add(drainTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(r, drainLimit))
}

// serveFile answers GET (withBody) and HEAD. Both produce the same status line
// and headers for the same file.
func (h *handler) serveFile(rw *responseWriter, req *Request, withBody bool) error {
	name := req.path()

	fi, err := h.root.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, billy.ErrCrossedBoundary) {
			rw.writeStatus(statusNotFound)
			h.logf("%s %s -> 404", req.Verb, req.Target)
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		rw.writeStatus(statusServerError)
		h.logf("%s %s -> 500", req.Verb, req.Target)
		return &FileError{Path: name, Err: err}
	}

	data, err := util.ReadFile(h.root, name)
	if err != nil {
		rw.writeStatus(statusServerError)
		h.logf("%s %s -> 500", req.Verb, req.Target)
		return &FileError{Path: name, Err: err}
	}

	rw.writeStatus(statusOK)
	rw.writeFileHeaders(fi.ModTime(), len(data))
	if withBody {
		rw.writeBody(data)
	}
	h.logf("%s %s -> 200 (%d bytes)", req.Verb, req.Target, len(data))
	return nil
}

func (h *handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
