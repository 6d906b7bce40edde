package webserver

import (
	"bufio"
	"errors"
	"fmt"
	"time"
)

const (
	statusOK          = "HTTP/1.0 200 OK"
	statusBadRequest  = "HTTP/1.0 400 Bad Request"
	statusInvalidVerb = "HTTP/1.0 400 Invalid HTTP verb"
	statusNotFound    = "HTTP/1.0 404 Not Found"
	statusServerError = "HTTP/1.0 500 Internal Server Error"

	serverID = "Server: minihttpd/1.0"

	lastModifiedLayout = "2006-01-02T15:04:05Z"
)

// responseWriter buffers a response until flush. Once a status line has been
// written only headers, the blank separator and the body may follow.
type responseWriter struct {
	w      *bufio.Writer
	status bool
	ended  bool
	err    error
}

func newResponseWriter(w *bufio.Writer) *responseWriter {
	return &responseWriter{w: w}
}

func (rw *responseWriter) line(s string) {
	if rw.err != nil {
		return
	}
	_, rw.err = rw.w.WriteString(s + "\r\n")
}

func (rw *responseWriter) writeStatus(status string) {
	if rw.status {
		rw.setErr(errors.New("status line already written"))
		return
	}
	rw.status = true
	rw.line(status)
}

// writeFileHeaders writes the success header block including the blank line.
func (rw *responseWriter) writeFileHeaders(modTime time.Time, size int) {
	if !rw.status || rw.ended {
		rw.setErr(errors.New("headers must follow the status line"))
		return
	}
	rw.line(serverID)
	rw.line("Last-Modified: " + modTime.UTC().Format(lastModifiedLayout))
	rw.line(fmt.Sprintf("Content-Length: %d", size))
	rw.line("")
	rw.ended = true
}

func (rw *responseWriter) writeBody(body []byte) {
	if !rw.ended {
		rw.setErr(errors.New("body must follow the header block"))
		return
	}
	if rw.err != nil {
		return
	}
	_, rw.err = rw.w.Write(body)
}

func (rw *responseWriter) setErr(err error) {
	if rw.err == nil {
		rw.err = err
	}
}

func (rw *responseWriter) flush() error {
	if rw.err != nil {
		return rw.err
	}
	return rw.w.Flush()
}
