package webserver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxRequestLine = 8 << 10

const (
	verbGet  = "GET"
	verbHead = "HEAD"

	indexTarget = "/index.html"
)

// Request is the parsed request line. Header lines that follow it are never read.
type Request struct {
	Verb   string
	Target string
}

// readRequestLine returns the first line of r without its terminator.
// io.EOF is returned only when the peer sent nothing at all.
func readRequestLine(r *bufio.Reader) (string, error) {
	var line []byte
	for {
		l, more, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return string(line), nil
			}
			return "", err
		}
		line = append(line, l...)
		if len(line) > maxRequestLine {
			return "", fmt.Errorf("%w: line longer than %d bytes", ErrMalformedRequest, maxRequestLine)
		}
		if !more {
			return string(line), nil
		}
	}
}

// parseRequestLine splits "<VERB> <TARGET> [VERSION]" on single spaces.
// The version token, if any, is not validated.
func parseRequestLine(line string) (*Request, error) {
	fields := strings.Split(line, " ")
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}
	return &Request{Verb: fields[0], Target: fields[1]}, nil
}

// path maps the target to a name relative to the document root.
func (r *Request) path() string {
	target := r.Target
	if target == "/" {
		target = indexTarget
	}
	return strings.TrimPrefix(target, "/")
}
