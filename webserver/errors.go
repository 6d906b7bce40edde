package webserver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPort is returned by New for a port outside 0..65535.
	ErrInvalidPort = errors.New("invalid port")

	ErrMalformedRequest = errors.New("malformed request line")
	ErrInvalidVerb      = errors.New("invalid HTTP verb")
	ErrNotFound         = errors.New("file not found")
)

// BindError reports that the listening socket could not be opened.
type BindError struct {
	Port int
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("cannot open port %d: %v", e.Port, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// FileError is a read failure on a target that passed the existence check.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
