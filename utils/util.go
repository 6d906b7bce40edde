package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// HostPort returns the wildcard listen address for port, e.g. ":8080".
func HostPort(port int) string {
	return ":" + strconv.Itoa(port)
}

// OpenRoot returns dir as a filesystem whose paths cannot resolve outside it.
func OpenRoot(dir string) (billy.Filesystem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	s, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("document root: %w", err)
	}
	if !s.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", abs)
	}
	if err := checkReadable(abs); err != nil {
		return nil, fmt.Errorf("document root %s: %w", abs, err)
	}
	return osfs.New(abs, osfs.WithBoundOS()), nil
}
