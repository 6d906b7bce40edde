//go:build unix

package utils

import (
	"os"
	"testing"
)

func TestOpenRootUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission checks")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(dir, 0o755)
	if _, err := OpenRoot(dir); err == nil {
		t.Fatalf("OpenRoot on an unreadable dir: expected error")
	}
}
