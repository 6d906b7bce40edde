//go:build unix

package utils

import "golang.org/x/sys/unix"

// checkReadable fails when the process may not list and read dir.
func checkReadable(dir string) error {
	return unix.Access(dir, unix.R_OK|unix.X_OK)
}
