package main

import (
	"strconv"
	"strings"
)

// parsePort reads the positional port argument. Anything that is not a
// decimal in 0..65535 falls back to 0, which lets the OS assign one.
func parsePort(arg string) int {
	v, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || v < 0 || v > 65535 {
		return 0
	}
	return v
}
