package main

import "testing"

func TestParsePort(t *testing.T) {
	cases := map[string]int{
		"8080":   8080,
		" 2049 ": 2049,
		"0":      0,
		"":       0,
		"http":   0,
		"-1":     0,
		"70000":  0,
	}
	for in, want := range cases {
		if got := parsePort(in); got != want {
			t.Fatalf("parsePort(%q) got=%d want=%d", in, got, want)
		}
	}
}
