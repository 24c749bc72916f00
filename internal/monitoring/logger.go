// Package monitoring holds the diagnostic logger shared by the loaders,
// dataset assembly and storage layers. The vectorize core never logs.
package monitoring

import (
	"fmt"
	"log"
	"sync"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Capture redirects Logf into memory until restore is called. lines
// returns the formatted messages logged so far. Intended for tests that
// assert on skipped-record diagnostics.
func Capture() (lines func() []string, restore func()) {
	var mu sync.Mutex
	var captured []string
	previous := Logf
	SetLogger(func(format string, v ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		captured = append(captured, fmt.Sprintf(format, v...))
	})
	lines = func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), captured...)
	}
	restore = func() { Logf = previous }
	return lines, restore
}
