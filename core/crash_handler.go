package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	cleanupMu sync.Mutex
	cleanups  []func()

	// exit is swapped in tests
	exit = os.Exit
)

// OnCrash registers a hook run before the crash report is printed
// Used by the preview to restore the terminal before anything hits stderr
func OnCrash(fn func()) {
	cleanupMu.Lock()
	cleanups = append(cleanups, fn)
	cleanupMu.Unlock()
}

// HandleCrash runs cleanup hooks, prints the panic value with stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	cleanupMu.Lock()
	hooks := append([]func(){}, cleanups...)
	cleanupMu.Unlock()

	// Hooks run in reverse registration order, a failing hook must not hide the report
	for i := len(hooks) - 1; i >= 0; i-- {
		func() {
			defer func() { _ = recover() }()
			hooks[i]()
		}()
	}

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so a crash restores the terminal and reports once.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
