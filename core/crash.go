package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.Mutex
	crashCleanup func()
	crashOut     io.Writer = os.Stderr
	crashExit              = os.Exit
)

// SetCleanup registers the terminal restore run before a crash report is printed
// Passing nil clears it
func SetCleanup(fn func()) {
	crashMu.Lock()
	crashCleanup = fn
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that restores the terminal and prints the stack trace
// Cleanup runs at most once even if several goroutines crash together
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	cleanup := crashCleanup
	crashCleanup = nil
	out, exit := crashOut, crashExit
	crashMu.Unlock()

	if cleanup != nil {
		cleanup()
	}

	fmt.Fprintf(out, "\r\n\x1b[31mHARMONYLINK CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(out, "Stack Trace:\r\n%s\r\n", debug.Stack())
	if f, ok := out.(*os.File); ok {
		f.Sync()
	}

	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
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
