package engine

import (
	"log"
	"runtime/debug"
)

// SafeCall runs fn and converts a panic into a logged failure
// Returns false when fn panicked; the caller carries on with the rest of its work
func SafeCall(component string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[%s] callback panic recovered: %v\n%s", component, r, debug.Stack())
			ok = false
		}
	}()
	fn()
	return true
}
