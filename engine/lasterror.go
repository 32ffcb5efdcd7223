// SPDX-License-Identifier: EPL-2.0

package engine

import "sync"

// lastErrorStore approximates the original engine's thread-local
// last-error slot. Go has no public goroutine-local storage, so instead
// of faking one with a goroutine-id lookup, each Context carries its own
// mutex-guarded slot: a capi call already identifies itself by the
// context handle it operates on, which is the natural substitute for
// thread identity here (documented as an Open Question resolution in
// DESIGN.md).
type lastErrorStore struct {
	mu  sync.Mutex
	err *Error
}

func (s *lastErrorStore) set(err *Error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *lastErrorStore) get() *Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// processLastError backs calls that have no context yet, such as
// Initialize or a failed CreateContext.
var processLastError lastErrorStore

// SetProcessLastError records err as the process-wide last error.
func SetProcessLastError(err *Error) { processLastError.set(err) }

// ProcessLastError returns the most recently recorded process-wide error,
// or nil if none has been set.
func ProcessLastError() *Error { return processLastError.get() }

// SetLastError records err as this context's last error.
func (c *Context) SetLastError(err *Error) { c.lastError.set(err) }

// LastError returns this context's most recently recorded error, or nil.
func (c *Context) LastError() *Error { return c.lastError.get() }
