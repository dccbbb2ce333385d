// Package control is the admin control plane: the global pause switch and
// oracle configuration mutation. The switch is an explicit value injected into
// both engines rather than a package global, so tests can construct isolated
// instances.
package control

import (
	"sync"
)

// Switch is the process-wide pause flag. When set, claim submission and
// policy issuance are rejected. Takes effect for subsequent operations;
// in-flight calls are not affected retroactively.
type Switch struct {
	mu     sync.RWMutex
	paused bool
}

func NewSwitch() *Switch {
	return &Switch{}
}

// Paused reports the current flag value.
func (s *Switch) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// set flips the flag and reports whether the value changed.
func (s *Switch) set(v bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused == v {
		return false
	}
	s.paused = v
	return true
}
