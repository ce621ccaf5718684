// Package ui renders poller and chat output on a terminal.
package ui

import (
	"sync"
	"time"

	"github.com/rfmelo/barbearia-client/internal/notify"
)

const defaultToastTTL = 8 * time.Second

// Toast is one transient notification card.
type Toast struct {
	ID       int64
	Title    string
	Message  string
	Glyph    string
	Severity notify.Severity
	ShownAt  time.Time
}

// ToastStack holds the currently visible toasts. Entries expire after the
// TTL or when explicitly dismissed (click/close in the web UI; the `read`
// command here).
type ToastStack struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	nextID int64
	active []Toast
}

// StackOption configures a ToastStack.
type StackOption func(*ToastStack)

// WithTTL overrides the 8s auto-dismiss window.
func WithTTL(d time.Duration) StackOption {
	return func(s *ToastStack) { s.ttl = d }
}

// WithStackClock injects the time source.
func WithStackClock(now func() time.Time) StackOption {
	return func(s *ToastStack) { s.now = now }
}

// NewToastStack creates an empty stack.
func NewToastStack(opts ...StackOption) *ToastStack {
	s := &ToastStack{ttl: defaultToastTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push adds a toast and returns its id. When the notification carries a
// server id it is kept so a dismiss can double as mark-as-read.
func (s *ToastStack) Push(t Toast) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		s.nextID--
		t.ID = s.nextID // synthetic, negative so it can't collide with server ids
	}
	t.ShownAt = s.now()
	s.active = append(s.active, t)
	return t.ID
}

// Dismiss removes a toast before its TTL. Reports whether it was present.
func (s *ToastStack) Dismiss(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.active {
		if t.ID == id {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return true
		}
	}
	return false
}

// Active prunes expired toasts and returns the visible ones, oldest first.
func (s *ToastStack) Active() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	visible := s.active[:0]
	for _, t := range s.active {
		if t.ShownAt.After(cutoff) {
			visible = append(visible, t)
		}
	}
	s.active = visible

	out := make([]Toast, len(visible))
	copy(out, visible)
	return out
}
