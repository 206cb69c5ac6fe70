package ui

import "sync"

// Mode is one of the two top-level views.
type Mode int

const (
	// Unauthenticated shows the login and register forms.
	Unauthenticated Mode = iota
	// Authenticated shows the task view.
	Authenticated
)

func (m Mode) String() string {
	if m == Authenticated {
		return "tasks"
	}
	return "auth"
}

// Screen records which top-level view is active and who is signed in.
type Screen struct {
	mu       sync.Mutex
	mode     Mode
	username string
}

// ShowAuth switches to the unauthenticated view.
func (s *Screen) ShowAuth() {
	s.mu.Lock()
	s.mode = Unauthenticated
	s.username = ""
	s.mu.Unlock()
}

// ShowTasks switches to the task view for username.
func (s *Screen) ShowTasks(username string) {
	s.mu.Lock()
	s.mode = Authenticated
	s.username = username
	s.mu.Unlock()
}

// Mode returns the active view.
func (s *Screen) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Username returns the signed-in username shown in the header.
func (s *Screen) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}
