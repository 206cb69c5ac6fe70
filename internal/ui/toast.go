// Package ui holds the presentation-neutral session chrome shared by the
// managers: notifications, the loading indicator, prompts and the screen mode.
package ui

import (
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient user-visible message.
type Notification struct {
	Kind Kind
	Text string
}

// Notifier receives user-visible notifications.
type Notifier interface {
	Notify(kind Kind, text string)
}

// Toast keeps the single current notification. A new notification replaces
// the previous one; a notification expires TTL after it was shown.
type Toast struct {
	mu      sync.Mutex
	ttl     time.Duration
	current Notification
	shownAt time.Time
	visible bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Sink, if set, is called with every notification as it is shown.
	Sink func(Notification)
}

// NewToast returns a Toast whose notifications expire after ttl.
func NewToast(ttl time.Duration) *Toast {
	return &Toast{ttl: ttl, Now: time.Now}
}

// Notify implements Notifier.
func (t *Toast) Notify(kind Kind, text string) {
	n := Notification{Kind: kind, Text: text}

	t.mu.Lock()
	t.current = n
	t.shownAt = t.Now()
	t.visible = true
	sink := t.Sink
	t.mu.Unlock()

	if sink != nil {
		sink(n)
	}
}

// Current returns the visible notification. ok is false when nothing has
// been shown, the notification was dismissed, or it has expired.
func (t *Toast) Current() (n Notification, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.visible {
		return Notification{}, false
	}
	if t.ttl > 0 && t.Now().Sub(t.shownAt) >= t.ttl {
		t.visible = false
		return Notification{}, false
	}
	return t.current, true
}

// Dismiss hides the current notification.
func (t *Toast) Dismiss() {
	t.mu.Lock()
	t.visible = false
	t.mu.Unlock()
}
