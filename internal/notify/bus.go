// Package notify is the fire-and-forget notification surface. Mutations
// publish a notification on success and on failure; the TUI subscribes to
// show the latest one in its status bar.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/dayboard/internal/logging"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const historySize = 50

// Notification is a single user-facing message.
type Notification struct {
	Title       string
	Description string
	Level       Level
	CreatedAt   time.Time
}

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(Notification)

// Bus dispatches notifications to subscribers inline and keeps a short
// in-memory history. Every notification is also logged.
type Bus struct {
	mu          sync.Mutex
	subscribers []Subscriber
	history     []Notification
	log         zerolog.Logger
}

func NewBus() *Bus {
	return &Bus{log: logging.Component("notify")}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish records n and dispatches it to all subscribers.
func (b *Bus) Publish(n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	ev := b.log.Info()
	if n.Level == LevelError {
		ev = b.log.Warn()
	}
	ev.Str("level", string(n.Level)).Str("title", n.Title).Msg(n.Description)

	b.mu.Lock()
	b.history = append(b.history, n)
	if len(b.history) > historySize {
		b.history = b.history[len(b.history)-historySize:]
	}
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Notify publishes a notification with the given title, description and level.
func (b *Bus) Notify(title, description string, level Level) {
	b.Publish(Notification{Title: title, Description: description, Level: level})
}

// Successf publishes a success-level notification.
func (b *Bus) Successf(title, format string, args ...any) {
	b.Notify(title, fmt.Sprintf(format, args...), LevelSuccess)
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(title, format string, args ...any) {
	b.Notify(title, fmt.Sprintf(format, args...), LevelInfo)
}

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(title, format string, args ...any) {
	b.Notify(title, fmt.Sprintf(format, args...), LevelWarning)
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(title, format string, args ...any) {
	b.Notify(title, fmt.Sprintf(format, args...), LevelError)
}

// Recent returns up to n notifications, newest first.
func (b *Bus) Recent(n int) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > len(b.history) {
		n = len(b.history)
	}
	out := make([]Notification, 0, n)
	for i := len(b.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, b.history[i])
	}
	return out
}
