package service

import (
	"sync"
	"time"

	"kabadi-client/internal/logger"
)

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notifier is the transient, non-blocking user notification surface
type Notifier interface {
	Notify(level NotificationLevel, message string)
}

// Notification is one delivered message
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct{}

func (LogNotifier) Notify(level NotificationLevel, message string) {
	logger.Notification(string(level), message)
}

// Inbox buffers notifications until a UI drains them
type Inbox struct {
	mu    sync.Mutex
	limit int
	items []Notification
	now   func() time.Time
}

// NewInbox keeps at most limit undelivered notifications, dropping the oldest
func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 50
	}
	return &Inbox{limit: limit, now: time.Now}
}

func (b *Inbox) Notify(level NotificationLevel, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, Notification{Level: level, Message: message, At: b.now()})
	if over := len(b.items) - b.limit; over > 0 {
		b.items = b.items[over:]
	}
}

// Drain returns and removes all buffered notifications
func (b *Inbox) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Peek returns the buffered notifications without removing them
func (b *Inbox) Peek() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notification(nil), b.items...)
}

// MultiNotifier fans a notification out to several notifiers
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(level NotificationLevel, message string) {
	for _, n := range m {
		n.Notify(level, message)
	}
}
