package services

import (
	"fmt"
	"sync"
	"time"
)

// ============================================================
// Notification / Feedback Layer
// ============================================================

// Level tags a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one user-facing feedback entry
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// maxFeed bounds the in-memory feed
const maxFeed = 100

// NotificationService surfaces success/failure of each transition to the
// user. Every remote failure ends here; none propagates as a panic.
type NotificationService struct {
	mu   sync.Mutex
	feed []Notification
	subs []func(Notification)
}

// NewNotificationService creates a notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Subscribe registers a callback invoked for every pushed notification
func (s *NotificationService) Subscribe(fn func(Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Success pushes a success notification
func (s *NotificationService) Success(format string, args ...interface{}) {
	s.push(LevelSuccess, format, args...)
}

// Error pushes an error notification
func (s *NotificationService) Error(format string, args ...interface{}) {
	s.push(LevelError, format, args...)
}

// Info pushes an informational notification
func (s *NotificationService) Info(format string, args ...interface{}) {
	s.push(LevelInfo, format, args...)
}

func (s *NotificationService) push(level Level, format string, args ...interface{}) {
	n := Notification{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		At:      time.Now(),
	}

	s.mu.Lock()
	s.feed = append(s.feed, n)
	if len(s.feed) > maxFeed {
		s.feed = s.feed[len(s.feed)-maxFeed:]
	}
	subs := make([]func(Notification), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Recent returns up to n most recent notifications, newest last
func (s *NotificationService) Recent(n int) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > len(s.feed) {
		n = len(s.feed)
	}
	out := make([]Notification, n)
	copy(out, s.feed[len(s.feed)-n:])
	return out
}
