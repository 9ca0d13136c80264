// Package notifications collects user-facing notices and raises blocking alerts.
package notifications

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Level is the severity of a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single dismissible message
type Notice struct {
	ID      string
	Level   Level
	Message string
}

// Notifier is what the auth core uses to reach the user
type Notifier interface {
	// Notify records a dismissible notice and returns its ID.
	Notify(level Level, msg string) string

	// Alert shows msg and returns only once it has been written out.
	Alert(msg string)
}

// Center is an in-memory Notifier. Alerts are written to out.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	out     io.Writer
	alert   *color.Color
}

// NewCenter creates a Center writing alerts to out (stderr when nil)
func NewCenter(out io.Writer) *Center {
	if out == nil {
		out = os.Stderr
	}
	return &Center{
		out:   out,
		alert: color.New(color.FgRed, color.Bold),
	}
}

// Notify appends a notice and returns its ID
func (c *Center) Notify(level Level, msg string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	c.notices = append(c.notices, Notice{ID: id, Level: level, Message: msg})
	return id
}

// Dismiss removes the notice with the given ID
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.notices[:0]
	for _, n := range c.notices {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.notices = kept
}

// Notices returns a snapshot of the outstanding notices
func (c *Center) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Alert writes msg to the alert writer and records it as an error notice
func (c *Center) Alert(msg string) {
	c.Notify(LevelError, msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.alert.Fprintln(c.out, msg)
}
