// Package notify delivers short user-facing notices such as a failed save.
package notify

import (
	"context"
	"time"
)

// Level classifies a notice.
type Level string

// Level constants.
const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a transient message shown to the user.
type Notice struct {
	Level     Level
	Text      string
	CreatedAt time.Time
}

// Notifier delivers notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}
