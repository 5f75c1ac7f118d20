package core

import (
	"context"
	"time"
)

// Notification is the payload sent to a Notifier after a successful modification.
// Key identifies the resource, for associations it is "<left>/<right>".
type Notification struct {
	Resource  string    `json:"resource"`
	Operation Operation `json:"operation"`
	Key       string    `json:"key"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier is an interface to receive database notifications
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
