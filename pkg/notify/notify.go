// Package notify publishes request lifecycle events so interested
// components (queues, discovery, chat bridges) can react without the form
// layer knowing about them.
package notify

import (
	"context"
	"time"

	"github.com/wikiforge/requestwiki/pkg/identity"
)

// EventType names a request lifecycle transition.
type EventType string

const (
	EventSubmitted EventType = "submitted"
	EventCommented EventType = "commented"
	EventReopened  EventType = "reopened"
	EventApproved  EventType = "approved"
	EventDeclined  EventType = "declined"
	EventOnHold    EventType = "onhold"
)

// Event is one published lifecycle notification.
type Event struct {
	Type      EventType    `json:"type"`
	RequestID int64        `json:"requestId"`
	Sitename  string       `json:"sitename,omitempty"`
	Actor     identity.Ref `json:"actor"`
	Reason    string       `json:"reason,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Notifier delivers events. Implementations must be safe for concurrent
// use.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, event Event) error

// Publish delegates to the underlying function.
func (fn NotifierFunc) Publish(ctx context.Context, event Event) error {
	return fn(ctx, event)
}

// Nop returns a Notifier that discards every event.
func Nop() Notifier {
	return NotifierFunc(func(context.Context, Event) error { return nil })
}
