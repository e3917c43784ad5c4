package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "requestwiki.request"

// NATSNotifier publishes events as JSON messages on
// "<prefix>.<event type>" subjects.
type NATSNotifier struct {
	conn   *nats.Conn
	prefix string
}

// NewNATS wraps an established NATS connection. An empty prefix falls
// back to DefaultSubjectPrefix.
func NewNATS(conn *nats.Conn, prefix string) *NATSNotifier {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSNotifier{conn: conn, prefix: prefix}
}

// Publish sends the event and flushes so callers observe delivery errors
// within the request that caused them.
func (n *NATSNotifier) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}

	subject := n.prefix + "." + string(event.Type)
	if err := n.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("notify: publish %s: %w", subject, err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("notify: flush: %w", err)
	}
	return nil
}
