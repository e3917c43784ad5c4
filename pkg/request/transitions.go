package request

import (
	"time"

	"github.com/wikiforge/requestwiki/pkg/identity"
)

// AddComment appends a comment to the request's thread. The thread is
// append-only; comments are never edited or removed here.
func (r *WikiRequest) AddComment(text string, author identity.Ref, at time.Time) {
	r.Comments = append(r.Comments, Comment{
		Author:    author,
		Timestamp: at,
		Text:      text,
	})
}

// Approve marks the request approved and records the reviewer's reason on
// the comment thread.
func (r *WikiRequest) Approve(reason string, actor identity.Ref, at time.Time) {
	r.Status = StatusApproved
	if reason != "" {
		r.AddComment(reason, actor, at)
	}
}

// Decline marks the request declined and records the reviewer's reason on
// the comment thread.
func (r *WikiRequest) Decline(reason string, actor identity.Ref, at time.Time) {
	r.Status = StatusDeclined
	if reason != "" {
		r.AddComment(reason, actor, at)
	}
}

// OnHold parks the request without a terminal decision, recording the
// reviewer's reason on the comment thread.
func (r *WikiRequest) OnHold(reason string, actor identity.Ref, at time.Time) {
	r.Status = StatusOnHold
	if reason != "" {
		r.AddComment(reason, actor, at)
	}
}

// Reopen returns the request to active review after an edit, regardless of
// its prior status.
func (r *WikiRequest) Reopen(actor identity.Ref, at time.Time) {
	r.Status = StatusInReview
}

// SetVisibility raises or lowers the request's sensitivity tier. Values
// outside the defined levels are ignored.
func (r *WikiRequest) SetVisibility(v Visibility) {
	if !v.Valid() {
		return
	}
	r.Visibility = v
}
