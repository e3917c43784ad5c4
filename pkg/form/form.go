// Package form assembles the request intake and review form descriptors
// and dispatches their submissions. Builders are pure: permissions, flags,
// and a request snapshot go in, an ordered field list comes out. All
// mutation happens in the Dispatcher against the request entity and a
// Store.
package form

import (
	"context"
	"errors"
	"time"

	"github.com/wikiforge/requestwiki/pkg/config"
	"github.com/wikiforge/requestwiki/pkg/request"
)

var (
	// ErrViewDenied is returned when the request does not exist or the
	// viewer lacks the right its visibility level demands. The two cases
	// are deliberately indistinguishable so hidden requests do not leak
	// their existence.
	ErrViewDenied = errors.New("form: request unknown")

	// ErrNotLoggedIn rejects submissions from unregistered actors.
	ErrNotLoggedIn = errors.New("form: login required")

	// ErrEmailNotConfirmed rejects intake submissions until the actor
	// confirms their address.
	ErrEmailNotConfirmed = errors.New("form: email not confirmed")

	// ErrTryAgainLater surfaces a persistence failure without exposing
	// the underlying error to the user.
	ErrTryAgainLater = errors.New("form: try again later")
)

// Submit discriminator keys. Exactly one is present per submission and
// selects the dispatch branch.
const (
	KeySubmitComment = "submit-comment"
	KeySubmitEdit    = "submit-edit"
	KeySubmitHandle  = "submit-handle"
)

// Values is the submitted field-name to raw-value mapping produced by the
// host's form runtime. It is read once and never retained.
type Values map[string]string

// Has reports whether the named field was submitted.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Store is the persistence contract the dispatcher needs. Atomic
// single-row update semantics are the store's responsibility; the form
// layer performs no locking or retries of its own.
type Store interface {
	Create(ctx context.Context, req *request.WikiRequest) (int64, error)
	Update(ctx context.Context, req *request.WikiRequest) error
	SubdomainExists(ctx context.Context, dbname string) (bool, error)
}

// MessageFunc resolves a message key to a localized string. The default
// returns the key unchanged, which keeps descriptors deterministic in
// tests and lets hosts plug their own localization in.
type MessageFunc func(key string) string

// TimeFormatFunc localizes a timestamp for display.
type TimeFormatFunc func(t time.Time) string

// DBNameChecker reports why a database name cannot be created, or nil
// when it is acceptable. The review builder uses it to withhold the
// approve action for invalid targets.
type DBNameChecker func(dbname string) error

func defaultMessages(key string) string { return key }

func defaultTimeFormat(t time.Time) string {
	return t.UTC().Format("15:04, 2 January 2006")
}

// statusLabel maps a request status to its queue message key.
func statusLabel(msg MessageFunc, status request.Status) string {
	return msg("requestwikiqueue-" + string(status))
}

// flattenedDefault returns the preselected canned reason, if any.
func flattenedDefault(cfg *config.Config) (string, bool) {
	flat := cfg.FlattenedResponses()
	if len(flat) == 0 {
		return "", false
	}
	return flat[0], true
}
