// Package store persists wiki requests. The sqlite store is the durable
// implementation; the memory store backs tests and the CLI's dry-run
// mode. Both provide atomic single-row update semantics so the form layer
// never has to lock or retry.
package store

import (
	"context"
	"errors"

	"github.com/wikiforge/requestwiki/pkg/request"
)

// ErrNotFound is returned when no request has the given id.
var ErrNotFound = errors.New("store: request not found")

// Store is the full persistence surface. The form dispatcher consumes a
// subset of it (create, update, collision check); Get backs the viewer.
type Store interface {
	Create(ctx context.Context, req *request.WikiRequest) (int64, error)
	Get(ctx context.Context, id int64) (*request.WikiRequest, error)
	Update(ctx context.Context, req *request.WikiRequest) error
	SubdomainExists(ctx context.Context, dbname string) (bool, error)
	// AddWiki registers a created wiki's database name so later requests
	// collide with it.
	AddWiki(ctx context.Context, dbname string) error
}
