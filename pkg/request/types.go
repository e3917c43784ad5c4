// Package request models a single wiki-creation request: its descriptive
// fields, visibility tier, comment thread, and status lifecycle. The form
// layer builds descriptors from a request snapshot and applies transitions
// through the methods defined here; persistence lives elsewhere.
package request

import (
	"time"

	"github.com/wikiforge/requestwiki/pkg/identity"
)

// Status is the lifecycle state of a wiki request.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "inreview"
	StatusApproved  Status = "approved"
	StatusDeclined  Status = "declined"
	StatusOnHold    Status = "onhold"
)

// Valid reports whether the status is one of the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusApproved, StatusDeclined, StatusOnHold:
		return true
	}
	return false
}

// Visibility is the ordered sensitivity tier controlling who may view a
// request.
type Visibility int

const (
	VisibilityPublic    Visibility = 0
	VisibilityHidden    Visibility = 1
	VisibilityDeleted   Visibility = 2
	VisibilityOversight Visibility = 3
)

// RequiredRight returns the right a viewer must hold to see a request at
// this visibility level. The mapping is fixed; unknown levels fall back to
// the most restrictive right so a bad value never widens access.
func (v Visibility) RequiredRight() string {
	switch v {
	case VisibilityPublic:
		return "read"
	case VisibilityHidden:
		return "createwiki"
	case VisibilityDeleted:
		return "delete"
	case VisibilityOversight:
		return "suppressrevision"
	default:
		return "suppressrevision"
	}
}

// Valid reports whether the visibility is one of the four defined levels.
func (v Visibility) Valid() bool {
	return v >= VisibilityPublic && v <= VisibilityOversight
}

// MigrationType classifies how an existing wiki would be brought over.
type MigrationType string

const (
	MigrationFork          MigrationType = "fork"
	MigrationMigrate       MigrationType = "migrate"
	MigrationServerMigrate MigrationType = "servermigrate"
)

// Comment is one entry in a request's append-only comment thread.
type Comment struct {
	Author    identity.Ref `json:"author"`
	Timestamp time.Time    `json:"timestamp"`
	Text      string       `json:"text"`
}

// WikiRequest is the persisted record representing one wiki-creation
// request.
type WikiRequest struct {
	ID     int64
	DBName string

	Sitename          string
	Subdomain         string
	Language          string
	Description       string
	PublicDescription string
	Purpose           string
	Category          string

	Private bool
	Bio     bool

	Migration         bool
	MigrationLocation string
	MigrationType     MigrationType
	MigrationDetails  string

	Requester  identity.Ref
	Status     Status
	Visibility Visibility
	Timestamp  time.Time

	Comments []Comment
}

// New returns a request entering review, timestamped at the given instant.
func New(requester identity.Ref, at time.Time) *WikiRequest {
	return &WikiRequest{
		Requester:  requester,
		Status:     StatusInReview,
		Visibility: VisibilityPublic,
		Timestamp:  at,
	}
}
