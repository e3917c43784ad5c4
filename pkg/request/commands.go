package request

import (
	"time"

	"github.com/wikiforge/requestwiki/pkg/identity"
)

// EditCommand captures a requester's edit as a single unit so validation
// and mutation stay atomic: either every field is applied and the request
// reopens, or nothing changes. Callers validate the subdomain before
// building the command; Apply itself never fails.
type EditCommand struct {
	Sitename    string
	Subdomain   string
	DBName      string
	Language    string
	Purpose     string
	Description string
	Category    string
	Private     bool
	Bio         bool
}

// Apply overwrites the request's editable fields from the command and
// reopens it for review, regardless of its prior status.
func (cmd EditCommand) Apply(r *WikiRequest, actor identity.Ref, at time.Time) {
	r.Sitename = cmd.Sitename
	if cmd.Subdomain != "" {
		r.Subdomain = cmd.Subdomain
	}
	if cmd.DBName != "" {
		r.DBName = cmd.DBName
	}
	r.Language = cmd.Language
	r.Purpose = cmd.Purpose
	r.Description = cmd.Description
	r.Category = cmd.Category
	r.Private = cmd.Private
	r.Bio = cmd.Bio

	r.Reopen(actor, at)
}
