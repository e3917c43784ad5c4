package form

import (
	"context"

	"github.com/wikiforge/requestwiki/internal/metrics"
	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/notify"
	"github.com/wikiforge/requestwiki/pkg/request"
	"github.com/wikiforge/requestwiki/pkg/validation"
)

// SubmitIntake processes a new-request submission: gates, validation,
// entity creation, the audit entry, and the submitted event. On success
// the returned request carries its assigned id so the caller can redirect
// to the queue page.
func (d *Dispatcher) SubmitIntake(ctx context.Context, values Values, actor identity.Identity) (*request.WikiRequest, error) {
	req, err := d.submitIntake(ctx, values, actor)
	metrics.ObserveSubmission("intake", err)
	return req, err
}

func (d *Dispatcher) submitIntake(ctx context.Context, values Values, actor identity.Identity) (*request.WikiRequest, error) {
	if !actor.Registered {
		return nil, ErrNotLoggedIn
	}
	if !actor.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	if d.cfg.Intake.ConfirmAgreement && values["agreement"] != "1" {
		return nil, &validation.Error{Code: validation.CodeRequired}
	}

	reason := values["reason"]
	if err := d.text.Check(reason); err != nil {
		return nil, err
	}

	publicDescription := ""
	if d.cfg.PublicDescriptionsEnabled() {
		publicDescription = values["public-description"]
		if err := d.text.Check(publicDescription); err != nil {
			return nil, err
		}
	}

	parsed, err := d.subdomains(ctx).Parse(values["subdomain"])
	if err != nil {
		return nil, err
	}

	now := d.now()
	req := request.New(actor.Ref(), now)
	req.Sitename = values["sitename"]
	req.Subdomain = parsed.Subdomain
	req.DBName = parsed.DBName
	req.Language = values["language"]
	req.Description = reason
	req.PublicDescription = publicDescription
	req.Purpose = values["purpose"]
	req.Category = values["category"]
	req.Private = d.cfg.PrivateRequestsEnabled() && values["private"] == "1"
	req.Bio = d.cfg.Intake.BiographicalOption && values["bio"] == "1"

	if d.cfg.Intake.MigrationInquire && values["migration"] == "1" {
		req.Migration = true
		req.MigrationLocation = values["migration-location"]
		req.MigrationType = request.MigrationType(values["migration-type"])
		req.MigrationDetails = values["migration-details"]
	}

	id, err := d.store.Create(ctx, req)
	if err != nil {
		d.log.Error().Err(err).Str("subdomain", req.Subdomain).Msg("request create failed")
		return nil, ErrTryAgainLater
	}
	req.ID = id

	if d.auditor != nil {
		d.auditor.RequestCreated(req, reason)
	}
	metrics.RequestsCreated.Inc()

	d.publish(ctx, notify.Event{
		Type:      notify.EventSubmitted,
		RequestID: req.ID,
		Sitename:  req.Sitename,
		Actor:     actor.Ref(),
		Reason:    reason,
		Timestamp: now,
	})
	return req, nil
}
