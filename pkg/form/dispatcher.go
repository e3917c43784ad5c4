package form

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wikiforge/requestwiki/internal/metrics"
	"github.com/wikiforge/requestwiki/pkg/audit"
	"github.com/wikiforge/requestwiki/pkg/config"
	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/notify"
	"github.com/wikiforge/requestwiki/pkg/request"
	"github.com/wikiforge/requestwiki/pkg/validation"
)

// ErrNoAction is returned when no submit discriminator key is present in
// the submitted values.
var ErrNoAction = errors.New("form: no submit action")

// Outcome reports a successful dispatch. Notice is the message key the
// caller localizes into the success box.
type Outcome struct {
	Notice string
}

// Dispatcher validates submitted values and applies exactly one mutation
// to a request entity per submission.
type Dispatcher struct {
	cfg      *config.Config
	store    Store
	text     *validation.TextPolicy
	notifier notify.Notifier
	auditor  *audit.Logger
	log      zerolog.Logger
	now      func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithNotifier installs a lifecycle event publisher.
func WithNotifier(notifier notify.Notifier) DispatcherOption {
	return func(d *Dispatcher) {
		if notifier != nil {
			d.notifier = notifier
		}
	}
}

// WithAuditor installs the audit logger used for initial creation.
func WithAuditor(auditor *audit.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.auditor = auditor
	}
}

// WithLogger installs the operational logger.
func WithLogger(log zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a Dispatcher. It fails only when the configured
// denylist does not compile.
func NewDispatcher(cfg *config.Config, store Store, options ...DispatcherOption) (*Dispatcher, error) {
	text, err := validation.NewTextPolicy(cfg.Validation.Denylist)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		cfg:      cfg,
		store:    store,
		text:     text,
		notifier: notify.Nop(),
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d, nil
}

// subdomains builds the parser bound to the store's collision check for
// the duration of one dispatch.
func (d *Dispatcher) subdomains(ctx context.Context) *validation.SubdomainParser {
	return &validation.SubdomainParser{
		Domain:         d.cfg.Wiki.Domain,
		DatabaseSuffix: d.cfg.Wiki.DatabaseSuffix,
		Reserved:       d.cfg.Validation.ReservedSubdomains,
		Exists: func(dbname string) (bool, error) {
			return d.store.SubdomainExists(ctx, dbname)
		},
	}
}

// Dispatch applies one submission to the request. Exactly one branch
// fires, chosen by which submit key is present. Rejections mutate
// nothing; a nil error means the mutation was applied and saved.
func (d *Dispatcher) Dispatch(ctx context.Context, values Values, actor identity.Identity, req *request.WikiRequest) (Outcome, error) {
	branch, err := d.dispatch(ctx, values, actor, req)
	metrics.ObserveSubmission(branch, err)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Notice: "requestwiki-edit-success"}, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, values Values, actor identity.Identity, req *request.WikiRequest) (string, error) {
	if !actor.Registered {
		return "unauthenticated", ErrNotLoggedIn
	}

	switch {
	case values.Has(KeySubmitComment):
		return "comment", d.handleComment(ctx, values, actor, req)
	case values.Has(KeySubmitEdit):
		return "edit", d.handleEdit(ctx, values, actor, req)
	case values.Has(KeySubmitHandle):
		return "handle", d.handleReview(ctx, values, actor, req)
	default:
		return "none", ErrNoAction
	}
}

func (d *Dispatcher) handleComment(ctx context.Context, values Values, actor identity.Identity, req *request.WikiRequest) error {
	req.AddComment(values["comment"], actor.Ref(), d.now())

	if err := d.save(ctx, req); err != nil {
		return err
	}
	d.publish(ctx, notify.Event{
		Type:      notify.EventCommented,
		RequestID: req.ID,
		Sitename:  req.Sitename,
		Actor:     actor.Ref(),
		Timestamp: d.now(),
	})
	return nil
}

// handleEdit re-runs the creation-time subdomain validation before any
// field is touched; the first failing rule aborts with its code and the
// entity stays untouched.
func (d *Dispatcher) handleEdit(ctx context.Context, values Values, actor identity.Identity, req *request.WikiRequest) error {
	parsed, err := d.subdomains(ctx).Parse(values["edit-url"])
	if err != nil {
		return err
	}
	if err := d.text.Check(values["edit-description"]); err != nil {
		return err
	}

	cmd := request.EditCommand{
		Sitename:    values["edit-sitename"],
		Subdomain:   parsed.Subdomain,
		DBName:      parsed.DBName,
		Language:    values["edit-language"],
		Purpose:     values["edit-purpose"],
		Description: values["edit-description"],
		Category:    values["edit-category"],
		Private:     values["edit-private"] == "1",
		Bio:         values["edit-bio"] == "1",
	}
	cmd.Apply(req, actor.Ref(), d.now())

	if err := d.save(ctx, req); err != nil {
		return err
	}
	d.publish(ctx, notify.Event{
		Type:      notify.EventReopened,
		RequestID: req.ID,
		Sitename:  req.Sitename,
		Actor:     actor.Ref(),
		Timestamp: d.now(),
	})
	return nil
}

// handleReview updates visibility first, then dispatches the terminal
// action. Anything other than approve or onhold declines, so a malformed
// action value can never silently approve.
func (d *Dispatcher) handleReview(ctx context.Context, values Values, actor identity.Identity, req *request.WikiRequest) error {
	req.SetVisibility(submittedVisibility(values, req.Visibility))

	reason := reviewReason(values)
	now := d.now()

	var eventType notify.EventType
	switch values["submission-action"] {
	case "approve":
		req.Approve(reason, actor.Ref(), now)
		eventType = notify.EventApproved
	case "onhold":
		req.OnHold(reason, actor.Ref(), now)
		eventType = notify.EventOnHold
	default:
		req.Decline(reason, actor.Ref(), now)
		eventType = notify.EventDeclined
	}

	if err := d.save(ctx, req); err != nil {
		return err
	}
	d.publish(ctx, notify.Event{
		Type:      eventType,
		RequestID: req.ID,
		Sitename:  req.Sitename,
		Actor:     actor.Ref(),
		Reason:    reason,
		Timestamp: now,
	})
	return nil
}

// reviewReason resolves the canned-response control. Choosing the
// trailing "other" entry submits the sentinel plus the typed text under
// reason-other.
func reviewReason(values Values) string {
	if values["reason"] == "other" {
		return values["reason-other"]
	}
	return values["reason"]
}

// submittedVisibility reads the hide toggle plus the gated radio. An
// unchecked toggle always means public; a garbled radio value keeps the
// current tier rather than guessing one. Out-of-range numeric tiers are
// dropped by SetVisibility, with the same effect.
func submittedVisibility(values Values, current request.Visibility) request.Visibility {
	if values["visibility"] != "1" {
		return request.VisibilityPublic
	}
	level, err := strconv.Atoi(values["visibility-options"])
	if err != nil {
		return current
	}
	return request.Visibility(level)
}

func (d *Dispatcher) save(ctx context.Context, req *request.WikiRequest) error {
	if err := d.store.Update(ctx, req); err != nil {
		d.log.Error().Err(err).Int64("request", req.ID).Msg("request save failed")
		return ErrTryAgainLater
	}
	return nil
}

func (d *Dispatcher) publish(ctx context.Context, event notify.Event) {
	if err := d.notifier.Publish(ctx, event); err != nil {
		d.log.Warn().Err(err).Str("event", string(event.Type)).Msg("notify failed")
	}
}
