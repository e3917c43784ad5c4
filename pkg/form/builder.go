package form

import (
	"fmt"

	"github.com/wikiforge/requestwiki/pkg/config"
	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/model"
	"github.com/wikiforge/requestwiki/pkg/request"
	"github.com/wikiforge/requestwiki/pkg/visibility"
)

// Builder produces form descriptors from a request snapshot, the viewer's
// permissions, and the configured feature flags.
type Builder struct {
	cfg         *config.Config
	msg         MessageFunc
	formatTime  TimeFormatFunc
	checkDBName DBNameChecker
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMessages installs a message resolver for field labels and notices.
func WithMessages(msg MessageFunc) BuilderOption {
	return func(b *Builder) {
		if msg != nil {
			b.msg = msg
		}
	}
}

// WithTimeFormat installs a timestamp localizer.
func WithTimeFormat(format TimeFormatFunc) BuilderOption {
	return func(b *Builder) {
		if format != nil {
			b.formatTime = format
		}
	}
}

// WithDBNameChecker installs the database-name precheck consulted before
// offering the approve action.
func WithDBNameChecker(check DBNameChecker) BuilderOption {
	return func(b *Builder) {
		b.checkDBName = check
	}
}

// NewBuilder creates a Builder with the supplied options.
func NewBuilder(cfg *config.Config, options ...BuilderOption) *Builder {
	b := &Builder{
		cfg:        cfg,
		msg:        defaultMessages,
		formatTime: defaultTimeFormat,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// BuildReview emits the review form for one request. A nil request or a
// viewer lacking the right mapped from the request's visibility level
// yields ErrViewDenied; the caller renders a generic "request unknown"
// notice for both.
func (b *Builder) BuildReview(req *request.WikiRequest, viewer identity.Identity) (model.Descriptor, error) {
	if req == nil {
		return model.Descriptor{}, ErrViewDenied
	}
	if !viewer.HasRight(req.Visibility.RequiredRight()) {
		return model.Descriptor{}, ErrViewDenied
	}

	desc := model.Descriptor{Name: "requestwikiqueue"}

	if viewer.ID == req.Requester.ID && req.Status == request.StatusInReview {
		desc.Fields = append(desc.Fields, model.Field{
			Name:    "requesterpendinginfo",
			Kind:    model.KindInfo,
			Section: model.SectionRequest,
			Default: b.msg("requestwikiqueue-request-info-submission"),
		})
	}

	desc.Fields = append(desc.Fields, b.requestFields(req)...)
	desc.Fields = append(desc.Fields, b.commentFields(req)...)

	isReviewer := viewer.HasRight("createwiki") && !viewer.Blocked
	isRequester := viewer.ID == req.Requester.ID

	if !isReviewer && !isRequester {
		return desc, nil
	}

	if isReviewer {
		desc.Fields = append(desc.Fields, b.reviewFields(req, viewer)...)
	}
	desc.Fields = append(desc.Fields, b.editFields(req)...)

	return desc, nil
}

func (b *Builder) requestFields(req *request.WikiRequest) []model.Field {
	return []model.Field{
		{
			Name:     "sitename",
			Kind:     model.KindText,
			Section:  model.SectionRequest,
			Label:    b.msg("requestwikiqueue-request-label-sitename"),
			ReadOnly: true,
			Default:  req.Sitename,
		},
		{
			Name:     "url",
			Kind:     model.KindText,
			Section:  model.SectionRequest,
			Label:    b.msg("requestwikiqueue-request-label-url"),
			ReadOnly: true,
			Default:  req.Subdomain,
		},
		{
			Name:     "language",
			Kind:     model.KindText,
			Section:  model.SectionRequest,
			Label:    b.msg("requestwikiqueue-request-label-language"),
			ReadOnly: true,
			Default:  req.Language,
		},
		{
			Name:    "requester",
			Kind:    model.KindInfo,
			Section: model.SectionRequest,
			Label:   b.msg("requestwikiqueue-request-label-requester"),
			Default: req.Requester.Name,
			Raw:     true,
		},
		{
			Name:    "requestedDate",
			Kind:    model.KindInfo,
			Section: model.SectionRequest,
			Label:   b.msg("requestwikiqueue-request-label-requested-date"),
			Default: b.formatTime(req.Timestamp),
		},
		{
			Name:     "status",
			Kind:     model.KindText,
			Section:  model.SectionRequest,
			Label:    b.msg("requestwikiqueue-request-label-status"),
			ReadOnly: true,
			Default:  statusLabel(b.msg, req.Status),
		},
		{
			Name:     "description",
			Kind:     model.KindTextarea,
			Section:  model.SectionRequest,
			Label:    b.msg("requestwikiqueue-request-header-requestercomment"),
			ReadOnly: true,
			Rows:     4,
			Default:  req.Description,
			Raw:      true,
		},
	}
}

func (b *Builder) commentFields(req *request.WikiRequest) []model.Field {
	fields := make([]model.Field, 0, len(req.Comments))
	for _, comment := range req.Comments {
		fields = append(fields, model.Field{
			Name:     fmt.Sprintf("comment%d", comment.Timestamp.Unix()),
			Kind:     model.KindTextarea,
			Section:  model.SectionComments,
			Label:    fmt.Sprintf("%s (%s)", comment.Author.Name, b.formatTime(comment.Timestamp)),
			ReadOnly: true,
			Rows:     4,
			Default:  comment.Text,
		})
	}
	return fields
}

// reviewFields emits the reviewer-only controls. Visibility options are
// additive: every viewer with the section sees the base two, and each of
// the delete and suppressrevision rights unlocks one more. Only options
// the viewer could grant are ever offered.
func (b *Builder) reviewFields(req *request.WikiRequest, viewer identity.Identity) []model.Field {
	visibilityOptions := []model.Choice{
		{Label: b.msg("requestwikiqueue-request-label-visibility-all"), Value: "0"},
		{Label: b.msg("requestwikiqueue-request-label-visibility-hide"), Value: "1"},
	}
	if viewer.HasRight("delete") {
		visibilityOptions = append(visibilityOptions, model.Choice{
			Label: b.msg("requestwikiqueue-request-label-visibility-delete"), Value: "2",
		})
	}
	if viewer.HasRight("suppressrevision") {
		visibilityOptions = append(visibilityOptions, model.Choice{
			Label: b.msg("requestwikiqueue-request-label-visibility-oversight"), Value: "3",
		})
	}

	var dbErr error
	if b.checkDBName != nil {
		dbErr = b.checkDBName(req.DBName)
	}

	actionOptions := []model.Choice{
		{Label: b.msg("requestwikiqueue-approve"), Value: "approve"},
		{Label: b.msg("requestwikiqueue-decline"), Value: "decline"},
		{Label: b.msg("requestwikiqueue-onhold"), Value: "onhold"},
	}
	if dbErr != nil {
		// An invalid database name must never be approvable.
		actionOptions = actionOptions[1:]
	}

	var fields []model.Field
	if dbErr != nil {
		fields = append(fields, model.Field{
			Name:     "dbname-error",
			Kind:     model.KindInfo,
			Section:  model.SectionReview,
			Default:  dbErr.Error(),
			CSSClass: "requestwiki-error",
		})
	}

	reason := model.Field{
		Name:     "reason",
		Kind:     model.KindTextarea,
		Section:  model.SectionReview,
		Label:    b.msg("createwiki-label-statuschangecomment"),
		Rows:     4,
		CSSClass: "createwiki-infuse",
	}
	if canned, ok := flattenedDefault(b.cfg); ok {
		reason.Kind = model.KindSelectOrOther
		reason.Rows = 0
		reason.Default = canned
		for _, group := range b.cfg.Review.CannedResponses {
			for _, response := range group.Responses {
				reason.Options = append(reason.Options, model.Choice{Label: response, Value: response})
			}
		}
	}

	hideToggle := "0"
	if req.Visibility != request.VisibilityPublic {
		hideToggle = "1"
	}

	fields = append(fields,
		model.Field{
			Name:    "info-submission",
			Kind:    model.KindInfo,
			Section: model.SectionReview,
			Default: b.msg("requestwikiqueue-request-info-review"),
		},
		model.Field{
			Name:     "submission-action",
			Kind:     model.KindRadio,
			Section:  model.SectionReview,
			Label:    b.msg("requestwikiqueue-request-label-action"),
			Options:  actionOptions,
			Default:  string(req.Status),
			CSSClass: "createwiki-infuse",
		},
		reason,
		model.Field{
			Name:     "visibility",
			Kind:     model.KindCheck,
			Section:  model.SectionReview,
			Label:    b.msg("revdelete-legend"),
			Default:  hideToggle,
			CSSClass: "createwiki-infuse",
		},
		model.Field{
			Name:     "visibility-options",
			Kind:     model.KindRadio,
			Section:  model.SectionReview,
			Label:    b.msg("revdelete-suppress-text"),
			Options:  visibilityOptions,
			Default:  fmt.Sprintf("%d", req.Visibility),
			HideIf:   &visibility.Rule{Op: visibility.OpNotEqual, Field: "visibility", Value: "1"},
			CSSClass: "createwiki-infuse",
		},
		model.Field{
			Name:    KeySubmitHandle,
			Kind:    model.KindSubmit,
			Section: model.SectionReview,
			Default: b.msg("htmlform-submit"),
		},
	)
	return fields
}

// editFields emits the requester-editable copies of the request fields.
// Each conditional field hangs off exactly one feature flag.
func (b *Builder) editFields(req *request.WikiRequest) []model.Field {
	fields := []model.Field{
		{
			Name:    "comment",
			Kind:    model.KindTextarea,
			Section: model.SectionComments,
			Label:   b.msg("requestwikiqueue-request-label-comment"),
			Rows:    4,
		},
		{
			Name:    KeySubmitComment,
			Kind:    model.KindSubmit,
			Section: model.SectionComments,
			Default: b.msg("htmlform-submit"),
		},
		{
			Name:     "edit-sitename",
			Kind:     model.KindText,
			Section:  model.SectionReview,
			Label:    b.msg("requestwikiqueue-request-label-sitename"),
			Required: true,
			Default:  req.Sitename,
		},
		{
			Name:     "edit-url",
			Kind:     model.KindText,
			Section:  model.SectionReview,
			Label:    b.msg("requestwikiqueue-request-label-url"),
			Required: true,
			Default:  req.Subdomain,
		},
		{
			Name:     "edit-language",
			Kind:     model.KindLanguage,
			Section:  model.SectionReview,
			Label:    b.msg("requestwikiqueue-request-label-language"),
			Default:  req.Language,
			CSSClass: "createwiki-infuse",
		},
		{
			Name:     "edit-description",
			Kind:     model.KindTextarea,
			Section:  model.SectionReview,
			Label:    b.msg("requestwikiqueue-request-header-requestercomment"),
			Required: true,
			Rows:     4,
			Default:  req.Description,
			Raw:      true,
		},
	}

	if len(b.cfg.Intake.Categories) > 0 {
		fields = append(fields, model.Field{
			Name:     "edit-category",
			Kind:     model.KindSelect,
			Section:  model.SectionReview,
			Label:    b.msg("createwiki-label-category"),
			Options:  choicesFromConfig(b.cfg.Intake.Categories),
			Default:  req.Category,
			CSSClass: "createwiki-infuse",
		})
	}

	if b.cfg.Intake.PrivateWikis {
		fields = append(fields, model.Field{
			Name:    "edit-private",
			Kind:    model.KindCheck,
			Section: model.SectionReview,
			Label:   b.msg("requestwiki-label-private"),
			Default: checkDefault(req.Private),
		})
	}

	if b.cfg.Intake.BiographicalOption {
		fields = append(fields, model.Field{
			Name:    "edit-bio",
			Kind:    model.KindCheck,
			Section: model.SectionReview,
			Label:   b.msg("requestwiki-label-bio"),
			Default: checkDefault(req.Bio),
		})
	}

	if b.cfg.Intake.MigrationInquire {
		fields = append(fields, b.migrationFields("edit-", model.SectionReview, model.KindText, migrationDefaults{
			checked:  req.Migration,
			location: req.MigrationLocation,
			kind:     string(req.MigrationType),
			details:  req.MigrationDetails,
		})...)
	}

	if len(b.cfg.Intake.Purposes) > 0 {
		fields = append(fields, model.Field{
			Name:     "edit-purpose",
			Kind:     model.KindSelect,
			Section:  model.SectionReview,
			Label:    b.msg("requestwiki-label-purpose"),
			Options:  choicesFromStrings(b.cfg.Intake.Purposes),
			Default:  req.Purpose,
			CSSClass: "createwiki-infuse",
		})
	}

	if b.cfg.PublicDescriptionsEnabled() {
		fields = append(fields, model.Field{
			Name:      "public-description",
			Kind:      model.KindTextarea,
			Section:   model.SectionReview,
			Label:     b.msg("requestwiki-label-public-description"),
			Help:      b.msg("requestwiki-help-public-description"),
			Rows:      4,
			MaxLength: b.cfg.Intake.DescriptionMaxLength,
			Default:   req.PublicDescription,
			CSSClass:  "createwiki-infuse",
		})
	}

	fields = append(fields, model.Field{
		Name:    KeySubmitEdit,
		Kind:    model.KindSubmit,
		Section: model.SectionReview,
		Default: b.msg("requestwikiqueue-request-label-edit-wiki"),
	})
	return fields
}

type migrationDefaults struct {
	checked  bool
	location string
	kind     string
	details  string
}

// migrationFields emits the migration checkbox and its three dependent
// controls. The dependents carry hide-if rules keyed on the checkbox; the
// server never enforces them. The details control is a textarea on the
// intake form but a plain text input on the edit form, so its kind is
// the caller's.
func (b *Builder) migrationFields(prefix, section string, detailsKind model.Kind, defaults migrationDefaults) []model.Field {
	hideIf := visibility.HiddenUnlessChecked(prefix + "migration")
	details := model.Field{
		Name:    prefix + "migration-details",
		Kind:    detailsKind,
		Section: section,
		Label:   b.msg("requestwiki-label-migration-details"),
		Help:    b.msg("requestwiki-help-migration-details"),
		Default: defaults.details,
		HideIf:  hideIf,
	}
	if detailsKind == model.KindTextarea {
		details.Rows = 4
	}
	return []model.Field{
		{
			Name:    prefix + "migration",
			Kind:    model.KindCheck,
			Section: section,
			Label:   b.msg("requestwiki-label-migration"),
			Default: checkDefault(defaults.checked),
		},
		{
			Name:        prefix + "migration-location",
			Kind:        model.KindText,
			Section:     section,
			Label:       b.msg("requestwiki-label-migration-location"),
			Placeholder: b.msg("requestwiki-placeholder-migration-location"),
			Help:        b.msg("requestwiki-help-migration-location"),
			Default:     defaults.location,
			HideIf:      hideIf,
		},
		{
			Name:    prefix + "migration-type",
			Kind:    model.KindRadio,
			Section: section,
			Label:   b.msg("requestwiki-label-migration-type"),
			Options: []model.Choice{
				{Label: b.msg("requestwiki-option-migration-fork"), Value: string(request.MigrationFork)},
				{Label: b.msg("requestwiki-option-migration-migrate"), Value: string(request.MigrationMigrate)},
				{Label: b.msg("requestwiki-option-migration-servermigrate"), Value: string(request.MigrationServerMigrate)},
			},
			Default: defaults.kind,
			HideIf:  hideIf,
		},
		details,
	}
}

func choicesFromConfig(choices []config.Choice) []model.Choice {
	out := make([]model.Choice, 0, len(choices))
	for _, choice := range choices {
		out = append(out, model.Choice{Label: choice.Label, Value: choice.Value})
	}
	return out
}

func choicesFromStrings(values []string) []model.Choice {
	out := make([]model.Choice, 0, len(values))
	for _, value := range values {
		out = append(out, model.Choice{Label: value, Value: value})
	}
	return out
}

func checkDefault(checked bool) string {
	if checked {
		return "1"
	}
	return "0"
}
