package form

import "github.com/wikiforge/requestwiki/pkg/model"

// BuildIntake emits the new-request form. The viewer gates (login,
// confirmed email) are enforced at submission time by the dispatcher; the
// descriptor itself only varies with the configured feature flags.
func (b *Builder) BuildIntake() model.Descriptor {
	desc := model.Descriptor{Name: "requestwiki"}

	desc.Fields = append(desc.Fields,
		model.Field{
			Name:        "subdomain",
			Kind:        model.KindTextWithButton,
			Label:       b.msg("requestwiki-label-siteurl"),
			Placeholder: b.msg("requestwiki-placeholder-siteurl"),
			Help:        b.msg("requestwiki-help-siteurl"),
			ButtonLabel: "." + b.cfg.Wiki.Domain,
			Required:    true,
		},
		model.Field{
			Name:     "sitename",
			Kind:     model.KindText,
			Label:    b.msg("requestwiki-label-sitename"),
			Help:     b.msg("requestwiki-help-sitename"),
			Required: true,
		},
		model.Field{
			Name:    "language",
			Kind:    model.KindLanguage,
			Label:   b.msg("requestwiki-label-language"),
			Default: "en",
		},
	)

	if len(b.cfg.Intake.Categories) > 0 {
		desc.Fields = append(desc.Fields, model.Field{
			Name:    "category",
			Kind:    model.KindSelect,
			Label:   b.msg("createwiki-label-category"),
			Options: choicesFromConfig(b.cfg.Intake.Categories),
			Default: "uncategorized",
		})
	}

	if b.cfg.PrivateRequestsEnabled() {
		desc.Fields = append(desc.Fields, model.Field{
			Name:  "private",
			Kind:  model.KindCheck,
			Label: b.msg("requestwiki-label-private"),
			Help:  b.msg("requestwiki-help-private"),
		})
	}

	if b.cfg.Intake.BiographicalOption {
		desc.Fields = append(desc.Fields, model.Field{
			Name:  "bio",
			Kind:  model.KindCheck,
			Label: b.msg("requestwiki-label-bio"),
			Help:  b.msg("requestwiki-help-bio"),
		})
	}

	if b.cfg.Intake.MigrationInquire {
		desc.Fields = append(desc.Fields, b.migrationFields("", "", model.KindTextarea, migrationDefaults{})...)
	}

	if len(b.cfg.Intake.Purposes) > 0 {
		desc.Fields = append(desc.Fields, model.Field{
			Name:    "purpose",
			Kind:    model.KindSelect,
			Label:   b.msg("requestwiki-label-purpose"),
			Options: choicesFromStrings(b.cfg.Intake.Purposes),
		})
	}

	desc.Fields = append(desc.Fields, model.Field{
		Name:      "reason",
		Kind:      model.KindTextarea,
		Label:     b.msg("createwiki-label-reason"),
		Help:      b.msg("createwiki-help-reason"),
		Rows:      4,
		MinLength: b.cfg.Intake.ReasonMinLength,
		MaxLength: b.cfg.Intake.ReasonMaxLength,
		Required:  true,
	})

	if b.cfg.PublicDescriptionsEnabled() {
		desc.Fields = append(desc.Fields, model.Field{
			Name:      "public-description",
			Kind:      model.KindTextarea,
			Label:     b.msg("requestwiki-label-public-description"),
			Help:      b.msg("requestwiki-help-public-description"),
			Rows:      2,
			MaxLength: b.cfg.Intake.DescriptionMaxLength,
			Required:  true,
		})
	}

	if b.cfg.Intake.ConfirmAgreement {
		desc.Fields = append(desc.Fields, model.Field{
			Name:     "agreement",
			Kind:     model.KindCheck,
			Label:    b.msg("requestwiki-label-agreement"),
			Help:     b.msg("requestwiki-help-agreement"),
			Required: true,
		})
	}

	return desc
}
