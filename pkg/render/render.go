// Package render turns form descriptors into standalone HTML. The markup
// carries the section and hide-if metadata the bundled client script uses
// for tab navigation and conditional field display; no host widget
// runtime is required.
package render

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/wikiforge/requestwiki/pkg/model"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates    TemplateRenderer
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(templates TemplateRenderer) Option {
	return func(cfg *config) {
		if templates != nil {
			cfg.templates = templates
		}
	}
}

// WithTheme selects a theme through a go-theme selector. Token values
// surface as CSS custom properties on the form element.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// Renderer renders descriptors with the embedded template bundle by
// default.
type Renderer struct {
	templates TemplateRenderer
	cssVars   map[string]string
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := NewEngine(WithFS(TemplatesFS()), WithExtension(".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("renderer: configure template engine: %w", err)
		}
		templates = engine
	}

	var cssVars map[string]string
	if cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("renderer: select theme: %w", err)
		}
		cssVars = cssVarsFromSelection(selection)
	}

	return &Renderer{templates: templates, cssVars: cssVars}, nil
}

// Options tunes one render call.
type Options struct {
	// Action and Method populate the form element; empty values render a
	// self-submitting POST form.
	Action string
	Method string
	// Values override field defaults, so a rejected submission re-renders
	// with the submitted input retained.
	Values map[string]string
	// Notice and Warning render a success or warning box above the form.
	Notice  string
	Warning string
}

// Render produces the HTML for one descriptor.
func (r *Renderer) Render(desc model.Descriptor, opts Options) ([]byte, error) {
	method := opts.Method
	if method == "" {
		method = "post"
	}

	sections := make([]map[string]any, 0, 4)
	for _, name := range desc.Sections() {
		fields := desc.Section(name)
		items := make([]map[string]any, 0, len(fields))
		for _, field := range fields {
			items = append(items, fieldData(field, opts.Values))
		}
		sections = append(sections, map[string]any{
			"name":   name,
			"fields": items,
		})
	}

	data := map[string]any{
		"name":     desc.Name,
		"action":   opts.Action,
		"method":   method,
		"notice":   opts.Notice,
		"warning":  opts.Warning,
		"cssVars":  r.cssVars,
		"sections": sections,
	}

	html, err := r.templates.Render("form", data)
	if err != nil {
		return nil, fmt.Errorf("renderer: render form %q: %w", desc.Name, err)
	}
	return []byte(html), nil
}

func fieldData(field model.Field, values map[string]string) map[string]any {
	value := ""
	if field.Default != nil {
		value = fmt.Sprintf("%v", field.Default)
	}
	if submitted, ok := values[field.Name]; ok && !field.ReadOnly && field.Kind != model.KindSubmit {
		value = submitted
	}
	if field.Raw {
		value = sanitizeUserMarkup(value)
	}

	options := make([]map[string]string, 0, len(field.Options))
	for _, choice := range field.Options {
		options = append(options, map[string]string{
			"label": choice.Label,
			"value": choice.Value,
		})
	}

	data := map[string]any{
		"name":        field.Name,
		"kind":        string(field.Kind),
		"label":       field.Label,
		"placeholder": field.Placeholder,
		"help":        field.Help,
		"value":       value,
		"raw":         field.Raw,
		"required":    field.Required,
		"readonly":    field.ReadOnly,
		"rows":        field.Rows,
		"minlength":   field.MinLength,
		"maxlength":   field.MaxLength,
		"options":     options,
		"button":      field.ButtonLabel,
		"cssclass":    field.CSSClass,
	}
	if field.HideIf != nil {
		data["hideif"] = map[string]string{
			"op":    string(field.HideIf.Op),
			"field": field.HideIf.Field,
			"value": field.HideIf.Value,
		}
	}
	return data
}

func cssVarsFromSelection(selection *theme.Selection) map[string]string {
	if selection == nil || selection.Manifest == nil || len(selection.Manifest.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(selection.Manifest.Tokens))
	for token, value := range selection.Manifest.Tokens {
		vars["--"+token] = value
	}
	return vars
}
