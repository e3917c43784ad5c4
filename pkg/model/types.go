// Package model defines the field descriptor structures the form builders
// emit and renderers consume. Descriptors are plain values built fresh on
// every request; nothing in this package mutates shared state.
package model

import "github.com/wikiforge/requestwiki/pkg/visibility"

// Kind is the simplified enum for form-friendly control kinds.
type Kind string

const (
	KindText           Kind = "text"
	KindTextWithButton Kind = "textwithbutton"
	KindTextarea       Kind = "textarea"
	KindCheck          Kind = "check"
	KindRadio          Kind = "radio"
	KindSelect         Kind = "select"
	KindSelectOrOther  Kind = "selectorother"
	KindLanguage       Kind = "language"
	KindInfo           Kind = "info"
	KindSubmit         Kind = "submit"
)

// Section groups fields into the tabs the review UI renders.
const (
	SectionRequest  = "request"
	SectionComments = "comments"
	SectionReview   = "review"
)

// Choice is one selectable option of an enumerated control.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field models an individual control inside a generated form. Struct
// fields are annotated so renderers can serialise them directly when
// needed.
type Field struct {
	Name        string  `json:"name"`
	Kind        Kind    `json:"kind"`
	Section     string  `json:"section,omitempty"`
	Label       string  `json:"label,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	Help        string  `json:"help,omitempty"`
	Default     any     `json:"default,omitempty"`
	Options     []Choice `json:"options,omitempty"`
	Required    bool    `json:"required"`
	ReadOnly    bool    `json:"readOnly,omitempty"`
	// Raw marks defaults that carry sanitized HTML rather than plain
	// text.
	Raw bool `json:"raw,omitempty"`
	// Rows sizes textarea controls.
	Rows int `json:"rows,omitempty"`
	// MinLength / MaxLength bound free-text controls; zero means
	// unbounded.
	MinLength int `json:"minLength,omitempty"`
	MaxLength int `json:"maxLength,omitempty"`
	// HideIf is a client-side conditional visibility rule; the server
	// never enforces it.
	HideIf *visibility.Rule `json:"hideIf,omitempty"`
	// ButtonLabel is the static suffix shown by textwithbutton controls.
	ButtonLabel string `json:"buttonLabel,omitempty"`
	// CSSClass tags controls the client script infuses into widgets.
	CSSClass string `json:"cssClass,omitempty"`
}

// Descriptor is the ordered field list a builder emits for one form.
type Descriptor struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Field returns the named field and whether it exists.
func (d Descriptor) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Has reports whether the named field exists.
func (d Descriptor) Has(name string) bool {
	_, ok := d.Field(name)
	return ok
}

// Names returns the field names in emission order.
func (d Descriptor) Names() []string {
	names := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Section returns the fields of one section, preserving order.
func (d Descriptor) Section(section string) []Field {
	var fields []Field
	for _, field := range d.Fields {
		if field.Section == section {
			fields = append(fields, field)
		}
	}
	return fields
}

// Sections returns the distinct section names in first-appearance order.
func (d Descriptor) Sections() []string {
	var sections []string
	seen := make(map[string]struct{})
	for _, field := range d.Fields {
		if _, ok := seen[field.Section]; ok {
			continue
		}
		seen[field.Section] = struct{}{}
		sections = append(sections, field.Section)
	}
	return sections
}
