// Package prompt walks a form descriptor as a sequence of terminal
// prompts and collects the answers as submission values. It backs the
// interactive intake mode of the command line tool.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wikiforge/requestwiki/pkg/form"
	"github.com/wikiforge/requestwiki/pkg/model"
)

// Walker prompts for each field of a descriptor in order.
type Walker struct {
	driver Driver
}

// Option adjusts Walker construction.
type Option func(*Walker)

// WithDriver swaps the terminal driver, mainly for tests.
func WithDriver(d Driver) Option {
	return func(w *Walker) { w.driver = d }
}

// NewWalker builds a walker with the survey driver by default.
func NewWalker(options ...Option) *Walker {
	w := &Walker{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Walk prompts for every interactive field of desc. Informational rows
// are printed, submit buttons are skipped, and fields whose hide rule
// matches the answers collected so far are not asked. The returned map
// uses the same keys a browser submission would.
func (w *Walker) Walk(ctx context.Context, desc model.Descriptor) (form.Values, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	values := form.Values{}
	for _, field := range desc.Fields {
		if field.Kind == model.KindSubmit || field.ReadOnly {
			continue
		}
		if field.HideIf != nil && field.HideIf.Hidden(values) {
			continue
		}
		if err := w.promptField(ctx, field, values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (w *Walker) promptField(ctx context.Context, field model.Field, values form.Values) error {
	switch field.Kind {
	case model.KindInfo:
		return w.driver.Info(ctx, infoText(field))
	case model.KindCheck:
		return w.promptCheck(ctx, field, values)
	case model.KindRadio, model.KindSelect:
		return w.promptChoice(ctx, field, values)
	case model.KindSelectOrOther:
		return w.promptChoiceOrOther(ctx, field, values)
	case model.KindTextarea:
		return w.promptTextArea(ctx, field, values)
	default:
		return w.promptText(ctx, field, values)
	}
}

func (w *Walker) promptText(ctx context.Context, field model.Field, values form.Values) error {
	message := displayLabel(field)
	if field.Kind == model.KindTextWithButton && field.ButtonLabel != "" {
		message = fmt.Sprintf("%s (%s)", message, field.ButtonLabel)
	}
	for {
		response, err := w.driver.Input(ctx, InputConfig{
			Message: message,
			Default: defaultString(field),
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		if err := checkText(field, response); err != nil {
			if infoErr := w.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Name, err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		values[field.Name] = response
		return nil
	}
}

func (w *Walker) promptTextArea(ctx context.Context, field model.Field, values form.Values) error {
	for {
		response, err := w.driver.TextArea(ctx, TextAreaConfig{
			Message: displayLabel(field),
			Default: defaultString(field),
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		if err := checkText(field, response); err != nil {
			if infoErr := w.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Name, err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		values[field.Name] = response
		return nil
	}
}

func (w *Walker) promptCheck(ctx context.Context, field model.Field, values form.Values) error {
	checked, err := w.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(field),
		Default: defaultString(field) == "1",
		Help:    field.Help,
	})
	if err != nil {
		return err
	}
	if checked {
		values[field.Name] = "1"
	} else {
		values[field.Name] = "0"
	}
	return nil
}

func (w *Walker) promptChoice(ctx context.Context, field model.Field, values form.Values) error {
	options := make([]string, len(field.Options))
	defaultIdx := -1
	def := defaultString(field)
	for i, choice := range field.Options {
		options[i] = choice.Label
		if def != "" && choice.Value == def {
			defaultIdx = i
		}
	}
	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      options,
		DefaultIndex: defaultIdx,
		Help:         field.Help,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return fmt.Errorf("prompt: no selection for %s", field.Name)
	}
	values[field.Name] = field.Options[idx].Value
	return nil
}

func (w *Walker) promptChoiceOrOther(ctx context.Context, field model.Field, values form.Values) error {
	const other = "Other"
	options := make([]string, 0, len(field.Options)+1)
	defaultIdx := -1
	def := defaultString(field)
	for i, choice := range field.Options {
		options = append(options, choice.Label)
		if def != "" && choice.Value == def {
			defaultIdx = i
		}
	}
	options = append(options, other)

	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      options,
		DefaultIndex: defaultIdx,
		Help:         field.Help,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(field.Options) {
		values[field.Name] = field.Options[idx].Value
		return nil
	}

	response, err := w.driver.Input(ctx, InputConfig{
		Message: displayLabel(field),
		Help:    field.Help,
	})
	if err != nil {
		return err
	}
	values[field.Name] = response
	return nil
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func infoText(field model.Field) string {
	var parts []string
	if field.Label != "" {
		parts = append(parts, field.Label)
	}
	if s, ok := field.Default.(string); ok && s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func defaultString(field model.Field) string {
	switch v := field.Default.(type) {
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func checkText(field model.Field, value string) error {
	if field.Required && strings.TrimSpace(value) == "" {
		return errors.New("required")
	}
	if field.MinLength > 0 && value != "" && len(value) < field.MinLength {
		return fmt.Errorf("min length %d", field.MinLength)
	}
	if field.MaxLength > 0 && len(value) > field.MaxLength {
		return fmt.Errorf("max length %d", field.MaxLength)
	}
	return nil
}
