// Package export serialises form descriptors as OpenAPI documents so
// schema-driven form runtimes and API clients can consume the same field
// definitions the HTML renderer does.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/wikiforge/requestwiki/pkg/model"
)

// Options names the exported document.
type Options struct {
	Title   string
	Version string
	// Path is the endpoint the operation posts to; defaults to
	// "/<descriptor name>".
	Path string
}

// Document builds an OpenAPI 3 document containing one POST operation
// whose request body mirrors the descriptor's writable fields. Submit
// buttons and informational rows carry no data and are omitted.
func Document(ctx context.Context, desc model.Descriptor, opts Options) (*openapi3.T, error) {
	title := opts.Title
	if title == "" {
		title = desc.Name
	}
	version := opts.Version
	if version == "" {
		version = "1.0.0"
	}
	path := opts.Path
	if path == "" {
		path = "/" + desc.Name
	}

	schema := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: openapi3.Schemas{},
	}
	for _, field := range desc.Fields {
		if field.Kind == model.KindSubmit || field.Kind == model.KindInfo {
			continue
		}
		schema.Properties[field.Name] = openapi3.NewSchemaRef("", fieldSchema(field))
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}

	operation := &openapi3.Operation{
		OperationID: desc.Name,
		Summary:     title,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(schema),
		},
		Responses: openapi3.NewResponses(),
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
	}
	spec.Paths.Set(path, &openapi3.PathItem{Post: operation})

	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("export: validate document: %w", err)
	}
	return spec, nil
}

// JSON renders the exported document as indented JSON.
func JSON(ctx context.Context, desc model.Descriptor, opts Options) ([]byte, error) {
	spec, err := Document(ctx, desc, opts)
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal document: %w", err)
	}
	return payload, nil
}

func fieldSchema(field model.Field) *openapi3.Schema {
	schema := &openapi3.Schema{
		Title: strings.TrimSpace(field.Label),
	}

	switch field.Kind {
	case model.KindCheck:
		schema.Type = &openapi3.Types{"boolean"}
	default:
		schema.Type = &openapi3.Types{"string"}
	}

	if field.Help != "" {
		schema.Description = field.Help
	}
	if field.Default != nil {
		schema.Default = field.Default
	}
	if field.MinLength > 0 {
		schema.MinLength = uint64(field.MinLength)
	}
	if field.MaxLength > 0 {
		max := uint64(field.MaxLength)
		schema.MaxLength = &max
	}
	for _, choice := range field.Options {
		schema.Enum = append(schema.Enum, choice.Value)
	}
	return schema
}
