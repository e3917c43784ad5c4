package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// RuntimeScriptName is the bundled client script handling tab navigation
// and hide-if rules.
const RuntimeScriptName = "requestwiki-form.js"

// TemplatesFS exposes the embedded template bundle for consumers that
// want the built-in form rendering out of the box.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the embedded runtime assets so callers can serve them
// over HTTP or copy them into their own asset pipeline.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
