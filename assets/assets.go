// Package assets embeds the web page sources and the bundled works dataset.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	htmlmin "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

var (
	//go:embed index.html.tpl
	indexTemplate string

	//go:embed style.css
	styleCSS string

	//go:embed script.js
	scriptJS string

	// Favicon is the SVG site icon.
	//go:embed favicon.svg
	Favicon []byte

	// Dataset is the bundled works collection used when no other source is configured.
	//go:embed obras.geojson
	Dataset []byte
)

// PageData holds the values injected into the index template.
type PageData struct {
	Title string
	CSS   string
	JS    string
}

// NewMinifier returns a minifier for every asset type the page uses.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", htmlmin.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// Render builds the minified index page with inlined CSS and JS.
func Render(m *minify.M, title string) ([]byte, error) {
	cssMin, err := m.String("text/css", styleCSS)
	if err != nil {
		return nil, fmt.Errorf("minify css: %w", err)
	}

	jsMin, err := m.String("text/javascript", scriptJS)
	if err != nil {
		return nil, fmt.Errorf("minify js: %w", err)
	}

	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PageData{
		Title: html.EscapeString(title),
		CSS:   cssMin,
		JS:    jsMin,
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	page, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify html: %w", err)
	}

	return page, nil
}

// MinifiedFavicon returns the favicon with the SVG minifier applied.
func MinifiedFavicon(m *minify.M) ([]byte, error) {
	return m.Bytes("image/svg+xml", Favicon)
}
