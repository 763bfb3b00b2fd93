package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet, table-sort JS).
//
//go:embed static/*
var StaticFS embed.FS

// TemplateFS holds the embedded HTML page templates.
//
//go:embed templates/*.html
var TemplateFS embed.FS
