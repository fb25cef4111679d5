// Package eduevents provides embedded assets for production builds.
package eduevents

import "embed"

// In dev mode assets are read from disk for hot reloading; in production they
// are served from these embedded trees.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS

//go:embed frontend/content
var ContentFS embed.FS
