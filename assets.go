// Package jobportal provides embedded assets for production builds.
package jobportal

import "embed"

// In dev mode (DEV=true), templates and static files are read from disk so
// edits show up without a rebuild. Otherwise they are served from these
// embedded filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
