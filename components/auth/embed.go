package auth

import "embed"

// assets holds the form definition, page templates, and static files.
//
//go:embed forms templates templates/_layout.html static
var assets embed.FS
