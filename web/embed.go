// Package web holds the dashboard's templates and static assets,
// embedded so the binary is self-contained.
package web

import "embed"

//go:embed templates static
var FS embed.FS
