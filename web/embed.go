// Package web holds the page templates and the browser assets.
package web

import "embed"

//go:embed templates/*.html static
var FS embed.FS
