// Package web embeds the built frontend bundle.
package web

import "embed"

// Static embeds the compiled single-page app and its assets. The build
// step copies the frontend dist output here before `go build`.
//
//go:embed static
var Static embed.FS
