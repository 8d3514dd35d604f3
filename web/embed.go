// Package web embeds the browser frontend assets.
package web

import "embed"

// StaticFS holds the frontend files served at the application root.
//
//go:embed static
var StaticFS embed.FS
