// Package data embeds the static per-locale trip documents.
package data

import "embed"

//go:embed trips/*.json
var Trips embed.FS
