// Package data embeds the default champion, item and rune dataset.
package data

import "embed"

//go:embed *.json
var Files embed.FS
