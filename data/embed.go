// Package data provides the embedded map and sprite-sheet documents.
package data

import "embed"

// dataFS embeds all JSON files from the data directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// FS returns the embedded filesystem containing the default documents.
func FS() embed.FS {
	return dataFS
}
