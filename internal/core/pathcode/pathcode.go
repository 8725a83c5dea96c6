// Package pathcode encodes item, PO and batch-tag codes for use as URL path
// segments. Codes like "A3422/H GREY" contain characters that break path
// routing, so the web client substitutes placeholder tokens and the server
// decodes them before any lookup.
package pathcode

import "strings"

const (
	slashToken = "___SLASH___"
	spaceToken = "___SPACE___"
)

// Decode restores a code received as a path parameter.
func Decode(s string) string {
	s = strings.ReplaceAll(s, slashToken, "/")
	s = strings.ReplaceAll(s, spaceToken, " ")
	return s
}

// Encode substitutes placeholder tokens so a code can travel as a single
// path segment. Used by tests and export link generation.
func Encode(s string) string {
	s = strings.ReplaceAll(s, "/", slashToken)
	s = strings.ReplaceAll(s, " ", spaceToken)
	return s
}
