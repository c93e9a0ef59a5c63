// Package sjis validates strings against the subset of characters that the
// Shift_JIS encoding can represent and that business policy accepts, and
// canonicalizes the ambiguous dash and tilde variants beforehand.
package sjis

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// dashTilde rewrites the rejected dash variants to the em dash and the
// rejected tilde variants to the fullwidth tilde. Every other rune passes
// through unchanged.
var dashTilde = runes.Map(func(r rune) rune {
	switch r {
	case '‒', '–': // figure dash, en dash
		return EmDash
	case '〜', '~', '˜', '∼': // wave dash, tilde, small tilde, tilde operator
		return FullwidthTilde
	}
	return r
})

// Normalize canonicalizes dash and tilde variants. The mapping is one rune to
// one rune: nothing is inserted or removed, and applying it twice is a no-op.
func Normalize(s string) string {
	out, _, _ := transform.String(dashTilde, s)
	return out
}
