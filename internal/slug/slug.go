// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly slugs from business and category
// names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength fits the narrowest slug column (categories.slug).
const MaxLength = 200

// Generate creates a slug from a display name. Accents are folded to their
// base letters, "&" reads as "and", apostrophes vanish, and every other run
// of non-alphanumeric characters becomes one hyphen.
// Example: "Müller & Sons' Plumbing" → "muller-and-sons-plumbing"
func Generate(s string) string {
	// Transformers carry state, so each call builds its own chain.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	gap := false
	word := func(w string) {
		if gap && b.Len() > 0 {
			b.WriteByte('-')
		}
		gap = false
		b.WriteString(w)
	}
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			word(string(r))
		case r == '&':
			gap = true
			word("and")
			gap = true
		case r == '\'' || r == '’':
		default:
			gap = true
		}
	}
	return truncate(b.String())
}

// truncate cuts an over-long slug at the last hyphen that fits.
func truncate(s string) string {
	if len(s) <= MaxLength {
		return s
	}
	s = s[:MaxLength]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return s
}
