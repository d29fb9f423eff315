// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package excerpt derives plain-text previews from the HTML produced by the
// rich-text editor. Post content is stored verbatim; the helpers here only
// compute read-time presentation fields (summary snippet, reading time).
package excerpt

import (
	"fmt"
	"html"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// DefaultLength is the rune length of the summary shown on post cards.
	DefaultLength = 160

	// wordsPerMinute is the assumed reading speed.
	wordsPerMinute = 200
)

// strict removes every tag. Block boundaries become spaces so that
// "<p>a</p><p>b</p>" yields "a b" rather than "ab".
var strict = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// PlainText strips all markup from s, decodes entities and collapses runs
// of whitespace into single spaces.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Summary returns the plain text of s truncated to at most max runes,
// followed by "..." when anything was cut.
func Summary(s string, max int) string {
	text := PlainText(s)
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := strings.TrimRight(string(runes[:max]), " ")
	return cut + "..."
}

// Words counts the words in the plain text of s.
func Words(s string) int {
	return len(strings.Fields(PlainText(s)))
}

// ReadingMinutes estimates reading time in whole minutes, never less than one.
func ReadingMinutes(s string) int {
	minutes := int(math.Round(float64(Words(s)) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ReadingTime renders ReadingMinutes as "N min read".
func ReadingTime(s string) string {
	return fmt.Sprintf("%d min read", ReadingMinutes(s))
}
