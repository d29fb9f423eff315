// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and validation for
// posts and categories.
package slug

import (
	"regexp"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// MaxLength matches the width of the slug columns.
const MaxLength = 256

var (
	// valid is the accepted slug alphabet.
	valid = regexp.MustCompile(`^[a-z0-9-]+$`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := gosimple.Make(strings.TrimSpace(s))
	result = strings.ReplaceAll(result, "_", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

// Valid reports whether s is a well-formed slug: lowercase ASCII letters,
// digits and hyphens only, at most MaxLength characters.
func Valid(s string) bool {
	return len(s) <= MaxLength && valid.MatchString(s)
}
