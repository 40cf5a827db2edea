// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL path segments from post, series, and category
// names.
package slug

import (
	"regexp"
	"strings"
)

// maxLen bounds generated slugs; the columns allow 300 characters.
const maxLen = 300

var (
	// separators normalizes whitespace and underscores to hyphens.
	separators = regexp.MustCompile(`[\s_]+`)
	// disallowed matches anything that isn't a lowercase letter, digit,
	// or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9-]`)
	// hyphenRuns collapses consecutive hyphens into one.
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = separators.ReplaceAllString(result, "-")
	result = disallowed.ReplaceAllString(result, "")
	result = hyphenRuns.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > maxLen {
		result = strings.Trim(result[:maxLen], "-")
	}
	return result
}
