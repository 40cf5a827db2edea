// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for API fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxBodyLen     = 100_000
	maxExcerptLen  = 1_000
	maxDescLen     = 1_000
	maxNameLen     = 200
	maxURLLen      = 2_000
	maxNodeTitle   = 300
	maxReorderSize = 500
)

// validatePost checks post inputs and returns the first error found.
func validatePost(title, slug, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "slug is too long (max 300 characters)"
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "body is too long (max 100,000 characters)"
	}
	return ""
}

// validateName checks a required display name (series, category, track).
func validateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "name is too long (max 200 characters)"
	}
	return ""
}

// validateURL checks an optional external URL field.
func validateURL(url string) string {
	if utf8.RuneCountInString(url) > maxURLLen {
		return "url is too long (max 2,000 characters)"
	}
	return ""
}
