// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Track is a music track on the site. The audio file lives in external
// object storage; AudioURL is an opaque pointer to it.
type Track struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Album       *string   `json:"album,omitempty"`
	AudioURL    string    `json:"audio_url"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	DurationSec int       `json:"duration_sec"`
	SortOrder   int       `json:"sort_order"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Duration returns the track length as a time.Duration.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.DurationSec) * time.Second
}
