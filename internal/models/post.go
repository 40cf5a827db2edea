// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is an article on the blog. A post can live standalone, belong to a
// category, and additionally appear as a chapter inside a series through a
// SeriesNode leaf. The series binding is owned by the series tree, not by
// the post: deleting or detaching a leaf never touches the post itself.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	Status          PostStatus `json:"status"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostRef is the minimal view of a post that the series tree consumes:
// enough to render a chapter entry without loading the body.
type PostRef struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Published bool      `json:"published"`
}

// Ref returns the post's series-facing reference.
func (p *Post) Ref() PostRef {
	return PostRef{ID: p.ID, Title: p.Title, Slug: p.Slug, Published: p.IsPublished()}
}
