// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Series is a multi-chapter column: an ordered, arbitrarily nested
// hierarchy of folders and post-bearing leaves. All SeriesNodes with the
// same SeriesID form one tree.
type Series struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	NodeCount int `json:"node_count"`
}

// NodeKind distinguishes folders from post-bearing leaves. The kind is
// derived from PostID, never stored: a node with a post reference is a
// leaf, one without is a folder.
type NodeKind string

const (
	NodeKindFolder NodeKind = "folder"
	NodeKindLeaf   NodeKind = "leaf"
)

// SeriesNode is one entry in a series tree. ParentID nil means root level.
// SortOrder ranks siblings within the same (SeriesID, ParentID) group;
// values need not be contiguous but sort deterministically, ties broken by
// creation time and id. Published is independent of the referenced post's
// own status — a chapter can be hidden in the series view while the post
// stays published standalone.
type SeriesNode struct {
	ID        uuid.UUID  `json:"id"`
	SeriesID  uuid.UUID  `json:"series_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Title     string     `json:"title"`
	PostID    *uuid.UUID `json:"post_id,omitempty"`
	SortOrder int        `json:"sort_order"`
	Published bool       `json:"published"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Virtual fields populated when the node is joined against posts.
	PostTitle     *string `json:"post_title,omitempty"`
	PostSlug      *string `json:"post_slug,omitempty"`
	PostPublished *bool   `json:"post_published,omitempty"`
}

// Kind returns the derived node kind.
func (n *SeriesNode) Kind() NodeKind {
	if n.PostID != nil {
		return NodeKindLeaf
	}
	return NodeKindFolder
}

// IsLeaf returns true if the node references a post.
func (n *SeriesNode) IsLeaf() bool { return n.PostID != nil }

// DisplayTitle returns the node's own title, falling back to the referenced
// post's title for leaves without an override. A leaf whose post is gone
// (dangling reference) falls back to its own title even when empty.
func (n *SeriesNode) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	if n.PostTitle != nil {
		return *n.PostTitle
	}
	return n.Title
}

// SeriesTreeNode is a SeriesNode with its resolved children, as produced by
// the tree builder. Children are ordered by SortOrder ascending.
type SeriesTreeNode struct {
	SeriesNode
	Children []*SeriesTreeNode `json:"children"`
}
