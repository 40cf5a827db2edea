// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/apperr"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/markdown"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/store"
)

// Public groups the unauthenticated read-only handlers. Only published
// content is ever visible here.
type Public struct {
	postStore   *store.PostStore
	seriesStore *store.SeriesStore
	nodeStore   *store.NodeStore
	trackStore  *store.TrackStore
}

// NewPublic creates the public handler group.
func NewPublic(postStore *store.PostStore, seriesStore *store.SeriesStore, nodeStore *store.NodeStore, trackStore *store.TrackStore) *Public {
	return &Public{
		postStore:   postStore,
		seriesStore: seriesStore,
		nodeStore:   nodeStore,
		trackStore:  trackStore,
	}
}

// postSummary is the listing view of a post, body omitted.
type postSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Posts lists published posts, newest first.
func (h *Public) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postStore.ListPublished()
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]postSummary, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		items = append(items, postSummary{
			ID:          p.ID,
			Title:       p.Title,
			Slug:        p.Slug,
			Excerpt:     p.Excerpt,
			CategoryID:  p.CategoryID,
			PublishedAt: p.PublishedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// postView is a full post with its markdown body rendered to HTML.
type postView struct {
	models.Post
	BodyHTML string `json:"body_html"`
}

// Post returns one published post by slug, body rendered to HTML.
func (h *Public) Post(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")
	item, err := h.postStore.FindBySlug(postSlug)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil || !item.IsPublished() {
		writeError(w, apperr.NotFound("post %q not found", postSlug))
		return
	}

	html, err := markdown.ToHTML(item.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postView{Post: *item, BodyHTML: html})
}

// SeriesList lists all series with node counts.
func (h *Public) SeriesList(w http.ResponseWriter, r *http.Request) {
	items, err := h.seriesStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Series{}
	}
	writeJSON(w, http.StatusOK, items)
}

// SeriesTree returns the published view of a series tree by slug. An
// unpublished node hides its whole subtree; a leaf additionally requires
// its post to be published, so dangling or drafted chapters never leak.
func (h *Public) SeriesTree(w http.ResponseWriter, r *http.Request) {
	seriesSlug := chi.URLParam(r, "slug")
	item, err := h.seriesStore.FindBySlug(seriesSlug)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("series %q not found", seriesSlug))
		return
	}

	roots, err := h.nodeStore.Tree(item.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"series": item,
		"tree":   prunePublished(roots),
	})
}

// prunePublished keeps only the published fraction of a tree.
func prunePublished(nodes []*models.SeriesTreeNode) []*models.SeriesTreeNode {
	out := make([]*models.SeriesTreeNode, 0, len(nodes))
	for _, n := range nodes {
		if !n.Published {
			continue
		}
		if n.IsLeaf() && (n.PostPublished == nil || !*n.PostPublished) {
			continue
		}
		kept := &models.SeriesTreeNode{SeriesNode: n.SeriesNode}
		kept.Children = prunePublished(n.Children)
		out = append(out, kept)
	}
	return out
}

// Tracks lists published tracks in their configured order.
func (h *Public) Tracks(w http.ResponseWriter, r *http.Request) {
	items, err := h.trackStore.ListPublished()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Track{}
	}
	writeJSON(w, http.StatusOK, items)
}
