// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/apperr"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/slug"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/store"
)

// Posts groups the admin post handlers.
type Posts struct {
	postStore *store.PostStore
}

// NewPosts creates the posts handler group.
func NewPosts(postStore *store.PostStore) *Posts {
	return &Posts{postStore: postStore}
}

// List returns all posts, drafts included.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.postStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one post by id.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.postStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("post %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type postInput struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Excerpt         *string    `json:"excerpt"`
	Status          string     `json:"status"`
	MetaDescription *string    `json:"meta_description"`
	CategoryID      *uuid.UUID `json:"category_id"`
}

func (in *postInput) status() (models.PostStatus, error) {
	switch models.PostStatus(in.Status) {
	case models.PostStatusPublished:
		return models.PostStatusPublished, nil
	case models.PostStatusDraft, "":
		return models.PostStatusDraft, nil
	default:
		return "", apperr.Validation("invalid status %q", in.Status)
	}
}

// Create creates a post. The slug is generated from the title when blank;
// new posts default to draft.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msg := validatePost(in.Title, in.Slug, in.Body); msg != "" {
		writeError(w, apperr.Validation("%s", msg))
		return
	}
	status, err := in.status()
	if err != nil {
		writeError(w, err)
		return
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}

	created, err := h.postStore.Create(&models.Post{
		Title:           strings.TrimSpace(in.Title),
		Slug:            in.Slug,
		Body:            in.Body,
		Excerpt:         in.Excerpt,
		Status:          status,
		MetaDescription: in.MetaDescription,
		CategoryID:      in.CategoryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update updates a post. Publishing for the first time stamps
// published_at in the store.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.postStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("post %s not found", id))
		return
	}

	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msg := validatePost(in.Title, in.Slug, in.Body); msg != "" {
		writeError(w, apperr.Validation("%s", msg))
		return
	}
	status, err := in.status()
	if err != nil {
		writeError(w, err)
		return
	}

	item.Title = strings.TrimSpace(in.Title)
	item.Body = in.Body
	item.Excerpt = in.Excerpt
	item.Status = status
	item.MetaDescription = in.MetaDescription
	item.CategoryID = in.CategoryID
	if in.Slug != "" {
		item.Slug = in.Slug
	}

	if err := h.postStore.Update(item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a post. A series leaf referencing it becomes a dangling
// reference and keeps rendering with its own title override.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.postStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
