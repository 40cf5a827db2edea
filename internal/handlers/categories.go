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

// Categories groups the admin category handlers.
type Categories struct {
	categoryStore *store.CategoryStore
}

// NewCategories creates the categories handler group.
func NewCategories(categoryStore *store.CategoryStore) *Categories {
	return &Categories{categoryStore: categoryStore}
}

// List returns all categories flat, with post counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categoryStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Tree returns the nested category hierarchy.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	items, err := h.categoryStore.Tree()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

type categoryInput struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
}

// Create creates a category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msg := validateName(in.Name); msg != "" {
		writeError(w, apperr.Validation("%s", msg))
		return
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Name)
	}

	created, err := h.categoryStore.Create(&models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		SortOrder:   in.SortOrder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update updates a category.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.categoryStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("category %s not found", id))
		return
	}

	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msg := validateName(in.Name); msg != "" {
		writeError(w, apperr.Validation("%s", msg))
		return
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.ParentID = in.ParentID
	item.SortOrder = in.SortOrder
	if in.Slug != "" {
		item.Slug = in.Slug
	}

	if err := h.categoryStore.Update(item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a category. Children are reparented to the root level and
// posts keep existing without a category.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.categoryStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder rewrites parent and order for a set of categories in one
// transaction.
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
	var in reorderInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if len(in.Items) == 0 {
		writeError(w, apperr.Validation("items must not be empty"))
		return
	}

	if err := h.categoryStore.Reorder(in.Items); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
