// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/apperr"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/cache"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/slug"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/store"
)

// Series groups the series and series-tree handlers. treeCache may be nil
// when Valkey is not configured; trees are then built per request.
type Series struct {
	seriesStore *store.SeriesStore
	nodeStore   *store.NodeStore
	postStore   *store.PostStore
	treeCache   *cache.TreeCache
}

// NewSeries creates the series handler group.
func NewSeries(seriesStore *store.SeriesStore, nodeStore *store.NodeStore, postStore *store.PostStore, treeCache *cache.TreeCache) *Series {
	return &Series{
		seriesStore: seriesStore,
		nodeStore:   nodeStore,
		postStore:   postStore,
		treeCache:   treeCache,
	}
}

// --- Series CRUD ---

// List returns all series with node counts.
func (h *Series) List(w http.ResponseWriter, r *http.Request) {
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

// Get returns one series by id.
func (h *Series) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.seriesStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("series %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type seriesInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	CoverURL    *string `json:"cover_url"`
	SortOrder   int     `json:"sort_order"`
}

// Create creates a series. The slug is generated from the name when blank.
func (h *Series) Create(w http.ResponseWriter, r *http.Request) {
	var in seriesInput
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

	created, err := h.seriesStore.Create(&models.Series{
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: in.Description,
		CoverURL:    in.CoverURL,
		SortOrder:   in.SortOrder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update updates a series.
func (h *Series) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.seriesStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("series %s not found", id))
		return
	}

	var in seriesInput
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
	item.CoverURL = in.CoverURL
	item.SortOrder = in.SortOrder
	if in.Slug != "" {
		item.Slug = in.Slug
	}

	if err := h.seriesStore.Update(item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a series and, through the schema cascade, its whole tree.
// Referenced posts are untouched.
func (h *Series) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.seriesStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	h.invalidateTree(r, id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Series tree ---

// Tree returns the nested tree of one series. The built tree is cached as
// JSON per series; any mutation below invalidates it.
func (h *Series) Tree(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if h.treeCache != nil {
		if cached, ok := h.treeCache.Get(r.Context(), id); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	item, err := h.seriesStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("series %s not found", id))
		return
	}

	roots, err := h.nodeStore.Tree(id)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(roots)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.treeCache != nil {
		h.treeCache.Set(r.Context(), id, payload)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// AvailablePosts lists posts not yet bound as a leaf in the series, for
// the editor's "add chapter" picker.
func (h *Series) AvailablePosts(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	posts, err := h.postStore.ListNotInSeries(id)
	if err != nil {
		writeError(w, err)
		return
	}
	refs := make([]models.PostRef, 0, len(posts))
	for i := range posts {
		refs = append(refs, posts[i].Ref())
	}
	writeJSON(w, http.StatusOK, refs)
}

type addNodeInput struct {
	ParentID *uuid.UUID `json:"parent_id"`
	Kind     string     `json:"kind"`
	Title    string     `json:"title"`
	PostID   *uuid.UUID `json:"post_id"`
}

// AddNode appends a folder or leaf as the last sibling under its parent.
func (h *Series) AddNode(w http.ResponseWriter, r *http.Request) {
	seriesID, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in addNodeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	node, err := h.nodeStore.AddItem(store.AddItemParams{
		SeriesID: seriesID,
		ParentID: in.ParentID,
		Kind:     models.NodeKind(in.Kind),
		Title:    strings.TrimSpace(in.Title),
		PostID:   in.PostID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.invalidateTree(r, seriesID)
	writeJSON(w, http.StatusCreated, node)
}

type moveNodeInput struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// MoveNode reparents a node, appended at the end of its new sibling group.
func (h *Series) MoveNode(w http.ResponseWriter, r *http.Request) {
	nodeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in moveNodeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	node, err := h.nodeStore.MoveNode(nodeID, in.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.invalidateTree(r, node.SeriesID)
	writeJSON(w, http.StatusOK, node)
}

type reorderInput struct {
	Items []store.ReorderItem `json:"items"`
}

// ReorderNodes rewrites parent and order for a set of nodes in one
// transaction. The whole batch aborts if any node is missing.
func (h *Series) ReorderNodes(w http.ResponseWriter, r *http.Request) {
	seriesID, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in reorderInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if len(in.Items) == 0 {
		writeError(w, apperr.Validation("items must not be empty"))
		return
	}
	if len(in.Items) > maxReorderSize {
		writeError(w, apperr.Validation("too many items (max %d)", maxReorderSize))
		return
	}

	if err := h.nodeStore.ReorderBatch(seriesID, in.Items); err != nil {
		writeError(w, err)
		return
	}

	h.invalidateTree(r, seriesID)
	w.WriteHeader(http.StatusNoContent)
}

type updateNodeInput struct {
	Title     *string    `json:"title"`
	Published *bool      `json:"published"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SetParent bool       `json:"set_parent"`
}

// UpdateNode applies a partial update to a node. Reparenting goes through
// the same validation as a move.
func (h *Series) UpdateNode(w http.ResponseWriter, r *http.Request) {
	nodeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in updateNodeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.Title != nil && len(*in.Title) > maxNodeTitle {
		writeError(w, apperr.Validation("title is too long (max %d characters)", maxNodeTitle))
		return
	}

	node, err := h.nodeStore.UpdateNode(nodeID, store.UpdateNodeParams{
		Title:     in.Title,
		Published: in.Published,
		SetParent: in.SetParent,
		ParentID:  in.ParentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.invalidateTree(r, node.SeriesID)
	writeJSON(w, http.StatusOK, node)
}

// DeleteNode removes a node and its whole subtree. Referenced posts are
// untouched. Deleting an already-gone node answers 204 as well.
func (h *Series) DeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	// Resolve the owning series before the delete so the cache entry can
	// still be invalidated afterwards.
	node, err := h.nodeStore.FindByID(nodeID)
	if err != nil {
		writeError(w, err)
		return
	}
	if node == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.nodeStore.DeleteNode(nodeID); err != nil {
		writeError(w, err)
		return
	}

	h.invalidateTree(r, node.SeriesID)
	w.WriteHeader(http.StatusNoContent)
}

// DetachLeaf removes a single leaf binding, leaving the post alone.
func (h *Series) DetachLeaf(w http.ResponseWriter, r *http.Request) {
	nodeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	node, err := h.nodeStore.FindByID(nodeID)
	if err != nil {
		writeError(w, err)
		return
	}
	if node == nil {
		writeError(w, apperr.NotFound("node %s not found", nodeID))
		return
	}

	if err := h.nodeStore.DetachLeaf(nodeID); err != nil {
		writeError(w, err)
		return
	}

	h.invalidateTree(r, node.SeriesID)
	w.WriteHeader(http.StatusNoContent)
}

// invalidateTree drops the cached tree for a series after a mutation.
func (h *Series) invalidateTree(r *http.Request, seriesID uuid.UUID) {
	if h.treeCache == nil {
		return
	}
	h.treeCache.Invalidate(r.Context(), seriesID)
	slog.Debug("series tree cache invalidated", "series_id", seriesID)
}
