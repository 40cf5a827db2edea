// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package treeview holds the client-facing editor state for one open
// series: a local mirror of the server tree that applies drag-and-drop
// moves immediately and reconciles with the server afterwards. Mutations
// are pure transforms over a flat snapshot (old snapshot + op → new
// snapshot), so the optimistic logic tests without any network. On a
// failed server mutation the local copy is discarded and the
// authoritative tree re-fetched; there is no rollback log.
package treeview

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/tree"
)

// Fetcher loads the authoritative flat node list of a series.
type Fetcher interface {
	FetchNodes(ctx context.Context, seriesID uuid.UUID) ([]models.SeriesNode, error)
}

// Mutator issues a node move against the server.
type Mutator interface {
	MoveNode(ctx context.Context, nodeID uuid.UUID, targetParentID *uuid.UUID) error
}

// ApplyMove is the pure optimistic transform: it returns a new snapshot
// with the node reparented and appended as the last sibling of its new
// group. The input snapshot is never modified.
func ApplyMove(snapshot []models.SeriesNode, nodeID uuid.UUID, targetParentID *uuid.UUID) []models.SeriesNode {
	out := make([]models.SeriesNode, len(snapshot))
	copy(out, snapshot)

	order := tree.NextSortOrder(out, targetParentID)
	for i := range out {
		if out[i].ID == nodeID {
			out[i].ParentID = targetParentID
			out[i].SortOrder = order
			break
		}
	}
	return out
}

// State is the single-writer editor state for one open series. It is not
// safe for concurrent use; each open editor owns exactly one State.
type State struct {
	seriesID  uuid.UUID
	snapshot  []models.SeriesNode
	collapsed map[uuid.UUID]bool
	dragging  *uuid.UUID
}

// NewState creates an empty editor state for a series.
func NewState(seriesID uuid.UUID) *State {
	return &State{
		seriesID:  seriesID,
		collapsed: make(map[uuid.UUID]bool),
	}
}

// Load replaces the cached snapshot. Collapse state survives a reload so
// a reconcile refetch does not snap every folder open.
func (s *State) Load(nodes []models.SeriesNode) {
	s.snapshot = make([]models.SeriesNode, len(nodes))
	copy(s.snapshot, nodes)
	s.dragging = nil
}

// Tree builds the nested view from the local snapshot, with the same
// algorithm the server uses.
func (s *State) Tree() []*models.SeriesTreeNode {
	return tree.Build(s.snapshot)
}

// ToggleCollapse flips a folder's collapse state. Collapse state is
// local-only UI state, never persisted.
func (s *State) ToggleCollapse(id uuid.UUID) {
	s.collapsed[id] = !s.collapsed[id]
}

// IsCollapsed reports a folder's collapse state.
func (s *State) IsCollapsed(id uuid.UUID) bool {
	return s.collapsed[id]
}

// StartDrag records the dragged node. Fails if the node is not in the
// local snapshot.
func (s *State) StartDrag(id uuid.UUID) error {
	for i := range s.snapshot {
		if s.snapshot[i].ID == id {
			s.dragging = &id
			return nil
		}
	}
	return fmt.Errorf("drag start: node %s not in local tree", id)
}

// CancelDrag clears the drag state.
func (s *State) CancelDrag() {
	s.dragging = nil
}

// Dragging returns the currently dragged node id, or nil.
func (s *State) Dragging() *uuid.UUID {
	return s.dragging
}

// CanDrop reports whether the current drag may land on the given target.
// A nil target means the root level and is always valid. A folder target
// is valid unless it is the dragged node itself or one of its
// descendants — the same rule the server enforces, applied preemptively
// for hover feedback.
func (s *State) CanDrop(targetID *uuid.UUID) bool {
	if s.dragging == nil {
		return false
	}
	if targetID == nil {
		return true
	}

	var target *models.SeriesNode
	for i := range s.snapshot {
		if s.snapshot[i].ID == *targetID {
			target = &s.snapshot[i]
			break
		}
	}
	if target == nil || target.IsLeaf() {
		return false
	}
	return !tree.IsDescendant(s.snapshot, *s.dragging, *targetID)
}

// Drop applies the pending drag optimistically and returns the node id
// that must be sent to the server. The drag state is cleared either way.
func (s *State) Drop(targetID *uuid.UUID) (uuid.UUID, error) {
	if s.dragging == nil {
		return uuid.Nil, fmt.Errorf("drop without an active drag")
	}
	nodeID := *s.dragging
	if !s.CanDrop(targetID) {
		s.dragging = nil
		return uuid.Nil, fmt.Errorf("invalid drop target for node %s", nodeID)
	}
	s.dragging = nil

	s.snapshot = ApplyMove(s.snapshot, nodeID, targetID)
	return nodeID, nil
}

// Editor couples the optimistic state with the network: it issues the
// mutation after the optimistic render and re-fetches the authoritative
// tree whenever the server disagrees.
type Editor struct {
	State   *State
	fetcher Fetcher
	mutator Mutator
}

// NewEditor creates an editor for one series, backed by the given
// fetcher and mutator.
func NewEditor(seriesID uuid.UUID, fetcher Fetcher, mutator Mutator) *Editor {
	return &Editor{
		State:   NewState(seriesID),
		fetcher: fetcher,
		mutator: mutator,
	}
}

// Refresh discards the local snapshot and loads the authoritative tree.
func (e *Editor) Refresh(ctx context.Context) error {
	nodes, err := e.fetcher.FetchNodes(ctx, e.State.seriesID)
	if err != nil {
		return fmt.Errorf("refresh series tree: %w", err)
	}
	e.State.Load(nodes)
	return nil
}

// Drop finishes a drag gesture: the local tree re-renders as if the move
// succeeded, then the mutation goes to the server. On failure the local
// copy is thrown away and the server tree re-fetched.
func (e *Editor) Drop(ctx context.Context, targetID *uuid.UUID) error {
	nodeID, err := e.State.Drop(targetID)
	if err != nil {
		return err
	}

	if err := e.mutator.MoveNode(ctx, nodeID, targetID); err != nil {
		if refreshErr := e.Refresh(ctx); refreshErr != nil {
			return fmt.Errorf("move failed (%w) and refresh failed: %v", err, refreshErr)
		}
		return fmt.Errorf("move node: %w", err)
	}
	return nil
}
