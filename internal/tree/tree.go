// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree turns the flat series_nodes rows of one series into a
// nested tree and back. Everything here is pure: identical input produces
// identical output regardless of input ordering, and nothing touches the
// database. The same functions serve the server-side read path and the
// client-side optimistic mirror.
package tree

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
)

// Build assembles the nested tree for one series from its flat node list.
// Roots and every children slice come back sorted by SortOrder ascending,
// with input order as the tie break (stable sort). A node whose parent is
// missing from the batch — deleted concurrently with the read — or whose
// parent is itself is promoted to root rather than dropped.
func Build(nodes []models.SeriesNode) []*models.SeriesTreeNode {
	if len(nodes) == 0 {
		return []*models.SeriesTreeNode{}
	}

	// Index every node by id with an empty children slot.
	byID := make(map[uuid.UUID]*models.SeriesTreeNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &models.SeriesTreeNode{
			SeriesNode: nodes[i],
			Children:   []*models.SeriesTreeNode{},
		}
	}

	// Attach each node to its parent, in input order so that the later
	// stable sort keeps ties deterministic.
	var roots []*models.SeriesTreeNode
	for i := range nodes {
		n := byID[nodes[i].ID]
		pid := nodes[i].ParentID
		if pid == nil || *pid == nodes[i].ID {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[*pid]
		if !ok {
			// Dangling parent reference: promote to root.
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	// Sort once, after all insertion.
	sortLevel(roots)
	for _, n := range byID {
		sortLevel(n.Children)
	}
	if roots == nil {
		roots = []*models.SeriesTreeNode{}
	}
	return roots
}

// sortLevel orders one sibling group by SortOrder ascending, keeping the
// existing relative order for equal values.
func sortLevel(level []*models.SeriesTreeNode) {
	sort.SliceStable(level, func(i, j int) bool {
		return level[i].SortOrder < level[j].SortOrder
	})
}

// Flatten walks a tree depth-first, pre-order, returning the flat node
// list. Build(Flatten(t)) reproduces t for any valid forest.
func Flatten(roots []*models.SeriesTreeNode) []models.SeriesNode {
	var out []models.SeriesNode
	var walk func(nodes []*models.SeriesTreeNode)
	walk = func(nodes []*models.SeriesTreeNode) {
		for _, n := range nodes {
			out = append(out, n.SeriesNode)
			walk(n.Children)
		}
	}
	walk(roots)
	return out
}

// IsDescendant reports whether candidate is inside node's subtree (or is
// node itself), judged against the given flat snapshot. It walks parent
// links upward from candidate; a visited set guards against parent cycles
// that should never exist but must not loop forever.
func IsDescendant(nodes []models.SeriesNode, nodeID, candidate uuid.UUID) bool {
	if nodeID == candidate {
		return true
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(nodes))
	for i := range nodes {
		parents[nodes[i].ID] = nodes[i].ParentID
	}

	seen := make(map[uuid.UUID]bool)
	cur := candidate
	for {
		pid, ok := parents[cur]
		if !ok || pid == nil {
			return false
		}
		if *pid == nodeID {
			return true
		}
		if seen[*pid] {
			return false
		}
		seen[*pid] = true
		cur = *pid
	}
}

// SubtreeIDs collects the ids of node and every descendant, judged
// against the given flat snapshot.
func SubtreeIDs(nodes []models.SeriesNode, nodeID uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID, len(nodes))
	for i := range nodes {
		if pid := nodes[i].ParentID; pid != nil {
			children[*pid] = append(children[*pid], nodes[i].ID)
		}
	}

	ids := []uuid.UUID{nodeID}
	seen := map[uuid.UUID]bool{nodeID: true}
	for cursor := 0; cursor < len(ids); cursor++ {
		for _, child := range children[ids[cursor]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}

// NextSortOrder returns one past the maximum SortOrder among the siblings
// of the given parent in the snapshot, or 0 when the group is empty.
func NextSortOrder(nodes []models.SeriesNode, parentID *uuid.UUID) int {
	next := 0
	for i := range nodes {
		if !sameParent(nodes[i].ParentID, parentID) {
			continue
		}
		if nodes[i].SortOrder >= next {
			next = nodes[i].SortOrder + 1
		}
	}
	return next
}

// sameParent compares two parent pointers (both nil or same value).
func sameParent(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
