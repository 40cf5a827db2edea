// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// seriesnode.go implements the series tree mutation protocol over the flat
// series_nodes table. The table stays authoritative: every operation
// re-reads what it needs instead of trusting an in-process tree. Cycle
// checks read the parent chain at call time; concurrent moves of the same
// node can race that check, which at worst rejects a move or produces a
// harmless reordering, never data loss.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/apperr"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/tree"
)

// NodeStore manages the nodes of series trees.
type NodeStore struct {
	db *sql.DB
}

// NewNodeStore returns a new NodeStore.
func NewNodeStore(db *sql.DB) *NodeStore {
	return &NodeStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx, so reads can run
// inside or outside a transaction.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

const nodeColumns = `sn.id, sn.series_id, sn.parent_id, sn.title, sn.post_id,
	sn.sort_order, sn.published, sn.created_at, sn.updated_at,
	p.title, p.slug, CASE WHEN p.id IS NULL THEN NULL ELSE p.status = 'published' END`

// scanNode scans a joined node row into a SeriesNode struct.
func scanNode(scanner interface{ Scan(...any) error }) (*models.SeriesNode, error) {
	var n models.SeriesNode
	err := scanner.Scan(
		&n.ID, &n.SeriesID, &n.ParentID, &n.Title, &n.PostID,
		&n.SortOrder, &n.Published, &n.CreatedAt, &n.UpdatedAt,
		&n.PostTitle, &n.PostSlug, &n.PostPublished,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListBySeries returns every node of one series as flat rows, joined with
// the referenced posts for display titles. The ORDER BY makes "storage
// natural order" deterministic: sort_order first, creation time and id as
// tie breaks.
func (s *NodeStore) ListBySeries(seriesID uuid.UUID) ([]models.SeriesNode, error) {
	return listNodes(s.db, seriesID)
}

func listNodes(q querier, seriesID uuid.UUID) ([]models.SeriesNode, error) {
	rows, err := q.Query(`
		SELECT `+nodeColumns+`
		FROM series_nodes sn
		LEFT JOIN posts p ON p.id = sn.post_id
		WHERE sn.series_id = $1
		ORDER BY sn.sort_order, sn.created_at, sn.id
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list series nodes: %w", err)
	}
	defer rows.Close()

	var items []models.SeriesNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series node: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// FindByID retrieves a node by ID. Returns nil if not found.
func (s *NodeStore) FindByID(id uuid.UUID) (*models.SeriesNode, error) {
	row := s.db.QueryRow(`
		SELECT `+nodeColumns+`
		FROM series_nodes sn
		LEFT JOIN posts p ON p.id = sn.post_id
		WHERE sn.id = $1
	`, id)
	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series node by id: %w", err)
	}
	return n, nil
}

// Tree builds the nested view of one series from its flat rows.
func (s *NodeStore) Tree(seriesID uuid.UUID) ([]*models.SeriesTreeNode, error) {
	nodes, err := s.ListBySeries(seriesID)
	if err != nil {
		return nil, err
	}
	return tree.Build(nodes), nil
}

// AddItemParams are the inputs for AddItem.
type AddItemParams struct {
	SeriesID uuid.UUID
	ParentID *uuid.UUID
	Kind     models.NodeKind
	Title    string
	PostID   *uuid.UUID
}

// AddItem creates one node, folder or leaf, appended as the last sibling
// under its parent (root level when ParentID is nil). New nodes start
// unpublished.
func (s *NodeStore) AddItem(params AddItemParams) (*models.SeriesNode, error) {
	switch params.Kind {
	case models.NodeKindFolder:
		if strings.TrimSpace(params.Title) == "" {
			return nil, apperr.Validation("a folder requires a title")
		}
		if params.PostID != nil {
			return nil, apperr.Validation("a folder cannot reference a post")
		}
	case models.NodeKindLeaf:
		if params.PostID == nil {
			return nil, apperr.Validation("a chapter requires a post reference")
		}
	default:
		return nil, apperr.Validation("unknown node kind %q", params.Kind)
	}

	if params.ParentID != nil {
		parent, err := s.FindByID(*params.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("parent node %s not found", *params.ParentID)
		}
		if parent.SeriesID != params.SeriesID {
			return nil, apperr.InvalidOperation("parent node belongs to a different series")
		}
		if parent.IsLeaf() {
			return nil, apperr.InvalidOperation("a chapter cannot contain children")
		}
	}

	order, err := s.nextSortOrder(s.db, params.SeriesID, params.ParentID)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO series_nodes (series_id, parent_id, title, post_id, sort_order, published)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id
	`, params.SeriesID, params.ParentID, params.Title, params.PostID, order).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert series node: %w", err)
	}
	return s.FindByID(id)
}

// nextSortOrder returns one past the maximum sort_order among the siblings
// of the given parent, or 0 for an empty group.
func (s *NodeStore) nextSortOrder(q querier, seriesID uuid.UUID, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = q.QueryRow(`
			SELECT MAX(sort_order) FROM series_nodes
			WHERE series_id = $1 AND parent_id IS NULL
		`, seriesID).Scan(&maxOrder)
	} else {
		err = q.QueryRow(`
			SELECT MAX(sort_order) FROM series_nodes
			WHERE series_id = $1 AND parent_id = $2
		`, seriesID, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// validateMove rejects self-parenting and cycle-creating reparents. The
// descendant check reads the current snapshot of the whole series and
// walks parent links from the target upward.
func (s *NodeStore) validateMove(node *models.SeriesNode, targetParentID *uuid.UUID) error {
	if targetParentID == nil {
		return nil
	}
	if *targetParentID == node.ID {
		return apperr.InvalidOperation("node cannot become its own parent")
	}

	target, err := s.FindByID(*targetParentID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.NotFound("target parent %s not found", *targetParentID)
	}
	if target.SeriesID != node.SeriesID {
		return apperr.InvalidOperation("target parent belongs to a different series")
	}
	if target.IsLeaf() {
		return apperr.InvalidOperation("a chapter cannot contain children")
	}

	snapshot, err := s.ListBySeries(node.SeriesID)
	if err != nil {
		return err
	}
	if tree.IsDescendant(snapshot, node.ID, *targetParentID) {
		return apperr.InvalidOperation("cannot move a node into its own subtree")
	}
	return nil
}

// MoveNode reparents a node to the end of the target folder's children,
// or to the end of the root level when targetParentID is nil.
func (s *NodeStore) MoveNode(nodeID uuid.UUID, targetParentID *uuid.UUID) (*models.SeriesNode, error) {
	node, err := s.FindByID(nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, apperr.NotFound("node %s not found", nodeID)
	}

	if err := s.validateMove(node, targetParentID); err != nil {
		return nil, err
	}

	order, err := s.nextSortOrder(s.db, node.SeriesID, targetParentID)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`
		UPDATE series_nodes SET parent_id = $1, sort_order = $2, updated_at = NOW()
		WHERE id = $3
	`, targetParentID, order, nodeID)
	if err != nil {
		return nil, fmt.Errorf("move series node: %w", err)
	}
	return s.FindByID(nodeID)
}

// ReorderItem is one entry of a batch reorder: a node's new parent and
// sibling rank. Callers should pass distinct order values per sibling
// group; ties fall back to storage order.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order"`
}

// ReorderBatch rewrites parent_id and sort_order for a set of nodes in one
// transaction. Any item that fails to resolve — the node vanished, the
// parent vanished, a self-parent, a chapter as parent, a parent chain that
// would loop — aborts the whole batch, so a reader never observes a
// half-applied arrangement.
func (s *NodeStore) ReorderBatch(seriesID uuid.UUID, items []ReorderItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Transaction(err, "begin reorder batch")
	}
	defer tx.Rollback()

	// Resolve every referenced id against the series before writing. The
	// parent map doubles as the snapshot for the cycle check below.
	rows, err := tx.Query(`SELECT id, parent_id, post_id IS NOT NULL FROM series_nodes WHERE series_id = $1`, seriesID)
	if err != nil {
		return apperr.Transaction(err, "load series node ids")
	}
	parents := make(map[uuid.UUID]*uuid.UUID)
	leaves := make(map[uuid.UUID]bool)
	for rows.Next() {
		var (
			id   uuid.UUID
			pid  *uuid.UUID
			leaf bool
		)
		if err := rows.Scan(&id, &pid, &leaf); err != nil {
			rows.Close()
			return apperr.Transaction(err, "scan series node id")
		}
		parents[id] = pid
		leaves[id] = leaf
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperr.Transaction(err, "load series node ids")
	}

	for _, item := range items {
		if _, ok := parents[item.ID]; !ok {
			return apperr.NotFound("node %s not found in series", item.ID)
		}
		if item.ParentID != nil {
			if *item.ParentID == item.ID {
				return apperr.InvalidOperation("node %s cannot become its own parent", item.ID)
			}
			if _, ok := parents[*item.ParentID]; !ok {
				return apperr.NotFound("parent node %s not found in series", *item.ParentID)
			}
			if leaves[*item.ParentID] {
				return apperr.InvalidOperation("a chapter cannot contain children")
			}
		}
	}

	// Apply the batch's parent rewrites to the snapshot and walk each
	// reparented node's new ancestor chain. A chain that loops never
	// reaches the root list, so its nodes would drop out of every tree
	// read while the rows still exist.
	for _, item := range items {
		parents[item.ID] = item.ParentID
	}
	for _, item := range items {
		seen := map[uuid.UUID]bool{item.ID: true}
		for pid := item.ParentID; pid != nil; pid = parents[*pid] {
			if seen[*pid] {
				return apperr.InvalidOperation("cannot move node %s into its own subtree", item.ID)
			}
			seen[*pid] = true
		}
	}

	stmt, err := tx.Prepare(`
		UPDATE series_nodes SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4 AND series_id = $5`)
	if err != nil {
		return apperr.Transaction(err, "prepare reorder")
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		res, err := stmt.Exec(item.ParentID, item.Order, now, item.ID, seriesID)
		if err != nil {
			return apperr.Transaction(err, "reorder node %s", item.ID)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return apperr.Transaction(err, "reorder node %s", item.ID)
		}
		if affected == 0 {
			// Vanished between the resolve pass and the write.
			return apperr.NotFound("node %s not found in series", item.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Transaction(err, "commit reorder batch")
	}
	return nil
}

// DeleteNode removes a node and its whole subtree. Deleting a node that no
// longer exists returns success: the desired end state is already there.
// The subtree is collected and deleted inside one transaction, children
// first, so no orphan window exists; a concurrent delete of the same
// subtree shows up as zero-row deletes and is ignored.
func (s *NodeStore) DeleteNode(nodeID uuid.UUID) error {
	node, err := s.FindByID(nodeID)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Transaction(err, "begin subtree delete")
	}
	defer tx.Rollback()

	snapshot, err := listNodes(tx, node.SeriesID)
	if err != nil {
		return apperr.Transaction(err, "load series snapshot")
	}
	ids := tree.SubtreeIDs(snapshot, nodeID)

	// SubtreeIDs is breadth-first, so the reverse order deletes every
	// child before its parent.
	for i := len(ids) - 1; i >= 0; i-- {
		if _, err := tx.Exec(`DELETE FROM series_nodes WHERE id = $1`, ids[i]); err != nil {
			return apperr.Transaction(err, "delete node %s", ids[i])
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Transaction(err, "commit subtree delete")
	}
	return nil
}

// DetachLeaf removes a leaf node without touching the post it references:
// the post becomes standalone again from the series' perspective. Folders
// cannot be detached.
func (s *NodeStore) DetachLeaf(nodeID uuid.UUID) error {
	node, err := s.FindByID(nodeID)
	if err != nil {
		return err
	}
	if node == nil || !node.IsLeaf() {
		return apperr.NotFound("leaf node %s not found", nodeID)
	}

	if _, err := s.db.Exec(`DELETE FROM series_nodes WHERE id = $1`, nodeID); err != nil {
		return fmt.Errorf("detach leaf: %w", err)
	}
	return nil
}

// UpdateNodeParams are the optional fields of a partial node update.
// SetParent distinguishes "reparent to nil (root)" from "leave the parent
// alone".
type UpdateNodeParams struct {
	Title     *string
	Published *bool
	SetParent bool
	ParentID  *uuid.UUID
}

// UpdateNode applies a partial update. A parent change goes through the
// same validation as MoveNode and recomputes the sibling order.
func (s *NodeStore) UpdateNode(nodeID uuid.UUID, params UpdateNodeParams) (*models.SeriesNode, error) {
	node, err := s.FindByID(nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, apperr.NotFound("node %s not found", nodeID)
	}

	title := node.Title
	if params.Title != nil {
		title = *params.Title
		if node.Kind() == models.NodeKindFolder && strings.TrimSpace(title) == "" {
			return nil, apperr.Validation("a folder requires a title")
		}
	}

	published := node.Published
	if params.Published != nil {
		published = *params.Published
	}

	parentID := node.ParentID
	order := node.SortOrder
	if params.SetParent {
		if err := s.validateMove(node, params.ParentID); err != nil {
			return nil, err
		}
		parentID = params.ParentID
		order, err = s.nextSortOrder(s.db, node.SeriesID, params.ParentID)
		if err != nil {
			return nil, err
		}
	}

	_, err = s.db.Exec(`
		UPDATE series_nodes SET title = $1, published = $2, parent_id = $3,
			sort_order = $4, updated_at = NOW()
		WHERE id = $5
	`, title, published, parentID, order, nodeID)
	if err != nil {
		return nil, fmt.Errorf("update series node: %w", err)
	}
	return s.FindByID(nodeID)
}
