package treeview

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
)

func folder(seriesID uuid.UUID, parentID *uuid.UUID, title string, order int) models.SeriesNode {
	return models.SeriesNode{
		ID:        uuid.New(),
		SeriesID:  seriesID,
		ParentID:  parentID,
		Title:     title,
		SortOrder: order,
	}
}

func leaf(seriesID uuid.UUID, parentID *uuid.UUID, order int) models.SeriesNode {
	postID := uuid.New()
	return models.SeriesNode{
		ID:        uuid.New(),
		SeriesID:  seriesID,
		ParentID:  parentID,
		PostID:    &postID,
		SortOrder: order,
	}
}

// fakeServer plays both Fetcher and Mutator. It applies accepted moves
// to its own copy so a refetch returns the server's view, and can be
// told to reject the next move.
type fakeServer struct {
	nodes      []models.SeriesNode
	rejectMove error
	moves      int
	fetches    int
}

func (f *fakeServer) FetchNodes(_ context.Context, _ uuid.UUID) ([]models.SeriesNode, error) {
	f.fetches++
	out := make([]models.SeriesNode, len(f.nodes))
	copy(out, f.nodes)
	return out, nil
}

func (f *fakeServer) MoveNode(_ context.Context, nodeID uuid.UUID, targetParentID *uuid.UUID) error {
	f.moves++
	if f.rejectMove != nil {
		err := f.rejectMove
		f.rejectMove = nil
		return err
	}
	f.nodes = ApplyMove(f.nodes, nodeID, targetParentID)
	return nil
}

func TestApplyMoveAppendsAsLastSibling(t *testing.T) {
	seriesID := uuid.New()
	f := folder(seriesID, nil, "Basics", 1)
	l1 := leaf(seriesID, &f.ID, 1)
	l2 := leaf(seriesID, &f.ID, 2)
	rootLeaf := leaf(seriesID, nil, 2)

	snapshot := []models.SeriesNode{f, l1, l2, rootLeaf}
	out := ApplyMove(snapshot, rootLeaf.ID, &f.ID)

	if snapshot[3].ParentID != nil {
		t.Fatal("ApplyMove modified the input snapshot")
	}
	var moved *models.SeriesNode
	for i := range out {
		if out[i].ID == rootLeaf.ID {
			moved = &out[i]
		}
	}
	if moved == nil || moved.ParentID == nil || *moved.ParentID != f.ID {
		t.Fatal("node not reparented")
	}
	if moved.SortOrder != 3 {
		t.Fatalf("SortOrder = %d, want 3", moved.SortOrder)
	}
}

func TestStateDragAndDrop(t *testing.T) {
	seriesID := uuid.New()
	f := folder(seriesID, nil, "Basics", 1)
	l := leaf(seriesID, &f.ID, 1)
	rootLeaf := leaf(seriesID, nil, 2)

	s := NewState(seriesID)
	s.Load([]models.SeriesNode{f, l, rootLeaf})

	if err := s.StartDrag(uuid.New()); err == nil {
		t.Fatal("dragging an unknown node should fail")
	}
	if s.CanDrop(&f.ID) {
		t.Fatal("CanDrop should be false without an active drag")
	}

	if err := s.StartDrag(rootLeaf.ID); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if !s.CanDrop(nil) {
		t.Fatal("root should always be a valid target")
	}
	if s.CanDrop(&l.ID) {
		t.Fatal("a leaf must not accept children")
	}
	if !s.CanDrop(&f.ID) {
		t.Fatal("folder should accept the dragged leaf")
	}

	nodeID, err := s.Drop(&f.ID)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if nodeID != rootLeaf.ID {
		t.Fatalf("Drop returned %s, want %s", nodeID, rootLeaf.ID)
	}
	if s.Dragging() != nil {
		t.Fatal("drag state should be cleared after Drop")
	}

	roots := s.Tree()
	if len(roots) != 1 {
		t.Fatalf("expected single root after move, got %d", len(roots))
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("folder should have 2 children, got %d", len(roots[0].Children))
	}
}

func TestCanDropRejectsOwnSubtree(t *testing.T) {
	seriesID := uuid.New()
	outer := folder(seriesID, nil, "Outer", 1)
	inner := folder(seriesID, &outer.ID, "Inner", 1)

	s := NewState(seriesID)
	s.Load([]models.SeriesNode{outer, inner})
	if err := s.StartDrag(outer.ID); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}

	if s.CanDrop(&outer.ID) {
		t.Fatal("node must not drop onto itself")
	}
	if s.CanDrop(&inner.ID) {
		t.Fatal("node must not drop into its own subtree")
	}
	if _, err := s.Drop(&inner.ID); err == nil {
		t.Fatal("Drop into own subtree should fail")
	}
	if s.Dragging() != nil {
		t.Fatal("drag state should be cleared after a rejected drop")
	}
}

func TestCollapseStateSurvivesReload(t *testing.T) {
	seriesID := uuid.New()
	f := folder(seriesID, nil, "Basics", 1)

	s := NewState(seriesID)
	s.Load([]models.SeriesNode{f})
	s.ToggleCollapse(f.ID)
	if !s.IsCollapsed(f.ID) {
		t.Fatal("folder should be collapsed")
	}

	s.Load([]models.SeriesNode{f})
	if !s.IsCollapsed(f.ID) {
		t.Fatal("collapse state should survive a reload")
	}
	s.ToggleCollapse(f.ID)
	if s.IsCollapsed(f.ID) {
		t.Fatal("toggle should expand again")
	}
}

func TestEditorDropSuccess(t *testing.T) {
	seriesID := uuid.New()
	f := folder(seriesID, nil, "Basics", 1)
	rootLeaf := leaf(seriesID, nil, 2)

	srv := &fakeServer{nodes: []models.SeriesNode{f, rootLeaf}}
	ed := NewEditor(seriesID, srv, srv)
	if err := ed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := ed.State.StartDrag(rootLeaf.ID); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := ed.Drop(context.Background(), &f.ID); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if srv.moves != 1 {
		t.Fatalf("expected 1 server move, got %d", srv.moves)
	}
	if srv.fetches != 1 {
		t.Fatalf("success must not trigger a refetch, fetches = %d", srv.fetches)
	}

	roots := ed.State.Tree()
	if len(roots) != 1 || len(roots[0].Children) != 1 {
		t.Fatal("optimistic tree should show the leaf inside the folder")
	}
}

func TestEditorDropFailureRefetches(t *testing.T) {
	seriesID := uuid.New()
	f := folder(seriesID, nil, "Basics", 1)
	rootLeaf := leaf(seriesID, nil, 2)

	srv := &fakeServer{
		nodes:      []models.SeriesNode{f, rootLeaf},
		rejectMove: errors.New("stale tree"),
	}
	ed := NewEditor(seriesID, srv, srv)
	if err := ed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := ed.State.StartDrag(rootLeaf.ID); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	err := ed.Drop(context.Background(), &f.ID)
	if err == nil {
		t.Fatal("Drop should surface the server error")
	}
	if srv.fetches != 2 {
		t.Fatalf("failed move should refetch, fetches = %d", srv.fetches)
	}

	roots := ed.State.Tree()
	if len(roots) != 2 {
		t.Fatalf("local tree should match the server again, got %d roots", len(roots))
	}
}
