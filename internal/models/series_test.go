package models

import (
	"testing"

	"github.com/google/uuid"
)

// TestSeriesNodeKind verifies that the node kind is derived from PostID.
func TestSeriesNodeKind(t *testing.T) {
	postID := uuid.New()

	tests := []struct {
		name   string
		postID *uuid.UUID
		want   NodeKind
		isLeaf bool
	}{
		{name: "folder has no post", postID: nil, want: NodeKindFolder, isLeaf: false},
		{name: "leaf references a post", postID: &postID, want: NodeKindLeaf, isLeaf: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &SeriesNode{PostID: tt.postID}
			if got := n.Kind(); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
			if got := n.IsLeaf(); got != tt.isLeaf {
				t.Errorf("IsLeaf() = %v, want %v", got, tt.isLeaf)
			}
		})
	}
}

// TestSeriesNodeDisplayTitle verifies the title fallback chain: node title
// override first, then the referenced post's title, then empty for a
// dangling reference.
func TestSeriesNodeDisplayTitle(t *testing.T) {
	postTitle := "Understanding Goroutines"

	tests := []struct {
		name      string
		title     string
		postTitle *string
		want      string
	}{
		{name: "override wins", title: "Chapter 1", postTitle: &postTitle, want: "Chapter 1"},
		{name: "falls back to post title", title: "", postTitle: &postTitle, want: postTitle},
		{name: "dangling post reference", title: "", postTitle: nil, want: ""},
		{name: "folder uses own title", title: "Part One", postTitle: nil, want: "Part One"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &SeriesNode{Title: tt.title, PostTitle: tt.postTitle}
			if got := n.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestPostRef verifies the series-facing post reference projection.
func TestPostRef(t *testing.T) {
	p := &Post{
		ID:     uuid.New(),
		Title:  "Hello",
		Slug:   "hello",
		Status: PostStatusPublished,
	}
	ref := p.Ref()
	if ref.ID != p.ID || ref.Title != "Hello" || ref.Slug != "hello" {
		t.Errorf("Ref() = %+v, want fields copied from post", ref)
	}
	if !ref.Published {
		t.Error("Ref().Published should be true for a published post")
	}

	p.Status = PostStatusDraft
	if p.Ref().Published {
		t.Error("Ref().Published should be false for a draft post")
	}
}
