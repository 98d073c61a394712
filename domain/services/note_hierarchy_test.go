package services

import (
	"context"
	"errors"
	"testing"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTree maps a note to its parent ("" for a root).
type fakeTree map[valueobjects.NoteID]valueobjects.NoteID

func (f fakeTree) parents(_ context.Context, id valueobjects.NoteID) (*valueobjects.NoteID, bool, error) {
	parent, ok := f[id]
	if !ok {
		return nil, false, nil
	}
	if parent == "" {
		return nil, true, nil
	}
	return &parent, true, nil
}

func (f fakeTree) children(_ context.Context, id valueobjects.NoteID) ([]valueobjects.NoteID, error) {
	var kids []valueobjects.NoteID
	for child, parent := range f {
		if parent == id {
			kids = append(kids, child)
		}
	}
	return kids, nil
}

func TestDepthOf(t *testing.T) {
	ctx := context.Background()
	tree := fakeTree{
		"root":       "",
		"child":      "root",
		"grandchild": "child",
		"orphan":     "deleted",
	}

	tests := []struct {
		name string
		id   valueobjects.NoteID
		want int
	}{
		{"root", "root", 1},
		{"child", "child", 2},
		{"grandchild", "grandchild", 3},
		{"broken link counts the hop then stops", "orphan", 2},
		{"unknown note", "missing", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depth, err := DepthOf(ctx, tt.id, tree.parents, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, depth)
		})
	}
}

func TestDepthOf_CycleIsIntegrityError(t *testing.T) {
	tree := fakeTree{"a": "b", "b": "a"}

	_, err := DepthOf(context.Background(), "a", tree.parents, 3)

	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeHierarchyCorrupt))
}

func TestDepthOf_TooDeepIsIntegrityError(t *testing.T) {
	tree := fakeTree{"d1": "", "d2": "d1", "d3": "d2", "d4": "d3"}
	calls := 0
	lookup := func(ctx context.Context, id valueobjects.NoteID) (*valueobjects.NoteID, bool, error) {
		calls++
		return tree.parents(ctx, id)
	}

	_, err := DepthOf(context.Background(), "d4", lookup, 3)

	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeHierarchyCorrupt))
	assert.Equal(t, 3, calls, "walk must be bounded by the maximum depth")
}

func TestDepthOf_LookupError(t *testing.T) {
	boom := errors.New("boom")
	lookup := func(context.Context, valueobjects.NoteID) (*valueobjects.NoteID, bool, error) {
		return nil, false, boom
	}

	_, err := DepthOf(context.Background(), "x", lookup, 3)

	assert.ErrorIs(t, err, boom)
}

func TestSubtreeOf(t *testing.T) {
	tree := fakeTree{"root": "", "a": "root", "b": "root", "a1": "a"}

	sub, err := SubtreeOf(context.Background(), "root", tree.children, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Height)
	assert.True(t, sub.Contains("a1"))
	assert.False(t, sub.Contains("other"))

	leaf, err := SubtreeOf(context.Background(), "b", tree.children, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, leaf.Height)
}

func TestCheckPlacement(t *testing.T) {
	tests := []struct {
		name        string
		parentDepth int
		height      int
		wantErr     bool
	}{
		{"leaf under root", 1, 1, false},
		{"leaf under depth 2", 2, 1, false},
		{"leaf under depth 3", 3, 1, true},
		{"two-level subtree under depth 2", 2, 2, true},
		{"two-level subtree under root", 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPlacement(tt.parentDepth, tt.height, 3)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNoteDepthExceeded))
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
