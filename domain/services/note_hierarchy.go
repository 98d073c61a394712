package services

import (
	"context"
	"fmt"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"
)

// ParentLookup returns the parent of a note. found is false when the note
// does not exist; a nil parent marks a root.
type ParentLookup func(ctx context.Context, id valueobjects.NoteID) (parent *valueobjects.NoteID, found bool, err error)

// ChildrenLookup returns the direct children of a note.
type ChildrenLookup func(ctx context.Context, id valueobjects.NoteID) ([]valueobjects.NoteID, error)

// DepthOf walks parent links upward: a root has depth 1 and each ancestor
// adds one. A missing ancestor ends the walk as if it were a root. The walk
// performs at most maxDepth lookups; a longer chain or a cycle means the
// stored hierarchy is corrupt.
func DepthOf(ctx context.Context, id valueobjects.NoteID, lookup ParentLookup, maxDepth int) (int, error) {
	depth := 1
	current := id
	seen := map[valueobjects.NoteID]struct{}{id: {}}

	for i := 0; i < maxDepth; i++ {
		parent, found, err := lookup(ctx, current)
		if err != nil {
			return 0, err
		}
		if !found || parent == nil {
			return depth, nil
		}
		if _, cycle := seen[*parent]; cycle {
			return 0, pkgerrors.NewDataIntegrityError(fmt.Sprintf("note hierarchy contains a cycle at note %s", *parent))
		}
		seen[*parent] = struct{}{}
		depth++
		current = *parent
	}

	return 0, pkgerrors.NewDataIntegrityError(fmt.Sprintf("note %s is nested deeper than %d levels", id, maxDepth))
}

// Subtree describes a note and everything below it
type Subtree struct {
	// Height is 1 for a leaf
	Height  int
	Members map[valueobjects.NoteID]struct{}
}

// Contains reports whether id is the root of the subtree or one of its descendants
func (s Subtree) Contains(id valueobjects.NoteID) bool {
	_, ok := s.Members[id]
	return ok
}

// SubtreeOf collects the descendants of id level by level, scanning at most
// maxDepth levels. A subtree taller than that reports Height maxDepth+1.
func SubtreeOf(ctx context.Context, id valueobjects.NoteID, children ChildrenLookup, maxDepth int) (Subtree, error) {
	tree := Subtree{Height: 1, Members: map[valueobjects.NoteID]struct{}{id: {}}}
	level := []valueobjects.NoteID{id}

	for tree.Height <= maxDepth {
		var next []valueobjects.NoteID
		for _, n := range level {
			kids, err := children(ctx, n)
			if err != nil {
				return Subtree{}, err
			}
			for _, k := range kids {
				if _, dup := tree.Members[k]; dup {
					return Subtree{}, pkgerrors.NewDataIntegrityError(fmt.Sprintf("note hierarchy contains a cycle at note %s", k))
				}
				tree.Members[k] = struct{}{}
				next = append(next, k)
			}
		}
		if len(next) == 0 {
			return tree, nil
		}
		tree.Height++
		level = next
	}
	return tree, nil
}

// CheckPlacement validates putting a subtree of the given height under a
// parent at parentDepth.
func CheckPlacement(parentDepth, subtreeHeight, maxDepth int) error {
	if parentDepth >= maxDepth || parentDepth+subtreeHeight > maxDepth {
		return pkgerrors.NewDepthExceededError(parentDepth, maxDepth)
	}
	return nil
}
