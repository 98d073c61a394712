package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// NoteRepository implements ports.NoteRepository
type NoteRepository struct {
	*Store
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(store *Store) *NoteRepository {
	return &NoteRepository{Store: store}
}

func (r *NoteRepository) Create(ctx context.Context, n *entities.Note) error {
	av, err := attributevalue.MarshalMap(newNoteItem(n))
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}
	return r.putNew(ctx, av, "note")
}

func (r *NoteRepository) GetByID(ctx context.Context, userID string, id valueobjects.NoteID) (*entities.Note, error) {
	raw, err := r.getItem(ctx, userPK(userID), "NOTE#"+id.String(), "note", false)
	if err != nil {
		return nil, err
	}
	var item noteItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note: %w", err)
	}
	return item.toEntity(), nil
}

func (r *NoteRepository) List(ctx context.Context, userID string) ([]*entities.Note, error) {
	return r.list(ctx, userID, nil)
}

func (r *NoteRepository) ListChildren(ctx context.Context, userID string, parentID valueobjects.NoteID) ([]*entities.Note, error) {
	cond := expression.Name("ParentID").Equal(expression.Value(parentID.String()))
	return r.list(ctx, userID, &cond)
}

func (r *NoteRepository) Update(ctx context.Context, n *entities.Note) error {
	av, err := attributevalue.MarshalMap(newNoteItem(n))
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}
	return r.putExisting(ctx, av, "note")
}

// Delete removes the note, its descendants and every tag link among them
func (r *NoteRepository) Delete(ctx context.Context, userID string, id valueobjects.NoteID) error {
	notes, err := r.List(ctx, userID)
	if err != nil {
		return err
	}

	children := make(map[valueobjects.NoteID][]valueobjects.NoteID)
	found := false
	for _, n := range notes {
		if n.ID() == id {
			found = true
		}
		if p := n.ParentID(); p != nil {
			children[*p] = append(children[*p], n.ID())
		}
	}
	if !found {
		return pkgerrors.NewNotFoundError("note")
	}

	var keys []map[string]types.AttributeValue
	visited := map[valueobjects.NoteID]bool{}
	queue := []valueobjects.NoteID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		// the note's own partition only holds its tag links and tag set version
		owned, err := r.queryPrefix(ctx, notePK(userID, current.String()), "", nil)
		if err != nil {
			return r.mapError("delete note", "note", err)
		}
		for _, item := range owned {
			keys = append(keys, itemKey(item))
		}
		keys = append(keys, key(userPK(userID), "NOTE#"+current.String()))
		queue = append(queue, children[current]...)
	}

	return r.mapError("delete note", "note", r.batchDelete(ctx, keys))
}

func (r *NoteRepository) list(ctx context.Context, userID string, filter *expression.ConditionBuilder) ([]*entities.Note, error) {
	items, err := r.queryPrefix(ctx, userPK(userID), "NOTE#", filter)
	if err != nil {
		return nil, r.mapError("list notes", "note", err)
	}

	out := make([]*entities.Note, 0, len(items))
	for _, raw := range items {
		var item noteItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal note: %w", err)
		}
		out = append(out, item.toEntity())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}
