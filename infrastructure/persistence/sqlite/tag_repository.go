package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

// TagRepository stores tags and their note and conversation links
type TagRepository struct {
	store *Store
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(store *Store) *TagRepository {
	return &TagRepository{store: store}
}

func (r *TagRepository) Create(ctx context.Context, t *entities.Tag) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO tags (id, user_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID, t.Name, t.Color.String(), toUnix(t.CreatedAt),
	)
	return dbError("create tag", "tag", err)
}

func (r *TagRepository) GetByID(ctx context.Context, userID string, id valueobjects.TagID) (*entities.Tag, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, created_at FROM tags WHERE id = ? AND user_id = ?`,
		id.String(), userID)
	t, err := scanTag(row)
	if err != nil {
		return nil, dbError("get tag", "tag", err)
	}
	return t, nil
}

func (r *TagRepository) List(ctx context.Context, userID string) ([]*entities.Tag, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, created_at FROM tags WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, dbError("list tags", "tag", err)
	}
	defer rows.Close()

	out := []*entities.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, dbError("list tags", "tag", err)
		}
		out = append(out, t)
	}
	return out, dbError("list tags", "tag", rows.Err())
}

func (r *TagRepository) Update(ctx context.Context, t *entities.Tag) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ? WHERE id = ? AND user_id = ?`,
		t.Name, t.Color.String(), t.ID.String(), t.UserID,
	)
	if err != nil {
		return dbError("update tag", "tag", err)
	}
	return requireAffected(res, "tag")
}

func (r *TagRepository) Delete(ctx context.Context, userID string, id valueobjects.TagID) error {
	return dbError("delete tag", "tag", r.store.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"note_tags", "conversation_tags"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE tag_id = ?`, id.String()); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id.String(), userID)
		if err != nil {
			return err
		}
		return requireAffected(res, "tag")
	}))
}

// SetTags swaps the owner's links for tagIDs inside one transaction
func (r *TagRepository) SetTags(ctx context.Context, userID string, owner entities.TagOwner, tagIDs []valueobjects.TagID) error {
	table, column, err := linkTable(owner.Kind)
	if err != nil {
		return err
	}
	return dbError("set tags", "tag", r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+column+` = ?`, owner.ID); err != nil {
			return err
		}
		for _, id := range tagIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO `+table+` (`+column+`, tag_id) VALUES (?, ?)`, owner.ID, id.String(),
			); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *TagRepository) ListTagIDs(ctx context.Context, userID string, owner entities.TagOwner) ([]valueobjects.TagID, error) {
	table, column, err := linkTable(owner.Kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT l.tag_id FROM `+table+` l JOIN tags t ON t.id = l.tag_id
		 WHERE l.`+column+` = ? AND t.user_id = ? ORDER BY t.name`,
		owner.ID, userID,
	)
	if err != nil {
		return nil, dbError("list tag links", "tag", err)
	}
	defer rows.Close()

	out := []valueobjects.TagID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbError("list tag links", "tag", err)
		}
		out = append(out, valueobjects.TagID(id))
	}
	return out, dbError("list tag links", "tag", rows.Err())
}

func linkTable(kind entities.TagOwnerKind) (table, column string, err error) {
	switch kind {
	case entities.TagOwnerNote:
		return "note_tags", "note_id", nil
	case entities.TagOwnerConversation:
		return "conversation_tags", "conversation_id", nil
	}
	return "", "", fmt.Errorf("unknown tag owner kind %q", kind)
}

func scanTag(row rowScanner) (*entities.Tag, error) {
	var (
		t         entities.Tag
		id, color string
		created   int64
	)
	if err := row.Scan(&id, &t.UserID, &t.Name, &color, &created); err != nil {
		return nil, err
	}
	c, err := valueobjects.NewTagColor(color)
	if err != nil {
		return nil, err
	}
	t.ID = valueobjects.TagID(id)
	t.Color = c
	t.CreatedAt = fromUnix(created)
	return &t, nil
}
