package sqlite

import (
	"context"
	"database/sql"

	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

// NoteRepository stores the note hierarchy in SQLite
type NoteRepository struct {
	store *Store
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(store *Store) *NoteRepository {
	return &NoteRepository{store: store}
}

const noteColumns = `id, user_id, parent_id, content, created_at, updated_at`

// subtreeCTE selects the note bound to the first two parameters (id, user)
// and all of its descendants.
const subtreeCTE = `WITH RECURSIVE subtree(id) AS (
	SELECT id FROM notes WHERE id = ? AND user_id = ?
	UNION ALL
	SELECT n.id FROM notes n JOIN subtree s ON n.parent_id = s.id
)`

func (r *NoteRepository) Create(ctx context.Context, n *entities.Note) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID().String(), n.UserID(), parentColumn(n.ParentID()), n.Content().String(),
		toUnix(n.CreatedAt()), toUnix(n.UpdatedAt()),
	)
	return dbError("create note", "note", err)
}

func (r *NoteRepository) GetByID(ctx context.Context, userID string, id valueobjects.NoteID) (*entities.Note, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`, id.String(), userID)
	n, err := scanNote(row)
	if err != nil {
		return nil, dbError("get note", "note", err)
	}
	return n, nil
}

func (r *NoteRepository) List(ctx context.Context, userID string) ([]*entities.Note, error) {
	return r.query(ctx, "list notes",
		`SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY created_at`, userID)
}

func (r *NoteRepository) ListChildren(ctx context.Context, userID string, parentID valueobjects.NoteID) ([]*entities.Note, error) {
	return r.query(ctx, "list child notes",
		`SELECT `+noteColumns+` FROM notes WHERE user_id = ? AND parent_id = ? ORDER BY created_at`,
		userID, parentID.String())
}

func (r *NoteRepository) Update(ctx context.Context, n *entities.Note) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE notes SET parent_id = ?, content = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		parentColumn(n.ParentID()), n.Content().String(), toUnix(n.UpdatedAt()), n.ID().String(), n.UserID(),
	)
	if err != nil {
		return dbError("update note", "note", err)
	}
	return requireAffected(res, "note")
}

// Delete removes the note and every descendant along with their tag links
func (r *NoteRepository) Delete(ctx context.Context, userID string, id valueobjects.NoteID) error {
	return dbError("delete note", "note", r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			subtreeCTE+` DELETE FROM note_tags WHERE note_id IN (SELECT id FROM subtree)`,
			id.String(), userID,
		); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			subtreeCTE+` DELETE FROM notes WHERE id IN (SELECT id FROM subtree)`,
			id.String(), userID,
		)
		if err != nil {
			return err
		}
		return requireAffected(res, "note")
	}))
}

func (r *NoteRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]*entities.Note, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, "note", err)
	}
	defer rows.Close()

	out := []*entities.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, dbError(op, "note", err)
		}
		out = append(out, n)
	}
	return out, dbError(op, "note", rows.Err())
}

func scanNote(row rowScanner) (*entities.Note, error) {
	var (
		id, userID, content string
		parent              sql.NullString
		created, updated    int64
	)
	if err := row.Scan(&id, &userID, &parent, &content, &created, &updated); err != nil {
		return nil, err
	}
	var parentID *valueobjects.NoteID
	if parent.Valid {
		p := valueobjects.NoteID(parent.String)
		parentID = &p
	}
	return entities.ReconstructNote(
		valueobjects.NoteID(id), userID, parentID,
		valueobjects.RestoreBoundedContent(content),
		fromUnix(created), fromUnix(updated),
	), nil
}

func parentColumn(id *valueobjects.NoteID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	s := id.String()
	return nullString(&s)
}
