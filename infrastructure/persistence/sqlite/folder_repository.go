package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

// FolderRepository stores conversation folders
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(store *Store) *FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) Create(ctx context.Context, f *entities.Folder) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO folders (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID.String(), f.UserID, f.Name, toUnix(f.CreatedAt), toUnix(f.UpdatedAt),
	)
	return dbError("create folder", "folder", err)
}

func (r *FolderRepository) GetByID(ctx context.Context, userID string, id valueobjects.FolderID) (*entities.Folder, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at FROM folders WHERE id = ? AND user_id = ?`,
		id.String(), userID)
	f, err := scanFolder(row)
	if err != nil {
		return nil, dbError("get folder", "folder", err)
	}
	return f, nil
}

func (r *FolderRepository) List(ctx context.Context, userID string) ([]*entities.Folder, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at FROM folders WHERE user_id = ? ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, dbError("list folders", "folder", err)
	}
	defer rows.Close()

	out := []*entities.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, dbError("list folders", "folder", err)
		}
		out = append(out, f)
	}
	return out, dbError("list folders", "folder", rows.Err())
}

func (r *FolderRepository) Update(ctx context.Context, f *entities.Folder) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE folders SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		f.Name, toUnix(f.UpdatedAt), f.ID.String(), f.UserID,
	)
	if err != nil {
		return dbError("update folder", "folder", err)
	}
	return requireAffected(res, "folder")
}

// Delete removes the folder; its conversations move back to the top level
func (r *FolderRepository) Delete(ctx context.Context, userID string, id valueobjects.FolderID) error {
	return dbError("delete folder", "folder", r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE conversations SET folder_id = NULL WHERE folder_id = ? AND user_id = ?`,
			id.String(), userID,
		); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ? AND user_id = ?`, id.String(), userID)
		if err != nil {
			return err
		}
		return requireAffected(res, "folder")
	}))
}

func scanFolder(row rowScanner) (*entities.Folder, error) {
	var (
		f                entities.Folder
		id               string
		created, updated int64
	)
	if err := row.Scan(&id, &f.UserID, &f.Name, &created, &updated); err != nil {
		return nil, err
	}
	f.ID = valueobjects.FolderID(id)
	f.CreatedAt = fromUnix(created)
	f.UpdatedAt = fromUnix(updated)
	return &f, nil
}

// SettingsRepository stores per-user preferences
type SettingsRepository struct {
	store *Store
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*entities.UserSettings, error) {
	var (
		tool    string
		updated int64
	)
	err := r.store.db.QueryRowContext(ctx,
		`SELECT default_ai_tool, updated_at FROM user_settings WHERE user_id = ?`, userID,
	).Scan(&tool, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.DefaultUserSettings(userID), nil
	}
	if err != nil {
		return nil, dbError("get settings", "settings", err)
	}
	return &entities.UserSettings{
		UserID:        userID,
		DefaultAITool: valueobjects.AITool(tool),
		UpdatedAt:     fromUnix(updated),
	}, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *entities.UserSettings) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, default_ai_tool, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET default_ai_tool = excluded.default_ai_tool, updated_at = excluded.updated_at`,
		s.UserID, s.DefaultAITool.String(), toUnix(s.UpdatedAt),
	)
	return dbError("save settings", "settings", err)
}
