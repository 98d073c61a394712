package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"tweetbloom/application/ports"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

// ConversationRepository stores conversations in SQLite
type ConversationRepository struct {
	store *Store
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(store *Store) *ConversationRepository {
	return &ConversationRepository{store: store}
}

const conversationColumns = `id, user_id, title, ai_tool, folder_id, created_at, updated_at, version`

func (r *ConversationRepository) Create(ctx context.Context, c *entities.Conversation) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO conversations (`+conversationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID().String(), c.UserID(), c.Title(), c.AITool().String(), folderColumn(c.FolderID()),
		toUnix(c.CreatedAt()), toUnix(c.UpdatedAt()), c.Version(),
	)
	return dbError("create conversation", "conversation", err)
}

func (r *ConversationRepository) GetByID(ctx context.Context, userID string, id valueobjects.ConversationID) (*entities.Conversation, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ? AND user_id = ?`,
		id.String(), userID,
	)
	c, err := scanConversation(row)
	if err != nil {
		return nil, dbError("get conversation", "conversation", err)
	}
	return c, nil
}

func (r *ConversationRepository) List(ctx context.Context, userID string, filter ports.ConversationFilter) ([]*entities.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE user_id = ?`
	args := []interface{}{userID}
	if filter.FolderID != nil {
		query += ` AND folder_id = ?`
		args = append(args, filter.FolderID.String())
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("list conversations", "conversation", err)
	}
	defer rows.Close()

	var out []*entities.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, dbError("list conversations", "conversation", err)
		}
		out = append(out, c)
	}
	return out, dbError("list conversations", "conversation", rows.Err())
}

func (r *ConversationRepository) Update(ctx context.Context, c *entities.Conversation) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE conversations SET title = ?, folder_id = ?, updated_at = ?, version = version + 1
		 WHERE id = ? AND user_id = ?`,
		c.Title(), folderColumn(c.FolderID()), toUnix(c.UpdatedAt()), c.ID().String(), c.UserID(),
	)
	if err != nil {
		return dbError("update conversation", "conversation", err)
	}
	return requireAffected(res, "conversation")
}

// Delete removes the conversation; messages and tag links go with it
func (r *ConversationRepository) Delete(ctx context.Context, userID string, id valueobjects.ConversationID) error {
	return dbError("delete conversation", "conversation", r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM conversation_tags WHERE conversation_id = ?`, id.String()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ? AND user_id = ?`, id.String(), userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ? AND user_id = ?`, id.String(), userID)
		if err != nil {
			return err
		}
		return requireAffected(res, "conversation")
	}))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (*entities.Conversation, error) {
	var (
		id, userID, title, tool string
		folder                  sql.NullString
		created, updated        int64
		version                 int
	)
	if err := row.Scan(&id, &userID, &title, &tool, &folder, &created, &updated, &version); err != nil {
		return nil, err
	}
	var folderID *valueobjects.FolderID
	if folder.Valid {
		f := valueobjects.FolderID(folder.String)
		folderID = &f
	}
	return entities.ReconstructConversation(
		valueobjects.ConversationID(id), userID, title, valueobjects.AITool(tool),
		folderID, fromUnix(created), fromUnix(updated), version,
	), nil
}

func folderColumn(id *valueobjects.FolderID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	s := id.String()
	return nullString(&s)
}

// MessageRepository stores the message log in SQLite
type MessageRepository struct {
	store *Store
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{store: store}
}

const messageColumns = `id, conversation_id, role, kind, content, metadata, created_at`

func (r *MessageRepository) Append(ctx context.Context, userID string, m *entities.Message) error {
	meta, err := encodeMetadata(m.Metadata)
	if err != nil {
		return err
	}
	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO messages (user_id, `+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, m.ID.String(), m.ConversationID.String(), string(m.Role), string(m.Kind), m.Content, meta, toUnix(m.CreatedAt),
	)
	return dbError("append message", "conversation", err)
}

// AppendResponse inserts the response in the same statement that checks the
// cap, so two concurrent turns can never both take the last slot.
func (r *MessageRepository) AppendResponse(ctx context.Context, userID string, m *entities.Message, turnCap int) (int, error) {
	meta, err := encodeMetadata(m.Metadata)
	if err != nil {
		return 0, err
	}

	var count int
	err = r.store.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO messages (user_id, `+messageColumns+`)
			 SELECT ?, ?, ?, ?, ?, ?, ?, ?
			 WHERE (SELECT COUNT(*) FROM messages
			        WHERE conversation_id = ? AND role = 'assistant' AND kind = 'response') < ?`,
			userID, m.ID.String(), m.ConversationID.String(), string(m.Role), string(m.Kind), m.Content, meta, toUnix(m.CreatedAt),
			m.ConversationID.String(), turnCap,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ports.ErrTurnCapReached
		}
		return tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM messages WHERE conversation_id = ? AND role = 'assistant' AND kind = 'response'`,
			m.ConversationID.String(),
		).Scan(&count)
	})
	if errors.Is(err, ports.ErrTurnCapReached) {
		return 0, err
	}
	if err != nil {
		return 0, dbError("append response", "conversation", err)
	}
	return count, nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, userID string, conversationID valueobjects.ConversationID) ([]*entities.Message, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE conversation_id = ? AND user_id = ? ORDER BY seq`,
		conversationID.String(), userID,
	)
	if err != nil {
		return nil, dbError("list messages", "conversation", err)
	}
	defer rows.Close()

	out := []*entities.Message{}
	for rows.Next() {
		var (
			m                      entities.Message
			id, convID, role, kind string
			meta                   sql.NullString
			created                int64
		)
		if err := rows.Scan(&id, &convID, &role, &kind, &m.Content, &meta, &created); err != nil {
			return nil, dbError("list messages", "conversation", err)
		}
		m.ID = valueobjects.MessageID(id)
		m.ConversationID = valueobjects.ConversationID(convID)
		m.Role = entities.MessageRole(role)
		m.Kind = entities.MessageKind(kind)
		m.CreatedAt = fromUnix(created)
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &m.Metadata); err != nil {
				return nil, dbError("decode message metadata", "conversation", err)
			}
		}
		out = append(out, &m)
	}
	return out, dbError("list messages", "conversation", rows.Err())
}

func (r *MessageRepository) CountResponses(ctx context.Context, userID string, conversationID valueobjects.ConversationID) (int, error) {
	var count int
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages
		 WHERE conversation_id = ? AND user_id = ? AND role = 'assistant' AND kind = 'response'`,
		conversationID.String(), userID,
	).Scan(&count)
	return count, dbError("count responses", "conversation", err)
}

func encodeMetadata(meta map[string]interface{}) (sql.NullString, error) {
	if len(meta) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return sql.NullString{}, dbError("encode message metadata", "message", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
