package dynamodb

import (
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

type conversationItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	EntityType     string `dynamodbav:"EntityType"`
	ConversationID string `dynamodbav:"ConversationID"`
	UserID         string `dynamodbav:"UserID"`
	Title          string `dynamodbav:"Title"`
	AITool         string `dynamodbav:"AITool"`
	FolderID       string `dynamodbav:"FolderID,omitempty"`
	ResponseCount  int    `dynamodbav:"ResponseCount"`
	CreatedAt      string `dynamodbav:"CreatedAt"`
	UpdatedAt      string `dynamodbav:"UpdatedAt"`
	Version        int    `dynamodbav:"Version"`
}

func newConversationItem(c *entities.Conversation) conversationItem {
	item := conversationItem{
		PK:             userPK(c.UserID()),
		SK:             "CONV#" + c.ID().String(),
		EntityType:     entityConversation,
		ConversationID: c.ID().String(),
		UserID:         c.UserID(),
		Title:          c.Title(),
		AITool:         c.AITool().String(),
		CreatedAt:      formatTime(c.CreatedAt()),
		UpdatedAt:      formatTime(c.UpdatedAt()),
		Version:        c.Version(),
	}
	if c.FolderID() != nil {
		item.FolderID = c.FolderID().String()
	}
	return item
}

func (i conversationItem) toEntity() *entities.Conversation {
	var folderID *valueobjects.FolderID
	if i.FolderID != "" {
		f := valueobjects.FolderID(i.FolderID)
		folderID = &f
	}
	return entities.ReconstructConversation(
		valueobjects.ConversationID(i.ConversationID), i.UserID, i.Title,
		valueobjects.AITool(i.AITool), folderID,
		parseTime(i.CreatedAt), parseTime(i.UpdatedAt), i.Version,
	)
}

type messageItem struct {
	PK             string                 `dynamodbav:"PK"`
	SK             string                 `dynamodbav:"SK"`
	EntityType     string                 `dynamodbav:"EntityType"`
	MessageID      string                 `dynamodbav:"MessageID"`
	ConversationID string                 `dynamodbav:"ConversationID"`
	Role           string                 `dynamodbav:"Role"`
	Kind           string                 `dynamodbav:"Kind"`
	Content        string                 `dynamodbav:"Content"`
	Metadata       map[string]interface{} `dynamodbav:"Metadata,omitempty"`
	CreatedAt      string                 `dynamodbav:"CreatedAt"`
}

func newMessageItem(userID string, m *entities.Message) messageItem {
	return messageItem{
		PK:             conversationPK(userID, m.ConversationID.String()),
		SK:             messageSK(m.CreatedAt, m.ID.String()),
		EntityType:     entityMessage,
		MessageID:      m.ID.String(),
		ConversationID: m.ConversationID.String(),
		Role:           string(m.Role),
		Kind:           string(m.Kind),
		Content:        m.Content,
		Metadata:       m.Metadata,
		CreatedAt:      formatTime(m.CreatedAt),
	}
}

func (i messageItem) toEntity() *entities.Message {
	return &entities.Message{
		ID:             valueobjects.MessageID(i.MessageID),
		ConversationID: valueobjects.ConversationID(i.ConversationID),
		Role:           entities.MessageRole(i.Role),
		Kind:           entities.MessageKind(i.Kind),
		Content:        i.Content,
		Metadata:       i.Metadata,
		CreatedAt:      parseTime(i.CreatedAt),
	}
}

type noteItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	NoteID     string `dynamodbav:"NoteID"`
	UserID     string `dynamodbav:"UserID"`
	ParentID   string `dynamodbav:"ParentID,omitempty"`
	Content    string `dynamodbav:"Content"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func newNoteItem(n *entities.Note) noteItem {
	item := noteItem{
		PK:         userPK(n.UserID()),
		SK:         "NOTE#" + n.ID().String(),
		EntityType: entityNote,
		NoteID:     n.ID().String(),
		UserID:     n.UserID(),
		Content:    n.Content().String(),
		CreatedAt:  formatTime(n.CreatedAt()),
		UpdatedAt:  formatTime(n.UpdatedAt()),
	}
	if n.ParentID() != nil {
		item.ParentID = n.ParentID().String()
	}
	return item
}

func (i noteItem) toEntity() *entities.Note {
	var parentID *valueobjects.NoteID
	if i.ParentID != "" {
		p := valueobjects.NoteID(i.ParentID)
		parentID = &p
	}
	return entities.ReconstructNote(
		valueobjects.NoteID(i.NoteID), i.UserID, parentID,
		valueobjects.RestoreBoundedContent(i.Content),
		parseTime(i.CreatedAt), parseTime(i.UpdatedAt),
	)
}

type tagItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	TagID      string `dynamodbav:"TagID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	Color      string `dynamodbav:"Color"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func newTagItem(t *entities.Tag) tagItem {
	return tagItem{
		PK:         userPK(t.UserID),
		SK:         "TAG#" + t.ID.String(),
		EntityType: entityTag,
		TagID:      t.ID.String(),
		UserID:     t.UserID,
		Name:       t.Name,
		Color:      t.Color.String(),
		CreatedAt:  formatTime(t.CreatedAt),
	}
}

func (i tagItem) toEntity() (*entities.Tag, error) {
	color, err := valueobjects.NewTagColor(i.Color)
	if err != nil {
		return nil, err
	}
	return &entities.Tag{
		ID:        valueobjects.TagID(i.TagID),
		UserID:    i.UserID,
		Name:      i.Name,
		Color:     color,
		CreatedAt: parseTime(i.CreatedAt),
	}, nil
}

// tagLinkItem attaches a tag to a note or conversation
type tagLinkItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	TagID      string `dynamodbav:"TagID"`
	OwnerKind  string `dynamodbav:"OwnerKind"`
	OwnerID    string `dynamodbav:"OwnerID"`
}

// tagSetItem holds the version every tag replace on its owner must bump
type tagSetItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Version    int    `dynamodbav:"Version"`
}

type folderItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	FolderID   string `dynamodbav:"FolderID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

type settingsItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	DefaultAITool string `dynamodbav:"DefaultAITool"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}
