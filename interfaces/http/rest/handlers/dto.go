package handlers

import (
	"time"

	"tweetbloom/application/services"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

// SubmitTurnRequest is the body of POST /conversations
type SubmitTurnRequest struct {
	Prompt         string `json:"prompt" validate:"required,max=1200,maxwords=150"`
	ConversationID string `json:"conversationId,omitempty" validate:"omitempty,uuid"`
	AITool         string `json:"aiTool,omitempty" validate:"omitempty,oneof=GEMINI CHATGPT GROK"`
	BypassGate     bool   `json:"bypassGate,omitempty"`
}

// UpdateConversationRequest is the body of PATCH /conversations/{id}.
// An empty folderId detaches the conversation; tagIds replaces the tag set.
type UpdateConversationRequest struct {
	Title    *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	FolderID *string   `json:"folderId,omitempty"`
	TagIDs   *[]string `json:"tagIds,omitempty"`
}

// EvaluateRequest is the body of POST /conversations/evaluate
type EvaluateRequest struct {
	ConversationID string `json:"conversationId" validate:"required,uuid"`
	MessageID      string `json:"messageId,omitempty" validate:"omitempty,uuid"`
}

// ConversationRefRequest names one conversation
type ConversationRefRequest struct {
	ConversationID string `json:"conversationId" validate:"required,uuid"`
}

// CreateNoteRequest is the body of POST /notes
type CreateNoteRequest struct {
	Content  string   `json:"content" validate:"required,max=1200,maxwords=150"`
	ParentID string   `json:"parentId,omitempty" validate:"omitempty,uuid"`
	TagIDs   []string `json:"tagIds,omitempty" validate:"omitempty,max=50,dive,uuid"`
}

// UpdateNoteRequest is the body of PATCH /notes/{id}. An empty parentId
// moves the note to the root.
type UpdateNoteRequest struct {
	Content  *string   `json:"content,omitempty" validate:"omitempty,max=1200,maxwords=150"`
	ParentID *string   `json:"parentId,omitempty"`
	TagIDs   *[]string `json:"tagIds,omitempty"`
}

// CombineNotesRequest is the body of POST /notes/combine
type CombineNotesRequest struct {
	NoteIDs []string `json:"noteIds" validate:"required,max=50,dive,uuid"`
}

// CreateTagRequest is the body of POST /tags
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"required,hexcolor6"`
}

// UpdateTagRequest is the body of PATCH /tags/{id}
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor6"`
}

// FolderRequest is the body of POST /folders and PATCH /folders/{id}
type FolderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// SettingsRequest is the body of PUT /settings
type SettingsRequest struct {
	DefaultAITool string `json:"defaultAiTool" validate:"required,oneof=GEMINI CHATGPT GROK"`
}

// ConversationResponse is a conversation without its messages
type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AITool    string    `json:"aiTool"`
	FolderID  *string   `json:"folderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageResponse is one conversation entry
type MessageResponse struct {
	ID        string                 `json:"id"`
	Role      string                 `json:"role"`
	Type      string                 `json:"type"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ConversationDetailResponse is a conversation with messages, tags and cap state
type ConversationDetailResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
	TagIDs   []string          `json:"tagIds"`
	entities.TurnState
}

// EvaluateResponse carries the next-prompt suggestion
type EvaluateResponse struct {
	Suggestion string `json:"suggestion"`
	Reasoning  string `json:"reasoning"`
}

// ContinueResponse carries the synthesized opening prompt
type ContinueResponse struct {
	NewPrompt string `json:"new_prompt"`
}

// NoteResponse is a note with its tag IDs
type NoteResponse struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parentId"`
	Content   string    `json:"content"`
	TagIDs    []string  `json:"tagIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TagResponse is a tag
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// FolderResponse is a folder
type FolderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SettingsResponse carries the user's preferences
type SettingsResponse struct {
	DefaultAITool string `json:"defaultAiTool"`
}

func toConversationResponse(c *entities.Conversation) ConversationResponse {
	resp := ConversationResponse{
		ID:        c.ID().String(),
		Title:     c.Title(),
		AITool:    c.AITool().String(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
	if f := c.FolderID(); f != nil {
		s := f.String()
		resp.FolderID = &s
	}
	return resp
}

func toConversationDetail(d *services.ConversationDetail) ConversationDetailResponse {
	msgs := make([]MessageResponse, 0, len(d.Messages))
	for _, m := range d.Messages {
		msgs = append(msgs, MessageResponse{
			ID:        m.ID.String(),
			Role:      string(m.Role),
			Type:      string(m.Kind),
			Content:   m.Content,
			Metadata:  m.Metadata,
			CreatedAt: m.CreatedAt,
		})
	}
	return ConversationDetailResponse{
		ConversationResponse: toConversationResponse(d.Conversation),
		Messages:             msgs,
		TagIDs:               tagIDStrings(d.TagIDs),
		TurnState:            d.State,
	}
}

func toNoteResponse(v *services.NoteView) NoteResponse {
	n := v.Note
	resp := NoteResponse{
		ID:        n.ID().String(),
		Content:   n.Content().String(),
		TagIDs:    tagIDStrings(v.TagIDs),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
	if p := n.ParentID(); p != nil {
		s := p.String()
		resp.ParentID = &s
	}
	return resp
}

func toTagResponse(t *entities.Tag) TagResponse {
	return TagResponse{ID: t.ID.String(), Name: t.Name, Color: t.Color.String(), CreatedAt: t.CreatedAt}
}

func toFolderResponse(f *entities.Folder) FolderResponse {
	return FolderResponse{ID: f.ID.String(), Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}

func tagIDStrings(ids []valueobjects.TagID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
