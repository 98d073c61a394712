package entities

import (
	"time"

	"tweetbloom/domain/core/valueobjects"
)

// MessageRole is who authored a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// MessageKind distinguishes prompts, gate suggestions and model answers
type MessageKind string

const (
	KindText       MessageKind = "text"
	KindSuggestion MessageKind = "suggestion"
	KindResponse   MessageKind = "response"
)

// Message is an append-only entry in a conversation
type Message struct {
	ID             valueobjects.MessageID
	ConversationID valueobjects.ConversationID
	Role           MessageRole
	Kind           MessageKind
	Content        string
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}

func newMessage(conversationID valueobjects.ConversationID, role MessageRole, kind MessageKind, content string, metadata map[string]interface{}) *Message {
	return &Message{
		ID:             valueobjects.NewMessageID(),
		ConversationID: conversationID,
		Role:           role,
		Kind:           kind,
		Content:        content,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewUserText records the user's prompt
func NewUserText(conversationID valueobjects.ConversationID, prompt string) *Message {
	return newMessage(conversationID, RoleUser, KindText, prompt, nil)
}

// NewSuggestion records a gate rewrite of a rejected prompt
func NewSuggestion(conversationID valueobjects.ConversationID, suggestion string, metadata map[string]interface{}) *Message {
	return newMessage(conversationID, RoleAssistant, KindSuggestion, suggestion, metadata)
}

// NewResponse records a model answer; it counts toward the turn cap
func NewResponse(conversationID valueobjects.ConversationID, content string, metadata map[string]interface{}) *Message {
	return newMessage(conversationID, RoleAssistant, KindResponse, content, metadata)
}

// CountsTowardCap reports whether the message is an assistant response
func (m *Message) CountsTowardCap() bool {
	return m.Role == RoleAssistant && m.Kind == KindResponse
}

// IsDialogue reports whether the message is part of the user/model exchange
// (user text or assistant response), as opposed to gate output.
func (m *Message) IsDialogue() bool {
	return (m.Role == RoleUser && m.Kind == KindText) || m.CountsTowardCap()
}

// IsValidRole reports whether r is a known role
func IsValidRole(r MessageRole) bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// IsValidKind reports whether k is a known kind
func IsValidKind(k MessageKind) bool {
	return k == KindText || k == KindSuggestion || k == KindResponse
}
