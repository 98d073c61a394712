package events

import (
	"time"
)

// SourceBackend is the event source name used on the bus
const SourceBackend = "tweetbloom.backend"

// Event types
const (
	TypeConversationCreated      = "conversation.created"
	TypeTurnCompleted            = "turn.completed"
	TypeTurnGated                = "turn.gated"
	TypeConversationLimitReached = "conversation.limit_reached"
	TypeNoteCreated              = "note.created"
	TypeNotesCombined            = "notes.combined"
)

// DomainEvent is something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() string
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetUserID() string       { return e.UserID }

func newBase(aggregateID, eventType, userID string) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		UserID:      userID,
		Timestamp:   time.Now().UTC(),
	}
}

// ConversationCreated is raised when a first turn opens a conversation
type ConversationCreated struct {
	BaseEvent
	AITool string `json:"ai_tool"`
}

func NewConversationCreated(conversationID, userID, tool string) ConversationCreated {
	return ConversationCreated{BaseEvent: newBase(conversationID, TypeConversationCreated, userID), AITool: tool}
}

// TurnCompleted is raised when a model response is recorded
type TurnCompleted struct {
	BaseEvent
	MessageID     string `json:"message_id"`
	ResponseCount int    `json:"response_count"`
	Truncated     bool   `json:"truncated"`
}

func NewTurnCompleted(conversationID, userID, messageID string, responseCount int, truncated bool) TurnCompleted {
	return TurnCompleted{
		BaseEvent:     newBase(conversationID, TypeTurnCompleted, userID),
		MessageID:     messageID,
		ResponseCount: responseCount,
		Truncated:     truncated,
	}
}

// TurnGated is raised when the gate intercepts a prompt
type TurnGated struct {
	BaseEvent
	MessageID string `json:"message_id"`
}

func NewTurnGated(conversationID, userID, messageID string) TurnGated {
	return TurnGated{BaseEvent: newBase(conversationID, TypeTurnGated, userID), MessageID: messageID}
}

// ConversationLimitReached is raised by the response that fills the cap
type ConversationLimitReached struct {
	BaseEvent
	Limit int `json:"limit"`
}

func NewConversationLimitReached(conversationID, userID string, limit int) ConversationLimitReached {
	return ConversationLimitReached{BaseEvent: newBase(conversationID, TypeConversationLimitReached, userID), Limit: limit}
}

// NoteCreated is raised for every new note, including summaries
type NoteCreated struct {
	BaseEvent
	ParentID string `json:"parent_id,omitempty"`
	Origin   string `json:"origin"`
}

func NewNoteCreated(noteID, userID, parentID, origin string) NoteCreated {
	return NoteCreated{BaseEvent: newBase(noteID, TypeNoteCreated, userID), ParentID: parentID, Origin: origin}
}

// NotesCombined is raised when several notes are merged into a new root
type NotesCombined struct {
	BaseEvent
	SourceIDs []string `json:"source_ids"`
}

func NewNotesCombined(noteID, userID string, sourceIDs []string) NotesCombined {
	return NotesCombined{BaseEvent: newBase(noteID, TypeNotesCombined, userID), SourceIDs: sourceIDs}
}
