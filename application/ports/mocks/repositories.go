package mocks

import (
	"context"

	"tweetbloom/application/ports"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"

	"github.com/stretchr/testify/mock"
)

// MockConversationRepository is a testify mock of ports.ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Create(ctx context.Context, c *entities.Conversation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConversationRepository) GetByID(ctx context.Context, userID string, id valueobjects.ConversationID) (*entities.Conversation, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Conversation), args.Error(1)
}

func (m *MockConversationRepository) List(ctx context.Context, userID string, filter ports.ConversationFilter) ([]*entities.Conversation, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Conversation), args.Error(1)
}

func (m *MockConversationRepository) Update(ctx context.Context, c *entities.Conversation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConversationRepository) Delete(ctx context.Context, userID string, id valueobjects.ConversationID) error {
	return m.Called(ctx, userID, id).Error(0)
}

// MockMessageRepository is a testify mock of ports.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Append(ctx context.Context, userID string, msg *entities.Message) error {
	return m.Called(ctx, userID, msg).Error(0)
}

func (m *MockMessageRepository) AppendResponse(ctx context.Context, userID string, msg *entities.Message, turnCap int) (int, error) {
	args := m.Called(ctx, userID, msg, turnCap)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageRepository) ListByConversation(ctx context.Context, userID string, id valueobjects.ConversationID) ([]*entities.Message, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Message), args.Error(1)
}

func (m *MockMessageRepository) CountResponses(ctx context.Context, userID string, id valueobjects.ConversationID) (int, error) {
	args := m.Called(ctx, userID, id)
	return args.Int(0), args.Error(1)
}

// MockNoteRepository is a testify mock of ports.NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, n *entities.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, userID string, id valueobjects.NoteID) (*entities.Note, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *MockNoteRepository) List(ctx context.Context, userID string) ([]*entities.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *MockNoteRepository) ListChildren(ctx context.Context, userID string, parentID valueobjects.NoteID) ([]*entities.Note, error) {
	args := m.Called(ctx, userID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, n *entities.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, userID string, id valueobjects.NoteID) error {
	return m.Called(ctx, userID, id).Error(0)
}

// MockTagRepository is a testify mock of ports.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Create(ctx context.Context, t *entities.Tag) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTagRepository) GetByID(ctx context.Context, userID string, id valueobjects.TagID) (*entities.Tag, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context, userID string) ([]*entities.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Tag), args.Error(1)
}

func (m *MockTagRepository) Update(ctx context.Context, t *entities.Tag) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, userID string, id valueobjects.TagID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockTagRepository) SetTags(ctx context.Context, userID string, owner entities.TagOwner, tagIDs []valueobjects.TagID) error {
	return m.Called(ctx, userID, owner, tagIDs).Error(0)
}

func (m *MockTagRepository) ListTagIDs(ctx context.Context, userID string, owner entities.TagOwner) ([]valueobjects.TagID, error) {
	args := m.Called(ctx, userID, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]valueobjects.TagID), args.Error(1)
}

// MockFolderRepository is a testify mock of ports.FolderRepository
type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Create(ctx context.Context, f *entities.Folder) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFolderRepository) GetByID(ctx context.Context, userID string, id valueobjects.FolderID) (*entities.Folder, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Folder), args.Error(1)
}

func (m *MockFolderRepository) List(ctx context.Context, userID string) ([]*entities.Folder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Folder), args.Error(1)
}

func (m *MockFolderRepository) Update(ctx context.Context, f *entities.Folder) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFolderRepository) Delete(ctx context.Context, userID string, id valueobjects.FolderID) error {
	return m.Called(ctx, userID, id).Error(0)
}

// MockSettingsRepository is a testify mock of ports.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, userID string) (*entities.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *entities.UserSettings) error {
	return m.Called(ctx, s).Error(0)
}
