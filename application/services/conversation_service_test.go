package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"tweetbloom/application/commands"
	"tweetbloom/application/ports"
	"tweetbloom/application/ports/mocks"
	"tweetbloom/domain/config"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUser = "user-123"

type conversationFixture struct {
	conversations *mocks.MockConversationRepository
	messages      *mocks.MockMessageRepository
	folders       *mocks.MockFolderRepository
	settings      *mocks.MockSettingsRepository
	tags          *mocks.MockTagRepository
	registry      *mocks.MockGeneratorRegistry
	gateGen       *mocks.MockTextGenerator
	chatGen       *mocks.MockTextGenerator
	publisher     *mocks.MockEventPublisher
	service       *ConversationService
}

func newConversationFixture(t *testing.T) *conversationFixture {
	t.Helper()
	f := &conversationFixture{
		conversations: new(mocks.MockConversationRepository),
		messages:      new(mocks.MockMessageRepository),
		folders:       new(mocks.MockFolderRepository),
		settings:      new(mocks.MockSettingsRepository),
		tags:          new(mocks.MockTagRepository),
		registry:      new(mocks.MockGeneratorRegistry),
		gateGen:       new(mocks.MockTextGenerator),
		chatGen:       new(mocks.MockTextGenerator),
		publisher:     new(mocks.MockEventPublisher),
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := config.DefaultDomainConfig()
	gate := NewPromptGate(f.gateGen, FailOpen, mocks.NopMetrics{}, nil)
	f.service = NewConversationService(
		f.conversations, f.messages, f.folders, f.settings,
		NewTagService(f.tags, cfg, nil),
		f.registry, gate, f.publisher, mocks.NopMetrics{}, cfg, nil,
	)
	return f
}

func (f *conversationFixture) assertExpectations(t *testing.T) {
	f.conversations.AssertExpectations(t)
	f.messages.AssertExpectations(t)
	f.registry.AssertExpectations(t)
	f.gateGen.AssertExpectations(t)
	f.chatGen.AssertExpectations(t)
}

func existingConversation(tool valueobjects.AITool) *entities.Conversation {
	now := time.Now().UTC()
	return entities.ReconstructConversation(
		valueobjects.NewConversationID(), testUser, "Existing", tool, nil, now, now, 1)
}

func isKind(kind entities.MessageKind) interface{} {
	return mock.MatchedBy(func(m *entities.Message) bool { return m.Kind == kind })
}

func TestSubmitTurn_VaguePromptIsGated(t *testing.T) {
	// Arrange
	f := newConversationFixture(t)
	f.settings.On("Get", mock.Anything, testUser).Return(entities.DefaultUserSettings(testUser), nil)
	f.conversations.On("Create", mock.Anything, mock.AnythingOfType("*entities.Conversation")).Return(nil)
	f.conversations.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.messages.On("Append", mock.Anything, testUser, isKind(entities.KindText)).Return(nil).Once()
	f.messages.On("Append", mock.Anything, testUser, mock.MatchedBy(func(m *entities.Message) bool {
		return m.Kind == entities.KindSuggestion &&
			m.Content == "Explain what kind of help you need with Go concurrency" &&
			m.Metadata["original_prompt"] == "help" &&
			m.Metadata["reasoning"] == "too vague"
	})).Return(nil).Once()
	f.gateGen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"status":"bad","suggestion":"Explain what kind of help you need with Go concurrency","reasoning":"too vague"}`, nil)

	// Act
	result, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{UserID: testUser, Prompt: "help"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, TurnStatusSuggestion, result.Status)
	assert.Equal(t, "too vague", result.Reasoning)
	assert.Equal(t, 0, result.ResponseCount)
	assert.False(t, result.HasReachedLimit)
	assert.False(t, result.CanOfferWhatNext)
	f.registry.AssertNotCalled(t, "Get", mock.Anything)
	f.messages.AssertNotCalled(t, "AppendResponse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestSubmitTurn_SuggestionFallsBackToPrompt(t *testing.T) {
	f := newConversationFixture(t)
	f.settings.On("Get", mock.Anything, testUser).Return(entities.DefaultUserSettings(testUser), nil)
	f.conversations.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.conversations.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.messages.On("Append", mock.Anything, testUser, isKind(entities.KindText)).Return(nil)
	f.messages.On("Append", mock.Anything, testUser, mock.MatchedBy(func(m *entities.Message) bool {
		return m.Kind == entities.KindSuggestion && m.Content == "hi"
	})).Return(nil)
	f.gateGen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(`{"status":"bad"}`, nil)

	result, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{UserID: testUser, Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "hi", result.Content)
}

func TestSubmitTurn_GoodPromptIncrementsCount(t *testing.T) {
	// Arrange
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGrok)
	prompt := "Explain how Go channels synchronise goroutines"

	prior := []*entities.Message{
		entities.NewUserText(conv.ID(), "What is Go?"),
		entities.NewSuggestion(conv.ID(), "ignored", nil),
		entities.NewResponse(conv.ID(), "A language.", nil),
	}

	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.conversations.On("Update", mock.Anything, conv).Return(nil)
	f.messages.On("CountResponses", mock.Anything, testUser, conv.ID()).Return(2, nil)
	f.messages.On("Append", mock.Anything, testUser, isKind(entities.KindText)).Return(nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return(prior, nil)
	f.gateGen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(`{"status":"good"}`, nil)
	f.registry.On("Get", valueobjects.AIToolGrok).Return(f.chatGen, nil)
	f.chatGen.On("Generate", mock.Anything, prompt, []ports.Turn{
		{Role: "user", Content: "What is Go?"},
		{Role: "assistant", Content: "A language."},
	}).Return("Channels block until both sides are ready.", nil)
	f.messages.On("AppendResponse", mock.Anything, testUser, mock.MatchedBy(func(m *entities.Message) bool {
		return m.CountsTowardCap() && m.Metadata["ai_tool"] == "GROK"
	}), 7).Return(3, nil)

	// Act
	id := conv.ID()
	result, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{
		UserID: testUser, Prompt: prompt, ConversationID: &id,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, TurnStatusSuccess, result.Status)
	assert.Equal(t, "Channels block until both sides are ready.", result.Content)
	assert.Equal(t, 3, result.ResponseCount)
	assert.True(t, result.CanOfferWhatNext)
	assert.False(t, result.HasReachedLimit)
	f.assertExpectations(t)
}

func TestSubmitTurn_TruncatesLongResponses(t *testing.T) {
	f := newConversationFixture(t)
	tool := valueobjects.AIToolChatGPT
	long := strings.Repeat("word ", 400)

	f.conversations.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.conversations.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.messages.On("Append", mock.Anything, testUser, mock.Anything).Return(nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, mock.Anything).Return([]*entities.Message{}, nil)
	f.registry.On("Get", tool).Return(f.chatGen, nil)
	f.chatGen.On("Generate", mock.Anything, mock.Anything, []ports.Turn{}).Return(long, nil)
	f.messages.On("AppendResponse", mock.Anything, testUser, mock.MatchedBy(func(m *entities.Message) bool {
		_, truncated := m.Metadata["truncation"]
		return truncated && valueobjects.CountWords(m.Content) <= 150
	}), 7).Return(1, nil)

	result, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{
		UserID: testUser, Prompt: "List many words please for testing", AITool: &tool, BypassGate: true,
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, valueobjects.CountWords(result.Content), 150)
	assert.LessOrEqual(t, valueobjects.CountChars(result.Content), 1200)
	f.settings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.gateGen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitTurn_AtCapIsRejectedBeforePersisting(t *testing.T) {
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGemini)
	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.messages.On("CountResponses", mock.Anything, testUser, conv.ID()).Return(7, nil)

	id := conv.ID()
	_, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{
		UserID: testUser, Prompt: "One more question about goroutines please", ConversationID: &id,
	})

	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	assert.Equal(t, pkgerrors.CodeTurnLimitReached, appErr.Code)
	assert.Equal(t, true, appErr.Details["canContinue"])
	f.messages.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitTurn_ConcurrentTurnFillsCap(t *testing.T) {
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGemini)
	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.messages.On("CountResponses", mock.Anything, testUser, conv.ID()).Return(6, nil)
	f.messages.On("Append", mock.Anything, testUser, mock.Anything).Return(nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return([]*entities.Message{}, nil)
	f.registry.On("Get", valueobjects.AIToolGemini).Return(f.chatGen, nil)
	f.chatGen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("answer", nil)
	f.messages.On("AppendResponse", mock.Anything, testUser, mock.Anything, 7).Return(0, ports.ErrTurnCapReached)

	id := conv.ID()
	_, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{
		UserID: testUser, Prompt: "anything", ConversationID: &id, BypassGate: true,
	})

	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeTurnLimitReached))
	f.conversations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSubmitTurn_ProviderErrors(t *testing.T) {
	tests := []struct {
		name       string
		registry   error
		generate   error
		wantStatus int
		wantCode   string
	}{
		{"upstream failure", nil, errors.New("connection reset"), http.StatusBadGateway, pkgerrors.CodeUpstreamProvider},
		{"missing credential", ports.ErrMissingCredential, nil, http.StatusServiceUnavailable, pkgerrors.CodeProviderNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConversationFixture(t)
			f.settings.On("Get", mock.Anything, testUser).Return(entities.DefaultUserSettings(testUser), nil)
			f.conversations.On("Create", mock.Anything, mock.Anything).Return(nil)
			f.messages.On("Append", mock.Anything, testUser, mock.Anything).Return(nil)
			f.messages.On("ListByConversation", mock.Anything, testUser, mock.Anything).Return([]*entities.Message{}, nil).Maybe()
			if tt.registry != nil {
				f.registry.On("Get", valueobjects.AIToolGemini).Return(nil, tt.registry)
			} else {
				f.registry.On("Get", valueobjects.AIToolGemini).Return(f.chatGen, nil)
				f.chatGen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", tt.generate)
			}

			_, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{
				UserID: testUser, Prompt: "Describe the Go scheduler", BypassGate: true,
			})

			appErr := pkgerrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
			assert.Equal(t, tt.wantCode, appErr.Code)
			f.messages.AssertNotCalled(t, "AppendResponse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitTurn_RejectsOversizedPrompt(t *testing.T) {
	f := newConversationFixture(t)
	_, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{
		UserID: testUser, Prompt: strings.Repeat("a ", 151),
	})
	assert.True(t, pkgerrors.IsValidation(err))
	f.conversations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitTurn_UsesSettingsDefaultTool(t *testing.T) {
	f := newConversationFixture(t)
	f.settings.On("Get", mock.Anything, testUser).Return(&entities.UserSettings{UserID: testUser, DefaultAITool: valueobjects.AIToolGrok}, nil)
	f.conversations.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Conversation) bool {
		return c.AITool() == valueobjects.AIToolGrok
	})).Return(nil)
	f.conversations.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.messages.On("Append", mock.Anything, testUser, mock.Anything).Return(nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, mock.Anything).Return([]*entities.Message{}, nil)
	f.registry.On("Get", valueobjects.AIToolGrok).Return(f.chatGen, nil)
	f.chatGen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)
	f.messages.On("AppendResponse", mock.Anything, testUser, mock.Anything, 7).Return(1, nil)

	_, err := f.service.SubmitTurn(context.Background(), commands.SubmitTurnCommand{
		UserID: testUser, Prompt: "Tell me about the Grok model family", BypassGate: true,
	})

	require.NoError(t, err)
	f.conversations.AssertExpectations(t)
}

func TestContinue(t *testing.T) {
	t.Run("synthesizes from dialogue only", func(t *testing.T) {
		f := newConversationFixture(t)
		conv := existingConversation(valueobjects.AIToolGemini)
		msgs := []*entities.Message{
			entities.NewUserText(conv.ID(), "q1"),
			entities.NewSuggestion(conv.ID(), "gate output", nil),
			entities.NewResponse(conv.ID(), "a1", nil),
		}
		f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
		f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return(msgs, nil)
		f.gateGen.On("Generate", mock.Anything, mock.MatchedBy(func(instruction string) bool {
			return strings.Contains(instruction, "user: q1\nassistant: a1") && !strings.Contains(instruction, "gate output")
		}), mock.Anything).Return("Carry on with q1", nil)

		got, err := f.service.Continue(context.Background(), testUser, conv.ID())

		require.NoError(t, err)
		assert.Equal(t, "Carry on with q1", got)
		f.conversations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("empty conversation is a validation error", func(t *testing.T) {
		f := newConversationFixture(t)
		conv := existingConversation(valueobjects.AIToolGemini)
		f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
		f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return([]*entities.Message{}, nil)

		_, err := f.service.Continue(context.Background(), testUser, conv.ID())
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("unknown conversation", func(t *testing.T) {
		f := newConversationFixture(t)
		id := valueobjects.NewConversationID()
		f.conversations.On("GetByID", mock.Anything, testUser, id).Return(nil, pkgerrors.NewNotFoundError("conversation"))

		_, err := f.service.Continue(context.Background(), testUser, id)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestEvaluate_WindowEndsAtMessage(t *testing.T) {
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGemini)

	var msgs []*entities.Message
	for i := 0; i < 14; i++ {
		msgs = append(msgs, entities.NewUserText(conv.ID(), "m"+string(rune('a'+i))))
	}
	target := msgs[11].ID

	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return(msgs, nil)
	f.gateGen.On("Generate", mock.Anything, mock.MatchedBy(func(instruction string) bool {
		// window is messages 2..11 inclusive
		return strings.Contains(instruction, "user: mc\n") &&
			strings.Contains(instruction, "user: ml") &&
			!strings.Contains(instruction, "user: mb") &&
			!strings.Contains(instruction, "user: mm")
	}), mock.Anything).Return(`{"new_prompt":"next","reasoning":"why"}`, nil)

	got, err := f.service.Evaluate(context.Background(), testUser, conv.ID(), &target)

	require.NoError(t, err)
	assert.Equal(t, Suggestion{NewPrompt: "next", Reasoning: "why"}, got)
	f.assertExpectations(t)
}

func TestEvaluate_UnknownMessage(t *testing.T) {
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGemini)
	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return([]*entities.Message{
		entities.NewUserText(conv.ID(), "hello"),
	}, nil)

	missing := valueobjects.NewMessageID()
	_, err := f.service.Evaluate(context.Background(), testUser, conv.ID(), &missing)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGet_DerivesFlags(t *testing.T) {
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGemini)
	var msgs []*entities.Message
	for i := 0; i < 7; i++ {
		msgs = append(msgs, entities.NewUserText(conv.ID(), "q"), entities.NewResponse(conv.ID(), "a", nil))
	}
	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return(msgs, nil)
	f.tags.On("ListTagIDs", mock.Anything, testUser, entities.ConversationTagOwner(conv.ID())).Return([]valueobjects.TagID{}, nil)

	detail, err := f.service.Get(context.Background(), testUser, conv.ID())

	require.NoError(t, err)
	assert.Equal(t, 7, detail.State.ResponseCount)
	assert.True(t, detail.State.HasReachedLimit)
	assert.False(t, detail.State.CanOfferWhatNext)
}

func TestUpdate_FolderMustExist(t *testing.T) {
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGemini)
	folderID := valueobjects.NewFolderID()
	raw := folderID.String()

	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.folders.On("GetByID", mock.Anything, testUser, folderID).Return(nil, pkgerrors.NewNotFoundError("folder"))

	_, err := f.service.Update(context.Background(), commands.UpdateConversationCommand{
		UserID: testUser, ConversationID: conv.ID(), FolderID: &raw,
	})

	assert.True(t, pkgerrors.IsNotFound(err))
	f.conversations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_UnknownTagLeavesConversationUntouched(t *testing.T) {
	f := newConversationFixture(t)
	conv := existingConversation(valueobjects.AIToolGemini)
	missing := valueobjects.NewTagID()
	title := "Renamed"
	tagIDs := []valueobjects.TagID{missing}

	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.tags.On("GetByID", mock.Anything, testUser, missing).Return(nil, pkgerrors.NewNotFoundError("tag"))

	_, err := f.service.Update(context.Background(), commands.UpdateConversationCommand{
		UserID: testUser, ConversationID: conv.ID(), Title: &title, TagIDs: &tagIDs,
	})

	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, "Existing", conv.Title())
	f.conversations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.tags.AssertNotCalled(t, "SetTags", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_DetachFolderAndRename(t *testing.T) {
	f := newConversationFixture(t)
	folderID := valueobjects.NewFolderID()
	now := time.Now().UTC()
	conv := entities.ReconstructConversation(valueobjects.NewConversationID(), testUser, "Old", valueobjects.AIToolGemini, &folderID, now, now, 1)
	empty, title := "", "Renamed"

	f.conversations.On("GetByID", mock.Anything, testUser, conv.ID()).Return(conv, nil)
	f.conversations.On("Update", mock.Anything, mock.MatchedBy(func(c *entities.Conversation) bool {
		return c.FolderID() == nil && c.Title() == "Renamed"
	})).Return(nil)
	f.messages.On("ListByConversation", mock.Anything, testUser, conv.ID()).Return([]*entities.Message{}, nil)
	f.tags.On("ListTagIDs", mock.Anything, testUser, mock.Anything).Return([]valueobjects.TagID{}, nil)

	detail, err := f.service.Update(context.Background(), commands.UpdateConversationCommand{
		UserID: testUser, ConversationID: conv.ID(), Title: &title, FolderID: &empty,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", detail.Conversation.Title())
	f.folders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	f.conversations.AssertExpectations(t)
}
