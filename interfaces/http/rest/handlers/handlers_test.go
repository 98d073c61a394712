package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tweetbloom/application/commands"
	"tweetbloom/application/services"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	"tweetbloom/pkg/auth"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUser = "user-123"

type mockConversations struct {
	mock.Mock
}

func (m *mockConversations) SubmitTurn(ctx context.Context, cmd commands.SubmitTurnCommand) (*services.TurnResult, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*services.TurnResult)
	return res, args.Error(1)
}

func (m *mockConversations) Continue(ctx context.Context, userID string, id valueobjects.ConversationID) (string, error) {
	args := m.Called(ctx, userID, id)
	return args.String(0), args.Error(1)
}

func (m *mockConversations) Evaluate(ctx context.Context, userID string, id valueobjects.ConversationID, messageID *valueobjects.MessageID) (services.Suggestion, error) {
	args := m.Called(ctx, userID, id, messageID)
	return args.Get(0).(services.Suggestion), args.Error(1)
}

func (m *mockConversations) Get(ctx context.Context, userID string, id valueobjects.ConversationID) (*services.ConversationDetail, error) {
	args := m.Called(ctx, userID, id)
	res, _ := args.Get(0).(*services.ConversationDetail)
	return res, args.Error(1)
}

func (m *mockConversations) List(ctx context.Context, userID string, folderID *valueobjects.FolderID) ([]*entities.Conversation, error) {
	args := m.Called(ctx, userID, folderID)
	res, _ := args.Get(0).([]*entities.Conversation)
	return res, args.Error(1)
}

func (m *mockConversations) Update(ctx context.Context, cmd commands.UpdateConversationCommand) (*services.ConversationDetail, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*services.ConversationDetail)
	return res, args.Error(1)
}

func (m *mockConversations) Delete(ctx context.Context, userID string, id valueobjects.ConversationID) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockNotes struct {
	mock.Mock
}

func (m *mockNotes) Create(ctx context.Context, cmd commands.CreateNoteCommand) (*services.NoteView, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*services.NoteView)
	return res, args.Error(1)
}

func (m *mockNotes) Update(ctx context.Context, cmd commands.UpdateNoteCommand) (*services.NoteView, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*services.NoteView)
	return res, args.Error(1)
}

func (m *mockNotes) Delete(ctx context.Context, userID string, id valueobjects.NoteID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockNotes) List(ctx context.Context, userID string) ([]*services.NoteView, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]*services.NoteView)
	return res, args.Error(1)
}

func (m *mockNotes) Combine(ctx context.Context, userID string, noteIDs []valueobjects.NoteID) (*services.GeneratedNote, error) {
	args := m.Called(ctx, userID, noteIDs)
	res, _ := args.Get(0).(*services.GeneratedNote)
	return res, args.Error(1)
}

func (m *mockNotes) Summarize(ctx context.Context, userID string, conversationID valueobjects.ConversationID) (*services.GeneratedNote, error) {
	args := m.Called(ctx, userID, conversationID)
	res, _ := args.Get(0).(*services.GeneratedNote)
	return res, args.Error(1)
}

type mockTags struct {
	mock.Mock
}

func (m *mockTags) Create(ctx context.Context, cmd commands.CreateTagCommand) (*entities.Tag, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*entities.Tag)
	return res, args.Error(1)
}

func (m *mockTags) List(ctx context.Context, userID string) ([]*entities.Tag, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]*entities.Tag)
	return res, args.Error(1)
}

func (m *mockTags) Update(ctx context.Context, cmd commands.UpdateTagCommand) (*entities.Tag, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*entities.Tag)
	return res, args.Error(1)
}

func (m *mockTags) Delete(ctx context.Context, userID string, id valueobjects.TagID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func errHandler() *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(zap.NewNop(), false)
}

// serve runs one request through a chi router so URL params resolve
func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req = req.WithContext(auth.SetUserInContext(req.Context(), &auth.UserContext{UserID: testUser}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) pkgerrors.ErrorResponse {
	t.Helper()
	var resp pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestConversationHandler_SubmitTurnValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"151 words", `{"prompt":"` + words(151) + `"}`},
		{"1201 characters", `{"prompt":"` + strings.Repeat("a", 1201) + `"}`},
		{"missing prompt", `{}`},
		{"empty body", ``},
		{"unknown field", `{"prompt":"hello there","extra":1}`},
		{"bad conversation id", `{"prompt":"hello there","conversationId":"nope"}`},
		{"unknown tool", `{"prompt":"hello there","aiTool":"CLAUDE"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockConversations)
			h := NewConversationHandler(svc, errHandler(), zap.NewNop())

			rec := serve(t, http.MethodPost, "/conversations", "/conversations", tt.body, h.SubmitTurn, true)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(pkgerrors.ErrorTypeValidation), decodeError(t, rec).Type)
			svc.AssertNotCalled(t, "SubmitTurn", mock.Anything, mock.Anything)
		})
	}
}

func TestConversationHandler_SubmitTurn(t *testing.T) {
	convID := valueobjects.NewConversationID()

	t.Run("success", func(t *testing.T) {
		svc := new(mockConversations)
		svc.On("SubmitTurn", mock.Anything, mock.MatchedBy(func(cmd commands.SubmitTurnCommand) bool {
			return cmd.UserID == testUser &&
				cmd.Prompt == words(150) &&
				cmd.ConversationID != nil && *cmd.ConversationID == convID &&
				cmd.AITool != nil && *cmd.AITool == valueobjects.AIToolGrok
		})).Return(&services.TurnResult{
			Status:         services.TurnStatusSuccess,
			Content:        "answer",
			ConversationID: convID,
			MessageID:      valueobjects.NewMessageID(),
			TurnState:      entities.NewTurnState(3, 7),
		}, nil)
		h := NewConversationHandler(svc, errHandler(), zap.NewNop())

		body := `{"prompt":"` + words(150) + `","conversationId":"` + convID.String() + `","aiTool":"GROK"}`
		rec := serve(t, http.MethodPost, "/conversations", "/conversations", body, h.SubmitTurn, true)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp["status"])
		assert.Equal(t, float64(3), resp["responseCount"])
		assert.Equal(t, true, resp["canOfferWhatNext"])
		assert.Equal(t, false, resp["hasReachedLimit"])
		svc.AssertExpectations(t)
	})

	t.Run("turn limit", func(t *testing.T) {
		svc := new(mockConversations)
		svc.On("SubmitTurn", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewTurnLimitError(7))
		h := NewConversationHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/conversations", "/conversations", `{"prompt":"one more question please"}`, h.SubmitTurn, true)

		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, pkgerrors.CodeTurnLimitReached, resp.Code)
		assert.Equal(t, true, resp.Details["canContinue"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		svc := new(mockConversations)
		svc.On("SubmitTurn", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewUpstreamProviderError("GEMINI", assert.AnError))
		h := NewConversationHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/conversations", "/conversations", `{"prompt":"explain the go scheduler"}`, h.SubmitTurn, true)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, pkgerrors.CodeUpstreamProvider, decodeError(t, rec).Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(mockConversations)
		h := NewConversationHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/conversations", "/conversations", `{"prompt":"hello"}`, h.SubmitTurn, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestConversationHandler_Evaluate(t *testing.T) {
	convID, msgID := valueobjects.NewConversationID(), valueobjects.NewMessageID()
	svc := new(mockConversations)
	svc.On("Evaluate", mock.Anything, testUser, convID, &msgID).
		Return(services.Suggestion{NewPrompt: "Ask about channels", Reasoning: "follow-up"}, nil)
	h := NewConversationHandler(svc, errHandler(), zap.NewNop())

	body := `{"conversationId":"` + convID.String() + `","messageId":"` + msgID.String() + `"}`
	rec := serve(t, http.MethodPost, "/conversations/evaluate", "/conversations/evaluate", body, h.Evaluate, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestion":"Ask about channels","reasoning":"follow-up"}`, rec.Body.String())
}

func TestConversationHandler_Continue(t *testing.T) {
	convID := valueobjects.NewConversationID()
	svc := new(mockConversations)
	svc.On("Continue", mock.Anything, testUser, convID).Return("Pick up where we left off", nil)
	h := NewConversationHandler(svc, errHandler(), zap.NewNop())

	rec := serve(t, http.MethodPost, "/conversations/continue", "/conversations/continue",
		`{"conversationId":"`+convID.String()+`"}`, h.Continue, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"new_prompt":"Pick up where we left off"}`, rec.Body.String())
}

func TestConversationHandler_UpdateAndDelete(t *testing.T) {
	conv, err := entities.NewConversation(testUser, "Old title", valueobjects.AIToolGemini, 50)
	require.NoError(t, err)
	tagID := valueobjects.NewTagID()

	svc := new(mockConversations)
	svc.On("Update", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateConversationCommand) bool {
		return cmd.ConversationID == conv.ID() &&
			cmd.Title != nil && *cmd.Title == "New title" &&
			cmd.FolderID != nil && *cmd.FolderID == "" &&
			cmd.TagIDs != nil && len(*cmd.TagIDs) == 1 && (*cmd.TagIDs)[0] == tagID
	})).Return(&services.ConversationDetail{Conversation: conv, State: entities.NewTurnState(7, 7)}, nil)
	svc.On("Delete", mock.Anything, testUser, conv.ID()).Return(nil)
	h := NewConversationHandler(svc, errHandler(), zap.NewNop())

	body := `{"title":"New title","folderId":"","tagIds":["` + tagID.String() + `","` + tagID.String() + `"]}`
	rec := serve(t, http.MethodPatch, "/conversations/{id}", "/conversations/"+conv.ID().String(), body, h.Update, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail ConversationDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.True(t, detail.HasReachedLimit)
	assert.Empty(t, detail.Messages)

	rec = serve(t, http.MethodDelete, "/conversations/{id}", "/conversations/"+conv.ID().String(), "", h.Delete, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, http.MethodDelete, "/conversations/{id}", "/conversations/not-a-uuid", "", h.Delete, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestNoteHandler_Create(t *testing.T) {
	t.Run("151 words rejected before the service", func(t *testing.T) {
		svc := new(mockNotes)
		h := NewNoteHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/notes", "/notes", `{"content":"`+words(151)+`"}`, h.Create, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("depth exceeded", func(t *testing.T) {
		parent := valueobjects.NewNoteID()
		svc := new(mockNotes)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(cmd commands.CreateNoteCommand) bool {
			return cmd.ParentID != nil && *cmd.ParentID == parent
		})).Return(nil, pkgerrors.NewDepthExceededError(3, 3))
		h := NewNoteHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/notes", "/notes", `{"content":"deep note","parentId":"`+parent.String()+`"}`, h.Create, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, pkgerrors.CodeNoteDepthExceeded, decodeError(t, rec).Code)
	})

	t.Run("created", func(t *testing.T) {
		content, err := valueobjects.NewBoundedContent("A short note")
		require.NoError(t, err)
		note, err := entities.NewNote(testUser, content, nil)
		require.NoError(t, err)
		svc := new(mockNotes)
		svc.On("Create", mock.Anything, mock.Anything).Return(&services.NoteView{Note: note}, nil)
		h := NewNoteHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/notes", "/notes", `{"content":"A short note"}`, h.Create, true)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp NoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, note.ID().String(), resp.ID)
		assert.Nil(t, resp.ParentID)
		assert.Equal(t, []string{}, resp.TagIDs)
	})
}

func TestNoteHandler_Combine(t *testing.T) {
	a, b := valueobjects.NewNoteID(), valueobjects.NewNoteID()

	t.Run("passes ids in order", func(t *testing.T) {
		svc := new(mockNotes)
		newID := valueobjects.NewNoteID()
		svc.On("Combine", mock.Anything, testUser, []valueobjects.NoteID{b, a}).
			Return(&services.GeneratedNote{NoteID: newID, Content: "merged"}, nil)
		h := NewNoteHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/notes/combine", "/notes/combine", `{"noteIds":["`+b.String()+`","`+a.String()+`"]}`, h.Combine, true)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"noteId":"`+newID.String()+`","content":"merged"}`, rec.Body.String())
	})

	t.Run("range error from the service", func(t *testing.T) {
		svc := new(mockNotes)
		svc.On("Combine", mock.Anything, testUser, []valueobjects.NoteID{a}).
			Return(nil, pkgerrors.NewRangeError("noteIds", 1, 2, 7))
		h := NewNoteHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/notes/combine", "/notes/combine", `{"noteIds":["`+a.String()+`"]}`, h.Combine, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, pkgerrors.CodeCombineRange, decodeError(t, rec).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := new(mockNotes)
		h := NewNoteHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPost, "/notes/combine", "/notes/combine", `{"noteIds":["x","y"]}`, h.Combine, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Combine", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNoteHandler_UpdateMovesToRoot(t *testing.T) {
	content, err := valueobjects.NewBoundedContent("child")
	require.NoError(t, err)
	note, err := entities.NewNote(testUser, content, nil)
	require.NoError(t, err)
	svc := new(mockNotes)
	svc.On("Update", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateNoteCommand) bool {
		return cmd.NoteID == note.ID() && cmd.ParentID != nil && *cmd.ParentID == "" && cmd.Content == nil && cmd.TagIDs == nil
	})).Return(&services.NoteView{Note: note}, nil)
	h := NewNoteHandler(svc, errHandler(), zap.NewNop())

	rec := serve(t, http.MethodPatch, "/notes/{id}", "/notes/"+note.ID().String(), `{"parentId":""}`, h.Update, true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestTagHandler_CreateColorValidation(t *testing.T) {
	tests := []struct {
		name   string
		color  string
		status int
	}{
		{"valid", "#FF5733", http.StatusCreated},
		{"missing hash", "FF5733", http.StatusBadRequest},
		{"too short", "#FF57", http.StatusBadRequest},
		{"not hex", "#GG5733", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockTags)
			tag, err := entities.NewTag(testUser, "work", "#FF5733", 50)
			require.NoError(t, err)
			svc.On("Create", mock.Anything, commands.CreateTagCommand{UserID: testUser, Name: "work", Color: tt.color}).
				Return(tag, nil).Maybe()
			h := NewTagHandler(svc, errHandler(), zap.NewNop())

			rec := serve(t, http.MethodPost, "/tags", "/tags", `{"name":"work","color":"`+tt.color+`"}`, h.Create, true)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusCreated {
				svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestTagHandler_NotFound(t *testing.T) {
	id := valueobjects.NewTagID()
	svc := new(mockTags)
	svc.On("Delete", mock.Anything, testUser, id).Return(pkgerrors.NewNotFoundError("tag"))
	h := NewTagHandler(svc, errHandler(), zap.NewNop())

	rec := serve(t, http.MethodDelete, "/tags/{id}", "/tags/"+id.String(), "", h.Delete, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type mockSettings struct {
	mock.Mock
}

func (m *mockSettings) Get(ctx context.Context, userID string) (*entities.UserSettings, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*entities.UserSettings)
	return s, args.Error(1)
}

func (m *mockSettings) UpdateDefaultAITool(ctx context.Context, userID string, tool valueobjects.AITool) (*entities.UserSettings, error) {
	args := m.Called(ctx, userID, tool)
	s, _ := args.Get(0).(*entities.UserSettings)
	return s, args.Error(1)
}

func TestSettingsHandler(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		svc := new(mockSettings)
		svc.On("Get", mock.Anything, testUser).
			Return(&entities.UserSettings{UserID: testUser, DefaultAITool: valueobjects.AIToolGemini}, nil)
		h := NewSettingsHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodGet, "/settings", "/settings", "", h.Get, true)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp SettingsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "GEMINI", resp.DefaultAITool)
	})

	t.Run("update", func(t *testing.T) {
		svc := new(mockSettings)
		svc.On("UpdateDefaultAITool", mock.Anything, testUser, valueobjects.AIToolGrok).
			Return(&entities.UserSettings{UserID: testUser, DefaultAITool: valueobjects.AIToolGrok}, nil)
		h := NewSettingsHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPut, "/settings", "/settings", `{"defaultAiTool":"GROK"}`, h.Update, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"defaultAiTool":"GROK"}`, rec.Body.String())
	})

	t.Run("unknown tool", func(t *testing.T) {
		svc := new(mockSettings)
		h := NewSettingsHandler(svc, errHandler(), zap.NewNop())

		rec := serve(t, http.MethodPut, "/settings", "/settings", `{"defaultAiTool":"CLAUDE"}`, h.Update, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateDefaultAITool", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requires a user", func(t *testing.T) {
		h := NewSettingsHandler(new(mockSettings), errHandler(), zap.NewNop())

		rec := serve(t, http.MethodGet, "/settings", "/settings", "", h.Get, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
