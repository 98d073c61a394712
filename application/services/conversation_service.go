package services

import (
	"context"
	"errors"
	"strings"

	"tweetbloom/application/commands"
	"tweetbloom/application/ports"
	"tweetbloom/domain/config"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	"tweetbloom/domain/events"
	domainservices "tweetbloom/domain/services"
	pkgerrors "tweetbloom/pkg/errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TurnStatus tells the client whether it got an answer or a better prompt
type TurnStatus string

const (
	TurnStatusSuccess    TurnStatus = "success"
	TurnStatusSuggestion TurnStatus = "suggestion"
)

// TurnResult is the outcome of SubmitTurn
type TurnResult struct {
	Status         TurnStatus                  `json:"status"`
	Content        string                      `json:"content"`
	Reasoning      string                      `json:"reasoning,omitempty"`
	ConversationID valueobjects.ConversationID `json:"conversationId"`
	MessageID      valueobjects.MessageID      `json:"messageId"`
	entities.TurnState
}

// ConversationDetail is a conversation with its messages, tags and cap state
type ConversationDetail struct {
	Conversation *entities.Conversation
	Messages     []*entities.Message
	TagIDs       []valueobjects.TagID
	State        entities.TurnState
}

// ConversationService runs the capped conversation lifecycle
type ConversationService struct {
	conversations ports.ConversationRepository
	messages      ports.MessageRepository
	folders       ports.FolderRepository
	settings      ports.SettingsRepository
	tags          *TagService
	generators    ports.GeneratorRegistry
	gate          *PromptGate
	enforcer      *domainservices.ComplianceEnforcer
	publisher     ports.EventPublisher
	metrics       ports.Metrics
	cfg           *config.DomainConfig
	logger        *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	conversations ports.ConversationRepository,
	messages ports.MessageRepository,
	folders ports.FolderRepository,
	settings ports.SettingsRepository,
	tags *TagService,
	generators ports.GeneratorRegistry,
	gate *PromptGate,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ConversationService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		folders:       folders,
		settings:      settings,
		tags:          tags,
		generators:    generators,
		gate:          gate,
		enforcer:      domainservices.NewComplianceEnforcer(cfg),
		publisher:     publisher,
		metrics:       metrics,
		cfg:           cfg,
		logger:        logger,
	}
}

// SubmitTurn records a prompt and, unless the gate intercepts it, one model answer
func (s *ConversationService) SubmitTurn(ctx context.Context, cmd commands.SubmitTurnCommand) (*TurnResult, error) {
	ctx, end := startSpan(ctx, "ConversationService.SubmitTurn",
		attribute.Bool("turn.bypass_gate", cmd.BypassGate),
		attribute.Bool("turn.new_conversation", cmd.ConversationID == nil),
	)
	result, err := s.submitTurn(ctx, cmd)
	end(err)
	return result, err
}

func (s *ConversationService) submitTurn(ctx context.Context, cmd commands.SubmitTurnCommand) (*TurnResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	prompt, err := valueobjects.NewBoundedContentWithConfig(cmd.Prompt, s.cfg)
	if err != nil {
		return nil, err
	}

	conv, count, err := s.resolveConversation(ctx, cmd, prompt.String())
	if err != nil {
		return nil, err
	}

	userMsg := entities.NewUserText(conv.ID(), prompt.String())
	if err := s.messages.Append(ctx, cmd.UserID, userMsg); err != nil {
		return nil, err
	}

	if !cmd.BypassGate {
		eval, err := s.gate.EvaluatePrompt(ctx, prompt.String())
		if err != nil {
			s.metrics.RecordTurn("gate_error")
			return nil, err
		}
		if eval.Status == VerdictBad {
			return s.recordSuggestion(ctx, conv, prompt.String(), eval, count)
		}
	}

	return s.generateResponse(ctx, conv, userMsg, prompt.String())
}

// resolveConversation loads or creates the conversation and returns its
// current response count.
func (s *ConversationService) resolveConversation(ctx context.Context, cmd commands.SubmitTurnCommand, prompt string) (*entities.Conversation, int, error) {
	if cmd.ConversationID == nil {
		tool, err := s.chooseTool(ctx, cmd.UserID, cmd.AITool)
		if err != nil {
			return nil, 0, err
		}
		conv, err := entities.NewConversation(cmd.UserID, prompt, tool, s.cfg.TitleMaxRunes)
		if err != nil {
			return nil, 0, err
		}
		if err := s.conversations.Create(ctx, conv); err != nil {
			return nil, 0, err
		}
		s.publish(ctx, events.NewConversationCreated(conv.ID().String(), cmd.UserID, tool.String()))
		s.logger.Info("Conversation created",
			zap.String("conversationID", conv.ID().String()),
			zap.String("aiTool", tool.String()),
		)
		return conv, 0, nil
	}

	conv, err := s.conversations.GetByID(ctx, cmd.UserID, *cmd.ConversationID)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.messages.CountResponses(ctx, cmd.UserID, conv.ID())
	if err != nil {
		return nil, 0, err
	}
	if count >= s.cfg.TurnCap {
		s.metrics.RecordTurn("limit_reached")
		return nil, 0, pkgerrors.NewTurnLimitError(s.cfg.TurnCap)
	}
	return conv, count, nil
}

// chooseTool applies hint, then user settings, then the default
func (s *ConversationService) chooseTool(ctx context.Context, userID string, hint *valueobjects.AITool) (valueobjects.AITool, error) {
	if hint != nil {
		return *hint, nil
	}
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if settings != nil && settings.DefaultAITool.IsValid() {
		return settings.DefaultAITool, nil
	}
	return valueobjects.DefaultAITool, nil
}

func (s *ConversationService) recordSuggestion(ctx context.Context, conv *entities.Conversation, prompt string, eval Evaluation, count int) (*TurnResult, error) {
	content := eval.Suggestion
	if content == "" {
		content = prompt
	}
	msg := entities.NewSuggestion(conv.ID(), content, map[string]interface{}{
		"reasoning":       eval.Reasoning,
		"original_prompt": prompt,
	})
	if err := s.messages.Append(ctx, conv.UserID(), msg); err != nil {
		return nil, err
	}
	s.touch(ctx, conv)

	s.metrics.RecordTurn("gated")
	s.publish(ctx, events.NewTurnGated(conv.ID().String(), conv.UserID(), msg.ID.String()))

	return &TurnResult{
		Status:         TurnStatusSuggestion,
		Content:        content,
		Reasoning:      eval.Reasoning,
		ConversationID: conv.ID(),
		MessageID:      msg.ID,
		TurnState:      entities.NewTurnState(count, s.cfg.TurnCap),
	}, nil
}

func (s *ConversationService) generateResponse(ctx context.Context, conv *entities.Conversation, userMsg *entities.Message, prompt string) (*TurnResult, error) {
	generator, err := s.generators.Get(conv.AITool())
	if err != nil {
		return nil, s.providerError(conv.AITool(), err)
	}

	history, err := s.dialogueHistory(ctx, conv, userMsg.ID)
	if err != nil {
		return nil, err
	}

	raw, err := generator.Generate(ctx, prompt, history)
	if err != nil {
		s.metrics.RecordTurn("provider_error")
		return nil, s.providerError(conv.AITool(), err)
	}
	if strings.TrimSpace(raw) == "" {
		s.metrics.RecordTurn("provider_error")
		return nil, pkgerrors.NewUpstreamProviderError(conv.AITool().String(), ports.ErrUpstream)
	}

	content, stats := s.enforcer.Enforce(raw)
	metadata := map[string]interface{}{"ai_tool": conv.AITool().String()}
	if stats.WasTruncated {
		metadata["truncation"] = stats
		s.metrics.RecordTruncation()
		s.logger.Debug("Response truncated",
			zap.String("conversationID", conv.ID().String()),
			zap.Int("originalWords", stats.OriginalWords),
			zap.Int("originalChars", stats.OriginalChars),
		)
	}

	resp := entities.NewResponse(conv.ID(), content, metadata)
	count, err := s.messages.AppendResponse(ctx, conv.UserID(), resp, s.cfg.TurnCap)
	if errors.Is(err, ports.ErrTurnCapReached) {
		s.metrics.RecordTurn("limit_reached")
		return nil, pkgerrors.NewTurnLimitError(s.cfg.TurnCap)
	}
	if err != nil {
		return nil, err
	}
	s.touch(ctx, conv)

	s.metrics.RecordTurn("success")
	s.publish(ctx, events.NewTurnCompleted(conv.ID().String(), conv.UserID(), resp.ID.String(), count, stats.WasTruncated))
	if count >= s.cfg.TurnCap {
		s.publish(ctx, events.NewConversationLimitReached(conv.ID().String(), conv.UserID(), s.cfg.TurnCap))
	}

	return &TurnResult{
		Status:         TurnStatusSuccess,
		Content:        content,
		ConversationID: conv.ID(),
		MessageID:      resp.ID,
		TurnState:      entities.NewTurnState(count, s.cfg.TurnCap),
	}, nil
}

// dialogueHistory returns prior user texts and model responses, oldest first
func (s *ConversationService) dialogueHistory(ctx context.Context, conv *entities.Conversation, exclude valueobjects.MessageID) ([]ports.Turn, error) {
	msgs, err := s.messages.ListByConversation(ctx, conv.UserID(), conv.ID())
	if err != nil {
		return nil, err
	}
	history := make([]ports.Turn, 0, len(msgs))
	for _, m := range msgs {
		if m.ID == exclude || !m.IsDialogue() {
			continue
		}
		history = append(history, toTurn(m))
	}
	return history, nil
}

// Continue drafts a prompt that carries a conversation into a fresh one
func (s *ConversationService) Continue(ctx context.Context, userID string, id valueobjects.ConversationID) (string, error) {
	conv, err := s.conversations.GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}
	history, err := s.dialogueHistory(ctx, conv, "")
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", pkgerrors.NewValidationError("conversation has no messages to continue from")
	}
	return s.gate.SynthesizeConversation(ctx, history), nil
}

// Evaluate suggests the next prompt from the most recent messages. When
// messageID is set the window ends at that message.
func (s *ConversationService) Evaluate(ctx context.Context, userID string, id valueobjects.ConversationID, messageID *valueobjects.MessageID) (Suggestion, error) {
	conv, err := s.conversations.GetByID(ctx, userID, id)
	if err != nil {
		return Suggestion{}, err
	}
	msgs, err := s.messages.ListByConversation(ctx, userID, conv.ID())
	if err != nil {
		return Suggestion{}, err
	}

	end := len(msgs)
	if messageID != nil {
		end = -1
		for i, m := range msgs {
			if m.ID == *messageID {
				end = i + 1
				break
			}
		}
		if end < 0 {
			return Suggestion{}, pkgerrors.NewNotFoundError("message")
		}
	}
	start := end - s.cfg.EvaluationWindow
	if start < 0 {
		start = 0
	}

	window := make([]ports.Turn, 0, end-start)
	for _, m := range msgs[start:end] {
		window = append(window, toTurn(m))
	}
	return s.gate.SuggestNextPrompt(ctx, window), nil
}

// Get returns a conversation with its messages, tags and cap flags
func (s *ConversationService) Get(ctx context.Context, userID string, id valueobjects.ConversationID) (*ConversationDetail, error) {
	conv, err := s.conversations.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tagIDs, err := s.tags.TagsOf(ctx, userID, entities.ConversationTagOwner(id))
	if err != nil {
		return nil, err
	}

	count := 0
	for _, m := range msgs {
		if m.CountsTowardCap() {
			count++
		}
	}
	return &ConversationDetail{
		Conversation: conv,
		Messages:     msgs,
		TagIDs:       tagIDs,
		State:        entities.NewTurnState(count, s.cfg.TurnCap),
	}, nil
}

// List returns the user's conversations, most recently active first
func (s *ConversationService) List(ctx context.Context, userID string, folderID *valueobjects.FolderID) ([]*entities.Conversation, error) {
	return s.conversations.List(ctx, userID, ports.ConversationFilter{FolderID: folderID})
}

// Update renames, refiles or retags a conversation
func (s *ConversationService) Update(ctx context.Context, cmd commands.UpdateConversationCommand) (*ConversationDetail, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	conv, err := s.conversations.GetByID(ctx, cmd.UserID, cmd.ConversationID)
	if err != nil {
		return nil, err
	}
	var resolved []valueobjects.TagID
	if cmd.TagIDs != nil {
		if resolved, err = s.tags.Resolve(ctx, cmd.UserID, *cmd.TagIDs); err != nil {
			return nil, err
		}
	}

	if cmd.Title != nil {
		if err := conv.Rename(*cmd.Title, s.cfg.MaxTitleLength); err != nil {
			return nil, err
		}
	}
	if cmd.FolderID != nil {
		if *cmd.FolderID == "" {
			conv.MoveToFolder(nil)
		} else {
			folderID, err := valueobjects.ParseFolderID(*cmd.FolderID)
			if err != nil {
				return nil, pkgerrors.NewValidationError(err.Error())
			}
			if _, err := s.folders.GetByID(ctx, cmd.UserID, folderID); err != nil {
				return nil, err
			}
			conv.MoveToFolder(&folderID)
		}
	}
	if cmd.Title != nil || cmd.FolderID != nil {
		if err := s.conversations.Update(ctx, conv); err != nil {
			return nil, err
		}
	}
	if cmd.TagIDs != nil {
		if err := s.tags.Replace(ctx, cmd.UserID, entities.ConversationTagOwner(conv.ID()), resolved); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, cmd.UserID, conv.ID())
}

// Delete removes a conversation with its messages and tag links
func (s *ConversationService) Delete(ctx context.Context, userID string, id valueobjects.ConversationID) error {
	if _, err := s.conversations.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.conversations.Delete(ctx, userID, id)
}

func (s *ConversationService) touch(ctx context.Context, conv *entities.Conversation) {
	conv.Touch()
	if err := s.conversations.Update(ctx, conv); err != nil {
		s.logger.Warn("Failed to bump conversation activity",
			zap.String("conversationID", conv.ID().String()),
			zap.Error(err),
		)
	}
}

func (s *ConversationService) providerError(tool valueobjects.AITool, err error) error {
	if pkgerrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, ports.ErrMissingCredential):
		return pkgerrors.NewProviderNotConfiguredError(tool.String(), err)
	case errors.Is(err, ports.ErrUnknownBackend):
		return pkgerrors.NewInternalError("AI backend is not registered").WithCause(err)
	default:
		return pkgerrors.NewUpstreamProviderError(tool.String(), err)
	}
}

func (s *ConversationService) publish(ctx context.Context, event events.DomainEvent) {
	publishEvent(ctx, s.publisher, s.logger, event)
}

func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish domain event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

func toTurn(m *entities.Message) ports.Turn {
	return ports.Turn{Role: string(m.Role), Content: m.Content}
}
