package services

import (
	"context"

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
	"golang.org/x/sync/errgroup"
)

// Note origins recorded on NoteCreated events and metrics
const (
	NoteOriginManual   = "manual"
	NoteOriginSummary  = "summary"
	NoteOriginCombined = "combine"
)

// NoteView is a note with its tag IDs
type NoteView struct {
	Note   *entities.Note
	TagIDs []valueobjects.TagID
}

// GeneratedNote is a note written by the gate backend
type GeneratedNote struct {
	NoteID  valueobjects.NoteID `json:"noteId"`
	Content string              `json:"content"`
}

// NoteService manages the note hierarchy and AI-generated notes
type NoteService struct {
	notes         ports.NoteRepository
	conversations ports.ConversationRepository
	messages      ports.MessageRepository
	tags          *TagService
	gate          *PromptGate
	enforcer      *domainservices.ComplianceEnforcer
	publisher     ports.EventPublisher
	metrics       ports.Metrics
	cfg           *config.DomainConfig
	logger        *zap.Logger
}

// NewNoteService creates a new note service
func NewNoteService(
	notes ports.NoteRepository,
	conversations ports.ConversationRepository,
	messages ports.MessageRepository,
	tags *TagService,
	gate *PromptGate,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *NoteService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{
		notes:         notes,
		conversations: conversations,
		messages:      messages,
		tags:          tags,
		gate:          gate,
		enforcer:      domainservices.NewComplianceEnforcer(cfg),
		publisher:     publisher,
		metrics:       metrics,
		cfg:           cfg,
		logger:        logger,
	}
}

// Create adds a note at the root or under an existing parent
func (s *NoteService) Create(ctx context.Context, cmd commands.CreateNoteCommand) (*NoteView, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	content, err := valueobjects.NewBoundedContentWithConfig(cmd.Content, s.cfg)
	if err != nil {
		return nil, err
	}

	if cmd.ParentID != nil {
		parent, err := s.notes.GetByID(ctx, cmd.UserID, *cmd.ParentID)
		if err != nil {
			return nil, err
		}
		depth, err := s.DepthOf(ctx, cmd.UserID, parent.ID())
		if err != nil {
			return nil, err
		}
		if err := domainservices.CheckPlacement(depth, 1, s.cfg.MaxNoteDepth); err != nil {
			return nil, err
		}
	}

	tagIDs := []valueobjects.TagID{}
	if len(cmd.TagIDs) > 0 {
		if tagIDs, err = s.tags.Resolve(ctx, cmd.UserID, cmd.TagIDs); err != nil {
			return nil, err
		}
	}

	note, err := entities.NewNote(cmd.UserID, content, cmd.ParentID)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	view := &NoteView{Note: note, TagIDs: tagIDs}
	if len(tagIDs) > 0 {
		if err := s.tags.Replace(ctx, cmd.UserID, entities.NoteTagOwner(note.ID()), tagIDs); err != nil {
			return nil, err
		}
	}

	s.recordCreated(ctx, note, NoteOriginManual)
	return view, nil
}

// Update edits the content, moves the note or replaces its tags
func (s *NoteService) Update(ctx context.Context, cmd commands.UpdateNoteCommand) (*NoteView, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	note, err := s.notes.GetByID(ctx, cmd.UserID, cmd.NoteID)
	if err != nil {
		return nil, err
	}

	var resolved []valueobjects.TagID
	if cmd.TagIDs != nil {
		if resolved, err = s.tags.Resolve(ctx, cmd.UserID, *cmd.TagIDs); err != nil {
			return nil, err
		}
	}

	changed := false
	if cmd.Content != nil {
		content, err := valueobjects.NewBoundedContentWithConfig(*cmd.Content, s.cfg)
		if err != nil {
			return nil, err
		}
		note.UpdateContent(content)
		changed = true
	}
	if cmd.ParentID != nil {
		if err := s.move(ctx, cmd.UserID, note, *cmd.ParentID); err != nil {
			return nil, err
		}
		changed = true
	}
	if changed {
		if err := s.notes.Update(ctx, note); err != nil {
			return nil, err
		}
	}

	owner := entities.NoteTagOwner(note.ID())
	if cmd.TagIDs != nil {
		if err := s.tags.Replace(ctx, cmd.UserID, owner, resolved); err != nil {
			return nil, err
		}
	}
	tagIDs, err := s.tags.TagsOf(ctx, cmd.UserID, owner)
	if err != nil {
		return nil, err
	}
	return &NoteView{Note: note, TagIDs: tagIDs}, nil
}

// move re-parents note; "" moves it to the root
func (s *NoteService) move(ctx context.Context, userID string, note *entities.Note, rawParent string) error {
	if rawParent == "" {
		return note.MoveTo(nil)
	}
	parentID, err := valueobjects.ParseNoteID(rawParent)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	if parentID == note.ID() {
		return pkgerrors.NewValidationError("a note cannot be its own parent")
	}
	parent, err := s.notes.GetByID(ctx, userID, parentID)
	if err != nil {
		return err
	}

	subtree, err := domainservices.SubtreeOf(ctx, note.ID(), s.childrenLookup(userID), s.cfg.MaxNoteDepth)
	if err != nil {
		return err
	}
	if subtree.Contains(parent.ID()) {
		return pkgerrors.NewValidationError("a note cannot be moved under its own descendant")
	}
	depth, err := s.DepthOf(ctx, userID, parent.ID())
	if err != nil {
		return err
	}
	if err := domainservices.CheckPlacement(depth, subtree.Height, s.cfg.MaxNoteDepth); err != nil {
		return err
	}
	return note.MoveTo(&parentID)
}

// Delete removes a note and all of its descendants
func (s *NoteService) Delete(ctx context.Context, userID string, id valueobjects.NoteID) error {
	if _, err := s.notes.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.notes.Delete(ctx, userID, id)
}

// List returns the user's notes with their tags
func (s *NoteService) List(ctx context.Context, userID string) ([]*NoteView, error) {
	notes, err := s.notes.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*NoteView, len(notes))
	for i, n := range notes {
		tagIDs, err := s.tags.TagsOf(ctx, userID, entities.NoteTagOwner(n.ID()))
		if err != nil {
			return nil, err
		}
		views[i] = &NoteView{Note: n, TagIDs: tagIDs}
	}
	return views, nil
}

// DepthOf returns the depth of a note; a root is at depth 1
func (s *NoteService) DepthOf(ctx context.Context, userID string, id valueobjects.NoteID) (int, error) {
	return domainservices.DepthOf(ctx, id, s.parentLookup(userID), s.cfg.MaxNoteDepth)
}

// Combine merges 2..7 distinct notes into a new root note
func (s *NoteService) Combine(ctx context.Context, userID string, noteIDs []valueobjects.NoteID) (*GeneratedNote, error) {
	ctx, end := startSpan(ctx, "NoteService.Combine", attribute.Int("notes.requested", len(noteIDs)))
	note, err := s.combine(ctx, userID, noteIDs)
	end(err)
	return note, err
}

func (s *NoteService) combine(ctx context.Context, userID string, noteIDs []valueobjects.NoteID) (*GeneratedNote, error) {
	ids := dedupeNoteIDs(noteIDs)
	if len(ids) < s.cfg.MinCombineNotes || len(ids) > s.cfg.MaxCombineNotes {
		return nil, pkgerrors.NewRangeError("noteIds", len(ids), s.cfg.MinCombineNotes, s.cfg.MaxCombineNotes)
	}

	contents := make([]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			note, err := s.notes.GetByID(gctx, userID, id)
			if err != nil {
				return err
			}
			contents[i] = note.Content().String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := s.gate.CombineNotes(ctx, contents)
	note, err := s.saveGenerated(ctx, userID, merged, NoteOriginCombined)
	if err != nil {
		return nil, err
	}

	sources := make([]string, len(ids))
	for i, id := range ids {
		sources[i] = id.String()
	}
	publishEvent(ctx, s.publisher, s.logger, events.NewNotesCombined(note.ID().String(), userID, sources))

	return &GeneratedNote{NoteID: note.ID(), Content: note.Content().String()}, nil
}

// Summarize turns a whole conversation into a new root note
func (s *NoteService) Summarize(ctx context.Context, userID string, conversationID valueobjects.ConversationID) (*GeneratedNote, error) {
	ctx, end := startSpan(ctx, "NoteService.Summarize")
	note, err := s.summarize(ctx, userID, conversationID)
	end(err)
	return note, err
}

func (s *NoteService) summarize(ctx context.Context, userID string, conversationID valueobjects.ConversationID) (*GeneratedNote, error) {
	if _, err := s.conversations.GetByID(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, pkgerrors.NewValidationError("conversation has no messages to summarize")
	}

	history := make([]ports.Turn, len(msgs))
	for i, m := range msgs {
		history[i] = toTurn(m)
	}
	summary := s.gate.SummarizeChat(ctx, history)

	note, err := s.saveGenerated(ctx, userID, summary, NoteOriginSummary)
	if err != nil {
		return nil, err
	}
	return &GeneratedNote{NoteID: note.ID(), Content: note.Content().String()}, nil
}

// saveGenerated truncates generated text to the content budget and stores it as a root note
func (s *NoteService) saveGenerated(ctx context.Context, userID, text, origin string) (*entities.Note, error) {
	truncated, stats := s.enforcer.Enforce(text)
	if stats.WasTruncated {
		s.metrics.RecordTruncation()
	}
	content, err := valueobjects.NewBoundedContentWithConfig(truncated, s.cfg)
	if err != nil {
		return nil, err
	}
	note, err := entities.NewNote(userID, content, nil)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	s.recordCreated(ctx, note, origin)
	return note, nil
}

func (s *NoteService) recordCreated(ctx context.Context, note *entities.Note, origin string) {
	parent := ""
	if p := note.ParentID(); p != nil {
		parent = p.String()
	}
	s.metrics.RecordNoteCreated(origin)
	publishEvent(ctx, s.publisher, s.logger, events.NewNoteCreated(note.ID().String(), note.UserID(), parent, origin))
	s.logger.Debug("Note created",
		zap.String("noteID", note.ID().String()),
		zap.String("origin", origin),
	)
}

func (s *NoteService) parentLookup(userID string) domainservices.ParentLookup {
	return func(ctx context.Context, id valueobjects.NoteID) (*valueobjects.NoteID, bool, error) {
		note, err := s.notes.GetByID(ctx, userID, id)
		if pkgerrors.IsNotFound(err) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return note.ParentID(), true, nil
	}
}

func (s *NoteService) childrenLookup(userID string) domainservices.ChildrenLookup {
	return func(ctx context.Context, id valueobjects.NoteID) ([]valueobjects.NoteID, error) {
		children, err := s.notes.ListChildren(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		ids := make([]valueobjects.NoteID, len(children))
		for i, c := range children {
			ids[i] = c.ID()
		}
		return ids, nil
	}
}

func dedupeNoteIDs(ids []valueobjects.NoteID) []valueobjects.NoteID {
	seen := make(map[valueobjects.NoteID]struct{}, len(ids))
	out := make([]valueobjects.NoteID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
