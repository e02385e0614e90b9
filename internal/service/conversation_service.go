package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/conversation"
	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/internal/vector"
	"ai-journaling-be/pkg/embedding"
	"ai-journaling-be/pkg/events"
	"ai-journaling-be/pkg/llm"
	"ai-journaling-be/pkg/rag"
	"ai-journaling-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

type IConversationService interface {
	StartEntry(ctx context.Context, req *dto.StartEntryRequest) (*dto.ConversationResponse, error)
	ShowEntry(ctx context.Context, entryId uuid.UUID) (*dto.ConversationResponse, error)
	ResumeEntry(ctx context.Context, entryId uuid.UUID) (*dto.ConversationResponse, error)
	SubmitMessage(ctx context.Context, req *dto.SubmitMessageRequest) (*dto.MessageResponse, error)
	FinishEntry(ctx context.Context, req *dto.FinishEntryRequest) (*dto.FinishEntryResponse, error)
	CancelEntry(ctx context.Context, req *dto.CancelEntryRequest) error
	ListEntries(ctx context.Context, journalId uuid.UUID, status string) ([]*dto.ConversationResponse, error)
	Search(ctx context.Context, req *dto.SearchEntriesRequest) (*dto.SearchEntriesResponse, error)
}

type conversationService struct {
	uowFactory       unitofwork.RepositoryFactory
	guard            *conversation.Guard
	retriever        *rag.Retriever
	llmProvider      llm.LLMProvider
	embedGateway     *embedding.Gateway
	vectorStore      vector.Store
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	guard *conversation.Guard,
	retriever *rag.Retriever,
	llmProvider llm.LLMProvider,
	embedGateway *embedding.Gateway,
	vectorStore vector.Store,
	publisherService IPublisherService,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:       uowFactory,
		guard:            guard,
		retriever:        retriever,
		llmProvider:      llmProvider,
		embedGateway:     embedGateway,
		vectorStore:      vectorStore,
		publisherService: publisherService,
		logger:           log,
	}
}

// StartEntry opens a fresh draft and seeds it with the greeting so the
// user never faces an empty screen.
func (s *conversationService) StartEntry(ctx context.Context, req *dto.StartEntryRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: req.JournalId})
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, apperr.New(apperr.CodeNotFound, "journal not found")
	}

	entry := &entity.Entry{
		Id:        uuid.New(),
		JournalId: journal.Id,
		Status:    constant.EntryStatusDraft,
		CreatedAt: time.Now(),
	}
	greeting := &entity.Message{
		Id:        uuid.New(),
		EntryId:   entry.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   constant.EntryGreetingMessage,
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.EntryRepository().Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := uow.MessageRepository().Create(ctx, greeting); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return s.toConversationResponse(entry, []*entity.Message{greeting}), nil
}

func (s *conversationService) ShowEntry(ctx context.Context, entryId uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, messages, err := s.loadConversation(ctx, uow, entryId)
	if err != nil {
		return nil, err
	}
	return s.toConversationResponse(entry, messages), nil
}

// ResumeEntry reopens a draft for more conversation. Finalized entries can
// be read through ShowEntry but never resumed.
func (s *conversationService) ResumeEntry(ctx context.Context, entryId uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, messages, err := s.loadConversation(ctx, uow, entryId)
	if err != nil {
		return nil, err
	}
	if entry.IsFinalized() {
		return nil, apperr.New(apperr.CodeEntryImmutable, "finalized entries cannot be resumed")
	}
	return s.toConversationResponse(entry, messages), nil
}

// SubmitMessage runs one conversational turn. The user and assistant
// messages are persisted together only once generation definitively
// returns; a cancelled or timed-out turn leaves no trace.
func (s *conversationService) SubmitMessage(ctx context.Context, req *dto.SubmitMessageRequest) (*dto.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "message content cannot be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, history, err := s.loadConversation(ctx, uow, req.EntryId)
	if err != nil {
		return nil, err
	}
	if entry.IsFinalized() {
		return nil, apperr.New(apperr.CodeEntryImmutable, "entry is finalized and accepts no new messages")
	}

	if err := s.guard.Acquire(entry.Id); err != nil {
		return nil, err
	}
	defer s.guard.Release(entry.Id)

	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: entry.JournalId})
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, apperr.Newf(apperr.CodeStoreInconsistency, "entry %s references missing journal %s", entry.Id, entry.JournalId)
	}

	contextItems := s.retriever.Retrieve(ctx, journal, content)
	turn := prompt.NewTurnBuilder(contextItems, history, content).Build()

	reply, genErr := s.llmProvider.Chat(ctx, turn)
	if genErr != nil {
		if ctx.Err() != nil {
			// The user walked away mid-turn; keep the conversation as it was.
			return nil, ctx.Err()
		}
		if persistErr := s.persistFailedTurn(ctx, uow, entry.Id, content, genErr); persistErr != nil {
			s.logger.Error("service.conversation", "failed to record failed turn", map[string]interface{}{
				"entry_id": entry.Id.String(),
				"error":    persistErr.Error(),
			})
		}
		return nil, genErr
	}

	userMsg := &entity.Message{
		Id:        uuid.New(),
		EntryId:   entry.Id,
		Role:      constant.MessageRoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	assistantMsg := &entity.Message{
		Id:        uuid.New(),
		EntryId:   entry.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()
	if err := uow.MessageRepository().CreateBulk(ctx, []*entity.Message{userMsg, assistantMsg}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{
		Id:        assistantMsg.Id,
		Role:      assistantMsg.Role,
		Content:   assistantMsg.Content,
		CreatedAt: assistantMsg.CreatedAt,
	}, nil
}

// persistFailedTurn records the user message plus a diagnostic so the user
// can see their words were received even though generation failed.
func (s *conversationService) persistFailedTurn(ctx context.Context, uow unitofwork.UnitOfWork, entryId uuid.UUID, content string, genErr error) error {
	userMsg := &entity.Message{
		Id:        uuid.New(),
		EntryId:   entryId,
		Role:      constant.MessageRoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	errorMsg := newSystemErrorMessage(entryId,
		"The assistant could not respond. Your message was saved; you can try again.", genErr)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()
	if err := uow.MessageRepository().CreateBulk(ctx, []*entity.Message{userMsg, errorMsg}); err != nil {
		return err
	}
	return uow.Commit()
}

// persistSystemError appends a lone diagnostic message to a draft.
func (s *conversationService) persistSystemError(ctx context.Context, uow unitofwork.UnitOfWork, entryId uuid.UUID, text string, cause error) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()
	if err := uow.MessageRepository().Create(ctx, newSystemErrorMessage(entryId, text, cause)); err != nil {
		return err
	}
	return uow.Commit()
}

func newSystemErrorMessage(entryId uuid.UUID, text string, cause error) *entity.Message {
	return &entity.Message{
		Id:      uuid.New(),
		EntryId: entryId,
		Role:    constant.MessageRoleSystemError,
		Content: text,
		Metadata: map[string]interface{}{
			"error_code": string(apperr.CodeOf(cause)),
		},
		CreatedAt: time.Now(),
	}
}

// FinishEntry closes a draft: the model writes a summary, the summary is
// appended to the conversation, and the entry flips to finalized in the
// same transaction. Embedding failures never block finalization; the entry
// is finalized without a vector and a re-embed job is scheduled.
func (s *conversationService) FinishEntry(ctx context.Context, req *dto.FinishEntryRequest) (*dto.FinishEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, history, err := s.loadConversation(ctx, uow, req.EntryId)
	if err != nil {
		return nil, err
	}
	if entry.IsFinalized() {
		return nil, apperr.New(apperr.CodeEntryImmutable, "entry is already finalized")
	}
	if !req.Confirmed {
		return nil, apperr.New(apperr.CodeConfirmationRequired, "finishing an entry is permanent and must be confirmed")
	}

	if err := s.guard.Acquire(entry.Id); err != nil {
		return nil, err
	}
	defer s.guard.Release(entry.Id)

	summary, err := s.llmProvider.Chat(ctx, prompt.BuildSummaryHistory(history))
	if err != nil {
		// The draft survives; a diagnostic message tells the user the finish
		// can be retried.
		if ctx.Err() == nil {
			if persistErr := s.persistSystemError(ctx, uow, entry.Id,
				"The entry could not be summarized. Your conversation is unchanged; you can try finishing again.", err); persistErr != nil {
				s.logger.Error("service.conversation", "failed to record summary failure", map[string]interface{}{
					"entry_id": entry.Id.String(),
					"error":    persistErr.Error(),
				})
			}
		}
		return nil, err
	}
	summary = strings.TrimSpace(summary)

	summaryVector, embedErr := s.embedGateway.Generate(ctx, summary, constant.EmbedTaskDocument)
	if embedErr != nil {
		s.logger.Warn("service.conversation", "summary embedding failed, finalizing without vector", map[string]interface{}{
			"entry_id": entry.Id.String(),
			"error":    embedErr.Error(),
		})
	}

	finalizedAt := time.Now()
	summaryMsg := &entity.Message{
		Id:        uuid.New(),
		EntryId:   entry.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   summary,
		Metadata:  map[string]interface{}{"kind": "summary"},
		CreatedAt: finalizedAt,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The summary message must land while the entry is still a draft; the
	// status flip in the same transaction then seals the conversation.
	if err := uow.MessageRepository().Create(ctx, summaryMsg); err != nil {
		return nil, err
	}
	entry.Status = constant.EntryStatusFinalized
	entry.Summary = &summary
	entry.FinalizedAt = &finalizedAt
	if err := uow.EntryRepository().Save(ctx, entry); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	embedded := false
	if embedErr == nil {
		err := s.vectorStore.Upsert(ctx, vector.Record{
			EntryId:     entry.Id,
			JournalId:   entry.JournalId,
			Vector:      summaryVector,
			FinalizedAt: finalizedAt,
		})
		if err != nil {
			s.logger.Error("service.conversation", "vector upsert failed after finalize", map[string]interface{}{
				"entry_id": entry.Id.String(),
				"error":    err.Error(),
			})
		} else {
			embedded = true
		}
	}
	if !embedded {
		s.scheduleReembed(ctx, entry.Id)
	}

	s.publishEntryFinalized(ctx, entry, embedded)

	return &dto.FinishEntryResponse{
		Id:       entry.Id,
		Status:   entry.Status,
		Summary:  summary,
		Embedded: embedded,
	}, nil
}

// CancelEntry discards a draft entirely. Cancelled entries leave nothing
// behind: no messages, no vector, no tombstone.
func (s *conversationService) CancelEntry(ctx context.Context, req *dto.CancelEntryRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.EntryRepository().FindOne(ctx, specification.ByID{ID: req.EntryId})
	if err != nil {
		return err
	}
	if entry == nil {
		return apperr.New(apperr.CodeNotFound, "entry not found")
	}
	if entry.IsFinalized() {
		return apperr.New(apperr.CodeEntryImmutable, "finalized entries cannot be cancelled")
	}
	if !req.Confirmed {
		return apperr.New(apperr.CodeConfirmationRequired, "cancelling an entry deletes it permanently and must be confirmed")
	}

	if err := s.guard.Acquire(entry.Id); err != nil {
		return err
	}
	defer s.guard.Release(entry.Id)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByEntryId(ctx, entry.Id); err != nil {
		return err
	}
	if err := uow.EntryEmbeddingRepository().Remove(ctx, entry.Id); err != nil {
		return err
	}
	if err := uow.EntryRepository().Delete(ctx, entry.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *conversationService) ListEntries(ctx context.Context, journalId uuid.UUID, status string) ([]*dto.ConversationResponse, error) {
	if status != "" && status != constant.EntryStatusDraft && status != constant.EntryStatusFinalized {
		return nil, apperr.Newf(apperr.CodeInvalidInput, "unknown entry status %q", status)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: journalId})
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, apperr.New(apperr.CodeNotFound, "journal not found")
	}

	specs := []specification.Specification{
		specification.ByJournalID{JournalID: journalId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}

	entries, err := uow.EntryRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ConversationResponse, len(entries))
	for i, entry := range entries {
		messages, err := s.loadMessages(ctx, uow, entry.Id)
		if err != nil {
			return nil, err
		}
		responses[i] = s.toConversationResponse(entry, messages)
	}
	return responses, nil
}

// Search finds past entries by meaning. Unlike turn-time retrieval it works
// regardless of the journal's retrieval toggle, and failures surface.
func (s *conversationService) Search(ctx context.Context, req *dto.SearchEntriesRequest) (*dto.SearchEntriesResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "search query cannot be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: req.JournalId})
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, apperr.New(apperr.CodeNotFound, "journal not found")
	}

	items, err := s.retriever.Search(ctx, journal.Id, query)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SearchResultItem, len(items))
	for i, item := range items {
		results[i] = dto.SearchResultItem{
			EntryId:     item.EntryId,
			Summary:     item.Summary,
			Score:       item.Score,
			FinalizedAt: item.FinalizedAt,
		}
	}
	return &dto.SearchEntriesResponse{Results: results}, nil
}

func (s *conversationService) loadConversation(ctx context.Context, uow unitofwork.UnitOfWork, entryId uuid.UUID) (*entity.Entry, []*entity.Message, error) {
	entry, err := uow.EntryRepository().FindOne(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return nil, nil, apperr.New(apperr.CodeNotFound, "entry not found")
	}

	messages, err := s.loadMessages(ctx, uow, entryId)
	if err != nil {
		return nil, nil, err
	}
	return entry, messages, nil
}

func (s *conversationService) loadMessages(ctx context.Context, uow unitofwork.UnitOfWork, entryId uuid.UUID) ([]*entity.Message, error) {
	return uow.MessageRepository().FindAll(ctx,
		specification.ByEntryID{EntryID: entryId},
		specification.OrderBy{Field: "created_at"},
		specification.OrderBy{Field: "id"},
	)
}

func (s *conversationService) toConversationResponse(entry *entity.Entry, messages []*entity.Message) *dto.ConversationResponse {
	msgResponses := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		msgResponses[i] = dto.MessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
	}
	return &dto.ConversationResponse{
		Id:          entry.Id,
		JournalId:   entry.JournalId,
		Status:      entry.Status,
		Summary:     entry.Summary,
		Messages:    msgResponses,
		CreatedAt:   entry.CreatedAt,
		FinalizedAt: entry.FinalizedAt,
	}
}

func (s *conversationService) scheduleReembed(ctx context.Context, entryId uuid.UUID) {
	payload, err := json.Marshal(ReembedEntryJob{EntryId: entryId})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, constant.TopicReembedEntry, payload); err != nil {
		s.logger.Error("service.conversation", "failed to schedule re-embed job", map[string]interface{}{
			"entry_id": entryId.String(),
			"error":    err.Error(),
		})
	}
}

func (s *conversationService) publishEntryFinalized(ctx context.Context, entry *entity.Entry, embedded bool) {
	evt := events.BaseEvent{
		Type: constant.TopicEntryFinalized,
		Data: map[string]interface{}{
			"entry_id":   entry.Id,
			"journal_id": entry.JournalId,
			"embedded":   embedded,
		},
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(evt.Payload())
	if err != nil {
		return
	}
	// Auxiliary event; failures are logged, never surfaced.
	if err := s.publisherService.Publish(ctx, constant.TopicEntryFinalized, payload); err != nil {
		s.logger.Warn("service.conversation", "failed to publish finalize event", map[string]interface{}{
			"entry_id": entry.Id.String(),
			"error":    err.Error(),
		})
	}
}
