package service

import (
	"context"
	"testing"
	"time"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/conversation"
	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/implementation"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/internal/vector"
	"ai-journaling-be/pkg/embedding"
	"ai-journaling-be/pkg/llm"
	"ai-journaling-be/pkg/rag"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testDims = 3

type fakeEmbedProvider struct {
	calls int
	vec   []float32
	err   error
}

func (f *fakeEmbedProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeLLM struct {
	calls int
	reply string
	err   error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fixture struct {
	db           *gorm.DB
	pubSub       *gochannel.GoChannel
	embedder     *fakeEmbedProvider
	chatModel    *fakeLLM
	store        vector.Store
	journals     IJournalService
	conversation IConversationService
	maintenance  IMaintenanceService
	consumer     IConsumerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Journal{}, &model.Entry{}, &model.Message{}, &model.EntryEmbedding{},
	))

	uowFactory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()

	embedder := &fakeEmbedProvider{vec: []float32{1, 0, 0}}
	gateway := embedding.NewGateway(embedder, log, 1, time.Millisecond)

	store := vector.NewScanStore(implementation.NewEntryEmbeddingRepository(db), testDims)
	retriever := rag.NewRetriever(gateway, store, implementation.NewEntryRepository(db), log,
		rag.Options{TopK: 3, MinScore: 0.5}, time.Minute)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewPublisherService(pubSub)

	modelProvider := &fakeLLM{reply: "That sounds like a full day."}
	guard := conversation.NewGuard()

	return &fixture{
		db:           db,
		pubSub:       pubSub,
		embedder:     embedder,
		chatModel:    modelProvider,
		store:        store,
		journals:     NewJournalService(uowFactory, log),
		conversation: NewConversationService(uowFactory, guard, retriever, modelProvider, gateway, store, publisher, log),
		maintenance:  NewMaintenanceService(uowFactory, publisher, log),
		consumer:     NewConsumerService(pubSub, uowFactory, gateway, store, log),
	}
}

func (f *fixture) newJournal(t *testing.T, ragEnabled bool) uuid.UUID {
	t.Helper()
	res, err := f.journals.Create(context.Background(), &dto.CreateJournalRequest{
		Name:       "daily",
		RagEnabled: &ragEnabled,
	})
	require.NoError(t, err)
	return res.Id
}

func (f *fixture) startEntry(t *testing.T, journalId uuid.UUID) *dto.ConversationResponse {
	t.Helper()
	conv, err := f.conversation.StartEntry(context.Background(), &dto.StartEntryRequest{JournalId: journalId})
	require.NoError(t, err)
	return conv
}

func (f *fixture) vectorExists(t *testing.T, entryId uuid.UUID) bool {
	t.Helper()
	exists, err := implementation.NewEntryEmbeddingRepository(f.db).Exists(context.Background(), entryId)
	require.NoError(t, err)
	return exists
}

func TestStartEntrySeedsGreeting(t *testing.T) {
	f := newFixture(t)
	conv := f.startEntry(t, f.newJournal(t, true))

	assert.Equal(t, constant.EntryStatusDraft, conv.Status)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, constant.MessageRoleAssistant, conv.Messages[0].Role)
	assert.Equal(t, constant.EntryGreetingMessage, conv.Messages[0].Content)
}

func TestStartEntryUnknownJournal(t *testing.T) {
	f := newFixture(t)
	_, err := f.conversation.StartEntry(context.Background(), &dto.StartEntryRequest{JournalId: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestSubmitMessagePersistsBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, true))

	reply, err := f.conversation.SubmitMessage(ctx, &dto.SubmitMessageRequest{
		EntryId: conv.Id,
		Content: "Today I finally finished the garden fence.",
	})
	require.NoError(t, err)
	assert.Equal(t, constant.MessageRoleAssistant, reply.Role)
	assert.Equal(t, "That sounds like a full day.", reply.Content)

	loaded, err := f.conversation.ShowEntry(ctx, conv.Id)
	require.NoError(t, err)
	// greeting + user + assistant
	require.Len(t, loaded.Messages, 3)
	assert.Equal(t, constant.MessageRoleUser, loaded.Messages[1].Role)
	assert.Equal(t, constant.MessageRoleAssistant, loaded.Messages[2].Role)
}

func TestSubmitMessageEmptyContent(t *testing.T) {
	f := newFixture(t)
	conv := f.startEntry(t, f.newJournal(t, true))

	_, err := f.conversation.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		EntryId: conv.Id,
		Content: "   ",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
}

func TestSubmitMessageProviderFailureKeepsUserMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, false))

	f.chatModel.err = apperr.New(apperr.CodeNetworkError, "model offline")

	_, err := f.conversation.SubmitMessage(ctx, &dto.SubmitMessageRequest{
		EntryId: conv.Id,
		Content: "Rough morning.",
	})
	require.Error(t, err)

	loaded, err := f.conversation.ShowEntry(ctx, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.EntryStatusDraft, loaded.Status)
	require.Len(t, loaded.Messages, 3)
	assert.Equal(t, constant.MessageRoleUser, loaded.Messages[1].Role)
	assert.Equal(t, "Rough morning.", loaded.Messages[1].Content)
	assert.Equal(t, constant.MessageRoleSystemError, loaded.Messages[2].Role)
}

func TestSubmitMessageRagDisabledNeverEmbeds(t *testing.T) {
	f := newFixture(t)
	conv := f.startEntry(t, f.newJournal(t, false))

	_, err := f.conversation.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		EntryId: conv.Id,
		Content: "Quiet evening.",
	})
	require.NoError(t, err)
	assert.Zero(t, f.embedder.calls)
}

func TestFinishEntryRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, true))

	_, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfirmationRequired, apperr.CodeOf(err))

	loaded, err := f.conversation.ShowEntry(ctx, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.EntryStatusDraft, loaded.Status)
}

func TestFinishEntryFinalizesWithSummaryAndVector(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, true))

	_, err := f.conversation.SubmitMessage(ctx, &dto.SubmitMessageRequest{
		EntryId: conv.Id,
		Content: "I ran ten kilometers before breakfast.",
	})
	require.NoError(t, err)

	f.chatModel.reply = "You felt strong after a long morning run."

	res, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, constant.EntryStatusFinalized, res.Status)
	assert.Equal(t, "You felt strong after a long morning run.", res.Summary)
	assert.True(t, res.Embedded)
	assert.True(t, f.vectorExists(t, conv.Id))

	loaded, err := f.conversation.ShowEntry(ctx, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.EntryStatusFinalized, loaded.Status)
	require.NotNil(t, loaded.Summary)
	require.NotNil(t, loaded.FinalizedAt)
	// The summary lands as the closing assistant message.
	last := loaded.Messages[len(loaded.Messages)-1]
	assert.Equal(t, constant.MessageRoleAssistant, last.Role)
	assert.Equal(t, res.Summary, last.Content)
}

func TestFinishEntrySummaryFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, true))

	f.chatModel.err = apperr.New(apperr.CodeNetworkError, "model offline")

	_, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	require.Error(t, err)

	loaded, err := f.conversation.ShowEntry(ctx, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.EntryStatusDraft, loaded.Status)
	assert.Nil(t, loaded.Summary)
	// A diagnostic message explains the failed finish.
	last := loaded.Messages[len(loaded.Messages)-1]
	assert.Equal(t, constant.MessageRoleSystemError, last.Role)
}

func TestFinishEntryEmbedFailureFinalizesWithoutVector(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, true))

	f.embedder.err = apperr.New(apperr.CodeNetworkError, "embedder offline")

	res, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, constant.EntryStatusFinalized, res.Status)
	assert.False(t, res.Embedded)
	assert.False(t, f.vectorExists(t, conv.Id))
}

func TestFinishedEntryIsImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, true))

	_, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	require.NoError(t, err)

	_, err = f.conversation.SubmitMessage(ctx, &dto.SubmitMessageRequest{EntryId: conv.Id, Content: "one more thing"})
	assert.Equal(t, apperr.CodeEntryImmutable, apperr.CodeOf(err))

	_, err = f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	assert.Equal(t, apperr.CodeEntryImmutable, apperr.CodeOf(err))

	_, err = f.conversation.ResumeEntry(ctx, conv.Id)
	assert.Equal(t, apperr.CodeEntryImmutable, apperr.CodeOf(err))

	err = f.conversation.CancelEntry(ctx, &dto.CancelEntryRequest{EntryId: conv.Id, Confirmed: true})
	assert.Equal(t, apperr.CodeEntryImmutable, apperr.CodeOf(err))
}

func TestCancelEntryRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.startEntry(t, f.newJournal(t, true))

	err := f.conversation.CancelEntry(ctx, &dto.CancelEntryRequest{EntryId: conv.Id})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfirmationRequired, apperr.CodeOf(err))

	loaded, err := f.conversation.ShowEntry(ctx, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.EntryStatusDraft, loaded.Status)
}

func TestCancelEntryLeavesNothingBehind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	journalId := f.newJournal(t, true)
	conv := f.startEntry(t, journalId)

	_, err := f.conversation.SubmitMessage(ctx, &dto.SubmitMessageRequest{EntryId: conv.Id, Content: "never mind"})
	require.NoError(t, err)

	require.NoError(t, f.conversation.CancelEntry(ctx, &dto.CancelEntryRequest{EntryId: conv.Id, Confirmed: true}))

	_, err = f.conversation.ShowEntry(ctx, conv.Id)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	var msgCount int64
	require.NoError(t, f.db.Model(&model.Message{}).Where("entry_id = ?", conv.Id).Count(&msgCount).Error)
	assert.Zero(t, msgCount)
	assert.False(t, f.vectorExists(t, conv.Id))
}

func TestSearchFindsFinalizedEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	journalId := f.newJournal(t, true)
	conv := f.startEntry(t, journalId)

	f.chatModel.reply = "You were nervous about the interview."
	_, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	require.NoError(t, err)

	res, err := f.conversation.Search(ctx, &dto.SearchEntriesRequest{
		JournalId: journalId,
		Query:     "interview nerves",
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, conv.Id, res.Results[0].EntryId)
	assert.Equal(t, "You were nervous about the interview.", res.Results[0].Summary)
}

func TestReembedSweepRestoresMissingVector(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conv := f.startEntry(t, f.newJournal(t, true))

	f.embedder.err = apperr.New(apperr.CodeNetworkError, "embedder offline")
	_, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	require.NoError(t, err)
	require.False(t, f.vectorExists(t, conv.Id))

	// Provider comes back; the sweep schedules the job and the worker
	// fills in the missing vector.
	f.embedder.err = nil
	require.NoError(t, f.consumer.Consume(ctx))

	res, err := f.maintenance.ReembedMissing(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scheduled)

	assert.Eventually(t, func() bool {
		return f.vectorExists(t, conv.Id)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestListEntriesFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	journalId := f.newJournal(t, true)

	draft := f.startEntry(t, journalId)
	finalized := f.startEntry(t, journalId)
	_, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: finalized.Id, Confirmed: true})
	require.NoError(t, err)

	all, err := f.conversation.ListEntries(ctx, journalId, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drafts, err := f.conversation.ListEntries(ctx, journalId, constant.EntryStatusDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.Id, drafts[0].Id)

	_, err = f.conversation.ListEntries(ctx, journalId, "archived")
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
}

func TestJournalDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	journalId := f.newJournal(t, true)
	conv := f.startEntry(t, journalId)

	_, err := f.conversation.FinishEntry(ctx, &dto.FinishEntryRequest{EntryId: conv.Id, Confirmed: true})
	require.NoError(t, err)
	require.True(t, f.vectorExists(t, conv.Id))

	require.NoError(t, f.journals.Delete(ctx, journalId))

	var entryCount, msgCount, vecCount int64
	require.NoError(t, f.db.Model(&model.Entry{}).Where("journal_id = ?", journalId).Count(&entryCount).Error)
	require.NoError(t, f.db.Model(&model.Message{}).Count(&msgCount).Error)
	require.NoError(t, f.db.Model(&model.EntryEmbedding{}).Count(&vecCount).Error)
	assert.Zero(t, entryCount)
	assert.Zero(t, msgCount)
	assert.Zero(t, vecCount)
}
