package service

import (
	"context"
	"encoding/json"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/internal/vector"
	"ai-journaling-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the re-embed worker. It picks up entries that were
// finalized without a vector and retries the embedding in the background.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	uowFactory   unitofwork.RepositoryFactory
	embedGateway *embedding.Gateway
	vectorStore  vector.Store
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	embedGateway *embedding.Gateway,
	vectorStore vector.Store,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		uowFactory:   uowFactory,
		embedGateway: embedGateway,
		vectorStore:  vectorStore,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, constant.TopicReembedEntry)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job ReembedEntryJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("service.consumer", "failed to unmarshal re-embed job", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed jobs would loop forever on Nack
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.EntryRepository().FindOne(ctx, specification.ByID{ID: job.EntryId})
	if err != nil {
		cs.logger.Error("service.consumer", "failed to load entry for re-embed", map[string]interface{}{
			"entry_id": job.EntryId.String(),
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}
	if entry == nil || !entry.IsFinalized() || entry.Summary == nil || entry.FinalizedAt == nil {
		// Deleted or never finalized; nothing to embed.
		msg.Ack()
		return
	}

	summaryVector, err := cs.embedGateway.Generate(ctx, *entry.Summary, constant.EmbedTaskDocument)
	if err != nil {
		cs.logger.Warn("service.consumer", "re-embed attempt failed", map[string]interface{}{
			"entry_id": entry.Id.String(),
			"error":    err.Error(),
		})
		if apperr.CodeOf(err) == apperr.CodeEmbeddingUnavailable {
			msg.Nack() // provider outage, redeliver
			return
		}
		msg.Ack() // auth/quota/invalid input will not heal on retry
		return
	}

	err = cs.vectorStore.Upsert(ctx, vector.Record{
		EntryId:     entry.Id,
		JournalId:   entry.JournalId,
		Vector:      summaryVector,
		FinalizedAt: *entry.FinalizedAt,
	})
	if err != nil {
		cs.logger.Error("service.consumer", "vector upsert failed during re-embed", map[string]interface{}{
			"entry_id": entry.Id.String(),
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("service.consumer", "entry re-embedded", map[string]interface{}{
		"entry_id": entry.Id.String(),
	})
	msg.Ack()
}
