package service

import (
	"context"
	"encoding/json"

	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
)

type IMaintenanceService interface {
	ReembedMissing(ctx context.Context) (*dto.ReembedMissingResponse, error)
}

// maintenanceService sweeps for finalized entries that have no vector and
// schedules a re-embed job for each. Useful after a long provider outage or
// after restoring a database backup without the embeddings table.
type maintenanceService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewMaintenanceService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IMaintenanceService {
	return &maintenanceService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *maintenanceService) ReembedMissing(ctx context.Context) (*dto.ReembedMissingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries, err := uow.EntryRepository().FindAll(ctx,
		specification.ByStatus{Status: constant.EntryStatusFinalized},
		specification.WithoutEmbedding{},
	)
	if err != nil {
		return nil, err
	}

	scheduled := 0
	for _, entry := range entries {
		payload, err := json.Marshal(ReembedEntryJob{EntryId: entry.Id})
		if err != nil {
			continue
		}
		if err := s.publisherService.Publish(ctx, constant.TopicReembedEntry, payload); err != nil {
			s.logger.Error("service.maintenance", "failed to schedule re-embed job", map[string]interface{}{
				"entry_id": entry.Id.String(),
				"error":    err.Error(),
			})
			continue
		}
		scheduled++
	}

	s.logger.Info("service.maintenance", "re-embed sweep complete", map[string]interface{}{
		"scheduled": scheduled,
	})
	return &dto.ReembedMissingResponse{Scheduled: scheduled}, nil
}
