package service

import (
	"context"
	"time"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IJournalService interface {
	Create(ctx context.Context, req *dto.CreateJournalRequest) (*dto.CreateJournalResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowJournalResponse, error)
	List(ctx context.Context) (*dto.ListJournalResponse, error)
	Update(ctx context.Context, req *dto.UpdateJournalRequest) (*dto.UpdateJournalResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type journalService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewJournalService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IJournalService {
	return &journalService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *journalService) Create(ctx context.Context, req *dto.CreateJournalRequest) (*dto.CreateJournalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ragEnabled := true
	if req.RagEnabled != nil {
		ragEnabled = *req.RagEnabled
	}

	journal := entity.Journal{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		RagEnabled:  ragEnabled,
		CreatedAt:   time.Now(),
	}

	if err := uow.JournalRepository().Create(ctx, &journal); err != nil {
		return nil, err
	}

	return &dto.CreateJournalResponse{
		Id: journal.Id,
	}, nil
}

func (s *journalService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowJournalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, apperr.New(apperr.CodeNotFound, "journal not found")
	}

	entryCount, err := uow.EntryRepository().Count(ctx, specification.ByJournalID{JournalID: id})
	if err != nil {
		return nil, err
	}

	return &dto.ShowJournalResponse{
		Id:          journal.Id,
		Name:        journal.Name,
		Description: journal.Description,
		RagEnabled:  journal.RagEnabled,
		EntryCount:  entryCount,
		CreatedAt:   journal.CreatedAt,
		UpdatedAt:   journal.UpdatedAt,
	}, nil
}

func (s *journalService) List(ctx context.Context) (*dto.ListJournalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	journals, err := uow.JournalRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	items := make([]dto.ListJournalItem, len(journals))
	for i, journal := range journals {
		items[i] = dto.ListJournalItem{
			Id:          journal.Id,
			Name:        journal.Name,
			Description: journal.Description,
			RagEnabled:  journal.RagEnabled,
			CreatedAt:   journal.CreatedAt,
		}
	}

	return &dto.ListJournalResponse{Journals: items}, nil
}

// Update covers renames and the retrieval toggle. Turning retrieval off
// leaves stored vectors in place; they simply stop being queried.
func (s *journalService) Update(ctx context.Context, req *dto.UpdateJournalRequest) (*dto.UpdateJournalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, apperr.New(apperr.CodeNotFound, "journal not found")
	}

	journal.Name = req.Name
	journal.Description = req.Description
	if req.RagEnabled != nil {
		journal.RagEnabled = *req.RagEnabled
	}
	now := time.Now()
	journal.UpdatedAt = &now

	if err := uow.JournalRepository().Update(ctx, journal); err != nil {
		return nil, err
	}

	return &dto.UpdateJournalResponse{Id: journal.Id}, nil
}

// Delete removes the journal and everything hanging off it: entries,
// messages and stored vectors, in one transaction.
func (s *journalService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	journal, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if journal == nil {
		return apperr.New(apperr.CodeNotFound, "journal not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.EntryEmbeddingRepository().RemoveByJournalId(ctx, id); err != nil {
		return err
	}
	if err := uow.MessageRepository().DeleteByJournalId(ctx, id); err != nil {
		return err
	}
	if err := uow.EntryRepository().DeleteByJournalId(ctx, id); err != nil {
		return err
	}
	if err := uow.JournalRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("service.journal", "journal deleted with all entries", map[string]interface{}{
		"journal_id": id.String(),
	})
	return nil
}
