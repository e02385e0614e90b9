package unitofwork

import (
	"context"

	"ai-journaling-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	JournalRepository() contract.JournalRepository
	EntryRepository() contract.EntryRepository
	MessageRepository() contract.MessageRepository
	EntryEmbeddingRepository() contract.EntryEmbeddingRepository
}
