package bulk

import (
	"context"
	"time"

	"github.com/goliatone/go-quizbox/internal/domain"
)

// Entity is the status projection a content kind exposes to the engine.
// Storage layers return fresh copies; strategies mutate them after a
// successful write so repeated ids in one batch observe the new state.
type Entity struct {
	ID        string
	Status    domain.ContentStatus
	UpdatedAt *time.Time

	deleted bool
}

// Deleted reports whether the entity was removed earlier in the batch.
func (e *Entity) Deleted() bool {
	return e != nil && e.deleted
}

func (e *Entity) markDeleted() {
	e.deleted = true
}

// Repository opens transactions against the storage backing one content kind.
type Repository interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx is the transactional surface the engine and strategies operate on.
// Rollback after Commit must be harmless.
type Tx interface {
	FindByIDs(ctx context.Context, ids []string) ([]*Entity, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContentStatus, at time.Time) error
	DeleteByID(ctx context.Context, id string) error
	Commit() error
	Rollback() error
}

// IDNormalizer is implemented by transactions whose storage treats several
// spellings of an id as the same record. The engine folds ids through it so
// every spelling in a batch shares one entity.
type IDNormalizer interface {
	NormalizeID(id string) string
}

// StatusCounter exposes the read-only counts used by StatusCounts.
type StatusCounter interface {
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status domain.ContentStatus) (int, error)
}
