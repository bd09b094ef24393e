package bulk_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/domain"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// recordingRepository wraps the memory repository, counting calls and
// injecting failures at the transaction boundary.
type recordingRepository struct {
	inner *bulk.MemoryRepository

	mu          sync.Mutex
	begins      int
	finds       int
	updates     int
	deletes     int
	commits     int
	rollbacks   int
	beginErr    error
	findErr     error
	commitErr   error
	rollbackErr error
	failUpdate  map[string]error
	failDelete  map[string]error
	panicOn     string
	honourCtx   bool
	lastFetch   []string
}

func newRecordingRepository(seed ...bulk.Entity) *recordingRepository {
	return &recordingRepository{
		inner:      bulk.NewMemoryRepository(seed...),
		failUpdate: map[string]error{},
		failDelete: map[string]error{},
	}
}

func (r *recordingRepository) BeginTx(ctx context.Context) (bulk.Tx, error) {
	r.mu.Lock()
	r.begins++
	r.mu.Unlock()
	if r.beginErr != nil {
		return nil, r.beginErr
	}
	tx, err := r.inner.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingTx{repo: r, inner: tx}, nil
}

type recordingTx struct {
	repo  *recordingRepository
	inner bulk.Tx
}

func (t *recordingTx) FindByIDs(ctx context.Context, ids []string) ([]*bulk.Entity, error) {
	t.repo.finds++
	t.repo.lastFetch = append([]string(nil), ids...)
	if t.repo.findErr != nil {
		return nil, t.repo.findErr
	}
	return t.inner.FindByIDs(ctx, ids)
}

func (t *recordingTx) UpdateStatus(ctx context.Context, id string, status domain.ContentStatus, at time.Time) error {
	if t.repo.honourCtx {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if id == t.repo.panicOn {
		panic("storage exploded")
	}
	if err := t.repo.failUpdate[id]; err != nil {
		return err
	}
	t.repo.updates++
	return t.inner.UpdateStatus(ctx, id, status, at)
}

func (t *recordingTx) DeleteByID(ctx context.Context, id string) error {
	if err := t.repo.failDelete[id]; err != nil {
		return err
	}
	t.repo.deletes++
	return t.inner.DeleteByID(ctx, id)
}

func (t *recordingTx) Commit() error {
	if t.repo.commitErr != nil {
		return t.repo.commitErr
	}
	t.repo.commits++
	return t.inner.Commit()
}

func (t *recordingTx) Rollback() error {
	t.repo.rollbacks++
	if t.repo.rollbackErr != nil {
		return t.repo.rollbackErr
	}
	return t.inner.Rollback()
}

// foldingRepository treats ids case-insensitively, the way a UUID keyed
// store does, and reports canonical upper-case ids.
type foldingRepository struct {
	*recordingRepository
}

func (r foldingRepository) BeginTx(ctx context.Context) (bulk.Tx, error) {
	tx, err := r.recordingRepository.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return foldingTx{Tx: tx}, nil
}

type foldingTx struct {
	bulk.Tx
}

func (foldingTx) NormalizeID(id string) string { return strings.ToUpper(id) }

func (t foldingTx) FindByIDs(ctx context.Context, ids []string) ([]*bulk.Entity, error) {
	folded := make([]string, len(ids))
	for i, id := range ids {
		folded[i] = strings.ToUpper(id)
	}
	return t.Tx.FindByIDs(ctx, folded)
}

func entity(id string, status domain.ContentStatus) bulk.Entity {
	return bulk.Entity{ID: id, Status: status}
}

func mustStatus(t *testing.T, repo *recordingRepository, id string) domain.ContentStatus {
	t.Helper()
	rec, ok := repo.inner.Get(id)
	if !ok {
		t.Fatalf("expected entity %q to exist", id)
	}
	return rec.Status
}
