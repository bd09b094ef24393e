package bulk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-quizbox/internal/domain"
)

// ErrTxDone is returned when a finished memory transaction is used again.
var ErrTxDone = errors.New("bulk: transaction already finished")

// MemoryRepository is an in-memory Repository and StatusCounter for
// scaffolding and tests. Transactions stage writes and apply them on commit.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Entity
}

// NewMemoryRepository creates a repository seeded with the supplied entities.
func NewMemoryRepository(seed ...Entity) *MemoryRepository {
	repo := &MemoryRepository{records: make(map[string]*Entity, len(seed))}
	for _, entity := range seed {
		repo.Put(entity)
	}
	return repo
}

// Put inserts or replaces an entity.
func (m *MemoryRepository) Put(entity Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[entity.ID] = cloneEntity(&entity)
}

// Get returns a copy of the stored entity.
func (m *MemoryRepository) Get(id string) (*Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, false
	}
	return cloneEntity(rec), true
}

// List returns copies of every entity ordered by id.
func (m *MemoryRepository) List() []*Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Entity, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneEntity(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BeginTx opens a staged transaction.
func (m *MemoryRepository) BeginTx(context.Context) (Tx, error) {
	return &memoryTx{
		repo:    m,
		updates: make(map[string]*Entity),
		deletes: make(map[string]struct{}),
	}, nil
}

// CountAll satisfies StatusCounter.
func (m *MemoryRepository) CountAll(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// CountByStatus satisfies StatusCounter.
func (m *MemoryRepository) CountByStatus(_ context.Context, status domain.ContentStatus) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, rec := range m.records {
		if rec.Status == status {
			count++
		}
	}
	return count, nil
}

type memoryTx struct {
	repo    *MemoryRepository
	updates map[string]*Entity
	deletes map[string]struct{}
	done    bool
}

func (t *memoryTx) FindByIDs(_ context.Context, ids []string) ([]*Entity, error) {
	if t.done {
		return nil, ErrTxDone
	}
	t.repo.mu.RLock()
	defer t.repo.mu.RUnlock()

	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if _, removed := t.deletes[id]; removed {
			continue
		}
		if staged, ok := t.updates[id]; ok {
			out = append(out, cloneEntity(staged))
			continue
		}
		if rec, ok := t.repo.records[id]; ok {
			out = append(out, cloneEntity(rec))
		}
	}
	return out, nil
}

func (t *memoryTx) UpdateStatus(_ context.Context, id string, status domain.ContentStatus, at time.Time) error {
	if t.done {
		return ErrTxDone
	}
	if !status.Valid() {
		return fmt.Errorf("bulk: invalid status %q", status)
	}
	current, ok := t.lookup(id)
	if !ok {
		return fmt.Errorf("bulk: entity %q not found", id)
	}
	current.Status = status
	stamp := at
	current.UpdatedAt = &stamp
	t.updates[id] = current
	return nil
}

func (t *memoryTx) DeleteByID(_ context.Context, id string) error {
	if t.done {
		return ErrTxDone
	}
	if _, ok := t.lookup(id); !ok {
		return fmt.Errorf("bulk: entity %q not found", id)
	}
	delete(t.updates, id)
	t.deletes[id] = struct{}{}
	return nil
}

func (t *memoryTx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for id, rec := range t.updates {
		t.repo.records[id] = rec
	}
	for id := range t.deletes {
		delete(t.repo.records, id)
	}
	return nil
}

func (t *memoryTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.updates = nil
	t.deletes = nil
	return nil
}

func (t *memoryTx) lookup(id string) (*Entity, bool) {
	if _, removed := t.deletes[id]; removed {
		return nil, false
	}
	if staged, ok := t.updates[id]; ok {
		return cloneEntity(staged), true
	}
	t.repo.mu.RLock()
	defer t.repo.mu.RUnlock()
	rec, ok := t.repo.records[id]
	if !ok {
		return nil, false
	}
	return cloneEntity(rec), true
}

func cloneEntity(src *Entity) *Entity {
	if src == nil {
		return nil
	}
	copied := *src
	copied.deleted = false
	if src.UpdatedAt != nil {
		stamp := *src.UpdatedAt
		copied.UpdatedAt = &stamp
	}
	return &copied
}
