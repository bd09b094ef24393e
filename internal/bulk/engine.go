package bulk

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-quizbox/internal/domain"
)

// Engine applies bulk status actions to batches of content inside a single
// transaction, isolating per-item failures. It owns no state beyond its
// strategy set and never returns an error: every outcome is a result.
type Engine struct {
	resolver *Resolver
	clock    func() time.Time
}

// EngineOption configures the engine at construction time.
type EngineOption func(*Engine)

// WithClock overrides the clock used to stamp transitions.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithResolver overrides the strategy resolver.
func WithResolver(resolver *Resolver) EngineOption {
	return func(e *Engine) {
		if resolver != nil {
			e.resolver = resolver
		}
	}
}

// NewEngine constructs an engine with the default strategy set.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.resolver == nil {
		e.resolver = NewResolver(e.clock)
	}
	return e
}

// ExecuteBulkAction applies action to every id in order. Missing ids and
// strategy failures are reported per item; the transaction commits when at
// least one item succeeded and rolls back otherwise. Failures outside the
// per-item loop (begin, fetch, commit, rollback) roll back and fail the whole batch.
// Once started the batch ignores cancellation of ctx.
func (e *Engine) ExecuteBulkAction(ctx context.Context, repo Repository, label string, ids []string, action domain.BulkActionType) BulkActionResult {
	strategy, ok := e.resolver.Resolve(action)
	if !ok {
		return failAll(ids, label, action, unknownActionMessage(action))
	}
	if len(ids) == 0 {
		return newResult(label, action, 0, 0, nil)
	}
	if repo == nil {
		return failAll(ids, label, action, ErrRepositoryRequired.Error())
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	result, err := e.run(ctx, repo, label, ids, action, strategy)
	if err != nil {
		return failAll(ids, label, action, err.Error())
	}
	return result
}

func (e *Engine) run(ctx context.Context, repo Repository, label string, ids []string, action domain.BulkActionType, strategy Strategy) (result BulkActionResult, err error) {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return BulkActionResult{}, err
	}
	scoped := &scopedTx{tx: tx}
	defer scoped.release()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bulk %s aborted: %v", action, r)
		}
	}()

	keyOf := idKeyFunc(tx)
	entities, err := tx.FindByIDs(ctx, uniqueIDs(ids, keyOf))
	if err != nil {
		return BulkActionResult{}, err
	}
	lookup := make(map[string]*Entity, len(entities))
	for _, entity := range entities {
		if entity != nil {
			lookup[keyOf(entity.ID)] = entity
		}
	}

	succeeded := 0
	var failures []BulkActionFailure
	for _, id := range ids {
		entity, found := lookup[keyOf(id)]
		if !found || entity.Deleted() {
			failures = append(failures, BulkActionFailure{ID: id, Error: notFoundMessage(label)})
			continue
		}
		if err := strategy.Execute(ctx, tx, entity); err != nil {
			failures = append(failures, BulkActionFailure{ID: id, Error: err.Error()})
			continue
		}
		succeeded++
	}

	if succeeded > 0 {
		if err := scoped.commit(); err != nil {
			return BulkActionResult{}, err
		}
	} else if err := scoped.rollback(); err != nil {
		return BulkActionResult{}, fmt.Errorf("rollback %s batch: %w", action, err)
	}

	return newResult(label, action, len(ids), succeeded, failures), nil
}

// scopedTx guarantees the wrapped transaction is finished exactly once.
type scopedTx struct {
	tx       Tx
	finished bool
}

func (s *scopedTx) commit() error {
	if err := s.tx.Commit(); err != nil {
		return err
	}
	s.finished = true
	return nil
}

func (s *scopedTx) rollback() error {
	if s.finished {
		return nil
	}
	s.finished = true
	return s.tx.Rollback()
}

func (s *scopedTx) release() {
	_ = s.rollback()
}

func idKeyFunc(tx Tx) func(string) string {
	if normalizer, ok := tx.(IDNormalizer); ok {
		return normalizer.NormalizeID
	}
	return func(id string) string { return id }
}

func uniqueIDs(ids []string, keyOf func(string) string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		key := keyOf(id)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, id)
	}
	return out
}
