package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/domain"
	"github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store persists one content kind. Reads go through the (optionally cached)
// go-repository-bun repository; bulk transitions and counts hit the database
// directly so they always observe committed state.
type Store[T any] struct {
	db           *bun.DB
	kind         domain.ContentKind
	repo         repository.Repository[*T]
	cacheService cache.CacheService
	cachePrefix  string
	fields       func(*T) (uuid.UUID, string, time.Time)
}

var (
	_ bulk.Repository    = (*Store[Question])(nil)
	_ bulk.StatusCounter = (*Store[Question])(nil)
	_ Target             = (*Store[Joke])(nil)
)

// NewQuestionStore creates the question store with optional caching.
func NewQuestionStore(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *Store[Question] {
	return newStore(db, domain.KindQuestion, NewQuestionRepository(db), (*Question).statusFields, cacheService, serializer)
}

// NewRiddleStore creates the riddle store with optional caching.
func NewRiddleStore(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *Store[Riddle] {
	return newStore(db, domain.KindRiddle, NewRiddleRepository(db), (*Riddle).statusFields, cacheService, serializer)
}

// NewJokeStore creates the joke store with optional caching.
func NewJokeStore(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *Store[Joke] {
	return newStore(db, domain.KindJoke, NewJokeRepository(db), (*Joke).statusFields, cacheService, serializer)
}

func newStore[T any](db *bun.DB, kind domain.ContentKind, base repository.Repository[*T], fields func(*T) (uuid.UUID, string, time.Time), cacheService cache.CacheService, serializer cache.KeySerializer) *Store[T] {
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(string(kind))
	}
	return &Store[T]{
		db:           db,
		kind:         kind,
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
		fields:       fields,
	}
}

// Kind reports the content kind persisted by the store.
func (s *Store[T]) Kind() domain.ContentKind { return s.kind }

// Label returns the entity label used in bulk result messages.
func (s *Store[T]) Label() string { return s.kind.Label() }

func (s *Store[T]) Create(ctx context.Context, record *T) (*T, error) {
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, string(s.kind), id.String())
	}
	return record, nil
}

// List returns records, optionally restricted to the supplied statuses.
func (s *Store[T]) List(ctx context.Context, statuses ...domain.ContentStatus) ([]*T, error) {
	if len(statuses) == 0 {
		records, _, err := s.repo.List(ctx)
		return records, err
	}
	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
		}
		values = append(values, string(status))
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status IN (?)", bun.In(values)).
				OrderExpr("?TableAlias.updated_at DESC")
		}),
	)
	return records, err
}

// InvalidateCache drops every cached read for the kind's namespace.
func (s *Store[T]) InvalidateCache(ctx context.Context) error {
	if s.cacheService == nil || s.cachePrefix == "" {
		return nil
	}
	return s.cacheService.DeleteByPrefix(ctx, s.cachePrefix)
}

// BeginTx satisfies bulk.Repository.
func (s *Store[T]) BeginTx(ctx context.Context) (bulk.Tx, error) {
	if s.db == nil {
		return nil, ErrDatabaseRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin %s transaction: %w", s.kind, err)
	}
	return &statusTx[T]{tx: tx, kind: s.kind, fields: s.fields}, nil
}

// CountAll satisfies bulk.StatusCounter.
func (s *Store[T]) CountAll(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrDatabaseRequired
	}
	return s.db.NewSelect().Model((*T)(nil)).Count(ctx)
}

// CountByStatus satisfies bulk.StatusCounter.
func (s *Store[T]) CountByStatus(ctx context.Context, status domain.ContentStatus) (int, error) {
	if s.db == nil {
		return 0, ErrDatabaseRequired
	}
	return s.db.NewSelect().
		Model((*T)(nil)).
		Where("?TableAlias.status = ?", string(status)).
		Count(ctx)
}

const itemSavepoint = "quizbox_bulk_item"

type statusTx[T any] struct {
	tx     bun.Tx
	kind   domain.ContentKind
	fields func(*T) (uuid.UUID, string, time.Time)
}

var _ bulk.IDNormalizer = (*statusTx[Question])(nil)

// NormalizeID folds every spelling of a UUID to its canonical form. Ids that
// do not parse are returned unchanged and never match a record.
func (t *statusTx[T]) NormalizeID(id string) string {
	key, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return id
	}
	return key.String()
}

// FindByIDs loads every requested record in one query. Ids that are not
// valid UUIDs cannot exist and are left out, surfacing as not found.
// Entities carry the canonical id, one per record.
func (t *statusTx[T]) FindByIDs(ctx context.Context, ids []string) ([]*bulk.Entity, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	keys := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		key, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var records []*T
	if err := t.tx.NewSelect().
		Model(&records).
		Where("?TableAlias.id IN (?)", bun.In(keys)).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load %s batch: %w", t.kind, err)
	}

	out := make([]*bulk.Entity, 0, len(records))
	for _, record := range records {
		id, rawStatus, updatedAt := t.fields(record)
		status, _ := domain.ParseContentStatus(rawStatus)
		entity := &bulk.Entity{ID: id.String(), Status: status}
		if !updatedAt.IsZero() {
			stamp := updatedAt
			entity.UpdatedAt = &stamp
		}
		out = append(out, entity)
	}
	return out, nil
}

func (t *statusTx[T]) UpdateStatus(ctx context.Context, id string, status domain.ContentStatus, at time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	key, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return &NotFoundError{Resource: string(t.kind), Key: id}
	}
	return t.savepoint(ctx, func() error {
		res, err := t.tx.NewUpdate().
			Model((*T)(nil)).
			Set("status = ?", string(status)).
			Set("updated_at = ?", at).
			Where("id = ?", key).
			Exec(ctx)
		if err != nil {
			return err
		}
		return requireAffected(res, string(t.kind), id)
	})
}

func (t *statusTx[T]) DeleteByID(ctx context.Context, id string) error {
	key, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return &NotFoundError{Resource: string(t.kind), Key: id}
	}
	return t.savepoint(ctx, func() error {
		res, err := t.tx.NewDelete().
			Model((*T)(nil)).
			Where("?TableAlias.id = ?", key).
			Exec(ctx)
		if err != nil {
			return err
		}
		return requireAffected(res, string(t.kind), id)
	})
}

// savepoint runs write inside a savepoint so a failed statement is undone
// on its own. Postgres otherwise marks the whole transaction aborted.
func (t *statusTx[T]) savepoint(ctx context.Context, write func() error) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+itemSavepoint); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := write(); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+itemSavepoint); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback to savepoint: %w", rbErr))
		}
		if _, relErr := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+itemSavepoint); relErr != nil {
			return errors.Join(err, fmt.Errorf("release savepoint: %w", relErr))
		}
		return err
	}
	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+itemSavepoint); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (t *statusTx[T]) Commit() error {
	return t.tx.Commit()
}

func (t *statusTx[T]) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func requireAffected(res sql.Result, resource, key string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s rows affected: %w", resource, key, err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return nil
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
