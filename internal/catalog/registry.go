package catalog

import (
	"context"
	"fmt"

	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/domain"
	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Target is everything the bulk command layer needs from a content kind.
type Target interface {
	bulk.Repository
	bulk.StatusCounter
	Kind() domain.ContentKind
	Label() string
	InvalidateCache(ctx context.Context) error
}

// Registry resolves content kinds to their storage targets.
type Registry struct {
	targets map[domain.ContentKind]Target

	Questions *Store[Question]
	Riddles   *Store[Riddle]
	Jokes     *Store[Joke]
}

// NewRegistry indexes the supplied targets by kind. Later targets replace
// earlier ones for the same kind.
func NewRegistry(targets ...Target) *Registry {
	r := &Registry{targets: make(map[domain.ContentKind]Target, len(targets))}
	for _, target := range targets {
		if target != nil {
			r.targets[target.Kind()] = target
		}
	}
	return r
}

// NewBunRegistry builds bun-backed stores for every supported kind.
func NewBunRegistry(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *Registry {
	questions := NewQuestionStore(db, cacheService, serializer)
	riddles := NewRiddleStore(db, cacheService, serializer)
	jokes := NewJokeStore(db, cacheService, serializer)

	r := NewRegistry(questions, riddles, jokes)
	r.Questions = questions
	r.Riddles = riddles
	r.Jokes = jokes
	return r
}

// Target returns the storage target for kind.
func (r *Registry) Target(kind domain.ContentKind) (Target, error) {
	if r != nil {
		if target, ok := r.targets[kind]; ok {
			return target, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Kinds lists the registered kinds in canonical order.
func (r *Registry) Kinds() []domain.ContentKind {
	if r == nil {
		return nil
	}
	out := make([]domain.ContentKind, 0, len(r.targets))
	for _, kind := range domain.ContentKinds() {
		if _, ok := r.targets[kind]; ok {
			out = append(out, kind)
		}
	}
	return out
}
