package quizbox

import (
	"context"

	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/catalog"
	bulkcmd "github.com/goliatone/go-quizbox/internal/commands/bulk"
	"github.com/goliatone/go-quizbox/internal/di"
	"github.com/goliatone/go-quizbox/internal/domain"
)

type (
	// BulkActionResult is the batch summary returned by BulkAction.
	BulkActionResult = bulk.BulkActionResult
	// BulkActionFailure records why one id was not transitioned.
	BulkActionFailure = bulk.BulkActionFailure
	// StatusCountResponse is the per-status tally of one content kind.
	StatusCountResponse = bulk.StatusCountResponse

	// Engine applies bulk actions against any Repository.
	Engine = bulk.Engine
	// Repository opens the transaction a batch runs in.
	Repository = bulk.Repository
	// Tx is the transactional storage surface used by strategies.
	Tx = bulk.Tx
	// Entity is the status projection loaded for every id in a batch.
	Entity = bulk.Entity
	// StatusCounter backs StatusCounts.
	StatusCounter = bulk.StatusCounter

	// Fixtures is the YAML seed document accepted by Seed.
	Fixtures = catalog.Fixtures
	// SeedSummary counts inserted records per kind.
	SeedSummary = catalog.SeedSummary

	// Option configures the module container.
	Option = di.Option
)

var (
	NewEngine    = bulk.NewEngine
	StatusCounts = bulk.StatusCounts
	LoadFixtures = catalog.LoadFixtures

	WithBunDB          = di.WithBunDB
	WithCache          = di.WithCache
	WithLoggerProvider = di.WithLoggerProvider
	WithTargets        = di.WithTargets
	WithClock          = di.WithClock
	WithQueryLog       = di.WithQueryLog
)

// Module is the entry point for hosts embedding quizbox.
type Module struct {
	container *di.Container
}

// New validates cfg and wires storage, cache and command handlers.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// BulkAction applies action to ids of kind. Per-item failures are reported in
// the result; the error covers invalid requests only.
func (m *Module) BulkAction(ctx context.Context, kind domain.ContentKind, ids []string, action domain.BulkActionType) (BulkActionResult, error) {
	return m.container.BulkStatusHandler().Run(ctx, bulkcmd.BulkStatusCommand{
		Kind:   kind,
		IDs:    ids,
		Action: action,
	})
}

// StatusCounts returns the status tally for kind.
func (m *Module) StatusCounts(ctx context.Context, kind domain.ContentKind) (StatusCountResponse, error) {
	return m.container.StatusCountsHandler().Run(ctx, bulkcmd.StatusCountsQuery{Kind: kind})
}

// Migrate creates the catalog schema.
func (m *Module) Migrate(ctx context.Context) error {
	return m.container.Migrate(ctx)
}

// Seed inserts fixtures into the catalog.
func (m *Module) Seed(ctx context.Context, fixtures Fixtures) (SeedSummary, error) {
	return m.container.Seed(ctx, fixtures)
}

// Close releases resources opened by New.
func (m *Module) Close() error {
	return m.container.Close()
}
