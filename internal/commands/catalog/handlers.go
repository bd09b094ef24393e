package catalogcmd

import (
	"context"

	"github.com/goliatone/go-quizbox/internal/catalog"
	"github.com/goliatone/go-quizbox/internal/commands"
	"github.com/goliatone/go-quizbox/pkg/interfaces"
	"github.com/uptrace/bun"
)

// MigrateHandler applies the catalog schema to a database.
type MigrateHandler struct {
	inner *commands.Handler[MigrateCommand]
}

// NewMigrateHandler wires the handler to db.
func NewMigrateHandler(db bun.IDB, logger interfaces.Logger, opts ...commands.HandlerOption[MigrateCommand]) *MigrateHandler {
	exec := func(ctx context.Context, _ MigrateCommand) error {
		return catalog.Migrate(ctx, db)
	}

	handlerOpts := []commands.HandlerOption[MigrateCommand]{
		commands.WithLogger[MigrateCommand](logger),
		commands.WithOperation[MigrateCommand]("catalog.migrate"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MigrateHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[MigrateCommand].
func (h *MigrateHandler) Execute(ctx context.Context, msg MigrateCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SeedHandler inserts fixtures through the registry's bun stores.
type SeedHandler struct {
	inner *commands.QueryHandler[SeedCommand, catalog.SeedSummary]
}

// NewSeedHandler wires the handler to registry.
func NewSeedHandler(registry *catalog.Registry, logger interfaces.Logger, opts ...commands.HandlerOption[SeedCommand]) *SeedHandler {
	exec := func(ctx context.Context, msg SeedCommand) (catalog.SeedSummary, error) {
		return catalog.Seed(ctx, registry, msg.Fixtures)
	}

	handlerOpts := []commands.HandlerOption[SeedCommand]{
		commands.WithLogger[SeedCommand](logger),
		commands.WithOperation[SeedCommand]("catalog.seed"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SeedHandler{
		inner: commands.NewQueryHandler(exec, handlerOpts...),
	}
}

// Run seeds msg.Fixtures and reports the records created per kind.
func (h *SeedHandler) Run(ctx context.Context, msg SeedCommand) (catalog.SeedSummary, error) {
	return h.inner.Query(ctx, msg)
}

// Execute satisfies command.Commander[SeedCommand].
func (h *SeedHandler) Execute(ctx context.Context, msg SeedCommand) error {
	_, err := h.Run(ctx, msg)
	return err
}
