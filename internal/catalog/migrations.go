package catalog

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

var models = []any{
	(*Question)(nil),
	(*Riddle)(nil),
	(*Joke)(nil),
}

// Migrate creates the catalog tables and their status indexes when missing.
func Migrate(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return ErrDatabaseRequired
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}

	indexes := []struct {
		model any
		name  string
	}{
		{(*Question)(nil), "idx_questions_status"},
		{(*Riddle)(nil), "idx_riddles_status"},
		{(*Joke)(nil), "idx_jokes_status"},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column("status").
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
