package catalogcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-quizbox/internal/catalog"
)

const (
	migrateMessageType = "quizbox.catalog.migrate"
	seedMessageType    = "quizbox.catalog.seed"
)

// MigrateCommand creates the catalog schema.
type MigrateCommand struct{}

// Type implements command.Message.
func (MigrateCommand) Type() string { return migrateMessageType }

// Validate implements command.Message. The command carries no input.
func (MigrateCommand) Validate() error { return nil }

// SeedCommand inserts a fixture document into the catalog.
type SeedCommand struct {
	Fixtures catalog.Fixtures `json:"fixtures"`
}

// Type implements command.Message.
func (SeedCommand) Type() string { return seedMessageType }

// Validate rejects an empty fixture document.
func (m SeedCommand) Validate() error {
	fx := m.Fixtures
	if len(fx.Questions)+len(fx.Riddles)+len(fx.Jokes) == 0 {
		return validation.Errors{
			"fixtures": validation.NewError("quizbox.catalog.seed.fixtures_empty", "fixtures must contain at least one record"),
		}
	}
	return nil
}
