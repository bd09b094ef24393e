package catalogcmd_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-quizbox/internal/catalog"
	catalogcmd "github.com/goliatone/go-quizbox/internal/commands/catalog"
	"github.com/goliatone/go-quizbox/internal/domain"
	"github.com/goliatone/go-quizbox/pkg/testsupport"
)

const seedDocument = `
questions:
  - id: 00000000-0000-0000-0000-0000000000d1
    category: geography
    prompt: What is the capital of Peru?
    answer: Lima
    status: draft
jokes:
  - id: 00000000-0000-0000-0000-0000000000d2
    category: tech
    setup: Why did the function return early?
    punchline: It had a guard clause.
    status: published
`

func TestMigrateAndSeedHandlers(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunSQLiteDB(t)

	migrate := catalogcmd.NewMigrateHandler(db, nil)
	sub := dispatcher.SubscribeCommand(migrate)
	t.Cleanup(sub.Unsubscribe)
	if err := dispatcher.Dispatch(ctx, catalogcmd.MigrateCommand{}); err != nil {
		t.Fatalf("dispatch migrate: %v", err)
	}

	fixtures, err := catalog.ParseFixtures([]byte(seedDocument))
	if err != nil {
		t.Fatalf("parse fixtures: %v", err)
	}
	registry := catalog.NewBunRegistry(db, nil, nil)
	summary, err := catalogcmd.NewSeedHandler(registry, nil).Run(ctx, catalogcmd.SeedCommand{Fixtures: fixtures})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if summary[domain.KindQuestion] != 1 || summary[domain.KindJoke] != 1 || summary[domain.KindRiddle] != 0 {
		t.Fatalf("unexpected summary: %v", summary)
	}

	published, err := registry.Jokes.CountByStatus(ctx, domain.StatusPublished)
	if err != nil {
		t.Fatalf("count jokes: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected one published joke, got %d", published)
	}
}

func TestSeedHandler_RejectsEmptyFixtures(t *testing.T) {
	db := testsupport.NewBunSQLiteDB(t)
	handler := catalogcmd.NewSeedHandler(catalog.NewBunRegistry(db, nil, nil), nil)

	_, err := handler.Run(context.Background(), catalogcmd.SeedCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestMigrateHandler_CategorisesStorageFailure(t *testing.T) {
	db := testsupport.NewBunSQLiteDB(t)
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	err := catalogcmd.NewMigrateHandler(db, nil).Execute(context.Background(), catalogcmd.MigrateCommand{})
	if err == nil {
		t.Fatalf("expected migrate on a closed database to fail")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
