package bulk_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/domain"
)

func TestStatusCounts_CountsEveryStatus(t *testing.T) {
	repo := bulk.NewMemoryRepository(
		entity("1", domain.StatusPublished),
		entity("2", domain.StatusPublished),
		entity("3", domain.StatusDraft),
		entity("4", domain.StatusTrash),
		entity("5", domain.StatusTrash),
		entity("6", domain.StatusTrash),
	)

	counts, err := bulk.StatusCounts(context.Background(), repo)
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}
	want := bulk.StatusCountResponse{Total: 6, Published: 2, Draft: 1, Trash: 3}
	if counts != want {
		t.Fatalf("counts=%+v want %+v", counts, want)
	}
}

func TestStatusCounts_ReflectsCommittedChanges(t *testing.T) {
	repo := bulk.NewMemoryRepository(entity("1", domain.StatusDraft), entity("2", domain.StatusDraft))
	engine := bulk.NewEngine()

	engine.ExecuteBulkAction(context.Background(), repo, "Joke", []string{"1"}, domain.ActionPublish)

	counts, err := bulk.StatusCounts(context.Background(), repo)
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}
	if counts.Published != 1 || counts.Draft != 1 || counts.Total != 2 {
		t.Fatalf("unexpected counts after publish: %+v", counts)
	}
}

type failingCounter struct {
	bulk.StatusCounter
	failOn domain.ContentStatus
}

func (f failingCounter) CountByStatus(ctx context.Context, status domain.ContentStatus) (int, error) {
	if status == f.failOn {
		return 0, errors.New("count exploded")
	}
	return f.StatusCounter.CountByStatus(ctx, status)
}

func TestStatusCounts_PropagatesErrors(t *testing.T) {
	counter := failingCounter{StatusCounter: bulk.NewMemoryRepository(), failOn: domain.StatusTrash}

	_, err := bulk.StatusCounts(context.Background(), counter)
	if err == nil || !strings.Contains(err.Error(), "count trash") {
		t.Fatalf("expected wrapped trash count error, got %v", err)
	}

	if _, err := bulk.StatusCounts(context.Background(), nil); !errors.Is(err, bulk.ErrCounterRequired) {
		t.Fatalf("expected ErrCounterRequired, got %v", err)
	}
}
