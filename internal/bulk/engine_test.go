package bulk_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/domain"
)

func newEngine() *bulk.Engine {
	return bulk.NewEngine(bulk.WithClock(fixedClock))
}

func TestEngine_MixedBatchCommitsSuccessfulItems(t *testing.T) {
	repo := newRecordingRepository(
		entity("A", domain.StatusDraft),
		entity("C", domain.StatusDraft),
	)

	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"A", "B", "C"}, domain.ActionPublish)

	if result.Processed != 3 || result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Success {
		t.Fatalf("expected success=false when any item fails")
	}
	if len(result.Failures) != 1 || result.Failures[0].ID != "B" || result.Failures[0].Error != "Question not found" {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if result.Message != "Published 2 Question(s), 1 failed" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if repo.commits != 1 || repo.rollbacks != 0 {
		t.Fatalf("expected a single commit, got commits=%d rollbacks=%d", repo.commits, repo.rollbacks)
	}
	for _, id := range []string{"A", "C"} {
		if status := mustStatus(t, repo, id); status != domain.StatusPublished {
			t.Fatalf("expected %s published, got %s", id, status)
		}
	}
	rec, _ := repo.inner.Get("A")
	if rec.UpdatedAt == nil || !rec.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected updated_at stamped with clock, got %v", rec.UpdatedAt)
	}
}

func TestEngine_FetchesBatchInSingleQuery(t *testing.T) {
	repo := newRecordingRepository(entity("A", domain.StatusDraft), entity("B", domain.StatusDraft))

	newEngine().ExecuteBulkAction(context.Background(), repo, "Riddle", []string{"A", "B", "A", "missing"}, domain.ActionTrash)

	if repo.finds != 1 {
		t.Fatalf("expected one fetch, got %d", repo.finds)
	}
	if got := strings.Join(repo.lastFetch, ","); got != "A,B,missing" {
		t.Fatalf("expected de-duplicated ids in input order, got %s", got)
	}
}

func TestEngine_IdempotentStatusActions(t *testing.T) {
	actions := []domain.BulkActionType{domain.ActionPublish, domain.ActionDraft, domain.ActionTrash}
	for _, action := range actions {
		t.Run(string(action), func(t *testing.T) {
			start := domain.StatusDraft
			if action == domain.ActionDraft {
				start = domain.StatusPublished
			}
			repo := newRecordingRepository(entity("A", start))
			engine := newEngine()

			first := engine.ExecuteBulkAction(context.Background(), repo, "Joke", []string{"A"}, action)
			if !first.Success || first.Succeeded != 1 {
				t.Fatalf("first call: %+v", first)
			}
			writes := repo.updates

			second := engine.ExecuteBulkAction(context.Background(), repo, "Joke", []string{"A"}, action)
			if !second.Success || second.Succeeded != 1 || second.Failed != 0 {
				t.Fatalf("second call should be a counted no-op: %+v", second)
			}
			if repo.updates != writes {
				t.Fatalf("expected no second write, writes went from %d to %d", writes, repo.updates)
			}
		})
	}
}

func TestEngine_RestoreOnlyTouchesTrash(t *testing.T) {
	repo := newRecordingRepository(
		entity("draft", domain.StatusDraft),
		entity("published", domain.StatusPublished),
		entity("trashed", domain.StatusTrash),
	)

	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"draft", "published", "trashed"}, domain.ActionRestore)

	if !result.Success || result.Succeeded != 3 {
		t.Fatalf("expected all restores to succeed: %+v", result)
	}
	if repo.updates != 1 {
		t.Fatalf("expected one write for the trashed entity, got %d", repo.updates)
	}
	if status := mustStatus(t, repo, "published"); status != domain.StatusPublished {
		t.Fatalf("restore must not touch published content, got %s", status)
	}
	if status := mustStatus(t, repo, "trashed"); status != domain.StatusDraft {
		t.Fatalf("restore lands in draft, got %s", status)
	}
}

func TestEngine_DeleteRemovesRegardlessOfStatus(t *testing.T) {
	repo := newRecordingRepository(
		entity("p", domain.StatusPublished),
		entity("d", domain.StatusDraft),
		entity("t", domain.StatusTrash),
	)
	engine := newEngine()

	result := engine.ExecuteBulkAction(context.Background(), repo, "Joke", []string{"p", "d", "t"}, domain.ActionDelete)
	if !result.Success || result.Succeeded != 3 {
		t.Fatalf("expected all deletes to succeed: %+v", result)
	}
	if len(repo.inner.List()) != 0 {
		t.Fatalf("expected storage to be empty")
	}

	again := engine.ExecuteBulkAction(context.Background(), repo, "Joke", []string{"p"}, domain.ActionDelete)
	if again.Success || again.Failed != 1 || again.Failures[0].Error != "Joke not found" {
		t.Fatalf("expected not-found failure on re-delete: %+v", again)
	}
}

func TestEngine_DuplicateIDsCountPerOccurrence(t *testing.T) {
	t.Run("publish", func(t *testing.T) {
		repo := newRecordingRepository(entity("A", domain.StatusDraft))
		result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"A", "A"}, domain.ActionPublish)
		if result.Processed != 2 || result.Succeeded != 2 {
			t.Fatalf("unexpected result: %+v", result)
		}
		if repo.updates != 1 {
			t.Fatalf("second occurrence should observe the published state, writes=%d", repo.updates)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRecordingRepository(entity("A", domain.StatusDraft))
		result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"A", "A"}, domain.ActionDelete)
		if result.Processed != 2 || result.Succeeded != 1 || result.Failed != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}
		if result.Failures[0].Error != "Question not found" {
			t.Fatalf("unexpected failure: %+v", result.Failures)
		}
		if repo.commits != 1 {
			t.Fatalf("expected commit, got %d", repo.commits)
		}
	})
}

func TestEngine_RollsBackWhenNothingSucceeds(t *testing.T) {
	repo := newRecordingRepository(entity("A", domain.StatusDraft), entity("B", domain.StatusDraft))
	repo.failUpdate["A"] = errors.New("disk full")
	repo.failUpdate["B"] = errors.New("disk full")

	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Riddle", []string{"A", "B", "C"}, domain.ActionPublish)

	if result.Success || result.Succeeded != 0 || result.Failed != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Message != "Failed to publish any Riddle(s). 3 item(s) failed." {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if repo.commits != 0 || repo.rollbacks != 1 {
		t.Fatalf("expected rollback only, commits=%d rollbacks=%d", repo.commits, repo.rollbacks)
	}
	for _, id := range []string{"A", "B"} {
		if status := mustStatus(t, repo, id); status != domain.StatusDraft {
			t.Fatalf("expected %s unchanged, got %s", id, status)
		}
	}
	if result.Failures[0].Error != "publish failed: disk full" {
		t.Fatalf("unexpected transition failure message: %q", result.Failures[0].Error)
	}
}

func TestEngine_NormalizedIDsShareOneEntity(t *testing.T) {
	repo := foldingRepository{newRecordingRepository(entity("A", domain.StatusDraft))}

	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"a", "A"}, domain.ActionPublish)
	if !result.Success || result.Succeeded != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if repo.updates != 1 {
		t.Fatalf("expected one write for both spellings, got %d", repo.updates)
	}
	if len(repo.lastFetch) != 1 {
		t.Fatalf("expected spellings folded before fetch, got %v", repo.lastFetch)
	}

	result = newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"A", "a"}, domain.ActionDelete)
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("unexpected delete result: %+v", result)
	}
	if got := result.Failures[0]; got.ID != "a" || got.Error != "Question not found" {
		t.Fatalf("unexpected failure: %+v", got)
	}
}

func TestEngine_TransitionFailureDoesNotAbortBatch(t *testing.T) {
	repo := newRecordingRepository(
		entity("A", domain.StatusDraft),
		entity("B", domain.StatusDraft),
		entity("C", domain.StatusDraft),
	)
	repo.failUpdate["B"] = errors.New("constraint violation")

	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"A", "B", "C"}, domain.ActionTrash)

	if result.Succeeded != 2 || result.Failed != 1 || result.Success {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Failures[0].ID != "B" {
		t.Fatalf("expected failure for B: %+v", result.Failures)
	}
	if mustStatus(t, repo, "A") != domain.StatusTrash || mustStatus(t, repo, "C") != domain.StatusTrash {
		t.Fatalf("expected A and C committed to trash")
	}
	if mustStatus(t, repo, "B") != domain.StatusDraft {
		t.Fatalf("expected B untouched")
	}
}

func TestEngine_UnknownActionNeverTouchesStorage(t *testing.T) {
	repo := newRecordingRepository(entity("X", domain.StatusDraft))

	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"X", "Y"}, domain.BulkActionType("archive"))

	if result.Processed != 2 || result.Succeeded != 0 || result.Failed != 2 || result.Success {
		t.Fatalf("unexpected result: %+v", result)
	}
	if repo.begins != 0 || repo.finds != 0 {
		t.Fatalf("expected no storage access, begins=%d finds=%d", repo.begins, repo.finds)
	}
	for _, failure := range result.Failures {
		if failure.Error != "Unknown action: archive" {
			t.Fatalf("unexpected failure message: %q", failure.Error)
		}
	}
}

func TestEngine_InfrastructureFailuresFailWholeBatch(t *testing.T) {
	cases := []struct {
		name    string
		arrange func(*recordingRepository)
		message string
	}{
		{
			name:    "begin",
			arrange: func(r *recordingRepository) { r.beginErr = errors.New("connection refused") },
			message: "connection refused",
		},
		{
			name:    "fetch",
			arrange: func(r *recordingRepository) { r.findErr = errors.New("query timeout") },
			message: "query timeout",
		},
		{
			name:    "commit",
			arrange: func(r *recordingRepository) { r.commitErr = errors.New("serialization failure") },
			message: "serialization failure",
		},
		{
			name:    "rollback",
			arrange: func(r *recordingRepository) {
				r.failUpdate["A"] = errors.New("disk full")
				r.failUpdate["B"] = errors.New("disk full")
				r.rollbackErr = errors.New("connection reset")
			},
			message: "rollback publish batch: connection reset",
		},
		{
			name:    "panic",
			arrange: func(r *recordingRepository) { r.panicOn = "A" },
			message: "bulk publish aborted: storage exploded",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRecordingRepository(entity("A", domain.StatusDraft), entity("B", domain.StatusDraft))
			tc.arrange(repo)

			result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"A", "B"}, domain.ActionPublish)

			if result.Success || result.Processed != 2 || result.Succeeded != 0 || result.Failed != 2 {
				t.Fatalf("unexpected result: %+v", result)
			}
			for _, failure := range result.Failures {
				if failure.Error != tc.message {
					t.Fatalf("expected %q, got %q", tc.message, failure.Error)
				}
			}
			if repo.commits != 0 {
				t.Fatalf("expected no commit, got %d", repo.commits)
			}
			if tc.name != "begin" && repo.rollbacks != 1 {
				t.Fatalf("expected exactly one rollback, got %d", repo.rollbacks)
			}
			if mustStatus(t, repo, "A") != domain.StatusDraft {
				t.Fatalf("expected storage unchanged")
			}
		})
	}
}

func TestEngine_IgnoresCancellationOnceStarted(t *testing.T) {
	repo := newRecordingRepository(entity("A", domain.StatusDraft))
	repo.honourCtx = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := newEngine().ExecuteBulkAction(ctx, repo, "Question", []string{"A"}, domain.ActionPublish)
	if !result.Success {
		t.Fatalf("expected batch to complete despite cancelled context: %+v", result)
	}
}

func TestEngine_EmptyBatch(t *testing.T) {
	repo := newRecordingRepository()
	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Joke", nil, domain.ActionPublish)
	if result.Processed != 0 || result.Success || repo.begins != 0 {
		t.Fatalf("unexpected empty batch result: %+v begins=%d", result, repo.begins)
	}
}

func TestEngine_CountsAlwaysBalance(t *testing.T) {
	seed := []bulk.Entity{
		entity("p1", domain.StatusPublished),
		entity("d1", domain.StatusDraft),
		entity("t1", domain.StatusTrash),
	}
	batches := [][]string{
		{"p1"},
		{"p1", "d1", "t1"},
		{"missing", "d1", "missing"},
		{"t1", "t1", "nope", "p1"},
	}
	for _, action := range domain.BulkActionTypes() {
		for i, ids := range batches {
			t.Run(fmt.Sprintf("%s_%d", action, i), func(t *testing.T) {
				repo := newRecordingRepository(seed...)
				result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", ids, action)
				if result.Processed != len(ids) {
					t.Fatalf("processed=%d want %d", result.Processed, len(ids))
				}
				if result.Succeeded+result.Failed != result.Processed {
					t.Fatalf("counts do not balance: %+v", result)
				}
				if len(result.Failures) != result.Failed {
					t.Fatalf("failure entries=%d failed=%d", len(result.Failures), result.Failed)
				}
			})
		}
	}
}

func TestBulkActionResult_JSONOmitsEmptyFailures(t *testing.T) {
	repo := newRecordingRepository(entity("A", domain.StatusDraft))
	result := newEngine().ExecuteBulkAction(context.Background(), repo, "Question", []string{"A"}, domain.ActionPublish)

	payload, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":true,"processed":1,"succeeded":1,"failed":0,"message":"Successfully published 1 Question(s)"}`
	if string(payload) != want {
		t.Fatalf("unexpected payload:\n got %s\nwant %s", payload, want)
	}
}
