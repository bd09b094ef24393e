package bulk

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-quizbox/internal/domain"
)

// BulkActionFailure describes one id that could not be transitioned.
type BulkActionFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkActionResult summarises a single ExecuteBulkAction call. Success is
// true only when at least one item succeeded and none failed; callers that
// need partial outcomes should read Succeeded and Failed.
type BulkActionResult struct {
	Success   bool                `json:"success"`
	Processed int                 `json:"processed"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Failures  []BulkActionFailure `json:"failures,omitempty"`
	Message   string              `json:"message"`
}

func newResult(label string, action domain.BulkActionType, processed, succeeded int, failures []BulkActionFailure) BulkActionResult {
	failed := len(failures)
	result := BulkActionResult{
		Success:   succeeded > 0 && failed == 0,
		Processed: processed,
		Succeeded: succeeded,
		Failed:    failed,
		Message:   summarize(label, action, succeeded, failed),
	}
	if failed > 0 {
		result.Failures = make([]BulkActionFailure, failed)
		copy(result.Failures, failures)
	}
	return result
}

// failAll reports every id as failed with the same message.
func failAll(ids []string, label string, action domain.BulkActionType, message string) BulkActionResult {
	failures := make([]BulkActionFailure, 0, len(ids))
	for _, id := range ids {
		failures = append(failures, BulkActionFailure{ID: id, Error: message})
	}
	return newResult(label, action, len(ids), 0, failures)
}

func summarize(label string, action domain.BulkActionType, succeeded, failed int) string {
	switch {
	case succeeded > 0 && failed == 0:
		return fmt.Sprintf("Successfully %s %d %s(s)", action.PastTense(), succeeded, label)
	case succeeded == 0:
		return fmt.Sprintf("Failed to %s any %s(s). %d item(s) failed.", action, label, failed)
	default:
		return fmt.Sprintf("%s %d %s(s), %d failed", capitalize(action.PastTense()), succeeded, label, failed)
	}
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
