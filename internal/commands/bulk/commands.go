package bulkcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-quizbox/internal/domain"
)

const (
	bulkStatusMessageType   = "quizbox.content.bulk_status"
	statusCountsMessageType = "quizbox.content.status_counts"
)

// BulkStatusCommand applies Action to every id of one content kind.
type BulkStatusCommand struct {
	Kind   domain.ContentKind    `json:"kind"`
	IDs    []string              `json:"ids"`
	Action domain.BulkActionType `json:"action"`
}

// Type implements command.Message.
func (BulkStatusCommand) Type() string { return bulkStatusMessageType }

// Validate checks the shape of the request. The action is only required to
// be present; unknown actions are reported per item by the engine.
func (m BulkStatusCommand) Validate() error {
	errs := validation.Errors{}
	if !m.Kind.Valid() {
		errs["kind"] = validation.NewError("quizbox.content.bulk_status.kind_invalid", "kind must be one of question, riddle, joke")
	}
	if len(m.IDs) == 0 {
		errs["ids"] = validation.NewError("quizbox.content.bulk_status.ids_required", "at least one id is required")
	} else {
		for _, id := range m.IDs {
			if strings.TrimSpace(id) == "" {
				errs["ids"] = validation.NewError("quizbox.content.bulk_status.id_blank", "ids must not contain blank values")
				break
			}
		}
	}
	if strings.TrimSpace(string(m.Action)) == "" {
		errs["action"] = validation.NewError("quizbox.content.bulk_status.action_required", "action is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StatusCountsQuery requests the status tally for one content kind.
type StatusCountsQuery struct {
	Kind domain.ContentKind `json:"kind"`
}

// Type implements command.Message.
func (StatusCountsQuery) Type() string { return statusCountsMessageType }

// Validate ensures the kind is supported.
func (m StatusCountsQuery) Validate() error {
	if !m.Kind.Valid() {
		return validation.Errors{
			"kind": validation.NewError("quizbox.content.status_counts.kind_invalid", "kind must be one of question, riddle, joke"),
		}
	}
	return nil
}
