package bulk

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-quizbox/internal/domain"
)

var (
	ErrRepositoryRequired = errors.New("bulk: repository is required")
	ErrCounterRequired    = errors.New("bulk: status counter is required")
	ErrEntityRequired     = errors.New("bulk: entity is required")
)

// TransitionError reports a storage failure while applying an action to one entity.
type TransitionError struct {
	ID     string
	Action domain.BulkActionType
	Err    error
}

func (e *TransitionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Action)
	}
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

func unknownActionMessage(action domain.BulkActionType) string {
	return fmt.Sprintf("Unknown action: %s", action)
}

func notFoundMessage(label string) string {
	return label + " not found"
}
