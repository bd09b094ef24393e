package bulk

import (
	"context"
	"time"

	"github.com/goliatone/go-quizbox/internal/domain"
)

// Strategy applies one action to a single entity inside an open transaction.
type Strategy interface {
	Action() domain.BulkActionType
	Execute(ctx context.Context, tx Tx, entity *Entity) error
}

// statusStrategy moves an entity to target unless skip reports the entity is
// already where the action wants it.
type statusStrategy struct {
	action domain.BulkActionType
	target domain.ContentStatus
	skip   func(domain.ContentStatus) bool
	now    func() time.Time
}

// NewPublishStrategy publishes anything not already published.
func NewPublishStrategy(clock func() time.Time) Strategy {
	return statusStrategy{
		action: domain.ActionPublish,
		target: domain.StatusPublished,
		skip:   equals(domain.StatusPublished),
		now:    ensureClock(clock),
	}
}

// NewDraftStrategy moves anything not already a draft back to draft.
func NewDraftStrategy(clock func() time.Time) Strategy {
	return statusStrategy{
		action: domain.ActionDraft,
		target: domain.StatusDraft,
		skip:   equals(domain.StatusDraft),
		now:    ensureClock(clock),
	}
}

// NewTrashStrategy moves anything not already trashed to the trash.
func NewTrashStrategy(clock func() time.Time) Strategy {
	return statusStrategy{
		action: domain.ActionTrash,
		target: domain.StatusTrash,
		skip:   equals(domain.StatusTrash),
		now:    ensureClock(clock),
	}
}

// NewRestoreStrategy returns trashed entities to draft. The status held
// before trashing is not retained, so restore always lands in draft.
func NewRestoreStrategy(clock func() time.Time) Strategy {
	return statusStrategy{
		action: domain.ActionRestore,
		target: domain.StatusDraft,
		skip: func(status domain.ContentStatus) bool {
			return status != domain.StatusTrash
		},
		now: ensureClock(clock),
	}
}

func (s statusStrategy) Action() domain.BulkActionType { return s.action }

func (s statusStrategy) Execute(ctx context.Context, tx Tx, entity *Entity) error {
	if entity == nil {
		return &TransitionError{Action: s.action, Err: ErrEntityRequired}
	}
	if s.skip(entity.Status) {
		return nil
	}

	at := s.now()
	if err := tx.UpdateStatus(ctx, entity.ID, s.target, at); err != nil {
		return &TransitionError{ID: entity.ID, Action: s.action, Err: err}
	}
	entity.Status = s.target
	entity.UpdatedAt = &at
	return nil
}

// deleteStrategy removes the entity permanently. It has no guard: a missing
// id never reaches a strategy.
type deleteStrategy struct{}

// NewDeleteStrategy hard-deletes entities regardless of status.
func NewDeleteStrategy() Strategy {
	return deleteStrategy{}
}

func (deleteStrategy) Action() domain.BulkActionType { return domain.ActionDelete }

func (deleteStrategy) Execute(ctx context.Context, tx Tx, entity *Entity) error {
	if entity == nil {
		return &TransitionError{Action: domain.ActionDelete, Err: ErrEntityRequired}
	}
	if err := tx.DeleteByID(ctx, entity.ID); err != nil {
		return &TransitionError{ID: entity.ID, Action: domain.ActionDelete, Err: err}
	}
	entity.markDeleted()
	return nil
}

func equals(target domain.ContentStatus) func(domain.ContentStatus) bool {
	return func(status domain.ContentStatus) bool {
		return status == target
	}
}

func ensureClock(clock func() time.Time) func() time.Time {
	if clock == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return clock
}
