package bulk

import (
	"time"

	"github.com/goliatone/go-quizbox/internal/domain"
)

// Resolver maps an action to its strategy. The action set is closed, so the
// mapping is a switch rather than a registry.
type Resolver struct {
	publish Strategy
	draft   Strategy
	trash   Strategy
	restore Strategy
	remove  Strategy
}

// NewResolver builds the strategy set sharing the supplied clock.
func NewResolver(clock func() time.Time) *Resolver {
	return &Resolver{
		publish: NewPublishStrategy(clock),
		draft:   NewDraftStrategy(clock),
		trash:   NewTrashStrategy(clock),
		restore: NewRestoreStrategy(clock),
		remove:  NewDeleteStrategy(),
	}
}

// Resolve returns the strategy for action, or false when the action is unknown.
func (r *Resolver) Resolve(action domain.BulkActionType) (Strategy, bool) {
	if r == nil {
		return nil, false
	}
	switch action {
	case domain.ActionPublish:
		return r.publish, true
	case domain.ActionDraft:
		return r.draft, true
	case domain.ActionTrash:
		return r.trash, true
	case domain.ActionRestore:
		return r.restore, true
	case domain.ActionDelete:
		return r.remove, true
	default:
		return nil, false
	}
}
