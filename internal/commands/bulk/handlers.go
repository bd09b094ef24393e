package bulkcmd

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-quizbox/internal/bulk"
	"github.com/goliatone/go-quizbox/internal/catalog"
	"github.com/goliatone/go-quizbox/internal/commands"
	"github.com/goliatone/go-quizbox/internal/domain"
	"github.com/goliatone/go-quizbox/internal/logging"
	"github.com/goliatone/go-quizbox/pkg/interfaces"
)

const batchTooLargeCode = "BULK_BATCH_TOO_LARGE"

// ErrBatchTooLarge reports a request above the configured batch limit.
var ErrBatchTooLarge = errors.New("bulkcmd: batch exceeds maximum size")

// Targets resolves a content kind to its storage target.
type Targets interface {
	Target(kind domain.ContentKind) (catalog.Target, error)
}

// BulkStatusHandler runs bulk status transitions and invalidates the kind's
// read cache after any committed change.
type BulkStatusHandler struct {
	inner *commands.QueryHandler[BulkStatusCommand, bulk.BulkActionResult]
}

// NewBulkStatusHandler wires the handler. maxBatchSize <= 0 disables the limit.
func NewBulkStatusHandler(targets Targets, engine *bulk.Engine, logger interfaces.Logger, maxBatchSize int, opts ...commands.HandlerOption[BulkStatusCommand]) *BulkStatusHandler {
	if engine == nil {
		engine = bulk.NewEngine()
	}
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BulkStatusCommand) (bulk.BulkActionResult, error) {
		if maxBatchSize > 0 && len(msg.IDs) > maxBatchSize {
			err := fmt.Errorf("%w: %d ids, limit %d", ErrBatchTooLarge, len(msg.IDs), maxBatchSize)
			return bulk.BulkActionResult{}, goerrors.Wrap(err, goerrors.CategoryValidation, "bulk batch too large").
				WithTextCode(batchTooLargeCode)
		}

		target, err := targets.Target(msg.Kind)
		if err != nil {
			return bulk.BulkActionResult{}, err
		}

		entry := logging.WithBulkContext(logging.FromContext(ctx, baseLogger), string(msg.Kind), string(msg.Action), len(msg.IDs))
		result := engine.ExecuteBulkAction(ctx, target, target.Label(), msg.IDs, msg.Action)

		if result.Succeeded > 0 {
			if err := target.InvalidateCache(context.WithoutCancel(ctx)); err != nil {
				entry.Warn("bulk.cache.invalidate_failed", "error", err)
			}
		}

		entry.Info("bulk.action.completed",
			"processed", result.Processed,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
		)
		if result.Failed > 0 {
			entry.Warn("bulk.action.failed_items", "failures", result.Failures)
		}
		return result, nil
	}

	handlerOpts := []commands.HandlerOption[BulkStatusCommand]{
		commands.WithLogger[BulkStatusCommand](baseLogger),
		commands.WithOperation[BulkStatusCommand]("content.bulk_status"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BulkStatusHandler{
		inner: commands.NewQueryHandler(exec, handlerOpts...),
	}
}

// Run executes msg and returns the batch result.
func (h *BulkStatusHandler) Run(ctx context.Context, msg BulkStatusCommand) (bulk.BulkActionResult, error) {
	return h.inner.Query(ctx, msg)
}

// Execute satisfies command.Commander[BulkStatusCommand].
func (h *BulkStatusHandler) Execute(ctx context.Context, msg BulkStatusCommand) error {
	_, err := h.Run(ctx, msg)
	return err
}

// StatusCountsHandler reads the status tally of a content kind.
type StatusCountsHandler struct {
	inner *commands.QueryHandler[StatusCountsQuery, bulk.StatusCountResponse]
}

// NewStatusCountsHandler wires the handler to targets.
func NewStatusCountsHandler(targets Targets, logger interfaces.Logger, opts ...commands.HandlerOption[StatusCountsQuery]) *StatusCountsHandler {
	exec := func(ctx context.Context, msg StatusCountsQuery) (bulk.StatusCountResponse, error) {
		target, err := targets.Target(msg.Kind)
		if err != nil {
			return bulk.StatusCountResponse{}, err
		}
		return bulk.StatusCounts(ctx, target)
	}

	handlerOpts := []commands.HandlerOption[StatusCountsQuery]{
		commands.WithLogger[StatusCountsQuery](logger),
		commands.WithOperation[StatusCountsQuery]("content.status_counts"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &StatusCountsHandler{
		inner: commands.NewQueryHandler(exec, handlerOpts...),
	}
}

// Run returns the tally for msg.Kind.
func (h *StatusCountsHandler) Run(ctx context.Context, msg StatusCountsQuery) (bulk.StatusCountResponse, error) {
	return h.inner.Query(ctx, msg)
}
