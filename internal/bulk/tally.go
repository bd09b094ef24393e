package bulk

import (
	"context"
	"fmt"

	"github.com/goliatone/go-quizbox/internal/domain"
	"golang.org/x/sync/errgroup"
)

// StatusCountResponse reports how many entities sit in each status.
type StatusCountResponse struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Trash     int `json:"trash"`
}

// StatusCounts runs the four counts concurrently. Counts are read fresh on
// every call and are not required to be mutually consistent.
func StatusCounts(ctx context.Context, counter StatusCounter) (StatusCountResponse, error) {
	if counter == nil {
		return StatusCountResponse{}, ErrCounterRequired
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var resp StatusCountResponse
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		total, err := counter.CountAll(gctx)
		if err != nil {
			return fmt.Errorf("count total: %w", err)
		}
		resp.Total = total
		return nil
	})
	countInto := func(status domain.ContentStatus, dest *int) {
		group.Go(func() error {
			count, err := counter.CountByStatus(gctx, status)
			if err != nil {
				return fmt.Errorf("count %s: %w", status, err)
			}
			*dest = count
			return nil
		})
	}
	countInto(domain.StatusPublished, &resp.Published)
	countInto(domain.StatusDraft, &resp.Draft)
	countInto(domain.StatusTrash, &resp.Trash)

	if err := group.Wait(); err != nil {
		return StatusCountResponse{}, err
	}
	return resp, nil
}
