package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/allocate"
)

// ResyncSummary reports the outcome of a lot resync.
type ResyncSummary struct {
	Processed int
	Skipped   int
}

// Resync replays the allocation engine over every historical operation
// of the lot: existing allocations are deleted and recomputed from the
// current fraction data. The whole lot is one storage transaction,
// serialized by the lot advisory lock.
//
// An operation whose date is covered by no fraction record is left with
// zero allocations and counted as skipped instead of aborting the run;
// one bad historical date must not block resyncing the rest.
func (s *Service) Resync(ctx context.Context, lotID uuid.UUID) (ResyncSummary, error) {
	var summary ResyncSummary

	tx, err := s.repo.Begin(ctx, &lotID)
	if err != nil {
		return summary, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ops, err := tx.OperationsByLot(ctx, lotID)
	if err != nil {
		return summary, fmt.Errorf("list operations: %w", err)
	}

	for _, op := range ops {
		if err := tx.DeleteAllocations(ctx, op.ID); err != nil {
			return summary, fmt.Errorf("delete allocations: %w", err)
		}

		if err := s.reallocate(ctx, tx, op); err != nil {
			if errors.Is(err, allocate.ErrNoActiveFractions) {
				slog.Debug("resync: no fractions at date, skipping operation",
					"lot_id", lotID, "operation_id", op.ID, "date", op.Date)

				summary.Skipped++

				continue
			}

			return summary, err
		}

		summary.Processed++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("commit: %w", err)
	}

	return summary, nil
}
