package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/fraction"
	"github.com/lbrossard/indivis/internal/ledger"
	"github.com/lbrossard/indivis/internal/money"
)

func TestService_Resync_ReplaysAllOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	lotID := uuid.New()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	ops := []*ledger.Operation{
		{ID: uuid.New(), Date: date, Amount: money.MustParse("90.00"), Direction: estate.DirectionOutflow, LotID: &lotID},
		{ID: uuid.New(), Date: date, Amount: money.MustParse("30.00"), Direction: estate.DirectionInflow, LotID: &lotID},
	}

	repo.EXPECT().Begin(gomock.Any(), &lotID).Return(tx, nil)
	tx.EXPECT().OperationsByLot(gomock.Any(), lotID).Return(ops, nil)
	tx.EXPECT().DeleteAllocations(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	tx.EXPECT().
		ActiveFractions(gomock.Any(), lotID, date).
		Return([]*fraction.Fraction{frac(ownerA, 1, 3), frac(ownerB, 2, 3)}, nil).
		Times(2)
	tx.EXPECT().CreateAllocations(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Resync(context.Background(), lotID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)

	for _, op := range ops {
		assert.Equal(t, op.Amount, op.AllocatedTotal())
	}
}

// An operation dated before any fraction record is skipped, not fatal:
// its allocations are cleared and the rest of the lot still resyncs.
func TestService_Resync_SkipsUncoveredDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	lotID := uuid.New()
	before := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	ops := []*ledger.Operation{
		{ID: uuid.New(), Date: before, Amount: money.MustParse("10.00"), LotID: &lotID},
		{ID: uuid.New(), Date: after, Amount: money.MustParse("20.00"), LotID: &lotID},
	}

	repo.EXPECT().Begin(gomock.Any(), &lotID).Return(tx, nil)
	tx.EXPECT().OperationsByLot(gomock.Any(), lotID).Return(ops, nil)
	tx.EXPECT().DeleteAllocations(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	tx.EXPECT().ActiveFractions(gomock.Any(), lotID, before).Return(nil, nil)
	tx.EXPECT().
		ActiveFractions(gomock.Any(), lotID, after).
		Return([]*fraction.Fraction{frac(ownerA, 1, 1)}, nil)
	tx.EXPECT().CreateAllocations(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Resync(context.Background(), lotID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, ops[0].Allocations)
	assert.Equal(t, money.MustParse("20.00"), ops[1].AllocatedTotal())
}

func TestService_Resync_EmptyLot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	lotID := uuid.New()

	repo.EXPECT().Begin(gomock.Any(), &lotID).Return(tx, nil)
	tx.EXPECT().OperationsByLot(gomock.Any(), lotID).Return(nil, nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Resync(context.Background(), lotID)
	require.NoError(t, err)

	assert.Zero(t, summary.Processed)
	assert.Zero(t, summary.Skipped)
}
