package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lbrossard/indivis/internal/allocate"
	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/fraction"
	"github.com/lbrossard/indivis/internal/ledger"
	"github.com/lbrossard/indivis/internal/money"
)

var (
	ownerA = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	ownerB = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

func frac(owner uuid.UUID, num, den int64) *fraction.Fraction {
	return &fraction.Fraction{OwnerID: owner, Numerator: num, Denominator: den}
}

func TestService_Create_DistributesOverLot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	lotID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().Begin(gomock.Any(), &lotID).Return(tx, nil)
	tx.EXPECT().
		CreateOperation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, op *ledger.Operation) error {
			op.ID = uuid.New()
			op.CreatedAt = time.Now()
			return nil
		})
	tx.EXPECT().
		ActiveFractions(gomock.Any(), lotID, date).
		Return([]*fraction.Fraction{frac(ownerA, 1, 3), frac(ownerB, 2, 3)}, nil)
	tx.EXPECT().CreateAllocations(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	op, err := svc.Create(context.Background(), ledger.CreateParams{
		Date:          date,
		Amount:        money.MustParse("100.00"),
		Direction:     estate.DirectionOutflow,
		LotID:         &lotID,
		BankAccountID: uuid.New(),
		Label:         "Facture syndic",
	})
	require.NoError(t, err)
	require.Len(t, op.Allocations, 2)

	assert.Equal(t, money.MustParse("33.33"), op.Allocations[0].Amount)
	assert.Equal(t, money.MustParse("66.67"), op.Allocations[1].Amount)
	assert.Equal(t, op.Amount, op.AllocatedTotal())
}

func TestService_Create_NoActiveFractions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	lotID := uuid.New()
	date := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().Begin(gomock.Any(), &lotID).Return(tx, nil)
	tx.EXPECT().CreateOperation(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().ActiveFractions(gomock.Any(), lotID, date).Return(nil, nil)
	tx.EXPECT().Rollback().Return(nil)

	_, err := svc.Create(context.Background(), ledger.CreateParams{
		Date:          date,
		Amount:        money.MustParse("50.00"),
		Direction:     estate.DirectionOutflow,
		LotID:         &lotID,
		BankAccountID: uuid.New(),
	})
	assert.ErrorIs(t, err, allocate.ErrNoActiveFractions)
}

func TestService_Create_NegativeAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	_, err := svc.Create(context.Background(), ledger.CreateParams{
		Amount: money.Amount(-1),
	})
	assert.ErrorIs(t, err, ledger.ErrNegativeAmount)
}

func TestService_Create_LotFree(t *testing.T) {
	redistributionID := uuid.New()
	proportionalID := uuid.New()

	type testCase struct {
		name      string
		params    ledger.CreateParams
		setupMock func(tx *ledger.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "NoCategory",
			params: ledger.CreateParams{
				Amount:        money.MustParse("10.00"),
				BankAccountID: uuid.New(),
			},
			wantErr: ledger.ErrLotRequired,
		},
		{
			name: "ProportionalCategory",
			params: ledger.CreateParams{
				Amount:        money.MustParse("10.00"),
				BankAccountID: uuid.New(),
				CategoryID:    &proportionalID,
			},
			setupMock: func(tx *ledger.MockTx) {
				tx.EXPECT().GetCategory(gomock.Any(), proportionalID).
					Return(&estate.Category{ID: proportionalID, Kind: estate.KindProportional}, nil)
			},
			wantErr: ledger.ErrLotRequired,
		},
		{
			name: "RedistributionWithoutRecipient",
			params: ledger.CreateParams{
				Amount:        money.MustParse("10.00"),
				BankAccountID: uuid.New(),
				CategoryID:    &redistributionID,
			},
			setupMock: func(tx *ledger.MockTx) {
				tx.EXPECT().GetCategory(gomock.Any(), redistributionID).
					Return(&estate.Category{ID: redistributionID, Kind: estate.KindDirectRedistribution}, nil)
			},
			wantErr: ledger.ErrRecipientRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tx := ledger.NewMockTx(ctrl)
			svc := ledger.NewService(repo)

			repo.EXPECT().Begin(gomock.Any(), gomock.Nil()).Return(tx, nil)
			tx.EXPECT().Rollback().Return(nil)

			if tt.setupMock != nil {
				tt.setupMock(tx)
			}

			_, err := svc.Create(context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Create_DirectRedistribution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	categoryID := uuid.New()
	recipient := ownerA

	repo.EXPECT().Begin(gomock.Any(), gomock.Nil()).Return(tx, nil)
	tx.EXPECT().GetCategory(gomock.Any(), categoryID).
		Return(&estate.Category{ID: categoryID, Kind: estate.KindDirectRedistribution}, nil)
	tx.EXPECT().
		CreateOperation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, op *ledger.Operation) error {
			op.ID = uuid.New()
			return nil
		})
	tx.EXPECT().CreateAllocations(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	op, err := svc.Create(context.Background(), ledger.CreateParams{
		Date:             time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:           money.MustParse("200.00"),
		Direction:        estate.DirectionOutflow,
		BankAccountID:    uuid.New(),
		CategoryID:       &categoryID,
		RecipientOwnerID: &recipient,
	})
	require.NoError(t, err)
	require.Len(t, op.Allocations, 1)

	assert.Equal(t, recipient, op.Allocations[0].OwnerID)
	assert.Equal(t, money.MustParse("200.00"), op.Allocations[0].Amount)
}

func TestService_Update_RegeneratesAllocations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	lotID := uuid.New()
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	op := &ledger.Operation{
		ID:            uuid.New(),
		Date:          date,
		Amount:        money.MustParse("60.00"),
		Direction:     estate.DirectionOutflow,
		LotID:         &lotID,
		BankAccountID: uuid.New(),
	}

	repo.EXPECT().Begin(gomock.Any(), &lotID).Return(tx, nil)
	tx.EXPECT().UpdateOperation(gomock.Any(), op).Return(nil)
	tx.EXPECT().DeleteAllocations(gomock.Any(), op.ID).Return(nil)
	tx.EXPECT().
		ActiveFractions(gomock.Any(), lotID, date).
		Return([]*fraction.Fraction{frac(ownerA, 1, 2), frac(ownerB, 1, 2)}, nil)
	tx.EXPECT().CreateAllocations(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	require.NoError(t, svc.Update(context.Background(), op))
	require.Len(t, op.Allocations, 2)
	assert.Equal(t, money.MustParse("30.00"), op.Allocations[0].Amount)
	assert.Equal(t, money.MustParse("30.00"), op.Allocations[1].Amount)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	id := uuid.New()

	repo.EXPECT().Begin(gomock.Any(), gomock.Nil()).Return(tx, nil)
	tx.EXPECT().DeleteAllocations(gomock.Any(), id).Return(nil)
	tx.EXPECT().DeleteOperation(gomock.Any(), id).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), id))
}

func TestService_CreateBatch_RollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	svc := ledger.NewService(repo)

	params := []ledger.CreateParams{
		{Amount: money.MustParse("10.00"), BankAccountID: uuid.New(), Date: time.Now()},
		{Amount: money.MustParse("20.00"), BankAccountID: uuid.New(), Date: time.Now()},
	}

	repo.EXPECT().Begin(gomock.Any(), gomock.Nil()).Return(tx, nil)
	tx.EXPECT().CreateOperation(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().CreateOperation(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
	tx.EXPECT().Rollback().Return(nil)

	_, err := svc.CreateBatch(context.Background(), params)
	assert.Error(t, err)
}
