package fraction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lbrossard/indivis/internal/fraction"
)

func TestService_Create(t *testing.T) {
	lotID := uuid.New()
	ownerID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    fraction.CreateParams
		setupMock func(m *fraction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: fraction.CreateParams{
				LotID:       lotID,
				OwnerID:     ownerID,
				Numerator:   1,
				Denominator: 3,
				StartDate:   start,
			},
			setupMock: func(m *fraction.MockRepository) {
				m.EXPECT().
					CreateFraction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, f *fraction.Fraction) error {
						f.ID = uuid.New()
						f.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "ZeroNumerator",
			params: fraction.CreateParams{
				LotID: lotID, OwnerID: ownerID, Numerator: 0, Denominator: 3, StartDate: start,
			},
			wantErr: fraction.ErrInvalidFraction,
		},
		{
			name: "NegativeDenominator",
			params: fraction.CreateParams{
				LotID: lotID, OwnerID: ownerID, Numerator: 1, Denominator: -2, StartDate: start,
			},
			wantErr: fraction.ErrInvalidFraction,
		},
		{
			name: "RepoError",
			params: fraction.CreateParams{
				LotID: lotID, OwnerID: ownerID, Numerator: 1, Denominator: 2, StartDate: start,
			},
			setupMock: func(m *fraction.MockRepository) {
				m.EXPECT().
					CreateFraction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := fraction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := fraction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.params.Numerator, got.Numerator)
			assert.Equal(t, tt.params.Denominator, got.Denominator)
		})
	}
}

func TestService_Update_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := fraction.NewMockRepository(ctrl)
	svc := fraction.NewService(repo)

	err := svc.Update(context.Background(), &fraction.Fraction{Numerator: 1, Denominator: 0})
	assert.ErrorIs(t, err, fraction.ErrInvalidFraction)
}

func TestService_ValidateSum(t *testing.T) {
	lotID := uuid.New()
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	active := func(fracs ...*fraction.Fraction) func(m *fraction.MockRepository) {
		return func(m *fraction.MockRepository) {
			m.EXPECT().ActiveFractions(gomock.Any(), lotID, date).Return(fracs, nil)
		}
	}

	type testCase struct {
		name      string
		setupMock func(m *fraction.MockRepository)
		want      bool
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "ExactThirds",
			setupMock: active(
				&fraction.Fraction{Numerator: 1, Denominator: 3},
				&fraction.Fraction{Numerator: 2, Denominator: 3},
			),
			want: true,
		},
		{
			name: "MixedDenominators",
			setupMock: active(
				&fraction.Fraction{Numerator: 1, Denominator: 2},
				&fraction.Fraction{Numerator: 1, Denominator: 4},
				&fraction.Fraction{Numerator: 1, Denominator: 4},
			),
			want: true,
		},
		{
			name: "SumBelowOne",
			setupMock: active(
				&fraction.Fraction{Numerator: 1, Denominator: 2},
				&fraction.Fraction{Numerator: 1, Denominator: 4},
			),
			want: false,
		},
		{
			name: "SumAboveOne",
			setupMock: active(
				&fraction.Fraction{Numerator: 2, Denominator: 3},
				&fraction.Fraction{Numerator: 2, Denominator: 3},
			),
			want: false,
		},
		{
			name:      "NoActiveFractions",
			setupMock: active(),
			want:      false,
		},
		{
			name: "RepoError",
			setupMock: func(m *fraction.MockRepository) {
				m.EXPECT().
					ActiveFractions(gomock.Any(), lotID, date).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := fraction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := fraction.NewService(repo)
			got, err := svc.ValidateSum(context.Background(), lotID, date)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFraction_ActiveAt(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	openEnded := &fraction.Fraction{StartDate: start}
	bounded := &fraction.Fraction{StartDate: start, EndDate: &end}

	assert.False(t, openEnded.ActiveAt(start.AddDate(0, 0, -1)))
	assert.True(t, openEnded.ActiveAt(start))
	assert.True(t, openEnded.ActiveAt(start.AddDate(10, 0, 0)))

	assert.True(t, bounded.ActiveAt(end))
	assert.False(t, bounded.ActiveAt(end.AddDate(0, 0, 1)))
}
