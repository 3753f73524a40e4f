package fraction

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("fraction not found")
	ErrInvalidFraction = errors.New("numerator and denominator must be positive")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=fraction
type Repository interface {
	CreateFraction(ctx context.Context, f *Fraction) error
	GetFraction(ctx context.Context, id uuid.UUID) (*Fraction, error)
	UpdateFraction(ctx context.Context, f *Fraction) error
	DeleteFraction(ctx context.Context, id uuid.UUID) error

	ListFractions(ctx context.Context, lotID uuid.UUID) ([]*Fraction, error)
	ActiveFractions(ctx context.Context, lotID uuid.UUID, date time.Time) ([]*Fraction, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	LotID       uuid.UUID
	OwnerID     uuid.UUID
	Numerator   int64
	Denominator int64
	StartDate   time.Time
	EndDate     *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Fraction, error) {
	if params.Numerator <= 0 || params.Denominator <= 0 {
		return nil, ErrInvalidFraction
	}

	f := &Fraction{
		LotID:       params.LotID,
		OwnerID:     params.OwnerID,
		Numerator:   params.Numerator,
		Denominator: params.Denominator,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
	}
	if err := s.repo.CreateFraction(ctx, f); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Fraction, error) {
	return s.repo.GetFraction(ctx, id)
}

func (s *Service) Update(ctx context.Context, f *Fraction) error {
	if f.Numerator <= 0 || f.Denominator <= 0 {
		return ErrInvalidFraction
	}

	return s.repo.UpdateFraction(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteFraction(ctx, id)
}

func (s *Service) List(ctx context.Context, lotID uuid.UUID) ([]*Fraction, error) {
	return s.repo.ListFractions(ctx, lotID)
}

// ActiveFractions answers "who owns what share of this lot on this date".
// Overlapping records for the same owner are returned as-is, never
// merged; keeping them distinct is the caller's responsibility.
func (s *Service) ActiveFractions(ctx context.Context, lotID uuid.UUID, date time.Time) ([]*Fraction, error) {
	return s.repo.ActiveFractions(ctx, lotID, date)
}

// ValidateSum reports whether the fractions active on the given date sum
// to exactly 1. The check is advisory: distribution never depends on it.
// An empty active set is not valid ownership and returns false.
//
// The common denominator is the plain product of all denominators. No
// LCM reduction is attempted; the product can exceed int64 with a
// handful of records, so the sum is carried in big.Int.
func (s *Service) ValidateSum(ctx context.Context, lotID uuid.UUID, date time.Time) (bool, error) {
	active, err := s.repo.ActiveFractions(ctx, lotID, date)
	if err != nil {
		return false, fmt.Errorf("loading active fractions: %w", err)
	}

	if len(active) == 0 {
		return false, nil
	}

	common := big.NewInt(1)
	for _, f := range active {
		common.Mul(common, big.NewInt(f.Denominator))
	}

	total := new(big.Int)

	for _, f := range active {
		factor := new(big.Int).Div(common, big.NewInt(f.Denominator))
		total.Add(total, factor.Mul(factor, big.NewInt(f.Numerator)))
	}

	return total.Cmp(common) == 0, nil
}
