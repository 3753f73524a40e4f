package estate

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrInUse means a delete was rejected because operations or
	// fractions still reference the record. Referential integrity is
	// enforced, never cascaded silently.
	ErrInUse = errors.New("record is referenced by existing data")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=estate
type Repository interface {
	CreateOwner(ctx context.Context, o *Owner) error
	GetOwner(ctx context.Context, id uuid.UUID) (*Owner, error)
	GetOwnerByEmail(ctx context.Context, email string) (*Owner, error)
	ListOwners(ctx context.Context) ([]*Owner, error)
	UpdateOwner(ctx context.Context, o *Owner) error
	DeleteOwner(ctx context.Context, id uuid.UUID) error

	CreateLot(ctx context.Context, l *Lot) error
	GetLot(ctx context.Context, id uuid.UUID) (*Lot, error)
	ListLots(ctx context.Context) ([]*Lot, error)
	UpdateLot(ctx context.Context, l *Lot) error
	DeleteLot(ctx context.Context, id uuid.UUID) error

	CreateAccount(ctx context.Context, a *BankAccount) error
	GetAccount(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	ListAccounts(ctx context.Context) ([]*BankAccount, error)
	UpdateAccount(ctx context.Context, a *BankAccount) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOwner(ctx context.Context, o *Owner) error {
	if o.Role == "" {
		o.Role = RoleRead
	}

	return s.repo.CreateOwner(ctx, o)
}

func (s *Service) GetOwner(ctx context.Context, id uuid.UUID) (*Owner, error) {
	return s.repo.GetOwner(ctx, id)
}

func (s *Service) GetOwnerByEmail(ctx context.Context, email string) (*Owner, error) {
	return s.repo.GetOwnerByEmail(ctx, email)
}

func (s *Service) ListOwners(ctx context.Context) ([]*Owner, error) {
	return s.repo.ListOwners(ctx)
}

func (s *Service) UpdateOwner(ctx context.Context, o *Owner) error {
	return s.repo.UpdateOwner(ctx, o)
}

func (s *Service) DeleteOwner(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOwner(ctx, id)
}

func (s *Service) CreateLot(ctx context.Context, l *Lot) error {
	return s.repo.CreateLot(ctx, l)
}

func (s *Service) GetLot(ctx context.Context, id uuid.UUID) (*Lot, error) {
	return s.repo.GetLot(ctx, id)
}

func (s *Service) ListLots(ctx context.Context) ([]*Lot, error) {
	return s.repo.ListLots(ctx)
}

func (s *Service) UpdateLot(ctx context.Context, l *Lot) error {
	return s.repo.UpdateLot(ctx, l)
}

func (s *Service) DeleteLot(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteLot(ctx, id)
}

func (s *Service) CreateAccount(ctx context.Context, a *BankAccount) error {
	return s.repo.CreateAccount(ctx, a)
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*BankAccount, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]*BankAccount, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) UpdateAccount(ctx context.Context, a *BankAccount) error {
	return s.repo.UpdateAccount(ctx, a)
}

func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, c *Category) error {
	if c.Kind == "" {
		c.Kind = KindProportional
	}

	if c.DefaultDirection == "" {
		c.DefaultDirection = DirectionOutflow
	}

	return s.repo.CreateCategory(ctx, c)
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// FindCategoryByName returns ErrNotFound when no category carries the name.
func (s *Service) FindCategoryByName(ctx context.Context, name string) (*Category, error) {
	return s.repo.FindCategoryByName(ctx, name)
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

// SeedCategories creates the default categories when none exist yet.
func (s *Service) SeedCategories(ctx context.Context) error {
	existing, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		return nil
	}

	for _, c := range DefaultCategories() {
		if err := s.repo.CreateCategory(ctx, &c); err != nil {
			return err
		}
	}

	return nil
}
