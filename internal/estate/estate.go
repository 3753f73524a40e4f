// Package estate holds the reference entities of the co-ownership:
// owners, lots, bank accounts and operation categories.
package estate

import (
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/money"
)

// Direction is the flow of an operation relative to the bank account.
type Direction string

const (
	DirectionInflow  Direction = "INFLOW"
	DirectionOutflow Direction = "OUTFLOW"
)

// Role controls what an owner may do through the API.
type Role string

const (
	RoleRead  Role = "READ"
	RoleWrite Role = "WRITE"
	RoleAdmin Role = "ADMIN"
)

// CanWrite reports whether the role allows mutations.
func (r Role) CanWrite() bool { return r == RoleWrite || r == RoleAdmin }

// CategoryKind tags how operations in a category are allocated.
// Proportional categories require a lot and split through the fraction
// ledger; direct-redistribution categories may skip the lot and assign
// the full amount to a single named owner.
type CategoryKind string

const (
	KindProportional         CategoryKind = "PROPORTIONAL"
	KindDirectRedistribution CategoryKind = "DIRECT_REDISTRIBUTION"
)

// Owner is a member of the indivision.
type Owner struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Lot is a distinct property unit under shared ownership.
type Lot struct {
	ID          uuid.UUID
	Name        string
	Kind        string // Appartement, Cave, Parking, ...
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// BankAccount is one of the indivision's bank accounts.
type BankAccount struct {
	ID             uuid.UUID
	Name           string
	IBAN           string
	InitialBalance money.Amount
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Category tags an operation's purpose.
type Category struct {
	ID               uuid.UUID
	Name             string
	DefaultDirection Direction
	Kind             CategoryKind
	Description      string
	CreatedAt        time.Time
}

// Default category names seeded on first run. FRAIS_BANCAIRES and AUTRE
// are also the best-effort categories of composed transfers.
const (
	CategoryLoyer          = "LOYER"
	CategoryCharges        = "CHARGES"
	CategoryTravaux        = "TRAVAUX"
	CategoryTaxes          = "TAXES"
	CategoryEntretien      = "ENTRETIEN"
	CategorySyndic         = "SYNDIC"
	CategoryAssurance      = "ASSURANCE"
	CategoryFraisBancaires = "FRAIS_BANCAIRES"
	CategoryReversement    = "REVERSEMENT"
	CategoryAutre          = "AUTRE"
)

// DefaultCategories returns the seed set: LOYER is the only inflow by
// default, REVERSEMENT the only direct redistribution.
func DefaultCategories() []Category {
	names := []string{
		CategoryLoyer, CategoryCharges, CategoryTravaux, CategoryTaxes,
		CategoryEntretien, CategorySyndic, CategoryAssurance,
		CategoryFraisBancaires, CategoryReversement, CategoryAutre,
	}

	cats := make([]Category, 0, len(names))

	for _, name := range names {
		dir := DirectionOutflow
		if name == CategoryLoyer {
			dir = DirectionInflow
		}

		kind := KindProportional
		if name == CategoryReversement {
			kind = KindDirectRedistribution
		}

		cats = append(cats, Category{Name: name, DefaultDirection: dir, Kind: kind})
	}

	return cats
}
