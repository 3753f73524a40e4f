// Package ledger owns bank operations and their per-owner allocations.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/money"
)

// Operation is a single bank ledger entry. The amount is a non-negative
// magnitude; Direction carries the sign.
type Operation struct {
	ID            uuid.UUID
	Date          time.Time
	Amount        money.Amount
	Direction     estate.Direction
	LotID         *uuid.UUID
	BankAccountID uuid.UUID
	CategoryID    *uuid.UUID
	Label         string

	// PaidByOwnerID marks an expense advanced personally by an owner
	// (note de frais).
	PaidByOwnerID *uuid.UUID

	// RecipientOwnerID is the single 100% recipient of a lot-free
	// direct-redistribution operation.
	RecipientOwnerID *uuid.UUID

	ProofFilename string

	// Allocations are derived data, owned by the operation: deleted and
	// regenerated whenever amount, lot or date changes.
	Allocations []*Allocation

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Allocation is the portion of an operation's amount attributed to one
// owner. For any lot-bound operation the allocation amounts sum to the
// operation amount exactly.
type Allocation struct {
	ID          uuid.UUID
	OperationID uuid.UUID
	OwnerID     uuid.UUID
	Amount      money.Amount
}

// AllocatedTotal sums the operation's allocations.
func (o *Operation) AllocatedTotal() money.Amount {
	var total money.Amount
	for _, a := range o.Allocations {
		total += a.Amount
	}

	return total
}
