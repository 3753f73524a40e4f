package operation

import (
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/ledger"
	"github.com/lbrossard/indivis/internal/money"
)

type operationResponse struct {
	ID               uuid.UUID            `json:"id"`
	Date             string               `json:"date"`
	Amount           money.Amount         `json:"amount"`
	Direction        estate.Direction     `json:"direction"`
	LotID            *uuid.UUID           `json:"lot_id,omitempty"`
	BankAccountID    uuid.UUID            `json:"bank_account_id"`
	CategoryID       *uuid.UUID           `json:"category_id,omitempty"`
	Label            string               `json:"label"`
	PaidByOwnerID    *uuid.UUID           `json:"paid_by_owner_id,omitempty"`
	RecipientOwnerID *uuid.UUID           `json:"recipient_owner_id,omitempty"`
	ProofFilename    string               `json:"proof_filename,omitempty"`
	Allocations      []allocationResponse `json:"allocations,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        *time.Time           `json:"updated_at,omitempty"`
}

type allocationResponse struct {
	ID      uuid.UUID    `json:"id"`
	OwnerID uuid.UUID    `json:"owner_id"`
	Amount  money.Amount `json:"amount"`
}

func toResponse(op *ledger.Operation) operationResponse {
	resp := operationResponse{
		ID:               op.ID,
		Date:             op.Date.Format(time.DateOnly),
		Amount:           op.Amount,
		Direction:        op.Direction,
		LotID:            op.LotID,
		BankAccountID:    op.BankAccountID,
		CategoryID:       op.CategoryID,
		Label:            op.Label,
		PaidByOwnerID:    op.PaidByOwnerID,
		RecipientOwnerID: op.RecipientOwnerID,
		ProofFilename:    op.ProofFilename,
		CreatedAt:        op.CreatedAt,
		UpdatedAt:        op.UpdatedAt,
	}

	for _, a := range op.Allocations {
		resp.Allocations = append(resp.Allocations, allocationResponse{
			ID:      a.ID,
			OwnerID: a.OwnerID,
			Amount:  a.Amount,
		})
	}

	return resp
}

func toResponseList(ops []*ledger.Operation) []operationResponse {
	resp := make([]operationResponse, len(ops))
	for i, op := range ops {
		resp[i] = toResponse(op)
	}

	return resp
}
