package transfer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/allocate"
	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/ledger"
	"github.com/lbrossard/indivis/internal/money"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
}

type transferRequest struct {
	Date          string       `json:"date"`
	Amount        money.Amount `json:"amount"`
	FromAccountID uuid.UUID    `json:"from_account_id"`
	ToAccountID   uuid.UUID    `json:"to_account_id"`
	LotID         *uuid.UUID   `json:"lot_id,omitempty"`
	Label         string       `json:"label"`
}

type legResponse struct {
	ID         uuid.UUID        `json:"id"`
	Direction  estate.Direction `json:"direction"`
	AccountID  uuid.UUID        `json:"bank_account_id"`
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	Label      string           `json:"label"`
	Amount     money.Amount     `json:"amount"`
}

type transferResponse struct {
	Outflow legResponse `json:"outflow"`
	Inflow  legResponse `json:"inflow"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	outflow, inflow, err := h.svc.ComposeTransfer(r.Context(), ledger.TransferParams{
		Date:          date,
		Amount:        req.Amount,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		LotID:         req.LotID,
		Label:         req.Label,
	})
	if err != nil {
		if errors.Is(err, allocate.ErrNoActiveFractions) || errors.Is(err, ledger.ErrNegativeAmount) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := transferResponse{Outflow: toLeg(outflow), Inflow: toLeg(inflow)}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toLeg(op *ledger.Operation) legResponse {
	return legResponse{
		ID:         op.ID,
		Direction:  op.Direction,
		AccountID:  op.BankAccountID,
		CategoryID: op.CategoryID,
		Label:      op.Label,
		Amount:     op.Amount,
	}
}
