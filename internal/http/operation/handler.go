package operation

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
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/allocations", h.allocations)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createOperationRequest struct {
	Date             string           `json:"date"`
	Amount           money.Amount     `json:"amount"`
	Direction        estate.Direction `json:"direction"`
	LotID            *uuid.UUID       `json:"lot_id,omitempty"`
	BankAccountID    uuid.UUID        `json:"bank_account_id"`
	CategoryID       *uuid.UUID       `json:"category_id,omitempty"`
	Label            string           `json:"label"`
	PaidByOwnerID    *uuid.UUID       `json:"paid_by_owner_id,omitempty"`
	RecipientOwnerID *uuid.UUID       `json:"recipient_owner_id,omitempty"`
	ProofFilename    string           `json:"proof_filename,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	op, err := h.svc.Create(r.Context(), ledger.CreateParams{
		Date:             date,
		Amount:           req.Amount,
		Direction:        req.Direction,
		LotID:            req.LotID,
		BankAccountID:    req.BankAccountID,
		CategoryID:       req.CategoryID,
		Label:            req.Label,
		PaidByOwnerID:    req.PaidByOwnerID,
		RecipientOwnerID: req.RecipientOwnerID,
		ProofFilename:    req.ProofFilename,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(op)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ListFilter{}

	if s := r.URL.Query().Get("lot_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.LotID = &id
		}
	}

	if s := r.URL.Query().Get("bank_account_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.BankAccountID = &id
		}
	}

	if s := r.URL.Query().Get("category_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.CategoryID = &id
		}
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	ops, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(ops)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	op, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "operation not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(op)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) allocations(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	op, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "operation not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]allocationResponse, 0, len(op.Allocations))
	for _, a := range op.Allocations {
		resp = append(resp, allocationResponse{ID: a.ID, OwnerID: a.OwnerID, Amount: a.Amount})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateOperationRequest struct {
	Date             *string           `json:"date,omitempty"`
	Amount           *money.Amount     `json:"amount,omitempty"`
	Direction        *estate.Direction `json:"direction,omitempty"`
	LotID            *uuid.UUID        `json:"lot_id,omitempty"`
	CategoryID       *uuid.UUID        `json:"category_id,omitempty"`
	Label            *string           `json:"label,omitempty"`
	PaidByOwnerID    *uuid.UUID        `json:"paid_by_owner_id,omitempty"`
	RecipientOwnerID *uuid.UUID        `json:"recipient_owner_id,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	op, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "operation not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		op.Date = date
	}

	if req.Amount != nil {
		op.Amount = *req.Amount
	}

	if req.Direction != nil {
		op.Direction = *req.Direction
	}

	if req.LotID != nil {
		op.LotID = req.LotID
	}

	if req.CategoryID != nil {
		op.CategoryID = req.CategoryID
	}

	if req.Label != nil {
		op.Label = *req.Label
	}

	if req.PaidByOwnerID != nil {
		op.PaidByOwnerID = req.PaidByOwnerID
	}

	if req.RecipientOwnerID != nil {
		op.RecipientOwnerID = req.RecipientOwnerID
	}

	if err := h.svc.Update(r.Context(), op); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(op)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps domain errors to HTTP statuses. A distribution
// with no active fractions is the caller's data problem, not ours.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, allocate.ErrNoActiveFractions),
		errors.Is(err, ledger.ErrLotRequired),
		errors.Is(err, ledger.ErrRecipientRequired),
		errors.Is(err, ledger.ErrNegativeAmount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, estate.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
