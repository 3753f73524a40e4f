package fraction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/fraction"
	"github.com/lbrossard/indivis/internal/ledger"
)

// Handler serves the ownership-fraction routes of a lot, plus the two
// lot-level maintenance actions: the advisory sum validation and the
// full allocation resync.
type Handler struct {
	fractions *fraction.Service
	ledger    *ledger.Service
}

func NewHandler(fractions *fraction.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{fractions: fractions, ledger: ledgerSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/fractions", h.list)
	r.Post("/fractions", h.create)
	r.Patch("/fractions/{fractionID}", h.update)
	r.Delete("/fractions/{fractionID}", h.delete)
	r.Get("/validate", h.validate)
	r.Post("/resync", h.resync)
}

type fractionRequest struct {
	OwnerID     uuid.UUID `json:"owner_id"`
	Numerator   int64     `json:"numerator"`
	Denominator int64     `json:"denominator"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date,omitempty"`
}

type fractionResponse struct {
	ID          uuid.UUID `json:"id"`
	LotID       uuid.UUID `json:"lot_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Numerator   int64     `json:"numerator"`
	Denominator int64     `json:"denominator"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date,omitempty"`
}

func toResponse(f *fraction.Fraction) fractionResponse {
	resp := fractionResponse{
		ID:          f.ID,
		LotID:       f.LotID,
		OwnerID:     f.OwnerID,
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
		StartDate:   f.StartDate.Format(time.DateOnly),
	}

	if f.EndDate != nil {
		end := f.EndDate.Format(time.DateOnly)
		resp.EndDate = &end
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotID"))
	if err != nil {
		http.Error(w, "invalid lot id", http.StatusBadRequest)
		return
	}

	fractions, err := h.fractions.List(r.Context(), lotID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]fractionResponse, len(fractions))
	for i, f := range fractions {
		resp[i] = toResponse(f)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotID"))
	if err != nil {
		http.Error(w, "invalid lot id", http.StatusBadRequest)
		return
	}

	var req fractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := h.fractions.Create(r.Context(), fraction.CreateParams{
		LotID:       lotID,
		OwnerID:     req.OwnerID,
		Numerator:   req.Numerator,
		Denominator: req.Denominator,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		if errors.Is(err, fraction.ErrInvalidFraction) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(f)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "fractionID"))
	if err != nil {
		http.Error(w, "invalid fraction id", http.StatusBadRequest)
		return
	}

	var req fractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := h.fractions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, fraction.ErrNotFound) {
			http.Error(w, "fraction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.OwnerID = req.OwnerID
	f.Numerator = req.Numerator
	f.Denominator = req.Denominator
	f.StartDate = start
	f.EndDate = end

	if err := h.fractions.Update(r.Context(), f); err != nil {
		if errors.Is(err, fraction.ErrInvalidFraction) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(f)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "fractionID"))
	if err != nil {
		http.Error(w, "invalid fraction id", http.StatusBadRequest)
		return
	}

	if err := h.fractions.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type validateResponse struct {
	Date  string `json:"date"`
	Valid bool   `json:"valid"`
}

// validate reports whether the lot's active fractions sum to exactly 1
// on the given date (today by default). Advisory only.
func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotID"))
	if err != nil {
		http.Error(w, "invalid lot id", http.StatusBadRequest)
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)

	if s := r.URL.Query().Get("date"); s != "" {
		date, err = time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	valid, err := h.fractions.ValidateSum(r.Context(), lotID, date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := validateResponse{Date: date.Format(time.DateOnly), Valid: valid}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type resyncResponse struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

func (h *Handler) resync(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotID"))
	if err != nil {
		http.Error(w, "invalid lot id", http.StatusBadRequest)
		return
	}

	summary, err := h.ledger.Resync(r.Context(), lotID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := resyncResponse{Processed: summary.Processed, Skipped: summary.Skipped}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseDates(startStr string, endStr *string) (time.Time, *time.Time, error) {
	start, err := time.Parse(time.DateOnly, startStr)
	if err != nil {
		return time.Time{}, nil, errors.New("invalid start_date, want YYYY-MM-DD")
	}

	var end *time.Time

	if endStr != nil && *endStr != "" {
		e, err := time.Parse(time.DateOnly, *endStr)
		if err != nil {
			return time.Time{}, nil, errors.New("invalid end_date, want YYYY-MM-DD")
		}

		end = &e
	}

	return start, end, nil
}
