package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/importer"
	"github.com/lbrossard/indivis/internal/money"
)

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importedOperation struct {
	ID     uuid.UUID    `json:"id"`
	Date   string       `json:"date"`
	Label  string       `json:"label"`
	Amount money.Amount `json:"amount"`
}

type importResponse struct {
	Imported   int                 `json:"imported"`
	Operations []importedOperation `json:"operations"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	accountID, err := uuid.Parse(r.FormValue("bank_account_id"))
	if err != nil {
		http.Error(w, "bank_account_id field is required", http.StatusBadRequest)
		return
	}

	opts := importer.Options{BankAccountID: accountID}

	if s := r.FormValue("lot_id"); s != "" {
		lotID, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid lot_id", http.StatusBadRequest)
			return
		}

		opts.LotID = &lotID
	}

	if s := r.FormValue("category_id"); s != "" {
		categoryID, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}

		opts.CategoryID = &categoryID
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ops, err := h.svc.Import(r.Context(), file, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{Imported: len(ops), Operations: make([]importedOperation, 0, len(ops))}
	for _, op := range ops {
		resp.Operations = append(resp.Operations, importedOperation{
			ID:     op.ID,
			Date:   op.Date.Format(time.DateOnly),
			Label:  op.Label,
			Amount: op.Amount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
