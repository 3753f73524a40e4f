// Package estate serves the reference-entity routes: owners, lots,
// bank accounts and categories.
package estate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/auth"
	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/money"
)

type Handler struct {
	svc *estate.Service
}

func NewHandler(svc *estate.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) OwnerRoutes(r chi.Router) {
	r.Post("/", h.createOwner)
	r.Get("/", h.listOwners)
	r.Delete("/{id}", h.deleteOwner)
}

// LotRoutes keeps the {lotID} param name so the fraction routes can
// nest under the same subtree.
func (h *Handler) LotRoutes(r chi.Router) {
	r.Post("/", h.createLot)
	r.Get("/", h.listLots)
	r.Delete("/{lotID}", h.deleteLot)
}

func (h *Handler) AccountRoutes(r chi.Router) {
	r.Post("/", h.createAccount)
	r.Get("/", h.listAccounts)
	r.Delete("/{id}", h.deleteAccount)
}

func (h *Handler) CategoryRoutes(r chi.Router) {
	r.Post("/", h.createCategory)
	r.Get("/", h.listCategories)
	r.Delete("/{id}", h.deleteCategory)
}

// writeDelete translates the delete outcome: a record still referenced
// by operations or fractions is rejected, not cascaded.
func writeDelete(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, estate.ErrInUse):
		http.Error(w, "record is referenced by existing data", http.StatusConflict)
	case errors.Is(err, estate.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

// --- Owners ---

type ownerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email,omitempty"`
	Phone    string      `json:"phone,omitempty"`
	Role     estate.Role `json:"role,omitempty"`
	Password string      `json:"password,omitempty"`
}

type ownerResponse struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email,omitempty"`
	Phone string      `json:"phone,omitempty"`
	Role  estate.Role `json:"role"`
}

func (h *Handler) createOwner(w http.ResponseWriter, r *http.Request) {
	var req ownerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o := &estate.Owner{Name: req.Name, Email: req.Email, Phone: req.Phone, Role: req.Role}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		o.PasswordHash = hash
	}

	if err := h.svc.CreateOwner(r.Context(), o); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, ownerResponse{ID: o.ID, Name: o.Name, Email: o.Email, Phone: o.Phone, Role: o.Role})
}

func (h *Handler) listOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.svc.ListOwners(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]ownerResponse, len(owners))
	for i, o := range owners {
		resp[i] = ownerResponse{ID: o.ID, Name: o.Name, Email: o.Email, Phone: o.Phone, Role: o.Role}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	writeDelete(w, h.svc.DeleteOwner(r.Context(), id))
}

// --- Lots ---

type lotRequest struct {
	Name        string `json:"name"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
}

type lotResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Description string    `json:"description,omitempty"`
}

func (h *Handler) createLot(w http.ResponseWriter, r *http.Request) {
	var req lotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l := &estate.Lot{Name: req.Name, Kind: req.Kind, Description: req.Description}
	if err := h.svc.CreateLot(r.Context(), l); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, lotResponse{ID: l.ID, Name: l.Name, Kind: l.Kind, Description: l.Description})
}

func (h *Handler) listLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.svc.ListLots(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]lotResponse, len(lots))
	for i, l := range lots {
		resp[i] = lotResponse{ID: l.ID, Name: l.Name, Kind: l.Kind, Description: l.Description}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteLot(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "lotID"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	writeDelete(w, h.svc.DeleteLot(r.Context(), id))
}

// --- Bank accounts ---

type accountRequest struct {
	Name           string       `json:"name"`
	IBAN           string       `json:"iban,omitempty"`
	InitialBalance money.Amount `json:"initial_balance"`
}

type accountResponse struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	IBAN           string       `json:"iban,omitempty"`
	InitialBalance money.Amount `json:"initial_balance"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a := &estate.BankAccount{Name: req.Name, IBAN: req.IBAN, InitialBalance: req.InitialBalance}
	if err := h.svc.CreateAccount(r.Context(), a); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{ID: a.ID, Name: a.Name, IBAN: a.IBAN, InitialBalance: a.InitialBalance})
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = accountResponse{ID: a.ID, Name: a.Name, IBAN: a.IBAN, InitialBalance: a.InitialBalance}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	writeDelete(w, h.svc.DeleteAccount(r.Context(), id))
}

// --- Categories ---

type categoryRequest struct {
	Name             string              `json:"name"`
	DefaultDirection estate.Direction    `json:"default_direction,omitempty"`
	Kind             estate.CategoryKind `json:"kind,omitempty"`
	Description      string              `json:"description,omitempty"`
}

type categoryResponse struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	DefaultDirection estate.Direction    `json:"default_direction"`
	Kind             estate.CategoryKind `json:"kind"`
	Description      string              `json:"description,omitempty"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := &estate.Category{
		Name:             req.Name,
		DefaultDirection: req.DefaultDirection,
		Kind:             req.Kind,
		Description:      req.Description,
	}
	if err := h.svc.CreateCategory(r.Context(), c); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, categoryResponse{
		ID: c.ID, Name: c.Name, DefaultDirection: c.DefaultDirection, Kind: c.Kind, Description: c.Description,
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = categoryResponse{
			ID: c.ID, Name: c.Name, DefaultDirection: c.DefaultDirection, Kind: c.Kind, Description: c.Description,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	writeDelete(w, h.svc.DeleteCategory(r.Context(), id))
}
