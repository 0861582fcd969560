package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pricecheck/internal/barcode"
	"github.com/dukerupert/pricecheck/internal/category"
	"github.com/dukerupert/pricecheck/internal/model"
	"github.com/dukerupert/pricecheck/internal/store"
)

type GroceryHandler struct {
	store   *store.GroceryStore
	lookups *barcode.Service
	logger  *slog.Logger
}

func NewGroceryHandler(st *store.GroceryStore, lookups *barcode.Service, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{store: st, lookups: lookups, logger: logger}
}

func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	groceries, err := h.store.List()
	if err != nil {
		h.logger.Error("list groceries", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list groceries"})
		return
	}
	if groceries == nil {
		groceries = []model.Grocery{}
	}
	writeJSON(w, http.StatusOK, groceries)
}

// Create is the manual entry path. Records made here are flagged so the
// lookup engine never overwrites them.
func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var g model.Grocery
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(g.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if g.Category == "" {
		g.Category = category.Suggest(g.Name)
	}

	created, err := h.store.Create(&g)
	if err != nil {
		h.logger.Error("create grocery", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create grocery"})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *GroceryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	g, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get grocery", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch grocery"})
		return
	}
	if g == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "grocery not found"})
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GroceryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get grocery", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch grocery"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "grocery not found"})
		return
	}

	var g model.Grocery
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(g.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	updated, err := h.store.Update(id, &g)
	if err != nil {
		h.logger.Error("update grocery", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update grocery"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get grocery", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch grocery"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "grocery not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete grocery", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete grocery"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProductFromBarcode resolves a barcode through the lookup cache and returns
// the grocery record.
func (h *GroceryHandler) ProductFromBarcode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode string `json:"barcode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Barcode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "barcode is required"})
		return
	}

	g, err := h.lookups.LookupOrRefresh(r.Context(), req.Barcode)
	if err != nil {
		var se *barcode.StatusError
		switch {
		case errors.Is(err, barcode.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no product found for that barcode"})
		case errors.As(err, &se):
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":       "barcode lookup service returned an error",
				"status_code": se.Code,
			})
		default:
			h.logger.Error("barcode lookup", "barcode", req.Barcode, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "barcode lookup failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, g)
}
