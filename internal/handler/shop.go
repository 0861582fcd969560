package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pricecheck/internal/auth"
	"github.com/dukerupert/pricecheck/internal/model"
	"github.com/dukerupert/pricecheck/internal/store"
)

type ShopHandler struct {
	store  *store.ShopStore
	logger *slog.Logger
}

func NewShopHandler(st *store.ShopStore, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{store: st, logger: logger}
}

func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	shops, err := h.store.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list shops", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list shops"})
		return
	}
	if shops == nil {
		shops = []model.Shop{}
	}
	writeJSON(w, http.StatusOK, shops)
}

func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sh model.Shop
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(sh.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	created, err := h.store.Create(auth.UserID(r.Context()), &sh)
	if err != nil {
		h.logger.Error("create shop", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create shop"})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// getOwned loads the shop and enforces ownership. A nil return means the
// response has already been written.
func (h *ShopHandler) getOwned(w http.ResponseWriter, r *http.Request) *model.Shop {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}

	sh, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get shop", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch shop"})
		return nil
	}
	if sh == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "shop not found"})
		return nil
	}
	if sh.OwnerID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you do not own this shop"})
		return nil
	}
	return sh
}

func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	sh := h.getOwned(w, r)
	if sh == nil {
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing := h.getOwned(w, r)
	if existing == nil {
		return
	}

	var sh model.Shop
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(sh.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	updated, err := h.store.Update(existing.ID, &sh)
	if err != nil {
		h.logger.Error("update shop", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update shop"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing := h.getOwned(w, r)
	if existing == nil {
		return
	}

	if err := h.store.SoftDelete(existing.ID); err != nil {
		h.logger.Error("delete shop", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete shop"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
