package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pricecheck/internal/auth"
	"github.com/dukerupert/pricecheck/internal/category"
	"github.com/dukerupert/pricecheck/internal/model"
	"github.com/dukerupert/pricecheck/internal/store"
)

// ShoppingListHandler serves lists and everything hanging off them: entries,
// the items that describe an entry, and recorded prices.
type ShoppingListHandler struct {
	lists  *store.ShoppingListStore
	prices *store.PriceStore
	shops  *store.ShopStore
	logger *slog.Logger
}

func NewShoppingListHandler(lists *store.ShoppingListStore, prices *store.PriceStore, shops *store.ShopStore, logger *slog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{lists: lists, prices: prices, shops: shops, logger: logger}
}

type shoppingListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// --- Lists ---

func (h *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list shopping lists", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list shopping lists"})
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ShoppingListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	created, err := h.lists.Create(auth.UserID(r.Context()), req.Name, req.Description)
	if err != nil {
		h.logger.Error("create shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create shopping list"})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ShoppingListHandler) ownedList(w http.ResponseWriter, r *http.Request, id int64) *model.ShoppingList {
	l, err := h.lists.GetByID(id)
	if err != nil {
		h.logger.Error("get shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch shopping list"})
		return nil
	}
	if l == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "shopping list not found"})
		return nil
	}
	if l.OwnerID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you do not own this shopping list"})
		return nil
	}
	return l
}

func (h *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	l := h.ownedList(w, r, id)
	if l == nil {
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ShoppingListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if h.ownedList(w, r, id) == nil {
		return
	}

	var req shoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	updated, err := h.lists.Update(id, req.Name, req.Description)
	if err != nil {
		h.logger.Error("update shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update shopping list"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if h.ownedList(w, r, id) == nil {
		return
	}

	if err := h.lists.SoftDelete(id); err != nil {
		h.logger.Error("delete shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete shopping list"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Entries ---

func (h *ShoppingListHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if h.ownedList(w, r, id) == nil {
		return
	}

	entries, err := h.lists.ListEntries(id)
	if err != nil {
		h.logger.Error("list entries", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list entries"})
		return
	}
	if entries == nil {
		entries = []model.ListEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ShoppingListHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if h.ownedList(w, r, id) == nil {
		return
	}

	entry, err := h.lists.CreateEntry(id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create entry", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create entry"})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *ShoppingListHandler) ownedEntry(w http.ResponseWriter, r *http.Request, id int64) *model.ListEntry {
	e, err := h.lists.GetEntryByID(id)
	if err != nil {
		h.logger.Error("get entry", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch entry"})
		return nil
	}
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return nil
	}
	if e.OwnerID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you do not own this entry"})
		return nil
	}
	return e
}

func (h *ShoppingListHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "entry_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return
	}
	if h.ownedEntry(w, r, id) == nil {
		return
	}

	if err := h.lists.SoftDeleteEntry(id); err != nil {
		h.logger.Error("delete entry", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete entry"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Items ---

func (h *ShoppingListHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	entryID, err := parsePathID(r, "entry_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return
	}
	if h.ownedEntry(w, r, entryID) == nil {
		return
	}

	items, err := h.lists.ListItems(entryID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list items"})
		return
	}
	if items == nil {
		items = []model.ListItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingListHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	entryID, err := parsePathID(r, "entry_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return
	}
	if h.ownedEntry(w, r, entryID) == nil {
		return
	}

	var it model.ListItem
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(it.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if it.Category == "" {
		it.Category = category.Suggest(it.Name)
	}

	created, err := h.lists.CreateItem(entryID, &it)
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ownedItem walks item to entry to check ownership.
func (h *ShoppingListHandler) ownedItem(w http.ResponseWriter, r *http.Request, id int64) *model.ListItem {
	it, err := h.lists.GetItemByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch item"})
		return nil
	}
	if it == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return nil
	}
	if h.ownedEntry(w, r, it.EntryID) == nil {
		return nil
	}
	return it
}

func (h *ShoppingListHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	it := h.ownedItem(w, r, id)
	if it == nil {
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ShoppingListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if h.ownedItem(w, r, id) == nil {
		return
	}

	var it model.ListItem
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(it.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	updated, err := h.lists.UpdateItem(id, &it)
	if err != nil {
		h.logger.Error("update item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update item"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if h.ownedItem(w, r, id) == nil {
		return
	}

	if err := h.lists.SoftDeleteItem(id); err != nil {
		h.logger.Error("delete item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Prices ---

func (h *ShoppingListHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	entryID, err := parsePathID(r, "entry_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return
	}
	if h.ownedEntry(w, r, entryID) == nil {
		return
	}

	prices, err := h.prices.ListByEntry(entryID)
	if err != nil {
		h.logger.Error("list prices", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list prices"})
		return
	}
	if prices == nil {
		prices = []model.Price{}
	}
	writeJSON(w, http.StatusOK, prices)
}

func (h *ShoppingListHandler) CreatePrice(w http.ResponseWriter, r *http.Request) {
	entryID, err := parsePathID(r, "entry_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return
	}
	if h.ownedEntry(w, r, entryID) == nil {
		return
	}

	var req struct {
		Price               float64  `json:"price"`
		IsDiscounted        bool     `json:"is_discounted"`
		PriceBeforeDiscount *float64 `json:"price_before_discount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Price < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must not be negative"})
		return
	}

	created, err := h.prices.Create(entryID, req.Price, req.IsDiscounted, req.PriceBeforeDiscount)
	if err != nil {
		h.logger.Error("create price", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create price"})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ShoppingListHandler) ownedPrice(w http.ResponseWriter, r *http.Request, id int64) *model.Price {
	p, err := h.prices.GetByID(id)
	if err != nil {
		h.logger.Error("get price", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch price"})
		return nil
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "price not found"})
		return nil
	}
	if h.ownedEntry(w, r, p.EntryID) == nil {
		return nil
	}
	return p
}

func (h *ShoppingListHandler) DeletePrice(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "price_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price id"})
		return
	}
	if h.ownedPrice(w, r, id) == nil {
		return
	}

	if err := h.prices.SoftDelete(id); err != nil {
		h.logger.Error("delete price", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete price"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingListHandler) ListPriceShops(w http.ResponseWriter, r *http.Request) {
	priceID, err := parsePathID(r, "price_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price id"})
		return
	}
	if h.ownedPrice(w, r, priceID) == nil {
		return
	}

	links, err := h.prices.ListShops(priceID)
	if err != nil {
		h.logger.Error("list price shops", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list price shops"})
		return
	}
	if links == nil {
		links = []model.PriceShop{}
	}
	writeJSON(w, http.StatusOK, links)
}

// AttachPriceShop links a recorded price to one of the caller's shops. Both
// sides of the link must belong to the caller.
func (h *ShoppingListHandler) AttachPriceShop(w http.ResponseWriter, r *http.Request) {
	priceID, err := parsePathID(r, "price_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price id"})
		return
	}
	if h.ownedPrice(w, r, priceID) == nil {
		return
	}

	var req struct {
		ShopID int64 `json:"shop_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	sh, err := h.shops.GetByID(req.ShopID)
	if err != nil {
		h.logger.Error("get shop", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch shop"})
		return
	}
	if sh == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "shop not found"})
		return
	}
	if sh.OwnerID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you do not own this shop"})
		return
	}

	link, err := h.prices.AttachShop(priceID, req.ShopID)
	if err != nil {
		h.logger.Error("attach price shop", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to attach shop"})
		return
	}
	writeJSON(w, http.StatusCreated, link)
}
