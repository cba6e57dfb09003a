package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gravitrone/testbuilder/internal/pool"
	"github.com/gravitrone/testbuilder/internal/store"
)

type handlers struct {
	backend   Backend
	storeName string
}

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorObj `json:"error"`
}

type errorObj struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Data: data})
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorEnvelope{Error: errorObj{Code: code, Message: msg}})
}

func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	writeErr(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	n, err := h.backend.CountItems(r.Context())
	if err != nil {
		writeErr(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]any{"status": "ok", "store": h.storeName, "items": n})
}

func (h *handlers) items(w http.ResponseWriter, r *http.Request) {
	var (
		items []pool.Item
		err   error
	)
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeErr(w, http.StatusBadRequest, "INVALID_CATEGORY", "category must be a number")
			return
		}
		items, err = h.backend.ItemsInCategory(r.Context(), pool.CategoryID(c))
	} else {
		items, err = h.backend.Items(r.Context())
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if items == nil {
		items = []pool.Item{}
	}
	writeData(w, http.StatusOK, items)
}

func (h *handlers) catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.backend.Catalog(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, http.StatusOK, catalog)
}

func (h *handlers) options(w http.ResponseWriter, r *http.Request) {
	options, err := h.backend.AnswerOptions(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if options == nil {
		options = []pool.AnswerOption{}
	}
	writeData(w, http.StatusOK, options)
}

func (h *handlers) listTests(w http.ResponseWriter, r *http.Request) {
	tests, err := h.backend.ListTests(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if tests == nil {
		tests = []pool.SavedTest{}
	}
	writeData(w, http.StatusOK, tests)
}

func (h *handlers) getTest(w http.ResponseWriter, r *http.Request) {
	test, err := h.backend.GetTest(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrTestNotFound) {
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "test not found")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, http.StatusOK, test)
}

type saveTestRequest struct {
	Title   string        `json:"title"`
	ItemIDs []pool.ItemID `json:"item_ids"`
}

func (h *handlers) saveTest(w http.ResponseWriter, r *http.Request) {
	var req saveTestRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	items, err := h.backend.Items(r.Context())
	if err != nil {
		writeInternal(w, r, fmt.Errorf("load items: %w", err))
		return
	}
	if err := validateIDs(items, req.ItemIDs); err != nil {
		writeErr(w, http.StatusBadRequest, "INVALID_TEST", err.Error())
		return
	}

	saved, err := h.backend.SaveTest(r.Context(), req.Title, req.ItemIDs)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, saved)
}

// validateIDs checks that a test lists bank items, each once.
func validateIDs(items []pool.Item, ids []pool.ItemID) error {
	known := make(map[pool.ItemID]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}
	seen := make(map[pool.ItemID]bool, len(ids))
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %d", pool.ErrUnknownItem, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %d", pool.ErrDuplicateItem, id)
		}
		seen[id] = true
	}
	return nil
}
