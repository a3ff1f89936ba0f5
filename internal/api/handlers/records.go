package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/indredK/history-sub002/internal/domain"
	"github.com/indredK/history-sub002/internal/store"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RecordHandler serves the upstream history API from the records table.
type RecordHandler struct {
	store  domain.RecordStore
	logger *zap.Logger
}

func NewRecordHandler(store domain.RecordStore, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{store: store, logger: logger}
}

type pageResponse struct {
	Data     []json.RawMessage `json:"data"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// List returns a plain array, or a page object when ?page is given.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	res, ok := domain.LookupResource(chi.URLParam(r, "resource"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown resource %q", chi.URLParam(r, "resource")))
		return
	}

	q := r.URL.Query()
	if !q.Has("page") {
		records, _, err := h.store.List(r.Context(), res.Name, domain.ListOpts{})
		if err != nil {
			h.logger.Error("failed to list records", zap.String("resource", res.Name), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list records")
			return
		}
		writeJSON(w, http.StatusOK, payloads(records))
		return
	}

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize := defaultPageSize
	if v := q.Get("pageSize"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("pageSize must be between 1 and %d", maxPageSize))
			return
		}
	}

	if page > math.MaxInt/pageSize {
		writeError(w, http.StatusBadRequest, "page out of range")
		return
	}

	records, total, err := h.store.List(r.Context(), res.Name, domain.ListOpts{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		h.logger.Error("failed to list records", zap.String("resource", res.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Data:     payloads(records),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *RecordHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	res, ok := domain.LookupResource(chi.URLParam(r, "resource"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown resource %q", chi.URLParam(r, "resource")))
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.store.GetByID(r.Context(), res.Name, domain.ID(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %q not found", res.Name, id))
			return
		}
		h.logger.Error("failed to get record", zap.String("resource", res.Name), zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}

	writeJSON(w, http.StatusOK, rec.Payload)
}

func payloads(records []domain.Record) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, rec := range records {
		out[i] = rec.Payload
	}
	return out
}
