package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/indredK/history-sub002/internal/service"
	"go.uber.org/zap"
)

type ResourceHandler struct {
	catalog *service.Catalog
	logger  *zap.Logger
}

func NewResourceHandler(catalog *service.Catalog, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{catalog: catalog, logger: logger}
}

// Index lists the resource names served under /v1.
func (h *ResourceHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Names())
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Resource(chi.URLParam(r, "resource"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	p, err := res.List(r.Context())
	if err != nil {
		h.writeUpstreamError(w, res.Name(), err)
		return
	}
	writeSourced(w, p.Data, p.Source)
}

func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Resource(chi.URLParam(r, "resource"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	p, err := res.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGetByIDDisabled) {
			writeError(w, http.StatusMethodNotAllowed, err.Error())
			return
		}
		h.writeUpstreamError(w, res.Name(), err)
		return
	}
	if p.Data == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s %q not found", res.Name(), id))
		return
	}
	writeSourced(w, p.Data, p.Source)
}

// writeUpstreamError reports an API failure that the fallback manager did
// not absorb.
func (h *ResourceHandler) writeUpstreamError(w http.ResponseWriter, resource string, err error) {
	kind := fallback.KindOf(err)
	h.logger.Warn("resource read failed",
		zap.String("resource", resource),
		zap.String("kind", kind.String()),
		zap.Error(err),
	)

	status := http.StatusBadGateway
	switch kind {
	case fallback.KindTimeout:
		status = http.StatusGatewayTimeout
	case fallback.KindClient:
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}
