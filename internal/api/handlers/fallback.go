package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/indredK/history-sub002/internal/domain"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/indredK/history-sub002/internal/service"
	"go.uber.org/zap"
)

type FallbackHandler struct {
	catalog *service.Catalog
	control *service.FallbackControl
	logger  *zap.Logger
}

func NewFallbackHandler(catalog *service.Catalog, logger *zap.Logger) *FallbackHandler {
	return &FallbackHandler{catalog: catalog, control: catalog.Control(), logger: logger}
}

type updateConfigRequest struct {
	EnableAutoFallback *bool                `json:"enableAutoFallback"`
	FallbackThreshold  *int                 `json:"fallbackThreshold" validate:"omitempty,gte=1,lte=1000"`
	FallbackDurationMs *int64               `json:"fallbackDurationMs" validate:"omitempty,gte=1000"`
	ExcludeErrorTypes  []fallback.ErrorKind `json:"excludeErrorTypes" validate:"omitempty,dive,oneof=NETWORK_ERROR TIMEOUT_ERROR SERVER_ERROR CLIENT_ERROR CIRCUIT_BREAKER_OPEN"`
}

func (req updateConfigRequest) toUpdate() fallback.ConfigUpdate {
	u := fallback.ConfigUpdate{
		EnableAutoFallback: req.EnableAutoFallback,
		FallbackThreshold:  req.FallbackThreshold,
		ExcludeErrorTypes:  req.ExcludeErrorTypes,
	}
	if req.FallbackDurationMs != nil {
		d := time.Duration(*req.FallbackDurationMs) * time.Millisecond
		u.FallbackDuration = &d
	}
	return u
}

// Status is the combined mode and fallback view polled by status displays.
func (h *FallbackHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Status())
}

func (h *FallbackHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.control.GetState())
}

func (h *FallbackHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("fallback activated via api")
	writeJSON(w, http.StatusOK, h.control.Activate())
}

func (h *FallbackHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("fallback deactivated via api")
	writeJSON(w, http.StatusOK, h.control.Deactivate())
}

func (h *FallbackHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("fallback reset via api")
	writeJSON(w, http.StatusOK, h.control.Reset())
}

func (h *FallbackHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := domain.Validate(req); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st := h.control.UpdateConfig(req.toUpdate())
	h.logger.Info("fallback config updated",
		zap.Bool("enabled", st.Config.EnableAutoFallback),
		zap.Int("threshold", st.Config.FallbackThreshold),
		zap.Duration("duration", st.Config.FallbackDuration),
	)
	writeJSON(w, http.StatusOK, st)
}
