package handlers

import (
	"ClipSync/internal/service"
	"ClipSync/internal/validation"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// TelemetryHandler принимает события расширения.
type TelemetryHandler struct {
	Telemetry *service.TelemetryService
	Logger    *zap.SugaredLogger
	validate  *validation.Validator
}

func NewTelemetryHandler(t *service.TelemetryService, logger *zap.SugaredLogger) *TelemetryHandler {
	return &TelemetryHandler{Telemetry: t, Logger: logger, validate: validation.New()}
}

type heartbeatRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type telemetryEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// decodeValid читает тело и прогоняет валидацию. false: ответ уже записан.
func (h *TelemetryHandler) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	if err := h.validate.Validate(dst); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeValidation(w, verr)
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *TelemetryHandler) ClipSaved(w http.ResponseWriter, r *http.Request) {
	var ev service.ClipSavedEvent
	if !h.decodeValid(w, r, &ev) {
		return
	}
	h.Telemetry.RecordClipSaved(ev)
	h.Logger.Infow("clip saved telemetry received", "source", ev.Source, "is_duplicate", ev.IsDuplicate, "tag_count", len(ev.Tags))
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Telemetry recorded", "timestamp": isoNow()})
}

func (h *TelemetryHandler) Error(w http.ResponseWriter, r *http.Request) {
	var ev service.ErrorEvent
	if !h.decodeValid(w, r, &ev) {
		return
	}
	h.Telemetry.RecordError(ev)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Error telemetry recorded", "timestamp": isoNow()})
}

func (h *TelemetryHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	h.Telemetry.Heartbeat(req.UserID)
	h.Logger.Debugw("heartbeat received", "version", req.Version, "platform", req.Platform)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Heartbeat recorded", "timestamp": isoNow()})
}

// Batch разбирает массив событий. Невалидные и неизвестные события считаются в failed.
func (h *TelemetryHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Events []telemetryEvent `json:"events"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.Events == nil {
		writeError(w, http.StatusBadRequest, "events must be an array")
		return
	}

	processed, failed := 0, 0
	for _, ev := range req.Events {
		if h.applyEvent(ev) {
			processed++
		} else {
			failed++
		}
	}
	h.Logger.Infow("batch telemetry processed", "processed", processed, "failed", failed, "total", len(req.Events))
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Batch telemetry processed",
		"processed": processed,
		"failed":    failed,
		"total":     len(req.Events),
		"timestamp": isoNow(),
	})
}

func (h *TelemetryHandler) applyEvent(ev telemetryEvent) bool {
	switch ev.Type {
	case "clip-saved":
		var d service.ClipSavedEvent
		if json.Unmarshal(ev.Data, &d) != nil || h.validate.Validate(d) != nil {
			return false
		}
		h.Telemetry.RecordClipSaved(d)
	case "error":
		var d service.ErrorEvent
		if json.Unmarshal(ev.Data, &d) != nil || h.validate.Validate(d) != nil {
			return false
		}
		h.Telemetry.RecordError(d)
	case "heartbeat":
		var d heartbeatRequest
		if json.Unmarshal(ev.Data, &d) != nil || d.UserID == "" {
			return false
		}
		h.Telemetry.Heartbeat(d.UserID)
	default:
		h.Logger.Warnw("unknown telemetry event type", "type", ev.Type)
		return false
	}
	return true
}

func (h *TelemetryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":     h.Telemetry.Snapshot(),
		"topTags":   h.Telemetry.TopTags(10),
		"timestamp": isoNow(),
	})
}
