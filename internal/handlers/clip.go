package handlers

import (
	"ClipSync/internal/config"
	"ClipSync/internal/middleware"
	"ClipSync/internal/service"
	"ClipSync/internal/validation"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ClipHandler обслуживает CRUD и синхронизацию клипов.
type ClipHandler struct {
	ClipService *service.ClipService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewClipHandler создаёт хендлер клипов
func NewClipHandler(clipService *service.ClipService, logger *zap.SugaredLogger, cfg *config.Config) *ClipHandler {
	return &ClipHandler{ClipService: clipService, Logger: logger, Config: cfg}
}

// BatchRequest: пачка клипов от одного устройства.
type BatchRequest struct {
	Clips    json.RawMessage `json:"clips"`
	DeviceID string          `json:"deviceId"`
}

func requestDevice(r *http.Request) string {
	id, _ := middleware.GetDeviceIDFromContext(r.Context())
	return id
}

// Create сохраняет один клип
func (h *ClipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ClipInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.Logger.Warnw("Create: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	clip, err := h.ClipService.Save(r.Context(), in, requestDevice(r))
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeValidation(w, verr)
			return
		}
		h.Logger.Errorw("Create: service error", "id", in.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save clip")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Clip saved successfully",
		"clip":    clip,
	})
}

// Batch сохраняет массив клипов, невалидные возвращаются в errorDetails
func (h *ClipHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Batch: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	raw := bytes.TrimSpace(req.Clips)
	if len(raw) == 0 || raw[0] != '[' {
		writeError(w, http.StatusBadRequest, "clips must be an array")
		return
	}
	var clips []service.ClipInput
	if err := json.Unmarshal(raw, &clips); err != nil {
		h.Logger.Warnw("Batch: invalid clips", "error", err)
		writeError(w, http.StatusBadRequest, "invalid clips")
		return
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = requestDevice(r)
	}
	res, err := h.ClipService.SaveBatch(r.Context(), clips, deviceID)
	if err != nil {
		h.Logger.Errorw("Batch: service error", "device_id", deviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save clips")
		return
	}

	body := map[string]any{
		"success": true,
		"message": "Batch save completed",
		"saved":   res.Saved,
		"errors":  len(res.Errors),
		"clips":   res.Clips,
	}
	if len(res.Errors) > 0 {
		body["errorDetails"] = res.Errors
	}
	writeJSON(w, http.StatusCreated, body)
}

// List отдаёт все клипы или, с ?since=<ms>, изменения после метки
func (h *ClipHandler) List(w http.ResponseWriter, r *http.Request) {
	var since *int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "Invalid since parameter",
				"message": "since must be a timestamp in milliseconds",
			})
			return
		}
		since = &v
	}

	clips, err := h.ClipService.List(r.Context(), since)
	if err != nil {
		h.Logger.Errorw("List: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch clips")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"clips":     clips,
		"count":     len(clips),
		"timestamp": nowMs(),
	})
}

// Get возвращает живой клип
func (h *ClipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	clip, err := h.ClipService.Get(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Clip not found", "id": id})
		return
	case errors.Is(err, service.ErrGone):
		writeJSON(w, http.StatusGone, map[string]any{"error": "Clip was deleted", "id": id})
		return
	case err != nil:
		h.Logger.Errorw("Get: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch clip")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clip": clip})
}

// Update накладывает присланные поля на сохранённый клип
func (h *ClipHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch service.ClipPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.Logger.Warnw("Update: invalid request body", "id", id, "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	clip, err := h.ClipService.Update(r.Context(), id, patch)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Clip not found", "id": id})
		return
	case errors.Is(err, service.ErrInvalidClip):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.Logger.Errorw("Update: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update clip")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Clip updated successfully",
		"clip":    clip,
	})
}

// Delete мягко удаляет клип
func (h *ClipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.ClipService.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Clip not found", "id": id})
		return
	case err != nil:
		h.Logger.Errorw("Delete: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete clip")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Clip deleted successfully",
		"id":      id,
	})
}

// Stats сводка по базе клипов
func (h *ClipHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.ClipService.Stats(r.Context())
	if err != nil {
		h.Logger.Errorw("Stats: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": st, "timestamp": nowMs()})
}
