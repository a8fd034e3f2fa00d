package handlers

import (
	"ClipSync/internal/config"
	"ClipSync/internal/middleware"
	"ClipSync/internal/service"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// DeviceHandler регистрирует устройства и выдаёт им токен.
type DeviceHandler struct {
	DeviceService *service.DeviceService
	Logger        *zap.SugaredLogger
	Config        *config.Config
}

// NewDeviceHandler создаёт хендлер устройств
func NewDeviceHandler(deviceService *service.DeviceService, logger *zap.SugaredLogger, cfg *config.Config) *DeviceHandler {
	return &DeviceHandler{DeviceService: deviceService, Logger: logger, Config: cfg}
}

// RegisterRequest тело запроса регистрации
type RegisterRequest struct {
	DeviceID string `json:"deviceId"`
	Secret   string `json:"secret"`
}

// Register проверяет секрет привязки и ставит cookie с JWT устройства
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	d, err := h.DeviceService.Register(r.Context(), req.DeviceID, req.Secret)
	switch {
	case errors.Is(err, service.ErrInvalidDevice):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "invalid sync secret")
		return
	case err != nil:
		h.Logger.Errorw("Register: service error", "device_id", req.DeviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := middleware.SetDeviceCookie(w, d.DeviceID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Register: failed to issue token", "device_id", d.DeviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"deviceId": d.DeviceID,
		"since":    d.CreatedAt,
	})
}
