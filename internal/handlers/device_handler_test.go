package handlers_test

import (
	"ClipSync/internal/middleware"
	"ClipSync/internal/model"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDevices_RegisterOpen(t *testing.T) {
	env := newTestEnv(t, "")
	env.devices.On("Upsert", mock.Anything, "device-1").Return(&model.Device{ID: "u", DeviceID: "device-1"}, nil).Once()

	rr := env.do(t, http.MethodPost, "/api/devices/register", `{"deviceId":"device-1"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var token string
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.AuthCookie {
			token = c.Value
		}
	}
	id, err := middleware.ParseToken(token, env.cfg.AuthSecret)
	require.NoError(t, err)
	assert.Equal(t, "device-1", id)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/devices/register", `{"deviceId":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/devices/register", `nope`).Code)
}

func TestDevices_SecretProtectsClipRoutes(t *testing.T) {
	env := newTestEnv(t, "pair-secret")

	rr := env.do(t, http.MethodPost, "/api/devices/register", `{"deviceId":"device-1","secret":"wrong"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	env.devices.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

	// без токена клипы недоступны
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/clips", "").Code)

	env.devices.On("Upsert", mock.Anything, "device-1").Return(&model.Device{DeviceID: "device-1"}, nil).Once()
	rr = env.do(t, http.MethodPost, "/api/devices/register", `{"deviceId":"device-1","secret":"pair-secret"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := rr.Result().Cookies()[0]

	env.clips.On("GetAll", mock.Anything).Return([]model.Clip{}, nil).Once()
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/clips", "", cookie).Code)

	// health открыт всегда
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "").Code)
}
