package handlers_test

import (
	"ClipSync/internal/config"
	"ClipSync/internal/handlers"
	"ClipSync/internal/middleware"
	"ClipSync/internal/model"
	"ClipSync/internal/repo"
	"ClipSync/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Local light mocks
type hMockClipRepo struct{ mock.Mock }

func (m *hMockClipRepo) Save(ctx context.Context, clip *model.Clip) error {
	return m.Called(ctx, clip).Error(0)
}
func (m *hMockClipRepo) SaveBatch(ctx context.Context, clips []*model.Clip) error {
	return m.Called(ctx, clips).Error(0)
}
func (m *hMockClipRepo) GetAll(ctx context.Context) ([]model.Clip, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Clip); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockClipRepo) GetSince(ctx context.Context, since int64) ([]model.Clip, error) {
	args := m.Called(ctx, since)
	if v, ok := args.Get(0).([]model.Clip); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockClipRepo) GetByID(ctx context.Context, id string) (*model.Clip, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Clip); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockClipRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *hMockClipRepo) CleanupDeleted(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockClipRepo) Stats(ctx context.Context) (model.ClipStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.ClipStats), args.Error(1)
}

var _ repo.ClipRepository = (*hMockClipRepo)(nil)

type hMockDeviceRepo struct{ mock.Mock }

func (m *hMockDeviceRepo) Upsert(ctx context.Context, deviceID string) (*model.Device, error) {
	args := m.Called(ctx, deviceID)
	if v, ok := args.Get(0).(*model.Device); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockDeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*model.Device, error) {
	args := m.Called(ctx, deviceID)
	if v, ok := args.Get(0).(*model.Device); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.DeviceRepository = (*hMockDeviceRepo)(nil)

type testEnv struct {
	router    http.Handler
	cfg       *config.Config
	clips     *hMockClipRepo
	devices   *hMockDeviceRepo
	telemetry *service.TelemetryService
}

func newTestEnv(t *testing.T, syncSecret string) *testEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", SyncSecret: syncSecret, RateLimitRPS: 100, CleanupDays: 30}
	logger := zap.NewNop().Sugar()
	cr := &hMockClipRepo{}
	dr := &hMockDeviceRepo{}

	clipSvc := service.NewClipService(cr, cfg.CleanupDays, logger)
	deviceSvc, err := service.NewDeviceService(dr, syncSecret, logger)
	require.NoError(t, err)
	tel := service.NewTelemetryService(logger)

	h := handlers.NewHandler(clipSvc, deviceSvc, tel, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, clips: cr, devices: dr, telemetry: tel}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Buffer
	if body != "" {
		rdr = bytes.NewBufferString(body)
	} else {
		rdr = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func deviceCookie(t *testing.T, deviceID, secret string) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, middleware.SetDeviceCookie(rr, deviceID, secret))
	return rr.Result().Cookies()[0]
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), rr.Body.String())
	return m
}
