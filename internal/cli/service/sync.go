package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"ClipSync/internal/cli/api"
	"ClipSync/internal/cli/auth"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/repo"

	"go.uber.org/zap"
)

// HealthTimeout ограничивает проверку доступности сервера.
const HealthTimeout = 3 * time.Second

var (
	ErrSyncInProgress     = errors.New("sync already in progress")
	ErrBackendUnreachable = errors.New("backend unreachable")
)

// SyncResult: итог одного цикла синхронизации.
type SyncResult struct {
	Success    bool   `json:"success"`
	Uploaded   int    `json:"uploaded"`
	Downloaded int    `json:"downloaded"`
	Error      string `json:"error,omitempty"`
}

func failed(err error) SyncResult {
	return SyncResult{Success: false, Error: err.Error()}
}

// SyncStatus: состояние синхронизации для команды status.
type SyncStatus struct {
	LastSync      int64  `json:"lastSync"`
	LastSyncDate  string `json:"lastSyncDate,omitempty"`
	DeviceID      string `json:"deviceId"`
	BackendURL    string `json:"backendUrl"`
	UnsyncedCount int    `json:"unsyncedCount"`
	InFlight      bool   `json:"inFlight"`
	Registered    bool   `json:"registered"`
}

type batchRequest struct {
	Clips    []model.Clip `json:"clips"`
	DeviceID string       `json:"deviceId"`
}

type batchResponse struct {
	Saved int `json:"saved"`
}

type listResponse struct {
	Clips []*model.Clip `json:"clips"`
}

type registerRequest struct {
	DeviceID string `json:"deviceId"`
	Secret   string `json:"secret,omitempty"`
}

// SyncService сводит локальную коллекцию с серверной по правилу
// "последняя запись побеждает".
type SyncService struct {
	store    repo.Store
	client   *api.Client
	log      *zap.SugaredLogger
	now      func() time.Time
	inFlight atomic.Bool
}

// NewSyncService создаёт сервис; logger может быть nil.
func NewSyncService(store repo.Store, client *api.Client, logger *zap.SugaredLogger) *SyncService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SyncService{store: store, client: client, log: logger, now: time.Now}
}

// SyncClips выполняет один цикл: выгрузка изменённых клипов, загрузка
// серверных изменений с момента прошлой синхронизации, слияние, запись.
// Ошибки не пробрасываются: локальное состояние при неудаче не меняется.
func (s *SyncService) SyncClips(ctx context.Context) SyncResult {
	if !s.inFlight.CompareAndSwap(false, true) {
		return failed(ErrSyncInProgress)
	}
	defer s.inFlight.Store(false)

	if !s.CheckBackend(ctx) {
		s.log.Warnw("backend unreachable, skipping sync", "backend", s.client.BaseURL)
		return failed(ErrBackendUnreachable)
	}
	res, err := s.syncClips(ctx)
	if err != nil {
		s.log.Errorw("sync failed", "error", err)
		return failed(err)
	}
	s.log.Infow("sync complete", "uploaded", res.Uploaded, "downloaded", res.Downloaded)
	return res
}

func (s *SyncService) syncClips(ctx context.Context) (SyncResult, error) {
	deviceID, err := auth.EnsureDeviceID(ctx, s.store, s.now())
	if err != nil {
		return SyncResult{}, err
	}
	local, err := repo.Clips(ctx, s.store)
	if err != nil {
		return SyncResult{}, err
	}
	lastSync, err := repo.LastSyncTime(ctx, s.store)
	if err != nil {
		return SyncResult{}, err
	}

	unsynced := make([]*model.Clip, 0)
	for _, c := range local {
		if c.NeedsSync() {
			unsynced = append(unsynced, c)
		}
	}
	if len(unsynced) > 0 {
		if _, err := s.UploadClips(ctx, unsynced, deviceID); err != nil {
			return SyncResult{}, err
		}
	}

	remote, err := s.DownloadClips(ctx, lastSync)
	if err != nil {
		return SyncResult{}, err
	}
	// syncedAt выгруженных клипов сохраняется и тогда, когда с сервера ничего не пришло
	switch {
	case len(remote) > 0:
		if err := repo.SetClips(ctx, s.store, MergeClips(local, remote)); err != nil {
			return SyncResult{}, err
		}
	case len(unsynced) > 0:
		if err := repo.SetClips(ctx, s.store, local); err != nil {
			return SyncResult{}, err
		}
	}
	if err := repo.SetLastSyncTime(ctx, s.store, s.now().UnixMilli()); err != nil {
		return SyncResult{}, err
	}
	return SyncResult{Success: true, Uploaded: len(unsynced), Downloaded: len(remote)}, nil
}

// UploadClips отправляет клипы одним пакетом с id устройства и при успехе
// проставляет им syncedAt. Переданные клипы изменяются на месте.
func (s *SyncService) UploadClips(ctx context.Context, clips []*model.Clip, deviceID string) (int, error) {
	req := batchRequest{Clips: make([]model.Clip, 0, len(clips)), DeviceID: deviceID}
	for _, c := range clips {
		out := c.Clone()
		out.DeviceID = deviceID
		req.Clips = append(req.Clips, out)
	}
	resp, body, err := s.client.Post(ctx, "/api/clips/batch", req)
	if err != nil {
		return 0, fmt.Errorf("upload: %w", err)
	}
	if err := api.CheckStatus(resp, body); err != nil {
		return 0, fmt.Errorf("upload: %w", err)
	}
	var br batchResponse
	if err := json.Unmarshal(body, &br); err != nil {
		return 0, fmt.Errorf("upload: decode response: %w", err)
	}
	now := s.now().UnixMilli()
	for _, c := range clips {
		c.SyncedAt = model.Int64Ptr(now)
	}
	s.log.Debugw("clips uploaded", "sent", len(clips), "saved", br.Saved)
	return br.Saved, nil
}

// DownloadClips возвращает клипы, изменённые на сервере после since (0: все).
// Пустой ответ даёт пустой срез, не nil.
func (s *SyncService) DownloadClips(ctx context.Context, since int64) ([]*model.Clip, error) {
	path := "/api/clips"
	if since > 0 {
		path += "?since=" + strconv.FormatInt(since, 10)
	}
	resp, body, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if err := api.CheckStatus(resp, body); err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	var lr listResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("download: decode response: %w", err)
	}
	out := make([]*model.Clip, 0, len(lr.Clips))
	for _, c := range lr.Clips {
		if c != nil && c.ID != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// MergeClips сливает коллекции по id: побеждает версия с большим
// updatedAt (или createdAt), при равенстве остаётся локальная.
// Удалённые клипы отбрасываются, результат отсортирован по createdAt по убыванию.
func MergeClips(local, remote []*model.Clip) []*model.Clip {
	byID := make(map[string]*model.Clip, len(local)+len(remote))
	order := make([]string, 0, len(local)+len(remote))
	put := func(c *model.Clip) {
		if _, ok := byID[c.ID]; !ok {
			order = append(order, c.ID)
		}
		byID[c.ID] = c
	}
	for _, c := range local {
		if c != nil {
			put(c)
		}
	}
	for _, r := range remote {
		if r == nil {
			continue
		}
		l, ok := byID[r.ID]
		if !ok || r.LastModified() > l.LastModified() {
			put(r)
		}
	}

	out := make([]*model.Clip, 0, len(order))
	for _, id := range order {
		if c := byID[id]; !c.Deleted {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// DeleteClip удаляет клип локально, затем на сервере. Ошибка сервера только
// логируется: локальное удаление не откатывается.
func (s *SyncService) DeleteClip(ctx context.Context, id string) error {
	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return err
	}
	kept := make([]*model.Clip, 0, len(clips))
	for _, c := range clips {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if err := repo.SetClips(ctx, s.store, kept); err != nil {
		return err
	}

	resp, body, err := s.client.Delete(ctx, "/api/clips/"+id)
	if err != nil {
		s.log.Warnw("remote delete failed", "id", id, "error", err)
		return nil
	}
	if err := api.CheckStatus(resp, body); err != nil {
		s.log.Warnw("remote delete failed", "id", id, "error", err)
	}
	return nil
}

// ForceFullSync заменяет локальную коллекцию полной серверной.
func (s *SyncService) ForceFullSync(ctx context.Context) SyncResult {
	if !s.inFlight.CompareAndSwap(false, true) {
		return failed(ErrSyncInProgress)
	}
	defer s.inFlight.Store(false)

	remote, err := s.DownloadClips(ctx, 0)
	if err != nil {
		s.log.Errorw("full sync failed", "error", err)
		return failed(err)
	}
	live := make([]*model.Clip, 0, len(remote))
	for _, c := range remote {
		if !c.Deleted {
			live = append(live, c)
		}
	}
	if err := repo.SetClips(ctx, s.store, live); err != nil {
		return failed(err)
	}
	if err := repo.SetLastSyncTime(ctx, s.store, s.now().UnixMilli()); err != nil {
		return failed(err)
	}
	s.log.Infow("full sync complete", "clips", len(live))
	return SyncResult{Success: true, Downloaded: len(live)}
}

// CheckBackend проверяет GET /health с жёстким таймаутом. Любая ошибка: false.
func (s *SyncService) CheckBackend(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()
	resp, _, err := s.client.Get(ctx, "/health")
	if err != nil {
		s.log.Debugw("backend check failed", "error", err)
		return false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// GetSyncStatus собирает данные для вывода состояния синхронизации.
func (s *SyncService) GetSyncStatus(ctx context.Context) (SyncStatus, error) {
	lastSync, err := repo.LastSyncTime(ctx, s.store)
	if err != nil {
		return SyncStatus{}, err
	}
	deviceID, err := auth.EnsureDeviceID(ctx, s.store, s.now())
	if err != nil {
		return SyncStatus{}, err
	}
	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return SyncStatus{}, err
	}
	st := SyncStatus{
		LastSync:   lastSync,
		DeviceID:   deviceID,
		BackendURL: s.client.BaseURL,
		InFlight:   s.inFlight.Load(),
	}
	if lastSync > 0 {
		st.LastSyncDate = time.UnixMilli(lastSync).UTC().Format("2006-01-02T15:04:05.000Z")
	}
	for _, c := range clips {
		if c.NeedsSync() {
			st.UnsyncedCount++
		}
	}
	if s.client.Tokens != nil {
		st.Registered = auth.HasToken(ctx, s.client.Tokens)
	}
	return st, nil
}

// RegisterDevice регистрирует устройство на сервере и сохраняет выданный токен.
func (s *SyncService) RegisterDevice(ctx context.Context, secret string) (string, error) {
	deviceID, err := auth.EnsureDeviceID(ctx, s.store, s.now())
	if err != nil {
		return "", err
	}
	resp, body, err := s.client.Post(ctx, "/api/devices/register", registerRequest{DeviceID: deviceID, Secret: secret})
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusForbidden {
		return "", errors.New("sync secret rejected by server")
	}
	if err := api.CheckStatus(resp, body); err != nil {
		return "", err
	}
	if err := s.client.PersistAuthFromResponse(ctx, resp); err != nil {
		return "", err
	}
	return deviceID, nil
}

// Run синхронизирует сразу и затем с фиксированным интервалом до отмены ctx.
// Неудачный цикл просто повторяется на следующем тике.
func (s *SyncService) Run(ctx context.Context, interval time.Duration, onResult func(SyncResult)) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		res := s.SyncClips(ctx)
		if onResult != nil {
			onResult(res)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
