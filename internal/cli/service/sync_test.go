package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ClipSync/internal/cli/api"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/repo"
	"ClipSync/internal/cli/repo/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend: минимальный сервер синхронизации для тестов.
type fakeBackend struct {
	mu         sync.Mutex
	healthy    bool
	failUpload bool
	failDelete bool
	remote     []*model.Clip
	uploaded   []model.Clip
	sinceSeen  []string
	deleted    []string
	cookies    []string
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !b.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/clips/batch", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failUpload {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var req struct {
			Clips []model.Clip `json:"clips"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode batch: %v", err)
		}
		b.uploaded = append(b.uploaded, req.Clips...)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"saved": len(req.Clips)})
	})
	mux.HandleFunc("/api/clips", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.sinceSeen = append(b.sinceSeen, r.URL.Query().Get("since"))
		if c, err := r.Cookie(api.AuthCookie); err == nil {
			b.cookies = append(b.cookies, c.Value)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"clips": b.remote, "count": len(b.remote)})
	})
	mux.HandleFunc("/api/clips/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		b.deleted = append(b.deleted, r.URL.Path[len("/api/clips/"):])
		if b.failDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "deleted"})
	})
	mux.HandleFunc("/api/devices/register", func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Secret != "pair" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: api.AuthCookie, Value: "jwt-for-" + req.DeviceID})
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func newTestSync(t *testing.T, b *fakeBackend) (*SyncService, *memory.Store) {
	t.Helper()
	ts := httptest.NewServer(b.handler(t))
	t.Cleanup(ts.Close)
	st := memory.New()
	s := NewSyncService(st, api.NewClient(ts.URL, repo.StoreTokens{Store: st}), nil)
	s.now = func() time.Time { return time.UnixMilli(5_000) }
	return s, st
}

func TestMergeClips_LastWriteWins(t *testing.T) {
	local := []*model.Clip{{ID: "a", Text: "local", UpdatedAt: model.Int64Ptr(100)}}

	got := MergeClips(local, []*model.Clip{{ID: "a", Text: "remote", UpdatedAt: model.Int64Ptr(200)}})
	require.Len(t, got, 1)
	assert.Equal(t, "remote", got[0].Text)

	got = MergeClips(local, []*model.Clip{{ID: "a", Text: "remote", UpdatedAt: model.Int64Ptr(50)}})
	assert.Equal(t, "local", got[0].Text)

	got = MergeClips(local, []*model.Clip{{ID: "a", Text: "remote", UpdatedAt: model.Int64Ptr(100)}})
	assert.Equal(t, "local", got[0].Text, "ties keep local")
}

func TestMergeClips_FallsBackToCreatedAt_FiltersDeleted_Sorts(t *testing.T) {
	local := []*model.Clip{
		{ID: "old", CreatedAt: 1},
		{ID: "gone", CreatedAt: 5},
		nil,
	}
	remote := []*model.Clip{
		{ID: "gone", CreatedAt: 5, UpdatedAt: model.Int64Ptr(9), Deleted: true},
		{ID: "new", CreatedAt: 10},
		{ID: "old", CreatedAt: 2, Text: "remote newer by createdAt"},
	}
	got := MergeClips(local, remote)
	assert.Equal(t, []string{"new", "old"}, clipIDs(got))
	assert.Equal(t, "remote newer by createdAt", got[1].Text)
	assert.NotNil(t, MergeClips(nil, nil))
}

func TestSyncClips_UnreachableLeavesStateAlone(t *testing.T) {
	b := &fakeBackend{healthy: false}
	s, st := newTestSync(t, b)
	ctx := context.Background()
	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{{ID: "a", Text: "a", CreatedAt: 1}}))
	writes := st.Writes(repo.KeyClips)

	res := s.SyncClips(ctx)
	assert.False(t, res.Success)
	assert.Equal(t, ErrBackendUnreachable.Error(), res.Error)
	assert.Equal(t, writes, st.Writes(repo.KeyClips))
	assert.Equal(t, 0, st.Writes(repo.KeyLastSyncTime))
}

func TestSyncClips_UploadsDirtyAndPersistsSyncedAt(t *testing.T) {
	b := &fakeBackend{healthy: true}
	s, st := newTestSync(t, b)
	ctx := context.Background()
	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{
		{ID: "dirty", Text: "d", CreatedAt: 1},
		{ID: "edited", Text: "e", CreatedAt: 1, UpdatedAt: model.Int64Ptr(300), SyncedAt: model.Int64Ptr(200)},
		{ID: "clean", Text: "c", CreatedAt: 1, SyncedAt: model.Int64Ptr(200)},
	}))

	res := s.SyncClips(ctx)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 2, res.Uploaded)
	assert.Equal(t, 0, res.Downloaded)

	require.Len(t, b.uploaded, 2)
	deviceID, _ := repo.DeviceID(ctx, st)
	assert.Regexp(t, `^device-5000-[0-9a-z]{9}$`, deviceID)
	for _, c := range b.uploaded {
		assert.Equal(t, deviceID, c.DeviceID)
	}
	assert.Equal(t, []string{""}, b.sinceSeen, "first sync downloads everything")

	for _, c := range loadClips(t, st) {
		assert.False(t, c.NeedsSync(), c.ID)
	}
	last, _ := repo.LastSyncTime(ctx, st)
	assert.Equal(t, int64(5000), last)

	// второй цикл: выгружать нечего, since передаётся
	res = s.SyncClips(ctx)
	require.True(t, res.Success)
	assert.Equal(t, 0, res.Uploaded)
	assert.Equal(t, []string{"", "5000"}, b.sinceSeen)
}

func TestSyncClips_MergesRemote(t *testing.T) {
	b := &fakeBackend{healthy: true, remote: []*model.Clip{
		{ID: "r1", Text: "from other device", CreatedAt: 50, SyncedAt: model.Int64Ptr(60)},
		{ID: "l1", Text: "remote edit", CreatedAt: 10, UpdatedAt: model.Int64Ptr(40), SyncedAt: model.Int64Ptr(40)},
	}}
	s, st := newTestSync(t, b)
	ctx := context.Background()
	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{
		{ID: "l1", Text: "local", CreatedAt: 10, SyncedAt: model.Int64Ptr(20)},
	}))

	res := s.SyncClips(ctx)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 0, res.Uploaded)
	assert.Equal(t, 2, res.Downloaded)

	clips := loadClips(t, st)
	assert.Equal(t, []string{"r1", "l1"}, clipIDs(clips))
	assert.Equal(t, "remote edit", clips[1].Text)
}

func TestSyncClips_UploadFailureKeepsLocal(t *testing.T) {
	b := &fakeBackend{healthy: true, failUpload: true}
	s, st := newTestSync(t, b)
	ctx := context.Background()
	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{{ID: "a", Text: "a", CreatedAt: 1}}))

	res := s.SyncClips(ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "500")
	assert.True(t, loadClips(t, st)[0].NeedsSync())
	assert.Equal(t, 0, st.Writes(repo.KeyLastSyncTime))
}

func TestSyncClips_RejectsOverlap(t *testing.T) {
	s, _ := newTestSync(t, &fakeBackend{healthy: true})
	s.inFlight.Store(true)
	res := s.SyncClips(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, ErrSyncInProgress.Error(), res.Error)
	assert.False(t, s.ForceFullSync(context.Background()).Success)
}

func TestDeleteClip_LocalFirst(t *testing.T) {
	b := &fakeBackend{healthy: true, failDelete: true}
	s, st := newTestSync(t, b)
	ctx := context.Background()
	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}}))

	require.NoError(t, s.DeleteClip(ctx, "a"), "remote failure is not an error")
	assert.Equal(t, []string{"b"}, clipIDs(loadClips(t, st)))
	assert.Equal(t, []string{"a"}, b.deleted)
}

func TestForceFullSync_ReplacesLocal(t *testing.T) {
	b := &fakeBackend{healthy: true, remote: []*model.Clip{
		{ID: "r", Text: "r", CreatedAt: 1},
		{ID: "dead", Text: "x", CreatedAt: 1, Deleted: true},
	}}
	s, st := newTestSync(t, b)
	ctx := context.Background()
	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{{ID: "local-only", Text: "l"}}))

	res := s.ForceFullSync(ctx)
	require.True(t, res.Success)
	assert.Equal(t, 1, res.Downloaded)
	assert.Equal(t, []string{"r"}, clipIDs(loadClips(t, st)))
	last, _ := repo.LastSyncTime(ctx, st)
	assert.Equal(t, int64(5000), last)
}

func TestDownloadClips_EmptyIsNotNil(t *testing.T) {
	s, _ := newTestSync(t, &fakeBackend{healthy: true})
	clips, err := s.DownloadClips(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, clips)
	assert.Empty(t, clips)
}

func TestCheckBackend_NetworkError(t *testing.T) {
	st := memory.New()
	s := NewSyncService(st, api.NewClient("http://127.0.0.1:1", nil), nil)
	assert.False(t, s.CheckBackend(context.Background()))
	res := s.SyncClips(context.Background())
	assert.False(t, res.Success)
}

func TestRegisterDevice_StoresTokenUsedLater(t *testing.T) {
	b := &fakeBackend{healthy: true}
	s, st := newTestSync(t, b)
	ctx := context.Background()

	_, err := s.RegisterDevice(ctx, "wrong")
	assert.Error(t, err)

	id, err := s.RegisterDevice(ctx, "pair")
	require.NoError(t, err)
	tok, err := repo.StoreTokens{Store: st}.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-for-"+id, tok)

	require.True(t, s.SyncClips(ctx).Success)
	assert.Equal(t, []string{"jwt-for-" + id}, b.cookies)

	status, err := s.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Registered)
	assert.Equal(t, id, status.DeviceID)
	assert.Equal(t, int64(5000), status.LastSync)
	assert.Equal(t, "1970-01-01T00:00:05.000Z", status.LastSyncDate)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := newTestSync(t, &fakeBackend{healthy: true})
	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan SyncResult, 10)
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 10*time.Millisecond, func(r SyncResult) { results <- r })
		close(done)
	}()
	first := <-results
	assert.True(t, first.Success)
	<-results
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
