package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ClipSavedEvent: событие сохранения клипа от расширения.
type ClipSavedEvent struct {
	Source      string   `json:"source" validate:"required,oneof=web native"`
	IsDuplicate bool     `json:"isDuplicate"`
	Tags        []string `json:"tags"`
	UserID      string   `json:"userId"`
}

// ErrorEvent: ошибка, пойманная на стороне расширения.
type ErrorEvent struct {
	ErrorType string `json:"errorType" validate:"required"`
	Component string `json:"component" validate:"required"`
	Message   string `json:"message"`
	UserID    string `json:"userId"`
}

// TelemetrySnapshot: текущее состояние счётчиков.
type TelemetrySnapshot struct {
	ClipsSaved        map[string]int64 `json:"clipsSaved"`
	ClipsDeduplicated int64            `json:"clipsDeduplicated"`
	TagsApplied       map[string]int64 `json:"tagsApplied"`
	Errors            map[string]int64 `json:"errors"`
	ActiveUsers       int              `json:"activeUsers"`
	LastReset         time.Time        `json:"lastReset"`
}

// TelemetryService: счётчики процесса. Набор активных пользователей
// периодически очищается в Run, накопительные счётчики живут до рестарта.
type TelemetryService struct {
	mu          sync.Mutex
	saved       map[string]int64
	dedup       int64
	tags        map[string]int64
	errors      map[string]int64
	activeUsers map[string]struct{}
	lastReset   time.Time

	log *zap.SugaredLogger
	now func() time.Time
}

func NewTelemetryService(logger *zap.SugaredLogger) *TelemetryService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &TelemetryService{
		saved:       map[string]int64{},
		tags:        map[string]int64{},
		errors:      map[string]int64{},
		activeUsers: map[string]struct{}{},
		lastReset:   time.Now().UTC(),
		log:         logger,
		now:         time.Now,
	}
}

// RecordClipSaved учитывает сохранение по источнику, дубликат, теги и пользователя.
func (t *TelemetryService) RecordClipSaved(ev ClipSavedEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.saved[ev.Source]++
	if ev.IsDuplicate {
		t.dedup++
	}
	for _, tag := range ev.Tags {
		if tag != "" {
			t.tags[tag]++
		}
	}
	if ev.UserID != "" {
		t.activeUsers[ev.UserID] = struct{}{}
	}
}

// RecordError учитывает ошибку расширения по паре тип/компонент.
func (t *TelemetryService) RecordError(ev ErrorEvent) {
	t.mu.Lock()
	t.errors[ev.ErrorType+"/"+ev.Component]++
	if ev.UserID != "" {
		t.activeUsers[ev.UserID] = struct{}{}
	}
	t.mu.Unlock()
	t.log.Warnw("extension error reported", "error_type", ev.ErrorType, "component", ev.Component, "message", ev.Message)
}

// Heartbeat отмечает пользователя активным.
func (t *TelemetryService) Heartbeat(userID string) {
	if userID == "" {
		return
	}
	t.mu.Lock()
	t.activeUsers[userID] = struct{}{}
	t.mu.Unlock()
}

// Snapshot возвращает копию счётчиков.
func (t *TelemetryService) Snapshot() TelemetrySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TelemetrySnapshot{
		ClipsSaved:        copyCounts(t.saved),
		ClipsDeduplicated: t.dedup,
		TagsApplied:       copyCounts(t.tags),
		Errors:            copyCounts(t.errors),
		ActiveUsers:       len(t.activeUsers),
		LastReset:         t.lastReset,
	}
}

// TopTags возвращает n самых частых тегов по убыванию.
func (t *TelemetryService) TopTags(n int) []string {
	t.mu.Lock()
	tags := make([]string, 0, len(t.tags))
	for tag := range t.tags {
		tags = append(tags, tag)
	}
	counts := copyCounts(t.tags)
	t.mu.Unlock()

	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if n >= 0 && len(tags) > n {
		tags = tags[:n]
	}
	return tags
}

// ResetActiveUsers очищает набор активных пользователей.
func (t *TelemetryService) ResetActiveUsers() int {
	t.mu.Lock()
	n := len(t.activeUsers)
	t.activeUsers = map[string]struct{}{}
	t.lastReset = t.now().UTC()
	t.mu.Unlock()
	t.log.Infow("active users cleared", "count", n)
	return n
}

// Run очищает активных пользователей каждые window до отмены ctx.
func (t *TelemetryService) Run(ctx context.Context, window time.Duration) {
	if window <= 0 {
		window = 30 * time.Minute
	}
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.ResetActiveUsers()
		}
	}
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
