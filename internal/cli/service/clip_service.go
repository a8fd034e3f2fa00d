package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ClipSync/internal/cli/dedup"
	"ClipSync/internal/cli/ids"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/repo"
	"ClipSync/internal/cli/tagrules"

	"go.uber.org/zap"
)

// ClipInput: данные одного захвата.
type ClipInput struct {
	Text      string
	Title     string
	URL       string
	CreatedAt int64   // 0: текущее время
	FolderID  *string // nil: без папки
	Source    string  // пусто: web
}

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidIndex = errors.New("rule index out of range")
)

// ClipService: операции над коллекцией клипов поверх key-value стора.
// Каждая операция читает коллекцию целиком и записывает её одним Set.
type ClipService struct {
	store     repo.Store
	log       *zap.SugaredLogger
	now       func() time.Time
	recompute *Recomputer
}

// NewClipService создаёт сервис; logger может быть nil.
func NewClipService(store repo.Store, logger *zap.SugaredLogger) *ClipService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ClipService{store: store, log: logger, now: time.Now}
}

// SetRecomputer подключает отложенный пересчёт тегов при изменении правил.
func (s *ClipService) SetRecomputer(r *Recomputer) { s.recompute = r }

// SaveWithDedup сохраняет захват: новый клип или слияние с дубликатом.
// Любая ошибка логируется и даёт false, стор при этом не меняется.
func (s *ClipService) SaveWithDedup(ctx context.Context, in *ClipInput) bool {
	if in == nil || strings.TrimSpace(in.Text) == "" {
		return false
	}
	if err := s.saveWithDedup(ctx, *in); err != nil {
		s.log.Warnw("save clip failed", "error", err)
		return false
	}
	return true
}

func (s *ClipService) saveWithDedup(ctx context.Context, in ClipInput) error {
	hash := dedup.CalculateHash(in.Text)
	if hash == "" {
		return errors.New("empty fingerprint")
	}
	rules, err := repo.TagRules(ctx, s.store)
	if err != nil {
		return fmt.Errorf("load tag rules: %w", err)
	}
	tags := tagrules.EvaluateRules(rules, in.Text, in.URL)

	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return fmt.Errorf("load clips: %w", err)
	}
	now := s.now()

	if idx := dedup.FindDuplicateIndex(clips, in.Text); idx >= 0 {
		merged := dedup.MergeDuplicate(*clips[idx], tags, now)
		clips[idx] = &merged
	} else {
		id, err := ids.NewClipID(now)
		if err != nil {
			return err
		}
		createdAt := in.CreatedAt
		if createdAt == 0 {
			createdAt = now.UnixMilli()
		}
		source := in.Source
		if source == "" {
			source = model.SourceWeb
		}
		clips = append(clips, &model.Clip{
			ID:        id,
			Text:      in.Text,
			Title:     in.Title,
			URL:       in.URL,
			CreatedAt: createdAt,
			FolderID:  in.FolderID,
			DupCount:  1,
			Hash:      hash,
			Source:    source,
			Tags:      tags,
		})
	}
	return repo.SetClips(ctx, s.store, clips)
}

// RecomputeAllTags заменяет теги каждого клипа результатом правил.
// Возвращает число изменившихся клипов; запись происходит только если они есть.
func (s *ClipService) RecomputeAllTags(ctx context.Context) int {
	n, err := s.recomputeAllTags(ctx)
	if err != nil {
		s.log.Warnw("recompute tags failed", "error", err)
		return 0
	}
	return n
}

func (s *ClipService) recomputeAllTags(ctx context.Context) (int, error) {
	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return 0, err
	}
	rules, err := repo.TagRules(ctx, s.store)
	if err != nil {
		return 0, err
	}
	set := tagrules.Compile(rules)
	changed := 0
	for i, c := range clips {
		newTags := set.Evaluate(c.Text, c.URL)
		if !tagrules.TagsNeedUpdate(c.Tags, newTags) {
			continue
		}
		updated := c.Clone()
		updated.Tags = newTags
		clips[i] = &updated
		changed++
	}
	if changed > 0 {
		if err := repo.SetClips(ctx, s.store, clips); err != nil {
			return 0, err
		}
	}
	return changed, nil
}

// ValidateClipData проверяет, что данные: объект с непустым строковым text.
func ValidateClipData(data any) bool {
	switch v := data.(type) {
	case map[string]any:
		text, ok := v["text"].(string)
		return ok && strings.TrimSpace(text) != ""
	case ClipInput:
		return strings.TrimSpace(v.Text) != ""
	case *ClipInput:
		return v != nil && strings.TrimSpace(v.Text) != ""
	case model.Clip:
		return strings.TrimSpace(v.Text) != ""
	case *model.Clip:
		return v != nil && strings.TrimSpace(v.Text) != ""
	default:
		return false
	}
}

// findClip возвращает индекс клипа по id или -1.
func findClip(clips []*model.Clip, id string) int {
	for i, c := range clips {
		if c.ID == id {
			return i
		}
	}
	return -1
}
