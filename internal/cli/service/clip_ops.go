package service

import (
	"context"
	"errors"
	"strings"

	"ClipSync/internal/cli/dedup"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/model/view"
	"ClipSync/internal/cli/repo"
)

// ListClips возвращает клипы, подходящие под фильтр, в порядке показа.
func (s *ClipService) ListClips(ctx context.Context, f view.Filter) ([]*model.Clip, error) {
	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return view.SortForCopy(f.Apply(clips)), nil
}

// ToggleStar переключает отметку и возвращает новое значение.
func (s *ClipService) ToggleStar(ctx context.Context, id string) (bool, error) {
	var starred bool
	err := s.updateClip(ctx, id, func(c *model.Clip) error {
		c.Starred = !c.Starred
		starred = c.Starred
		return nil
	})
	return starred, err
}

// EditClip заменяет текст клипа. Отпечаток пересчитывается, updatedAt сдвигается,
// чтобы правка ушла на сервер при следующей синхронизации.
func (s *ClipService) EditClip(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text is required")
	}
	return s.updateClip(ctx, id, func(c *model.Clip) error {
		c.Text = text
		c.Hash = dedup.CalculateHash(text)
		c.UpdatedAt = model.Int64Ptr(s.now().UnixMilli())
		return nil
	})
}

// MoveClip переносит клип в папку; пустой folderID убирает клип из папки.
func (s *ClipService) MoveClip(ctx context.Context, id, folderID string) error {
	if folderID != "" {
		if ok, err := s.folderExists(ctx, folderID); err != nil {
			return err
		} else if !ok {
			return ErrNotFound
		}
	}
	return s.updateClip(ctx, id, func(c *model.Clip) error {
		if folderID == "" {
			c.FolderID = nil
		} else {
			c.FolderID = model.StringPtr(folderID)
		}
		c.UpdatedAt = model.Int64Ptr(s.now().UnixMilli())
		return nil
	})
}

// RemoveClip удаляет клип только локально. Возвращает false, если клипа не было.
func (s *ClipService) RemoveClip(ctx context.Context, id string) (bool, error) {
	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return false, err
	}
	idx := findClip(clips, id)
	if idx < 0 {
		return false, nil
	}
	clips = append(clips[:idx], clips[idx+1:]...)
	return true, repo.SetClips(ctx, s.store, clips)
}

func (s *ClipService) updateClip(ctx context.Context, id string, fn func(*model.Clip) error) error {
	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return err
	}
	idx := findClip(clips, id)
	if idx < 0 {
		return ErrNotFound
	}
	updated := clips[idx].Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	clips[idx] = &updated
	return repo.SetClips(ctx, s.store, clips)
}
