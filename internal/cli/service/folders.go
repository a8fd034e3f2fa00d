package service

import (
	"context"
	"fmt"
	"strings"

	"ClipSync/internal/cli/ids"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/repo"
)

func (s *ClipService) Folders(ctx context.Context) ([]model.Folder, error) {
	return repo.Folders(ctx, s.store)
}

// AddFolder создаёт папку с обрезанным непустым именем.
func (s *ClipService) AddFolder(ctx context.Context, name string) (model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Folder{}, ErrEmptyName
	}
	folders, err := repo.Folders(ctx, s.store)
	if err != nil {
		return model.Folder{}, err
	}
	now := s.now()
	id, err := ids.NewFolderID(now)
	if err != nil {
		return model.Folder{}, err
	}
	f := model.Folder{ID: id, Name: name, CreatedAt: now.UnixMilli()}
	if err := repo.SetFolders(ctx, s.store, append(folders, f)); err != nil {
		return model.Folder{}, err
	}
	return f, nil
}

// DeleteFolder удаляет папку, отвязывает её клипы и сбрасывает активную папку,
// если удаляется она.
func (s *ClipService) DeleteFolder(ctx context.Context, id string) error {
	folders, err := repo.Folders(ctx, s.store)
	if err != nil {
		return err
	}
	kept := make([]model.Folder, 0, len(folders))
	for _, f := range folders {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(folders) {
		return fmt.Errorf("folder %q: %w", id, ErrNotFound)
	}

	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return err
	}
	unlinked := 0
	for i, c := range clips {
		if c.InFolder(id) {
			updated := c.Clone()
			updated.FolderID = nil
			clips[i] = &updated
			unlinked++
		}
	}

	if err := repo.SetFolders(ctx, s.store, kept); err != nil {
		return err
	}
	if unlinked > 0 {
		if err := repo.SetClips(ctx, s.store, clips); err != nil {
			return err
		}
	}
	active, err := repo.ActiveFolderID(ctx, s.store)
	if err != nil {
		return err
	}
	if active == id {
		return repo.SetActiveFolderID(ctx, s.store, "")
	}
	return nil
}

// ActiveFolder возвращает id активной папки ("": все клипы).
func (s *ClipService) ActiveFolder(ctx context.Context) (string, error) {
	return repo.ActiveFolderID(ctx, s.store)
}

// SetActiveFolder выбирает папку для новых захватов; "" сбрасывает выбор.
func (s *ClipService) SetActiveFolder(ctx context.Context, id string) error {
	if id != "" {
		ok, err := s.folderExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("folder %q: %w", id, ErrNotFound)
		}
	}
	return repo.SetActiveFolderID(ctx, s.store, id)
}

// ResolveFolder находит папку по id или по имени (без учёта регистра).
func (s *ClipService) ResolveFolder(ctx context.Context, ref string) (model.Folder, error) {
	folders, err := repo.Folders(ctx, s.store)
	if err != nil {
		return model.Folder{}, err
	}
	for _, f := range folders {
		if f.ID == ref {
			return f, nil
		}
	}
	for _, f := range folders {
		if strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return model.Folder{}, fmt.Errorf("folder %q: %w", ref, ErrNotFound)
}

func (s *ClipService) folderExists(ctx context.Context, id string) (bool, error) {
	folders, err := repo.Folders(ctx, s.store)
	if err != nil {
		return false, err
	}
	for _, f := range folders {
		if f.ID == id {
			return true, nil
		}
	}
	return false, nil
}
