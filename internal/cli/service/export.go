package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"ClipSync/internal/cli/dedup"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/model/view"
	"ClipSync/internal/cli/repo"
)

// ExportVersion: версия формата файла экспорта.
const ExportVersion = 1

// ExportFile: содержимое файла экспорта.
type ExportFile struct {
	Version    int             `json:"version"`
	ExportedAt int64           `json:"exportedAt"`
	Clips      []*model.Clip   `json:"clips"`
	Folders    []model.Folder  `json:"folders"`
	TagRules   []model.TagRule `json:"tagRules"`
}

// CopyAll собирает текст "скопировать всё" для папки ("": все клипы)
// и возвращает его вместе с числом клипов.
func (s *ClipService) CopyAll(ctx context.Context, folderID string, format model.CopyFormat) (string, int, error) {
	if format == "" {
		f, err := repo.CopyFormat(ctx, s.store)
		if err != nil {
			return "", 0, err
		}
		format = f
	}
	clips, err := s.ListClips(ctx, view.Filter{FolderID: folderID})
	if err != nil {
		return "", 0, err
	}
	return view.FormatClips(clips, model.ParseCopyFormat(string(format))), len(clips), nil
}

func (s *ClipService) SetCopyFormat(ctx context.Context, format string) (model.CopyFormat, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	f := model.ParseCopyFormat(name)
	if string(f) != name {
		return "", fmt.Errorf("unknown copy format %q (bullets|numbers|lines)", format)
	}
	return f, repo.SetCopyFormat(ctx, s.store, f)
}

// Export сериализует клипы, папки и правила.
func (s *ClipService) Export(ctx context.Context) ([]byte, error) {
	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return nil, err
	}
	folders, err := repo.Folders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	rules, err := repo.TagRules(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ExportFile{
		Version:    ExportVersion,
		ExportedAt: s.now().UnixMilli(),
		Clips:      clips,
		Folders:    folders,
		TagRules:   rules,
	}, "", "  ")
}

// Import сливает файл экспорта с локальными данными по id: импортированные
// записи побеждают. Клипы без текста пропускаются, hash всегда считается
// заново по тексту. Изменившийся набор правил планирует пересчёт тегов.
// Возвращает число принятых клипов.
func (s *ClipService) Import(ctx context.Context, data []byte) (int, error) {
	var f ExportFile
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parse export: %w", err)
	}
	if f.Version > ExportVersion {
		return 0, fmt.Errorf("unsupported export version %d", f.Version)
	}

	clips, err := repo.Clips(ctx, s.store)
	if err != nil {
		return 0, err
	}
	index := make(map[string]int, len(clips))
	for i, c := range clips {
		index[c.ID] = i
	}
	imported := 0
	for _, c := range f.Clips {
		if c == nil || c.ID == "" || !ValidateClipData(c) {
			continue
		}
		in := c.Clone()
		in.Hash = dedup.CalculateHash(in.Text)
		if in.DupCount <= 0 {
			in.DupCount = 1
		}
		if in.Tags == nil {
			in.Tags = []string{}
		}
		if i, ok := index[in.ID]; ok {
			clips[i] = &in
		} else {
			index[in.ID] = len(clips)
			clips = append(clips, &in)
		}
		imported++
	}
	if err := repo.SetClips(ctx, s.store, clips); err != nil {
		return 0, err
	}

	if len(f.Folders) > 0 {
		folders, err := repo.Folders(ctx, s.store)
		if err != nil {
			return imported, err
		}
		if err := repo.SetFolders(ctx, s.store, mergeFolders(folders, f.Folders)); err != nil {
			return imported, err
		}
	}
	if f.TagRules != nil {
		current, err := repo.TagRules(ctx, s.store)
		if err != nil {
			return imported, err
		}
		if !rulesEqual(current, f.TagRules) {
			if err := s.ReplaceTagRules(ctx, f.TagRules); err != nil {
				return imported, err
			}
		}
	}
	return imported, nil
}

func rulesEqual(a, b []model.TagRule) bool {
	return slices.EqualFunc(a, b, func(x, y model.TagRule) bool {
		return x.Type == y.Type && x.Pattern == y.Pattern && slices.Equal(x.Tags, y.Tags)
	})
}

func mergeFolders(local, incoming []model.Folder) []model.Folder {
	index := make(map[string]int, len(local))
	out := append([]model.Folder(nil), local...)
	for i, f := range out {
		index[f.ID] = i
	}
	for _, f := range incoming {
		if f.ID == "" {
			continue
		}
		if i, ok := index[f.ID]; ok {
			out[i] = f
			continue
		}
		index[f.ID] = len(out)
		out = append(out, f)
	}
	return out
}
