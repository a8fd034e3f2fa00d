package repo

import (
	"context"
	"errors"
	"strconv"

	"ClipSync/internal/cli/model"
)

// get реализует семантику get(key, default): отсутствующий ключ и
// повреждённое значение дают значение по умолчанию.
func get[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	var v T
	found, err := s.Get(ctx, key, &v)
	if errors.Is(err, ErrCorrupt) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	if !found {
		return def, nil
	}
	return v, nil
}

// Clips возвращает коллекцию клипов без nil-элементов.
func Clips(ctx context.Context, s Store) ([]*model.Clip, error) {
	raw, err := get[[]*model.Clip](ctx, s, KeyClips, nil)
	if err != nil {
		return nil, err
	}
	clips := make([]*model.Clip, 0, len(raw))
	for _, c := range raw {
		if c != nil {
			clips = append(clips, c)
		}
	}
	return clips, nil
}

// SetClips перезаписывает коллекцию клипов одной записью.
func SetClips(ctx context.Context, s Store, clips []*model.Clip) error {
	if clips == nil {
		clips = []*model.Clip{}
	}
	return s.Set(ctx, KeyClips, clips)
}

func Folders(ctx context.Context, s Store) ([]model.Folder, error) {
	folders, err := get[[]model.Folder](ctx, s, KeyFolders, nil)
	if folders == nil {
		folders = []model.Folder{}
	}
	return folders, err
}

func SetFolders(ctx context.Context, s Store, folders []model.Folder) error {
	if folders == nil {
		folders = []model.Folder{}
	}
	return s.Set(ctx, KeyFolders, folders)
}

func TagRules(ctx context.Context, s Store) ([]model.TagRule, error) {
	rules, err := get[[]model.TagRule](ctx, s, KeyTagRules, nil)
	if rules == nil {
		rules = []model.TagRule{}
	}
	return rules, err
}

func SetTagRules(ctx context.Context, s Store, rules []model.TagRule) error {
	if rules == nil {
		rules = []model.TagRule{}
	}
	return s.Set(ctx, KeyTagRules, rules)
}

// ActiveFolderID возвращает "" если активная папка не выбрана.
func ActiveFolderID(ctx context.Context, s Store) (string, error) {
	id, err := get[*string](ctx, s, KeyActiveFolderID, nil)
	if err != nil || id == nil {
		return "", err
	}
	return *id, nil
}

// SetActiveFolderID сохраняет null для пустого id.
func SetActiveFolderID(ctx context.Context, s Store, id string) error {
	if id == "" {
		return s.Set(ctx, KeyActiveFolderID, nil)
	}
	return s.Set(ctx, KeyActiveFolderID, id)
}

func DeviceID(ctx context.Context, s Store) (string, error) {
	return get(ctx, s, KeyDeviceID, "")
}

func SetDeviceID(ctx context.Context, s Store, id string) error {
	return s.Set(ctx, KeyDeviceID, id)
}

// LastSyncTime хранится строкой с миллисекундами; нечисловое значение считается 0.
func LastSyncTime(ctx context.Context, s Store) (int64, error) {
	raw, err := get(ctx, s, KeyLastSyncTime, "0")
	if err != nil {
		return 0, err
	}
	ms, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil || ms < 0 {
		return 0, nil
	}
	return ms, nil
}

func SetLastSyncTime(ctx context.Context, s Store, ms int64) error {
	return s.Set(ctx, KeyLastSyncTime, strconv.FormatInt(ms, 10))
}

func CopyFormat(ctx context.Context, s Store) (model.CopyFormat, error) {
	raw, err := get(ctx, s, KeyCopyFormat, string(model.CopyBullets))
	return model.ParseCopyFormat(raw), err
}

func SetCopyFormat(ctx context.Context, s Store, f model.CopyFormat) error {
	return s.Set(ctx, KeyCopyFormat, string(model.ParseCopyFormat(string(f))))
}
