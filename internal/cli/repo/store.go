package repo

import (
	"context"
	"errors"
)

// Store: порт локального key-value хранилища клиента.
// Значения хранятся как JSON-документы.
type Store interface {
	// Get читает значение ключа в dst. found=false, если ключа нет.
	// Если сохранённое значение не декодируется в dst, возвращается ошибка, обёрнутая в ErrCorrupt.
	Get(ctx context.Context, key string, dst any) (found bool, err error)

	// Set сохраняет значение ключа целиком.
	Set(ctx context.Context, key string, value any) error
}

// ErrCorrupt: сохранённое значение не соответствует ожидаемой форме.
var ErrCorrupt = errors.New("corrupt stored value")

// Логические ключи стора.
const (
	KeyClips          = "clips"
	KeyFolders        = "folders"
	KeyTagRules       = "tagRules"
	KeyActiveFolderID = "activeFolderId"
	KeyDeviceID       = "deviceId"
	KeyLastSyncTime   = "lastSyncTime"
	KeyCopyFormat     = "copyFormat"
	KeyAuthToken      = "authToken"
)
