// Package auth отвечает за идентичность установки клиента: device id и токен устройства.
package auth

import (
	"context"
	"fmt"
	"time"

	"ClipSync/internal/cli/ids"
	"ClipSync/internal/cli/repo"
)

// EnsureDeviceID возвращает сохранённый device id, а при его отсутствии
// генерирует новый и сохраняет. Один раз созданный id переиспользуется всегда.
func EnsureDeviceID(ctx context.Context, s repo.Store, now time.Time) (string, error) {
	id, err := repo.DeviceID(ctx, s)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id, err = ids.NewDeviceID(now)
	if err != nil {
		return "", err
	}
	if err := repo.SetDeviceID(ctx, s, id); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return id, nil
}

// HasToken сообщает, зарегистрировано ли устройство на сервере.
func HasToken(ctx context.Context, tokens repo.TokenStore) bool {
	t, err := tokens.Load(ctx)
	return err == nil && t != ""
}
