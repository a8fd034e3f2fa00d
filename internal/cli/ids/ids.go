// Package ids генерирует идентификаторы клипов, папок и устройств.
package ids

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	clipRandomLength   = 6
	deviceRandomLength = 9
)

func random(n int) (string, error) {
	s, err := gonanoid.Generate(base36, n)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return s, nil
}

// NewClipID возвращает id вида "<ms>-<6 символов base36>".
func NewClipID(now time.Time) (string, error) {
	r, err := random(clipRandomLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), r), nil
}

// NewFolderID использует тот же формат, что и клипы.
func NewFolderID(now time.Time) (string, error) {
	return NewClipID(now)
}

// NewDeviceID возвращает id вида "device-<ms>-<9 символов base36>".
func NewDeviceID(now time.Time) (string, error) {
	r, err := random(deviceRandomLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("device-%d-%s", now.UnixMilli(), r), nil
}
