package model

import "time"

// Device: зарегистрированное устройство синхронизации.
type Device struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	DeviceID   string    `gorm:"not null;uniqueIndex" json:"deviceId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
