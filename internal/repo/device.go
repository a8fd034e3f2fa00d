package repo

import (
	"ClipSync/internal/model"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceRepository минимальный контракт доступа к Device.
type DeviceRepository interface {
	// Upsert создаёт устройство, если его ещё нет, и обновляет last_seen_at.
	Upsert(ctx context.Context, deviceID string) (*model.Device, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*model.Device, error)
}

type deviceRepo struct {
	db *gorm.DB
}

// NewDeviceRepository создаёт реализацию репозитория для Device.
func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) Upsert(ctx context.Context, deviceID string) (*model.Device, error) {
	now := time.Now().UTC()
	d := &model.Device{ID: uuid.NewString(), DeviceID: deviceID, LastSeenAt: now}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.Assignments(map[string]any{"last_seen_at": now}),
	}).Create(d)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return r.GetByDeviceID(ctx, deviceID)
}

func (r *deviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*model.Device, error) {
	var d model.Device
	if err := r.db.WithContext(ctx).First(&d, "device_id = ?", deviceID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
