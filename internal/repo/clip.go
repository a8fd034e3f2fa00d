package repo

import (
	"ClipSync/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClipRepository определяет контракт доступа к клипам для слоя сервиса.
type ClipRepository interface {
	// Save вставляет или заменяет клип по id и проставляет synced_at.
	Save(ctx context.Context, clip *model.Clip) error
	// SaveBatch сохраняет клипы одной транзакцией.
	SaveBatch(ctx context.Context, clips []*model.Clip) error
	// GetAll возвращает неудалённые клипы, новые первыми.
	GetAll(ctx context.Context) ([]model.Clip, error)
	// GetSince возвращает клипы с synced_at > since, включая удалённые.
	GetSince(ctx context.Context, since int64) ([]model.Clip, error)
	// GetByID ищет клип по id. Если нет: gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (*model.Clip, error)
	// SoftDelete помечает клип удалённым. false: клипа нет.
	SoftDelete(ctx context.Context, id string) (bool, error)
	// CleanupDeleted физически удаляет помеченные клипы старше olderThanDays.
	CleanupDeleted(ctx context.Context, olderThanDays int) (int64, error)
	Stats(ctx context.Context) (model.ClipStats, error)
}

type clipRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewClipRepository создаёт реализацию репозитория для Clip.
func NewClipRepository(db *gorm.DB) ClipRepository {
	return &clipRepo{db: db, now: time.Now}
}

func (r *clipRepo) nowMs() int64 { return r.now().UnixMilli() }

func (r *clipRepo) Save(ctx context.Context, clip *model.Clip) error {
	return r.save(r.db.WithContext(ctx), clip)
}

func (r *clipRepo) save(tx *gorm.DB, clip *model.Clip) error {
	clip.SyncedAt = r.nowMs()
	if clip.DupCount < 1 {
		clip.DupCount = 1
	}
	if clip.Tags == nil {
		clip.Tags = []string{}
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(clip).Error
}

func (r *clipRepo) SaveBatch(ctx context.Context, clips []*model.Clip) error {
	if len(clips) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range clips {
			if err := r.save(tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *clipRepo) GetAll(ctx context.Context) ([]model.Clip, error) {
	var out []model.Clip
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *clipRepo) GetSince(ctx context.Context, since int64) ([]model.Clip, error) {
	var out []model.Clip
	err := r.db.WithContext(ctx).
		Where("synced_at > ?", since).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *clipRepo) GetByID(ctx context.Context, id string) (*model.Clip, error) {
	var c model.Clip
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// SoftDelete сдвигает и updated_at: иначе при равных метках клиент оставит свою живую копию.
func (r *clipRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	now := r.nowMs()
	tx := r.db.WithContext(ctx).Model(&model.Clip{}).
		Where("id = ?", id).
		Updates(map[string]any{"deleted": true, "synced_at": now, "updated_at": now})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *clipRepo) CleanupDeleted(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().Add(-time.Duration(olderThanDays) * 24 * time.Hour).UnixMilli()
	tx := r.db.WithContext(ctx).
		Where("deleted = ? AND synced_at < ?", true, cutoff).
		Delete(&model.Clip{})
	return tx.RowsAffected, tx.Error
}

func (r *clipRepo) Stats(ctx context.Context) (model.ClipStats, error) {
	var st model.ClipStats
	db := r.db.WithContext(ctx).Model(&model.Clip{})
	if err := db.Session(&gorm.Session{}).Count(&st.Total).Error; err != nil {
		return st, err
	}
	if err := db.Session(&gorm.Session{}).Where("deleted = ?", false).Count(&st.Active).Error; err != nil {
		return st, err
	}
	st.Deleted = st.Total - st.Active
	if err := db.Session(&gorm.Session{}).
		Where("device_id IS NOT NULL AND device_id <> ''").
		Distinct("device_id").
		Count(&st.Devices).Error; err != nil {
		return st, err
	}
	return st, nil
}
