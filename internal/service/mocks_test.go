package service

import (
	"ClipSync/internal/model"
	"ClipSync/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// мок для repo.ClipRepository
type mockClipRepo struct{ mock.Mock }

func (m *mockClipRepo) Save(ctx context.Context, clip *model.Clip) error {
	return m.Called(ctx, clip).Error(0)
}
func (m *mockClipRepo) SaveBatch(ctx context.Context, clips []*model.Clip) error {
	return m.Called(ctx, clips).Error(0)
}
func (m *mockClipRepo) GetAll(ctx context.Context) ([]model.Clip, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Clip); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockClipRepo) GetSince(ctx context.Context, since int64) ([]model.Clip, error) {
	args := m.Called(ctx, since)
	if v, ok := args.Get(0).([]model.Clip); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockClipRepo) GetByID(ctx context.Context, id string) (*model.Clip, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Clip); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockClipRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockClipRepo) CleanupDeleted(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockClipRepo) Stats(ctx context.Context) (model.ClipStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.ClipStats), args.Error(1)
}

var _ repo.ClipRepository = (*mockClipRepo)(nil)

// мок для repo.DeviceRepository
type mockDeviceRepo struct{ mock.Mock }

func (m *mockDeviceRepo) Upsert(ctx context.Context, deviceID string) (*model.Device, error) {
	args := m.Called(ctx, deviceID)
	if v, ok := args.Get(0).(*model.Device); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*model.Device, error) {
	args := m.Called(ctx, deviceID)
	if v, ok := args.Get(0).(*model.Device); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.DeviceRepository = (*mockDeviceRepo)(nil)
