package service

import (
	"ClipSync/internal/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeviceService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("open registration", func(t *testing.T) {
		m := new(mockDeviceRepo)
		svc, err := NewDeviceService(m, "", nil)
		require.NoError(t, err)
		assert.False(t, svc.Protected())

		m.On("Upsert", mock.Anything, "device-1").Return(&model.Device{ID: "u1", DeviceID: "device-1"}, nil).Once()
		d, err := svc.Register(ctx, " device-1 ", "whatever")
		require.NoError(t, err)
		assert.Equal(t, "u1", d.ID)
		m.AssertExpectations(t)
	})

	t.Run("secret required", func(t *testing.T) {
		m := new(mockDeviceRepo)
		svc, err := NewDeviceService(m, "pair-me", nil)
		require.NoError(t, err)
		assert.True(t, svc.Protected())

		_, err = svc.Register(ctx, "device-1", "wrong")
		assert.ErrorIs(t, err, ErrForbidden)
		m.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

		m.On("Upsert", mock.Anything, "device-1").Return(&model.Device{DeviceID: "device-1"}, nil).Once()
		_, err = svc.Register(ctx, "device-1", "pair-me")
		assert.NoError(t, err)
	})

	t.Run("empty device id and repo error", func(t *testing.T) {
		m := new(mockDeviceRepo)
		svc, _ := NewDeviceService(m, "", nil)
		_, err := svc.Register(ctx, "  ", "")
		assert.ErrorIs(t, err, ErrInvalidDevice)

		m.On("Upsert", mock.Anything, "d").Return(nil, errors.New("db")).Once()
		_, err = svc.Register(ctx, "d", "")
		assert.Error(t, err)
	})
}
