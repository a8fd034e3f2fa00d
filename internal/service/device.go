package service

import (
	"ClipSync/internal/model"
	"ClipSync/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrForbidden: секрет привязки не совпал.
	ErrForbidden = errors.New("sync secret mismatch")
	// ErrInvalidDevice: пустой идентификатор устройства.
	ErrInvalidDevice = errors.New("device id is required")
)

// DeviceService регистрирует устройства. Если задан секрет привязки,
// регистрация требует его знания.
type DeviceService struct {
	repo       repo.DeviceRepository
	secretHash []byte
	log        *zap.SugaredLogger
}

// NewDeviceService хеширует секрет привязки bcrypt. Пустой секрет: регистрация открыта.
func NewDeviceService(r repo.DeviceRepository, syncSecret string, logger *zap.SugaredLogger) (*DeviceService, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &DeviceService{repo: r, log: logger}
	if syncSecret != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(syncSecret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash sync secret: %w", err)
		}
		s.secretHash = h
	}
	return s, nil
}

// Protected сообщает, требуется ли секрет для регистрации.
func (s *DeviceService) Protected() bool { return len(s.secretHash) > 0 }

// Register проверяет секрет и создаёт или обновляет устройство.
func (s *DeviceService) Register(ctx context.Context, deviceID, secret string) (*model.Device, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrInvalidDevice
	}
	if s.Protected() {
		if err := bcrypt.CompareHashAndPassword(s.secretHash, []byte(secret)); err != nil {
			s.log.Warnw("device registration rejected", "device_id", deviceID)
			return nil, ErrForbidden
		}
	}
	d, err := s.repo.Upsert(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("register device %s: %w", deviceID, err)
	}
	s.log.Infow("device registered", "device_id", deviceID)
	return d, nil
}
