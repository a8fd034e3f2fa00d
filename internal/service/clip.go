package service

import (
	"ClipSync/internal/model"
	"ClipSync/internal/repo"
	"ClipSync/internal/validation"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound: клипа с таким id нет.
	ErrNotFound = errors.New("clip not found")
	// ErrGone: клип помечен удалённым.
	ErrGone = errors.New("clip was deleted")
	// ErrInvalidClip: клип не прошёл валидацию.
	ErrInvalidClip = errors.New("invalid clip")
)

// ClipInput: клип в том виде, в каком его присылает клиент.
type ClipInput struct {
	ID        string   `json:"id" validate:"required"`
	Text      string   `json:"text" validate:"required"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"createdAt" validate:"gt=0"`
	UpdatedAt int64    `json:"updatedAt"`
	FolderID  *string  `json:"folderId"`
	Starred   bool     `json:"starred"`
	Hash      string   `json:"hash"`
	Source    string   `json:"source"`
	DupCount  int      `json:"dupCount"`
	DeviceID  string   `json:"deviceId"`
	Deleted   bool     `json:"deleted"`
}

func (in ClipInput) toModel(deviceID string) *model.Clip {
	c := &model.Clip{
		ID:        in.ID,
		Text:      in.Text,
		Title:     in.Title,
		URL:       in.URL,
		Tags:      append([]string(nil), in.Tags...),
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
		FolderID:  in.FolderID,
		Starred:   in.Starred,
		Hash:      in.Hash,
		Source:    in.Source,
		DupCount:  in.DupCount,
		DeviceID:  in.DeviceID,
		Deleted:   in.Deleted,
	}
	if c.DeviceID == "" {
		c.DeviceID = deviceID
	}
	return c
}

// ClipPatch описывает частичное обновление клипа, nil-поля не трогаются.
type ClipPatch struct {
	Text     *string   `json:"text"`
	Title    *string   `json:"title"`
	URL      *string   `json:"url"`
	Tags     *[]string `json:"tags"`
	FolderID *string   `json:"folderId"`
	Starred  *bool     `json:"starred"`
	Source   *string   `json:"source"`
	DupCount *int      `json:"dupCount"`
	Deleted  *bool     `json:"deleted"`
}

// BatchError: ошибка одного элемента батча.
type BatchError struct {
	Index int    `json:"index"`
	ID    string `json:"clip"`
	Error string `json:"error"`
}

// BatchResult: итог сохранения батча.
type BatchResult struct {
	Saved  int           `json:"saved"`
	Errors []BatchError  `json:"errorDetails,omitempty"`
	Clips  []*model.Clip `json:"clips"`
}

// ClipService: серверная логика хранения клипов.
type ClipService struct {
	repo        repo.ClipRepository
	validate    *validation.Validator
	log         *zap.SugaredLogger
	cleanupDays int
	now         func() time.Time
}

// NewClipService создаёт сервис. cleanupDays: возраст надгробий для Cleanup.
func NewClipService(r repo.ClipRepository, cleanupDays int, logger *zap.SugaredLogger) *ClipService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cleanupDays <= 0 {
		cleanupDays = 30
	}
	return &ClipService{
		repo:        r,
		validate:    validation.New(),
		log:         logger,
		cleanupDays: cleanupDays,
		now:         time.Now,
	}
}

// Validate проверяет обязательные поля клипа.
func (s *ClipService) Validate(in ClipInput) error {
	if err := s.validate.Validate(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidClip, err)
	}
	return nil
}

// Save сохраняет (или заменяет) один клип. deviceID подставляется,
// если клиент не указал устройство в самом клипе.
func (s *ClipService) Save(ctx context.Context, in ClipInput, deviceID string) (*model.Clip, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	c := in.toModel(deviceID)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save clip %s: %w", in.ID, err)
	}
	s.log.Infow("clip saved", "id", c.ID, "device_id", c.DeviceID, "text_length", len(c.Text))
	return c, nil
}

// SaveBatch сохраняет валидные клипы одной транзакцией, невалидные
// попадают в Errors с индексом в исходном массиве.
func (s *ClipService) SaveBatch(ctx context.Context, in []ClipInput, deviceID string) (BatchResult, error) {
	res := BatchResult{Clips: []*model.Clip{}}
	valid := make([]*model.Clip, 0, len(in))
	for i, ci := range in {
		if err := s.Validate(ci); err != nil {
			id := ci.ID
			if id == "" {
				id = "unknown"
			}
			res.Errors = append(res.Errors, BatchError{Index: i, ID: id, Error: "missing required fields"})
			continue
		}
		valid = append(valid, ci.toModel(deviceID))
	}
	if err := s.repo.SaveBatch(ctx, valid); err != nil {
		return BatchResult{}, fmt.Errorf("save batch: %w", err)
	}
	res.Saved = len(valid)
	res.Clips = valid
	s.log.Infow("batch clips saved", "total", len(in), "saved", res.Saved, "errors", len(res.Errors))
	return res, nil
}

// List без since отдаёт все живые клипы, с since: изменения после метки, включая удалённые.
func (s *ClipService) List(ctx context.Context, since *int64) ([]model.Clip, error) {
	var (
		clips []model.Clip
		err   error
	)
	if since == nil {
		clips, err = s.repo.GetAll(ctx)
	} else {
		clips, err = s.repo.GetSince(ctx, *since)
	}
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	if clips == nil {
		clips = []model.Clip{}
	}
	return clips, nil
}

// Get возвращает живой клип: ErrNotFound или ErrGone иначе.
func (s *ClipService) Get(ctx context.Context, id string) (*model.Clip, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Deleted {
		return nil, ErrGone
	}
	return c, nil
}

func (s *ClipService) find(ctx context.Context, id string) (*model.Clip, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get clip %s: %w", id, err)
	}
	return c, nil
}

// Update накладывает patch на сохранённый клип и ставит updatedAt=now.
func (s *ClipService) Update(ctx context.Context, id string, patch ClipPatch) (*model.Clip, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Text != nil {
		c.Text = *patch.Text
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.URL != nil {
		c.URL = *patch.URL
	}
	if patch.Tags != nil {
		c.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.FolderID != nil {
		c.FolderID = patch.FolderID
	}
	if patch.Starred != nil {
		c.Starred = *patch.Starred
	}
	if patch.Source != nil {
		c.Source = *patch.Source
	}
	if patch.DupCount != nil {
		c.DupCount = *patch.DupCount
	}
	if patch.Deleted != nil {
		c.Deleted = *patch.Deleted
	}
	if c.Text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidClip)
	}
	c.UpdatedAt = s.now().UnixMilli()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("update clip %s: %w", id, err)
	}
	s.log.Infow("clip updated", "id", id)
	return c, nil
}

// Delete мягко удаляет клип.
func (s *ClipService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete clip %s: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}
	s.log.Infow("clip deleted", "id", id)
	return nil
}

func (s *ClipService) Stats(ctx context.Context) (model.ClipStats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return model.ClipStats{}, fmt.Errorf("clip stats: %w", err)
	}
	return st, nil
}

// Cleanup физически удаляет надгробия старше cleanupDays.
func (s *ClipService) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.repo.CleanupDeleted(ctx, s.cleanupDays)
	if err != nil {
		return 0, fmt.Errorf("cleanup deleted clips: %w", err)
	}
	if n > 0 {
		s.log.Infow("deleted clips purged", "count", n, "older_than_days", s.cleanupDays)
	}
	return n, nil
}

// RunCleanup вызывает Cleanup сразу и затем по тикеру до отмены ctx.
func (s *ClipService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Cleanup(ctx); err != nil && ctx.Err() == nil {
			s.log.Errorw("cleanup failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
