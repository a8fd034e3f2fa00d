package fs

import (
	"ClipSync/internal/cli/repo"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// FileStore хранит по одному JSON-файлу на ключ в каталоге профиля.
type FileStore struct {
	dir string
}

var _ repo.Store = (*FileStore)(nil)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Open создаёт каталог профиля и возвращает стор.
func Open(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("empty store directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir возвращает каталог стора.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("invalid key: %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(_ context.Context, key string, dst any) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	b = trimTrailing(b)
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", repo.ErrCorrupt, key, err)
	}
	return true, nil
}

// Set пишет значение во временный файл и атомарно переименовывает его.
func (s *FileStore) Set(_ context.Context, key string, value any) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// обрезаем завершающие переводы строки/пробелы (файлы могли править руками)
func trimTrailing(b []byte) []byte {
	for len(b) > 0 {
		c := b[len(b)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}
