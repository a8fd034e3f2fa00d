package sqlite

import (
	"ClipSync/internal/cli/repo"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "modernc.org/sqlite"
)

// KVStore: key-value стор клиента поверх локальной БД SQLite.
type KVStore struct {
	db      *sql.DB
	profile string
}

var _ repo.Store = (*KVStore)(nil)

var profileRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateProfile проверяет, что имя профиля безопасно для пути на диске.
func ValidateProfile(profile string) error {
	if profile == "" {
		return errors.New("profile is required")
	}
	if !profileRe.MatchString(profile) {
		return fmt.Errorf("invalid profile: %q (allowed: letters, digits, . _ -)", profile)
	}
	return nil
}

// BaseDir возвращает каталог профилей: явный base, затем CLIENT_DB_PATH,
// затем пользовательский конфиг-каталог.
func BaseDir(base string) (string, error) {
	if base != "" {
		return base, nil
	}
	if env := os.Getenv("CLIENT_DB_PATH"); env != "" {
		return env, nil
	}
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "ClipSync", "profiles"), nil
}

// OpenForProfile открывает (и создаёт при необходимости) файл БД профиля.
// Вторым значением возвращается путь к БД.
func OpenForProfile(base, profile string) (*KVStore, string, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, "", err
	}
	root, err := BaseDir(base)
	if err != nil {
		return nil, "", err
	}
	dir := filepath.Join(root, profile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, "clips.sqlite")
	// pragmas в DSN применяются к каждому соединению пула
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, "", err
	}
	return &KVStore{db: db, profile: profile}, dbPath, nil
}

// Close закрывает соединение с БД.
func (s *KVStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие таблицы kv.
func (s *KVStore) Migrate() error {
	_, err := s.db.Exec(initialDDL())
	return err
}

func (s *KVStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", repo.ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(b), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Keys возвращает список сохранённых ключей (для status).
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		res = append(res, k)
	}
	return res, rows.Err()
}
