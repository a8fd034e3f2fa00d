package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/repo"
)

// setTempProfileEnv настраивает окружение для хранения БД в temp‑каталоге.
func setTempProfileEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	base := filepath.Join(dir, "db")
	_ = os.MkdirAll(base, 0o700)
	t.Setenv("CLIENT_DB_PATH", base)
	return base
}

func openMigrated(t *testing.T, profile string) *KVStore {
	t.Helper()
	s, _, err := OpenForProfile("", profile)
	if err != nil {
		t.Fatalf("OpenForProfile: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func TestOpenForProfile_And_Migrate(t *testing.T) {
	base := setTempProfileEnv(t)
	s, dbPath, err := OpenForProfile("", "john")
	if err != nil {
		t.Fatalf("OpenForProfile: %v", err)
	}
	defer s.Close()
	if filepath.Dir(filepath.Dir(dbPath)) != base {
		t.Fatalf("db must live under CLIENT_DB_PATH, got %s", dbPath)
	}
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// повторная миграция идемпотентна
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate twice: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
}

func TestOpenForProfile_InvalidName(t *testing.T) {
	setTempProfileEnv(t)
	if _, _, err := OpenForProfile("", "../escape"); err == nil {
		t.Fatalf("expected error for unsafe profile name")
	}
	if _, _, err := OpenForProfile("", ""); err == nil {
		t.Fatalf("expected error for empty profile")
	}
}

func TestKVStore_SetGetOverwrite(t *testing.T) {
	setTempProfileEnv(t)
	s := openMigrated(t, "ann")
	ctx := context.Background()

	var missing []model.Clip
	found, err := s.Get(ctx, repo.KeyClips, &missing)
	if err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}

	clips := []*model.Clip{{ID: "1", Text: "one", DupCount: 1}, {ID: "2", Text: "two", DupCount: 3}}
	if err := repo.SetClips(ctx, s, clips); err != nil {
		t.Fatalf("SetClips: %v", err)
	}
	got, err := repo.Clips(ctx, s)
	if err != nil {
		t.Fatalf("Clips: %v", err)
	}
	if len(got) != 2 || got[1].DupCount != 3 {
		t.Fatalf("unexpected clips: %+v", got)
	}

	// перезапись целиком
	if err := repo.SetClips(ctx, s, clips[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.Clips(ctx, s)
	if len(got) != 1 {
		t.Fatalf("expected 1 clip after overwrite, got %d", len(got))
	}

	keys, err := s.Keys(ctx)
	if err != nil || len(keys) != 1 || keys[0] != repo.KeyClips {
		t.Fatalf("keys: %v err=%v", keys, err)
	}
}

func TestKVStore_CorruptValue(t *testing.T) {
	setTempProfileEnv(t)
	s := openMigrated(t, "bob")
	ctx := context.Background()

	if _, err := s.db.Exec(`INSERT INTO kv(key, value, updated_at) VALUES('clips', '{broken', 0)`); err != nil {
		t.Fatal(err)
	}
	var dst []*model.Clip
	_, err := s.Get(ctx, repo.KeyClips, &dst)
	if err == nil {
		t.Fatalf("expected corrupt error")
	}
	// типизированный доступ откатывается к значению по умолчанию
	clips, err := repo.Clips(ctx, s)
	if err != nil || len(clips) != 0 {
		t.Fatalf("expected empty clips, got %v err=%v", clips, err)
	}
}
