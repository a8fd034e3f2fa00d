// Package bootstrap собирает клиентские зависимости из конфигурации.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"ClipSync/internal/cli/api"
	"ClipSync/internal/cli/repo"
	fsrepo "ClipSync/internal/cli/repo/fs"
	"ClipSync/internal/cli/repo/memory"
	reposqlite "ClipSync/internal/cli/repo/sqlite"
	"ClipSync/internal/cli/service"
	"ClipSync/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OpenStore открывает стор профиля, выбранный в конфигурации, выполняет
// миграции и возвращает (store, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть БД.
func OpenStore(cfg *config.Config) (repo.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.ClientStore {
	case config.StoreMemory:
		return memory.New(), noop, nil
	case config.StoreFS:
		if err := reposqlite.ValidateProfile(cfg.Profile); err != nil {
			return nil, nil, err
		}
		base, err := reposqlite.BaseDir(cfg.ClientDBPath)
		if err != nil {
			return nil, nil, err
		}
		st, err := fsrepo.Open(filepath.Join(base, cfg.Profile))
		if err != nil {
			return nil, nil, fmt.Errorf("open profile dir: %w", err)
		}
		return st, noop, nil
	default:
		st, _, err := reposqlite.OpenForProfile(cfg.ClientDBPath, cfg.Profile)
		if err != nil {
			return nil, nil, fmt.Errorf("open profile db: %w", err)
		}
		if err := st.Migrate(); err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("migrate profile db: %w", err)
		}
		return st, st.Close, nil
	}
}

// NewLogger возвращает логгер CLI: в stderr, debug только при verbose.
func NewLogger(verbose bool) *zap.SugaredLogger {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// Services: собранные сервисы клиента.
type Services struct {
	Store     repo.Store
	Clips     *service.ClipService
	Recompute *service.Recomputer
	Sync      *service.SyncService
	Tokens    repo.TokenStore
}

// NewServices связывает сервисы поверх открытого стора.
func NewServices(cfg *config.Config, store repo.Store, logger *zap.SugaredLogger) *Services {
	tokens := repo.StoreTokens{Store: store}
	clips := service.NewClipService(store, logger)
	rec := service.NewRecomputer(service.DefaultRecomputeDelay, clips.RecomputeAllTags, logger)
	clips.SetRecomputer(rec)
	client := api.NewClient(cfg.ServerURL, tokens)
	return &Services{
		Store:     store,
		Clips:     clips,
		Recompute: rec,
		Sync:      service.NewSyncService(store, client, logger),
		Tokens:    tokens,
	}
}

// Open открывает стор и собирает сервисы. cleanup выполняет отложенный
// пересчёт тегов и закрывает стор.
func Open(cfg *config.Config, logger *zap.SugaredLogger) (*Services, func() error, error) {
	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := NewServices(cfg, store, logger)
	cleanup := func() error {
		svc.Recompute.Flush()
		return closeStore()
	}
	return svc, cleanup, nil
}
