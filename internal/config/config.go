package config

import (
	"flag"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN           string  `env:"DATABASE_URI"`
	AuthSecret            string  `env:"AUTH_SECRET"`
	SyncSecret            string  `env:"SYNC_SECRET"`
	CleanupDays           int     `env:"CLEANUP_DAYS"`
	TelemetryResetMinutes int     `env:"TELEMETRY_RESET_MINUTES"`
	RateLimitRPS          float64 `env:"RATE_LIMIT_RPS"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL           string `env:"-"`
	ClientDBPath        string `env:"CLIENT_DB_PATH"`
	ClientStore         string `env:"CLIENT_STORE"`
	Profile             string `env:"CLIENT_PROFILE"`
	SyncIntervalSeconds int    `env:"SYNC_INTERVAL_SECONDS"`
	Verbose             bool   `env:"-"` // flag only
	Version             bool   `env:"-"` // show client version and exit (flag only)
}

// Допустимые значения ClientStore.
const (
	StoreSQLite = "sqlite"
	StoreFS     = "fs"
	StoreMemory = "memory"
)

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags переопределяют значения из env
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (sqlite-файл или postgres://)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT устройств")
	flag.StringVar(&cfg.SyncSecret, "sync-secret", cfg.SyncSecret, "секрет привязки устройств (пусто — регистрация открыта)")
	flag.IntVar(&cfg.CleanupDays, "cleanup-days", cfg.CleanupDays, "через сколько дней удалять мягко удалённые клипы")
	flag.IntVar(&cfg.TelemetryResetMinutes, "telemetry-reset", cfg.TelemetryResetMinutes, "интервал сброса активных пользователей, минуты")
	flag.Float64Var(&cfg.RateLimitRPS, "rate-limit", cfg.RateLimitRPS, "лимит запросов в секунду на IP для телеметрии и регистрации")
	// Shared flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the sync server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "directory for client profiles")
	flag.StringVar(&cfg.ClientStore, "store", cfg.ClientStore, "client store backend: sqlite|fs|memory")
	flag.StringVar(&cfg.Profile, "profile", cfg.Profile, "client profile name")
	flag.IntVar(&cfg.SyncIntervalSeconds, "sync-interval", cfg.SyncIntervalSeconds, "periodic sync interval for watch, seconds")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "debug logging to stderr")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// applyDefaults заполняет пустые значения и выводит ServerURL.
func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.CleanupDays <= 0 {
		cfg.CleanupDays = 30
	}
	if cfg.TelemetryResetMinutes <= 0 {
		cfg.TelemetryResetMinutes = 60
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 20
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	switch cfg.ClientStore {
	case StoreSQLite, StoreFS, StoreMemory:
	default:
		cfg.ClientStore = StoreSQLite
	}
	if cfg.Profile == "" {
		cfg.Profile = "default"
	}
	if cfg.SyncIntervalSeconds <= 0 {
		cfg.SyncIntervalSeconds = 300
	}
}
