package repo

import (
	"ClipSync/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath: файл БД, если DSN не задан.
const DefaultSQLitePath = "clips.db"

// InitDB открывает БД по строке подключения и прогоняет миграции.
// postgres:// и postgresql:// уходят в PostgreSQL, всё остальное считается путём к SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	dial, isSQLite := dialectorFor(dsn)
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if isSQLite {
		// WAL позволяет читать во время записи батча
		if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
		if err := db.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт или обновляет таблицы clips и devices.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Clip{}, &model.Device{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn), false
	}
	if dsn == "" {
		dsn = DefaultSQLitePath
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, true
}
