package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// pingTimeout ограничивает проверку соединения при открытии БД.
const pingTimeout = 5 * time.Second

// OpenDB открывает хранилище: Postgres, если задан dsn, иначе файл SQLite по пути sqlitePath
// (каталог создаётся при необходимости). Любая ошибка оборачивает ErrStorageUnavailable.
func OpenDB(dsn, sqlitePath string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if dsn != "" {
		dial = postgres.Open(dsn)
	} else {
		if sqlitePath == "" {
			return nil, fmt.Errorf("%w: empty database path", ErrStorageUnavailable)
		}
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o700); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		// драйвер modernc.org/sqlite регистрируется под именем "sqlite"
		dial = gormsqlite.Dialector{
			DriverName: "sqlite",
			DSN:        "file:" + sqlitePath + "?_pragma=busy_timeout(5000)",
		}
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrStorageUnavailable, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrStorageUnavailable, err)
	}
	return db, nil
}

// CloseDB закрывает соединение, открытое OpenDB. Безопасен для nil.
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
