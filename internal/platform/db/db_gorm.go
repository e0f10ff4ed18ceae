// Package db は保有銘柄ストア用のgorm接続を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_portfolio/internal/feature/portfolio/domain/entity"
)

const (
	defaultSQLitePath = "portfolio.db"
	retryInterval     = 3 * time.Second
	connectTimeout    = 60 * time.Second
)

// Config はデータベース接続の設定です。
// DatabaseURL が設定されていれば Postgres、なければ SQLite ファイルを使います。
type Config struct {
	DatabaseURL   string
	SQLitePath    string
	RunMigrations bool
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = defaultSQLitePath
	}
	return Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    path,
		RunMigrations: os.Getenv("RUN_MIGRATIONS") != "false",
	}
}

// Dialect は使用するドライバ名を返します。
func (c Config) Dialect() string {
	if c.DatabaseURL != "" {
		return "postgres"
	}
	return "sqlite"
}

// Dialector は設定に応じたgormのダイアレクタを返します。
func (c Config) Dialector() gorm.Dialector {
	if c.DatabaseURL != "" {
		return postgres.Open(c.DatabaseURL)
	}
	return sqlite.Open(c.SQLitePath)
}

// Opener はgorm接続を1回開く関数です。テストで差し替えられます。
type Opener func() (*gorm.DB, error)

// ConnectWithRetry は timeout まで retryInterval ごとに接続を試みます。
func ConnectWithRetry(timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open()
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate は保有銘柄テーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("db: nil connection")
	}
	return db.AutoMigrate(&entity.Holding{})
}

// OpenDB は設定に従って接続し、必要ならマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	db, err := ConnectWithRetry(connectTimeout, func() (*gorm.DB, error) {
		return gorm.Open(cfg.Dialector(), &gorm.Config{})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("database connected", "dialect", cfg.Dialect())

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}
