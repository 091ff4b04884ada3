package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// Store 食譜、用戶與回饋的持久層
type Store struct {
	db *gorm.DB
}

// New 以既有連線建立 Store
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open 依設定開啟資料庫連線，必要時自動遷移
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store := New(db)
	if cfg.AutoMigrate {
		if err := store.Migrate(); err != nil {
			return nil, err
		}
	}

	common.LogInfo("資料庫連線成功", zap.String("driver", cfg.Driver))
	return store, nil
}

// newGormLogger 將 gorm 日誌導向 zap
func newGormLogger(level string) logger.Interface {
	var lvl logger.LogLevel
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	default:
		lvl = logger.Warn
	}
	return logger.New(zap.NewStdLog(common.Logger), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate 建立或更新資料表
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&User{}, &RecipeRecord{}, &Feedback{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// DB 回傳底層連線
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping 檢查資料庫是否可用
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉連線
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction 在單一交易中執行 fn，fn 回傳錯誤時整筆回滾
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
