package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/shift-scheduler/internal"
)

// Stores shares one *sql.DB between gorm and sqlx.
type Stores struct {
	Gorm  *gorm.DB
	SQLX  *sqlx.DB
	Redis goredis.UniversalClient
}

func (s *Stores) Close() error {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	return s.SQLX.Close()
}

func sqlDriverName(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	driver := sqlDriverName(cfg.Driver)

	sqlDB, err := sql.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var dialector gorm.Dialector
	if cfg.Driver == internal.DriverSQLite {
		dialector = sqlite.New(sqlite.Config{DriverName: driver, Conn: sqlDB})
	} else {
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return gdb, sqlx.NewDb(sqlDB, driver), nil
}

// initRedis returns nil when no URL is configured.
func initRedis(cfg internal.CacheConfig) (goredis.UniversalClient, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func openStores(cfg *internal.Config) (*Stores, error) {
	gdb, sdb, err := initDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	rdb, err := initRedis(cfg.Cache)
	if err != nil {
		_ = sdb.Close()
		return nil, err
	}
	return &Stores{Gorm: gdb, SQLX: sdb, Redis: rdb}, nil
}
