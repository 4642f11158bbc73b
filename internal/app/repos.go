package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/plantdx-backend/internal/data/db"
	"github.com/yungbote/plantdx-backend/internal/data/repos"
	"github.com/yungbote/plantdx-backend/internal/data/repos/diagnosis"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type Repos struct {
	Diagnosis repos.DiagnosisRepo

	db    *gorm.DB
	redis *goredis.Client
}

// wireRepos opens whatever backend the store driver needs and migrates it.
func wireRepos(ctx context.Context, log *logger.Logger, cfg Config) (Repos, error) {
	log.Info("Wiring repos...", "driver", cfg.StoreDriver)

	var out Repos
	switch cfg.StoreDriver {
	case diagnosis.DriverPostgres:
		pg, err := db.NewPostgresService(cfg.Postgres, log)
		if err != nil {
			return Repos{}, err
		}
		out.db = pg.DB()
	case diagnosis.DriverSQLite:
		lite, err := db.NewSQLiteService(cfg.SQLitePath, log)
		if err != nil {
			return Repos{}, err
		}
		out.db = lite.DB()
	case diagnosis.DriverRedis:
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, DialTimeout: 5 * time.Second})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return Repos{}, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		out.redis = rdb
	}

	if out.db != nil {
		if err := db.AutoMigrateAll(out.db); err != nil {
			out.Close()
			return Repos{}, fmt.Errorf("automigrate: %w", err)
		}
	}

	repo, err := repos.NewDiagnosisRepo(cfg.StoreDriver, repos.Backends{
		DB:          out.db,
		Redis:       out.redis,
		RedisPrefix: cfg.RedisPrefix,
	}, log)
	if err != nil {
		out.Close()
		return Repos{}, err
	}
	out.Diagnosis = repo
	return out, nil
}

func (r *Repos) Close() {
	if r == nil {
		return
	}
	if r.db != nil {
		if sqlDB, err := r.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
}
