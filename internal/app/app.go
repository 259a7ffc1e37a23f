package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskmanager/internal/cache"
	"taskmanager/internal/clock"
	"taskmanager/internal/config"
	"taskmanager/internal/repo"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	log    *slog.Logger
	pg     *pgxpool.Pool
	sqlite *sqlx.DB
	redis  *redis.Client
	router *gin.Engine
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	// Left as a nil interface when Redis is off; a typed nil pointer
	// would read as an enabled cache.
	var taskCache service.TaskListCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			a.closeDB()
			return nil, err
		}
		a.redis = rdb
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	} else {
		log.Info("REDIS_ADDR not set, task list cache disabled")
	}

	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	a.router = NewRouter(Deps{
		Config: cfg,
		Store:  store,
		Cache:  taskCache,
		Clock:  clock.Real(),
		Log:    log,
	})
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(_ context.Context) error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.closeDB()
	return nil
}

func (a *App) closeDB() {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.sqlite != nil {
		_ = a.sqlite.Close()
	}
}

// openStore connects to the configured database and applies migrations.
func (a *App) openStore() (repo.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch a.cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(a.cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		n, err := repo.Migrate(ctx, db.DB, goose.DialectSQLite3)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.log.Info("sqlite ready", "path", a.cfg.DB.SQLitePath, "migrations_applied", n)
		a.sqlite = db
		return repo.NewSQLiteStore(db), nil
	default:
		pool, err := newPostgres(a.cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(ctx, a.cfg.PG.DSN, a.log); err != nil {
			pool.Close()
			return nil, err
		}
		a.pg = pool
		return repo.NewPGStore(pool), nil
	}
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	n, err := repo.Migrate(ctx, db, goose.DialectPostgres)
	if err != nil {
		return err
	}
	log.Info("postgres ready", "migrations_applied", n)
	return nil
}
