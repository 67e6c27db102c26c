package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/woodbine/internal/album"
	"github.com/hitoshi/woodbine/internal/config"
	"github.com/hitoshi/woodbine/internal/database"
	"github.com/hitoshi/woodbine/internal/event"
	"github.com/hitoshi/woodbine/internal/handler"
	"github.com/hitoshi/woodbine/internal/metrics"
	"github.com/hitoshi/woodbine/internal/middleware"
	"github.com/hitoshi/woodbine/internal/profile"
	"github.com/hitoshi/woodbine/internal/quiz"
	"github.com/hitoshi/woodbine/internal/repository"
	"github.com/hitoshi/woodbine/internal/security"
	"github.com/hitoshi/woodbine/internal/seed"
	"github.com/hitoshi/woodbine/internal/store"
	"github.com/hitoshi/woodbine/internal/worker/sweep"
)

// Components はserveモードで使う組み立て済みの依存関係。
type Components struct {
	Handler http.Handler
	Sweeper *sweep.Sweeper
	Quests  *quiz.Manager

	db          *sql.DB
	rateLimiter *middleware.RateLimiter
}

// Close はタイマー、バックグラウンド処理、DB接続を解放する。
func (c *Components) Close() error {
	c.rateLimiter.Stop()
	c.Quests.CloseAll()
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}

// Build は設定に従ってストレージを開き、全コンポーネントを組み立てる。
// regにはメトリクスを登録するレジストリを渡す。同じレジストリで2回呼ぶことはできない。
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*Components, error) {
	collector := metrics.NewCollector(reg)

	kv, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	instrumented := repository.NewInstrumentedKeyValueStore(kv, collector)

	defaultEvents, err := seed.LoadEventsFile(cfg.SeedFile)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to load seed events: %w", err)
	}

	sanitizer := security.NewTextSanitizer()

	events := event.NewCatalog(
		store.NewCollection(instrumented, repository.KeyEvents, defaultEvents, logger).WithReseedWhenEmpty(),
		sanitizer, collector, logger,
	)
	albums := album.NewCatalog(
		store.NewCollection(instrumented, repository.KeyAlbums, seed.DefaultAlbums(), logger),
		sanitizer, collector, logger,
	)
	profiles := profile.NewService(store.NewProfileStore(instrumented), sanitizer, logger, events, albums)

	quests := quiz.NewManager(quiz.RealClock(), quiz.Settings{
		MemoryDisplay:    cfg.MemoryDisplayDuration,
		SpeedTapInterval: cfg.SpeedTapInterval,
		SpeedTapLimit:    cfg.SpeedTapLimit,
	}, collector, logger)

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfigPerMinute(cfg.RateLimitGeneral), logger)

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            logger,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rl,
		StatusObserver:    collector,
		Storage:           instrumented,
		MetricsHandler:    metrics.Handler(reg),
		EventService:      events,
		AlbumService:      albums,
		ProfileService:    profiles,
		QuestSessions:     quests,
	})

	return &Components{
		Handler:     router,
		Sweeper:     sweep.NewSweeper(quests, cfg.QuestSessionTTL, logger),
		Quests:      quests,
		db:          db,
		rateLimiter: rl,
	}, nil
}

// openStore はドライバに応じたKeyValueStoreを返す。
// SQLドライバの場合、STORAGE_AUTO_MIGRATEが有効ならマイグレーションを適用してから接続を確認する。
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.KeyValueStore, *sql.DB, error) {
	if cfg.StorageDriver == database.DriverMemory {
		logger.Warn("メモリストレージで起動します。データは再起動で失われます")
		return repository.NewMemoryKeyValueStore(), nil, nil
	}

	dsn := cfg.StorageDSN()
	if cfg.StorageAutoMigrate {
		if err := database.RunMigrations(cfg.StorageDriver, dsn); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate storage: %w", err)
		}
	}

	db, err := database.Open(cfg.StorageDriver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	logger.Info("storage connection established",
		slog.String("driver", cfg.StorageDriver),
		slog.String("dsn", maskDSN(cfg.StorageDriver, dsn)),
	)

	if cfg.StorageDriver == database.DriverPostgres {
		return repository.NewPostgresKeyValueStore(db), db, nil
	}
	return repository.NewSQLiteKeyValueStore(db), db, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
