package app

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/dashboard"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// buildDependencies wires together the concrete implementations used by the
// HTTP handlers. The returned cleanup drains background workers and must be
// called during shutdown.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, func(context.Context) error, error) {
	store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	cleaner := media.NewCleaner(store, media.CleanerConfig{
		QueueSize: cfg.CleanerQueueSize,
		Workers:   cfg.CleanerWorkers,
	}, nil)

	statsSource := repositories.NewPostgresStatsRepository(pool)

	deps := handlers.Dependencies{
		Users:         repositories.NewPostgresUserRepository(pool),
		Videos:        repositories.NewPostgresVideoRepository(pool),
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Tweets:        repositories.NewPostgresTweetRepository(pool),
		Likes:         repositories.NewPostgresLikeRepository(pool),
		Playlists:     repositories.NewPostgresPlaylistRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Stats:         dashboard.NewCachedStats(statsSource, cfg.StatsCacheTTL),
		Tokens:        auth.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Media:         store,
		Cleaner:       cleaner,
		Prober:        media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout),
		DB:            poolPinger{pool: pool},
		Limiter:       middleware.NewIPRateLimiter(10, time.Minute, 20, 10*time.Minute),
	}

	cleanup := func(shutdownCtx context.Context) error {
		return cleaner.Shutdown(shutdownCtx)
	}

	return deps, cleanup, nil
}

// poolPinger adapts the connection pool to the healthcheck's Pinger.
type poolPinger struct {
	pool db.Pool
}

func (p poolPinger) Ping(ctx context.Context) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return conn.Ping(ctx)
}
