package media

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// AssetRemover deletes a hosted asset addressed by its public URL.
type AssetRemover interface {
	Remove(ctx context.Context, url string) error
}

// CleanerConfig controls the concurrency characteristics of the cleaner.
type CleanerConfig struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

// Cleaner deletes replaced or orphaned media assets in the background.
// Removal is best effort: failures are logged and never propagated, and a
// full queue drops the request rather than blocking a request handler.
type Cleaner struct {
	remover AssetRemover
	logger  *slog.Logger
	timeout time.Duration

	jobs   chan string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewCleaner constructs a background worker pool that removes assets.
func NewCleaner(remover AssetRemover, cfg CleanerConfig, logger *slog.Logger) *Cleaner {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Cleaner{
		remover: remover,
		logger:  logger,
		timeout: cfg.Timeout,
		jobs:    make(chan string, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	c.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go c.worker()
	}

	return c
}

// Enqueue schedules removal of the asset at the provided URL. Empty URLs and
// enqueue attempts after shutdown are ignored.
func (c *Cleaner) Enqueue(url string) {
	if c == nil || strings.TrimSpace(url) == "" {
		return
	}

	select {
	case <-c.ctx.Done():
		return
	default:
	}

	select {
	case c.jobs <- url:
	default:
		c.logger.Warn("media cleaner queue full, dropping asset", "url", url)
	}
}

// Shutdown waits for the worker pool to drain outstanding removals.
func (c *Cleaner) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		c.cancel()
		close(c.jobs)
	})

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *Cleaner) worker() {
	defer c.wg.Done()

	for url := range c.jobs {
		c.removeOne(url)
	}
}

func (c *Cleaner) removeOne(url string) {
	if c.remover == nil {
		c.logger.Error("media cleaner missing remover")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.remover.Remove(ctx, url); err != nil {
		c.logger.Error("media asset removal failed", "url", url, "error", err)
		return
	}

	c.logger.Info("media asset removed", "url", url)
}
