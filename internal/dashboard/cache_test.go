package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vidtube/backend/internal/models"
)

type sourceStub struct {
	calls int
	stats models.ChannelStats
	err   error
}

func (s *sourceStub) ChannelStats(_ context.Context, _ string) (models.ChannelStats, error) {
	s.calls++
	if s.err != nil {
		return models.ChannelStats{}, s.err
	}
	return s.stats, nil
}

func TestCachedStatsServesFromCache(t *testing.T) {
	source := &sourceStub{stats: models.ChannelStats{TotalVideos: 3, TotalViews: 120}}
	cache := NewCachedStats(source, time.Minute)

	ctx := context.Background()

	first, err := cache.ChannelStats(ctx, "channel-1")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}

	second, err := cache.ChannelStats(ctx, "channel-1")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical stats, got %+v and %+v", first, second)
	}

	if source.calls != 1 {
		t.Fatalf("expected one source call, got %d", source.calls)
	}
}

func TestCachedStatsKeysByChannel(t *testing.T) {
	source := &sourceStub{stats: models.ChannelStats{TotalVideos: 1}}
	cache := NewCachedStats(source, time.Minute)

	ctx := context.Background()

	if _, err := cache.ChannelStats(ctx, "channel-1"); err != nil {
		t.Fatalf("lookup channel-1: %v", err)
	}
	if _, err := cache.ChannelStats(ctx, "channel-2"); err != nil {
		t.Fatalf("lookup channel-2: %v", err)
	}

	if source.calls != 2 {
		t.Fatalf("expected a source call per channel, got %d", source.calls)
	}
}

func TestCachedStatsInvalidate(t *testing.T) {
	source := &sourceStub{stats: models.ChannelStats{TotalSubscribers: 9}}
	cache := NewCachedStats(source, time.Minute)

	ctx := context.Background()

	if _, err := cache.ChannelStats(ctx, "channel-1"); err != nil {
		t.Fatalf("first lookup: %v", err)
	}

	cache.Invalidate("channel-1")

	if _, err := cache.ChannelStats(ctx, "channel-1"); err != nil {
		t.Fatalf("lookup after invalidate: %v", err)
	}

	if source.calls != 2 {
		t.Fatalf("expected cache miss after invalidate, got %d calls", source.calls)
	}
}

func TestCachedStatsPropagatesErrors(t *testing.T) {
	source := &sourceStub{err: errors.New("query failed")}
	cache := NewCachedStats(source, time.Minute)

	if _, err := cache.ChannelStats(context.Background(), "channel-1"); err == nil {
		t.Fatal("expected source error to propagate")
	}
}
