package repositories

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresStatsRepository aggregates channel-wide counters for the dashboard.
type PostgresStatsRepository struct {
	pool db.Pool
}

// NewPostgresStatsRepository constructs a stats repository backed by PostgreSQL.
func NewPostgresStatsRepository(pool db.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

// ChannelStats computes the channel's aggregate counters in a single query.
func (r *PostgresStatsRepository) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM videos v WHERE v.owner_id = $1) AS total_videos,
            (SELECT COALESCE(SUM(v.views), 0)::BIGINT FROM videos v WHERE v.owner_id = $1) AS total_views,
            (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = $1) AS total_subscribers,
            (SELECT COUNT(*) FROM tweets t WHERE t.owner_id = $1) AS total_tweets,
            (SELECT COUNT(*)
             FROM likes l
             JOIN videos v ON v.id = l.video_id
             WHERE v.owner_id = $1) AS total_video_likes,
            (SELECT COUNT(*)
             FROM likes l
             JOIN tweets t ON t.id = l.tweet_id
             WHERE t.owner_id = $1) AS total_tweet_likes
    `, channelID)

	var stats models.ChannelStats
	if err := row.Scan(
		&stats.TotalVideos, &stats.TotalViews, &stats.TotalSubscribers,
		&stats.TotalTweets, &stats.TotalVideoLikes, &stats.TotalTweetLikes,
	); err != nil {
		return models.ChannelStats{}, fmt.Errorf("scan channel stats: %w", err)
	}

	return stats, nil
}
