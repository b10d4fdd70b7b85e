package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// SubscriptionRepository defines data access for channel subscriptions.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]models.SubscriberInfo, error)
	SubscribedChannels(ctx context.Context, subscriberID string) (models.SubscribedChannels, error)
}

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for
// subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository
// backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle subscribes the user to the channel when no subscription exists,
// otherwise removes the existing one. The returned bool reports whether the
// user is now subscribed. A missing channel reports ErrNotFound.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (subscriber_id, channel_id) DO NOTHING
    `, uuid.NewString(), subscriberID, channelID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return true, nil
	}

	if _, err := conn.Exec(ctx, `
        DELETE FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID); err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}

	return false, nil
}

// Subscribers returns the users subscribed to the channel, newest first,
// each with their own subscriber count.
func (r *PostgresSubscriptionRepository) Subscribers(ctx context.Context, channelID string) ([]models.SubscriberInfo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url,
               (SELECT COUNT(*) FROM subscriptions s2 WHERE s2.channel_id = u.id) AS subscriber_count
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []models.SubscriberInfo
	for rows.Next() {
		var item models.SubscriberInfo
		if err := rows.Scan(&item.ID, &item.Username, &item.FullName, &item.AvatarURL, &item.SubscriberCount); err != nil {
			return nil, fmt.Errorf("scan subscriber row: %w", err)
		}
		subscribers = append(subscribers, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subscribers, nil
}

// SubscribedChannels returns the channels the user subscribes to together
// with the total count, newest subscription first.
func (r *PostgresSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID string) (models.SubscribedChannels, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.SubscribedChannels{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url,
               (SELECT COUNT(*) FROM subscriptions s2 WHERE s2.channel_id = u.id) AS subscriber_count
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID)
	if err != nil {
		return models.SubscribedChannels{}, fmt.Errorf("query subscribed channels: %w", err)
	}
	defer rows.Close()

	var result models.SubscribedChannels
	for rows.Next() {
		var item models.SubscriberInfo
		if err := rows.Scan(&item.ID, &item.Username, &item.FullName, &item.AvatarURL, &item.SubscriberCount); err != nil {
			return models.SubscribedChannels{}, fmt.Errorf("scan subscribed channel row: %w", err)
		}
		result.Channels = append(result.Channels, item)
	}

	if err := rows.Err(); err != nil {
		return models.SubscribedChannels{}, fmt.Errorf("iterate subscribed channels: %w", err)
	}

	result.ChannelCount = int64(len(result.Channels))
	return result, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
