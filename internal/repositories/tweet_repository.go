package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// TweetRepository defines data access for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, ownerID, viewerID string) ([]models.TweetWithMeta, error)
}

// PostgresTweetRepository provides PostgreSQL-backed persistence for tweets.
type PostgresTweetRepository struct {
	pool db.Pool
}

// NewPostgresTweetRepository constructs a tweet repository backed by PostgreSQL.
func NewPostgresTweetRepository(pool db.Pool) *PostgresTweetRepository {
	return &PostgresTweetRepository{pool: pool}
}

// Create persists a new tweet.
func (r *PostgresTweetRepository) Create(ctx context.Context, tweet models.Tweet) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert tweet: %w", err)
	}

	return nil
}

// FindByID fetches a raw tweet row, used for ownership checks.
func (r *PostgresTweetRepository) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, content, created_at, updated_at
        FROM tweets
        WHERE id = $1
    `, id)

	var tweet models.Tweet
	if err := row.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Tweet{}, ErrNotFound
		}
		return models.Tweet{}, fmt.Errorf("select tweet: %w", err)
	}

	return tweet, nil
}

// Update replaces a tweet's content.
func (r *PostgresTweetRepository) Update(ctx context.Context, tweet models.Tweet) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE tweets
        SET content = $2, updated_at = $3
        WHERE id = $1
    `, tweet.ID, tweet.Content, tweet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a tweet; its likes cascade.
func (r *PostgresTweetRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListForUser returns a user's tweets, newest first, each with author details
// and like information relative to the viewer.
func (r *PostgresTweetRepository) ListForUser(ctx context.Context, ownerID, viewerID string) ([]models.TweetWithMeta, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT t.id, t.content, t.created_at,
               u.id, u.username, u.full_name, u.avatar_url,
               (SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id) AS likes_count,
               EXISTS (
                   SELECT 1 FROM likes l
                   WHERE l.tweet_id = t.id AND l.liked_by = $2
               ) AS is_liked
        FROM tweets t
        JOIN users u ON u.id = t.owner_id
        WHERE t.owner_id = $1
        ORDER BY t.created_at DESC
    `, ownerID, viewerParam(viewerID))
	if err != nil {
		return nil, fmt.Errorf("query user tweets: %w", err)
	}
	defer rows.Close()

	var tweets []models.TweetWithMeta
	for rows.Next() {
		var item models.TweetWithMeta
		if err := rows.Scan(
			&item.ID, &item.Content, &item.CreatedAt,
			&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.AvatarURL,
			&item.LikesCount, &item.IsLiked,
		); err != nil {
			return nil, fmt.Errorf("scan tweet row: %w", err)
		}
		tweets = append(tweets, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user tweets: %w", err)
	}

	return tweets, nil
}

var _ TweetRepository = (*PostgresTweetRepository)(nil)
