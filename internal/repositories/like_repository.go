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

// LikeRepository defines data access for reaction records. Toggle operations
// are race safe: the schema's per-target uniqueness means two concurrent
// toggles cannot both insert.
type LikeRepository interface {
	ToggleVideo(ctx context.Context, actorID, videoID string) (bool, error)
	ToggleComment(ctx context.Context, actorID, commentID string) (bool, error)
	ToggleTweet(ctx context.Context, actorID, tweetID string) (bool, error)
	LikedVideos(ctx context.Context, actorID string) ([]models.VideoWithOwner, error)
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// ToggleVideo likes the video when no reaction exists, otherwise removes the
// existing one. The returned bool reports whether the video is now liked.
func (r *PostgresLikeRepository) ToggleVideo(ctx context.Context, actorID, videoID string) (bool, error) {
	return r.toggle(ctx, actorID, videoID, "video_id")
}

// ToggleComment toggles the actor's like on a comment.
func (r *PostgresLikeRepository) ToggleComment(ctx context.Context, actorID, commentID string) (bool, error) {
	return r.toggle(ctx, actorID, commentID, "comment_id")
}

// ToggleTweet toggles the actor's like on a tweet.
func (r *PostgresLikeRepository) ToggleTweet(ctx context.Context, actorID, tweetID string) (bool, error) {
	return r.toggle(ctx, actorID, tweetID, "tweet_id")
}

func (r *PostgresLikeRepository) toggle(ctx context.Context, actorID, targetID, column string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	insert := fmt.Sprintf(`
        INSERT INTO likes (id, liked_by, %s, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (liked_by, %s) DO NOTHING
    `, column, column)

	tag, err := conn.Exec(ctx, insert, uuid.NewString(), actorID, targetID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return true, nil
	}

	remove := fmt.Sprintf(`DELETE FROM likes WHERE liked_by = $1 AND %s = $2`, column)
	if _, err := conn.Exec(ctx, remove, actorID, targetID); err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return false, nil
}

// LikedVideos returns the videos the actor has liked, most recent like first.
func (r *PostgresLikeRepository) LikedVideos(ctx context.Context, actorID string) ([]models.VideoWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar_url
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.liked_by = $1 AND l.video_id IS NOT NULL
        ORDER BY l.created_at DESC
    `, actorID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var videos []models.VideoWithOwner
	for rows.Next() {
		var item models.VideoWithOwner
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.VideoURL,
			&item.ThumbnailURL, &item.Duration, &item.Views, &item.IsPublished,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		videos = append(videos, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return videos, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
