package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// UserRepository defines the data access contract for users.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	RecordWatch(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error)
}

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.Password,
		&user.AvatarURL, &user.CoverImageURL, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, user.Username, user.Email, user.FullName, user.Password, user.AvatarURL, user.CoverImageURL, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID fetches a user by their identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findBy(ctx, "id", id)
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findBy(ctx, "email", email)
}

// FindByUsername fetches a user by their username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *PostgresUserRepository) findBy(ctx context.Context, column, value string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column), value)
	return scanUser(row)
}

// Update modifies an existing user record.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET username = $2, email = $3, full_name = $4, password_hash = $5,
            avatar_url = $6, cover_image_url = $7, updated_at = $8
        WHERE id = $1
    `, user.ID, user.Username, user.Email, user.FullName, user.Password, user.AvatarURL, user.CoverImageURL, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateRefreshToken stores (or clears, when nil) the persisted refresh token.
func (r *PostgresUserRepository) UpdateRefreshToken(ctx context.Context, userID string, token *string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $2, updated_at = $3
        WHERE id = $1
    `, userID, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ChannelProfile loads the public channel view of a user, with subscription
// counts and whether the viewer already subscribes to it.
func (r *PostgresUserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url, u.created_at,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscriber_count,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
               EXISTS (
                   SELECT 1 FROM subscriptions s
                   WHERE s.channel_id = u.id AND s.subscriber_id = $2
               ) AS is_subscribed
        FROM users u
        WHERE u.username = $1
    `, username, viewerParam(viewerID))

	var profile models.ChannelProfile
	if err := row.Scan(
		&profile.ID, &profile.Username, &profile.FullName, &profile.Email,
		&profile.AvatarURL, &profile.CoverImageURL, &profile.CreatedAt,
		&profile.SubscriberCount, &profile.ChannelsSubscribedTo, &profile.IsSubscribed,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return profile, nil
}

// RecordWatch upserts a watch-history entry; re-watching bumps the timestamp.
func (r *PostgresUserRepository) RecordWatch(ctx context.Context, userID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO watch_history (user_id, video_id, watched_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, video_id)
        DO UPDATE SET watched_at = EXCLUDED.watched_at
    `, userID, videoID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("record watch: %w", err)
	}

	return nil
}

// WatchHistory returns the user's watched videos, most recent first, each
// joined with its owner's public profile.
func (r *PostgresUserRepository) WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar_url
        FROM watch_history wh
        JOIN videos v ON v.id = wh.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE wh.user_id = $1
        ORDER BY wh.watched_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var history []models.VideoWithOwner
	for rows.Next() {
		var item models.VideoWithOwner
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.VideoURL,
			&item.ThumbnailURL, &item.Duration, &item.Views, &item.IsPublished,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan watch history entry: %w", err)
		}
		history = append(history, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return history, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
