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

// PlaylistRepository defines data access for playlists and their videos.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	WithVideos(ctx context.Context, id string) (models.PlaylistWithVideos, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for playlists.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create persists a new playlist.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description, playlist.CreatedAt, playlist.UpdatedAt)
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
		return fmt.Errorf("insert playlist: %w", err)
	}

	return nil
}

// FindByID fetches a raw playlist row, used for ownership checks.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, name, description, created_at, updated_at
        FROM playlists
        WHERE id = $1
    `, id)

	return scanPlaylist(row)
}

func scanPlaylist(row pgx.Row) (models.Playlist, error) {
	var playlist models.Playlist
	if err := row.Scan(
		&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("scan playlist: %w", err)
	}
	return playlist, nil
}

// WithVideos loads a playlist together with its videos in list order.
func (r *PostgresPlaylistRepository) WithVideos(ctx context.Context, id string) (models.PlaylistWithVideos, error) {
	playlist, err := r.FindByID(ctx, id)
	if err != nil {
		return models.PlaylistWithVideos{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PlaylistWithVideos{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar_url
        FROM playlist_videos pv
        JOIN videos v ON v.id = pv.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE pv.playlist_id = $1
        ORDER BY pv.position ASC
    `, id)
	if err != nil {
		return models.PlaylistWithVideos{}, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	result := models.PlaylistWithVideos{Playlist: playlist}
	for rows.Next() {
		var item models.VideoWithOwner
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.VideoURL,
			&item.ThumbnailURL, &item.Duration, &item.Views, &item.IsPublished,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.AvatarURL,
		); err != nil {
			return models.PlaylistWithVideos{}, fmt.Errorf("scan playlist video: %w", err)
		}
		result.Videos = append(result.Videos, item)
	}

	if err := rows.Err(); err != nil {
		return models.PlaylistWithVideos{}, fmt.Errorf("iterate playlist videos: %w", err)
	}

	return result, nil
}

// ListForUser returns a user's playlists with their video counts, most
// recently updated first.
func (r *PostgresPlaylistRepository) ListForUser(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.name, p.description, p.updated_at,
               (SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id) AS video_count
        FROM playlists p
        WHERE p.owner_id = $1
        ORDER BY p.updated_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query user playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.PlaylistSummary
	for rows.Next() {
		var item models.PlaylistSummary
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.UpdatedAt, &item.VideoCount); err != nil {
			return nil, fmt.Errorf("scan playlist summary: %w", err)
		}
		playlists = append(playlists, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user playlists: %w", err)
	}

	return playlists, nil
}

// Update modifies a playlist's name and description.
func (r *PostgresPlaylistRepository) Update(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists
        SET name = $2, description = $3, updated_at = $4
        WHERE id = $1
    `, playlist.ID, playlist.Name, playlist.Description, playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a playlist; its membership rows cascade.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AddVideo appends a video to the end of the playlist. Adding a video twice
// reports ErrConflict; a missing playlist or video reports ErrNotFound.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
        VALUES (
            $1, $2,
            COALESCE((SELECT MAX(position) + 1 FROM playlist_videos WHERE playlist_id = $1), 0),
            $3
        )
        ON CONFLICT (playlist_id, video_id) DO NOTHING
    `, playlistID, videoID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert playlist video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrConflict
	}

	if err := r.touch(ctx, conn, playlistID); err != nil {
		return err
	}

	return nil
}

// RemoveVideo removes a video from the playlist; ErrNotFound when absent.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM playlist_videos
        WHERE playlist_id = $1 AND video_id = $2
    `, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("delete playlist video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := r.touch(ctx, conn, playlistID); err != nil {
		return err
	}

	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PostgresPlaylistRepository) touch(ctx context.Context, conn execer, playlistID string) error {
	if _, err := conn.Exec(ctx, `UPDATE playlists SET updated_at = $2 WHERE id = $1`, playlistID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch playlist: %w", err)
	}
	return nil
}

var _ PlaylistRepository = (*PostgresPlaylistRepository)(nil)
