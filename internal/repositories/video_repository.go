package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// VideoFeedFilter describes the published-video listing parameters.
type VideoFeedFilter struct {
	OwnerID  string
	Query    string
	SortBy   string
	SortType string
	Page     int
	Limit    int
}

// VideoRepository exposes data access for videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Details(ctx context.Context, videoID, viewerID string) (models.VideoDetails, error)
	Feed(ctx context.Context, filter VideoFeedFilter) ([]models.VideoWithOwner, int64, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error)
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// feedSortColumns whitelists the client-facing sort keys.
var feedSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration_seconds",
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration_seconds, views, is_published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL, video.Duration, video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt)
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
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a raw video row, used for ownership checks.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, title, description, video_url, thumbnail_url, duration_seconds, views, is_published, created_at, updated_at
        FROM videos
        WHERE id = $1
    `, id)

	var video models.Video
	if err := row.Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.VideoURL,
		&video.ThumbnailURL, &video.Duration, &video.Views, &video.IsPublished,
		&video.CreatedAt, &video.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return video, nil
}

// Details loads the single-video read model relative to the viewer.
func (r *PostgresVideoRepository) Details(ctx context.Context, videoID, viewerID string) (models.VideoDetails, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoDetails{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar_url,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscriber_count,
               EXISTS (
                   SELECT 1 FROM subscriptions s
                   WHERE s.channel_id = u.id AND s.subscriber_id = $2
               ) AS is_subscribed,
               (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id) AS likes_count,
               (SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id) AS comments_count,
               EXISTS (
                   SELECT 1 FROM likes l
                   WHERE l.video_id = v.id AND l.liked_by = $2
               ) AS is_liked
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.id = $1
    `, videoID, viewerParam(viewerID))

	var details models.VideoDetails
	if err := row.Scan(
		&details.ID, &details.OwnerID, &details.Title, &details.Description, &details.VideoURL,
		&details.ThumbnailURL, &details.Duration, &details.Views, &details.IsPublished,
		&details.CreatedAt, &details.UpdatedAt,
		&details.Owner.ID, &details.Owner.Username, &details.Owner.FullName, &details.Owner.AvatarURL,
		&details.Owner.SubscriberCount, &details.Owner.IsSubscribed,
		&details.LikesCount, &details.CommentsCount, &details.IsLiked,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoDetails{}, ErrNotFound
		}
		return models.VideoDetails{}, fmt.Errorf("select video details: %w", err)
	}

	return details, nil
}

// Feed returns one page of published videos matching the filter, along with
// the total number of qualifying videos.
func (r *PostgresVideoRepository) Feed(ctx context.Context, filter VideoFeedFilter) ([]models.VideoWithOwner, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	where := []string{"v.is_published"}
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("v.title ILIKE $%d", len(args)))
	}

	orderBy, ok := feedSortColumns[filter.SortBy]
	if !ok {
		orderBy = "v.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortType, "asc") {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	args = append(args, limit)
	limitArg := len(args)
	args = append(args, (page-1)*limit)
	offsetArg := len(args)

	query := fmt.Sprintf(`
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar_url,
               COUNT(*) OVER () AS total
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE %s
        ORDER BY %s %s
        LIMIT $%d OFFSET $%d
    `, strings.Join(where, " AND "), orderBy, direction, limitArg, offsetArg)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query video feed: %w", err)
	}
	defer rows.Close()

	var videos []models.VideoWithOwner
	var total int64
	for rows.Next() {
		var item models.VideoWithOwner
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.VideoURL,
			&item.ThumbnailURL, &item.Duration, &item.Views, &item.IsPublished,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.AvatarURL,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan video feed row: %w", err)
		}
		videos = append(videos, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate video feed: %w", err)
	}

	return videos, total, nil
}

// Update modifies a video's editable fields.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_url = $4, is_published = $5, updated_at = $6
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.ThumbnailURL, video.IsPublished, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video row; comments, likes and playlist entries cascade.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementViews bumps the view counter by one.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ChannelVideos returns all of a channel's own videos, drafts included,
// newest first, with per-video like counts.
func (r *PostgresVideoRepository) ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id) AS likes_count
        FROM videos v
        WHERE v.owner_id = $1
        ORDER BY v.created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query channel videos: %w", err)
	}
	defer rows.Close()

	var videos []models.ChannelVideo
	for rows.Next() {
		var item models.ChannelVideo
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.VideoURL,
			&item.ThumbnailURL, &item.Duration, &item.Views, &item.IsPublished,
			&item.CreatedAt, &item.UpdatedAt,
			&item.LikesCount,
		); err != nil {
			return nil, fmt.Errorf("scan channel video: %w", err)
		}
		videos = append(videos, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel videos: %w", err)
	}

	return videos, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
