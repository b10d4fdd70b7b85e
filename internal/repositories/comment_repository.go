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

// CommentRepository defines data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID, viewerID string, page, limit int) ([]models.CommentWithMeta, int64, error)
}

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create persists a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, comment.ID, comment.VideoID, comment.OwnerID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
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
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// FindByID fetches a raw comment row, used for ownership checks.
func (r *PostgresCommentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, video_id, owner_id, content, created_at, updated_at
        FROM comments
        WHERE id = $1
    `, id)

	var comment models.Comment
	if err := row.Scan(
		&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("select comment: %w", err)
	}

	return comment, nil
}

// Update replaces a comment's content.
func (r *PostgresCommentRepository) Update(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE comments
        SET content = $2, updated_at = $3
        WHERE id = $1
    `, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a comment; its likes cascade.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListForVideo returns one page of a video's comments, newest first, each
// with author details and like information relative to the viewer.
func (r *PostgresCommentRepository) ListForVideo(ctx context.Context, videoID, viewerID string, page, limit int) ([]models.CommentWithMeta, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rows, err := conn.Query(ctx, `
        SELECT c.id, c.content, c.created_at, c.updated_at,
               u.id, u.username, u.full_name, u.avatar_url,
               (SELECT COUNT(*) FROM likes l WHERE l.comment_id = c.id) AS likes_count,
               EXISTS (
                   SELECT 1 FROM likes l
                   WHERE l.comment_id = c.id AND l.liked_by = $2
               ) AS is_liked,
               COUNT(*) OVER () AS total
        FROM comments c
        JOIN users u ON u.id = c.owner_id
        WHERE c.video_id = $1
        ORDER BY c.created_at DESC
        LIMIT $3 OFFSET $4
    `, videoID, viewerParam(viewerID), limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query video comments: %w", err)
	}
	defer rows.Close()

	var comments []models.CommentWithMeta
	var total int64
	for rows.Next() {
		var item models.CommentWithMeta
		if err := rows.Scan(
			&item.ID, &item.Content, &item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.AvatarURL,
			&item.LikesCount, &item.IsLiked,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate video comments: %w", err)
	}

	return comments, total, nil
}

var _ CommentRepository = (*PostgresCommentRepository)(nil)
