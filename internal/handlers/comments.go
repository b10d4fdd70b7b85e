package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// CommentHandler implements comment endpoints.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

// List handles GET /api/v1/comments/{videoId} with pagination.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logging.FromContext(ctx).Error("failed to load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load comments")
		return
	}

	query := r.URL.Query()
	page := intQueryParam(query.Get("page"), 1)
	limit := intQueryParam(query.Get("limit"), 10)

	comments, total, err := h.Comments.ListForVideo(ctx, videoID, viewerID(r), page, limit)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list comments", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load comments")
		return
	}

	respondData(ctx, w, http.StatusOK, models.CommentPage{
		Comments: comments,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, "comments fetched")
}

// Create handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   user.ID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logging.FromContext(ctx).Error("failed to create comment", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to add comment")
		return
	}

	respondData(ctx, w, http.StatusCreated, comment, "comment added")
}

// Update handles PATCH /api/v1/comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	comment, ok := h.ownedComment(w, r, user.ID)
	if !ok {
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	comment.Content = req.Content
	comment.UpdatedAt = h.now()

	if err := h.Comments.Update(ctx, comment); err != nil {
		logging.FromContext(ctx).Error("failed to update comment", "error", err, "commentId", comment.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update comment")
		return
	}

	respondData(ctx, w, http.StatusOK, comment, "comment updated")
}

// Delete handles DELETE /api/v1/comments/c/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	comment, ok := h.ownedComment(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		logging.FromContext(ctx).Error("failed to delete comment", "error", err, "commentId", comment.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "comment deleted")
}

func (h CommentHandler) ownedComment(w http.ResponseWriter, r *http.Request, userID string) (models.Comment, bool) {
	ctx := r.Context()

	commentID := r.PathValue("commentId")
	if uuid.Validate(commentID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid comment id")
		return models.Comment{}, false
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "comment not found")
			return models.Comment{}, false
		}
		logging.FromContext(ctx).Error("failed to load comment", "error", err, "commentId", commentID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load comment")
		return models.Comment{}, false
	}

	if comment.OwnerID != userID {
		respondError(ctx, w, http.StatusForbidden, "only the author may modify this comment")
		return models.Comment{}, false
	}

	return comment, true
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type commentRequest struct {
	Content string `json:"content"`
}
