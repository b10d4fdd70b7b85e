package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/repositories"
)

// LikeHandler implements reaction toggle endpoints.
type LikeHandler struct {
	Likes LikeStore
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "videoId", "video", h.Likes.ToggleVideo)
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "commentId", "comment", h.Likes.ToggleComment)
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "tweetId", "tweet", h.Likes.ToggleTweet)
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, param, kind string, toggleFn func(ctx context.Context, actorID, targetID string) (bool, error)) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	targetID := r.PathValue(param)
	if uuid.Validate(targetID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid "+kind+" id")
		return
	}

	liked, err := toggleFn(ctx, user.ID, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, kind+" not found")
			return
		}
		logging.FromContext(ctx).Error("failed to toggle like", "error", err, "kind", kind, "targetId", targetID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	message := "like removed"
	if liked {
		message = "liked"
	}

	respondData(ctx, w, http.StatusOK, map[string]bool{"liked": liked}, message)
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	videos, err := h.Likes.LikedVideos(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list liked videos", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load liked videos")
		return
	}

	respondData(ctx, w, http.StatusOK, videos, "liked videos fetched")
}
