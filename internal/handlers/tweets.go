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

// TweetHandler implements channel post endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	Users   UserStore
	Stats   StatsProvider
	NowFunc func() time.Time
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	var req tweetRequest
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
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		logging.FromContext(ctx).Error("failed to create tweet", "error", err, "ownerId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create post")
		return
	}

	h.invalidateStats(user.ID)
	respondData(ctx, w, http.StatusCreated, tweet, "post created")
}

// ListForUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	if uuid.Validate(userID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid user id")
		return
	}

	if _, err := h.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "user not found")
			return
		}
		logging.FromContext(ctx).Error("failed to load user", "error", err, "userId", userID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	tweets, err := h.Tweets.ListForUser(ctx, userID, viewerID(r))
	if err != nil {
		logging.FromContext(ctx).Error("failed to list tweets", "error", err, "userId", userID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	respondData(ctx, w, http.StatusOK, tweets, "posts fetched")
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	tweet, ok := h.ownedTweet(w, r, user.ID)
	if !ok {
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	tweet.Content = req.Content
	tweet.UpdatedAt = h.now()

	if err := h.Tweets.Update(ctx, tweet); err != nil {
		logging.FromContext(ctx).Error("failed to update tweet", "error", err, "tweetId", tweet.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update post")
		return
	}

	respondData(ctx, w, http.StatusOK, tweet, "post updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	tweet, ok := h.ownedTweet(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		logging.FromContext(ctx).Error("failed to delete tweet", "error", err, "tweetId", tweet.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	h.invalidateStats(user.ID)
	respondData(ctx, w, http.StatusOK, nil, "post deleted")
}

func (h TweetHandler) ownedTweet(w http.ResponseWriter, r *http.Request, userID string) (models.Tweet, bool) {
	ctx := r.Context()

	tweetID := r.PathValue("tweetId")
	if uuid.Validate(tweetID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid tweet id")
		return models.Tweet{}, false
	}

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "post not found")
			return models.Tweet{}, false
		}
		logging.FromContext(ctx).Error("failed to load tweet", "error", err, "tweetId", tweetID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load post")
		return models.Tweet{}, false
	}

	if tweet.OwnerID != userID {
		respondError(ctx, w, http.StatusForbidden, "only the author may modify this post")
		return models.Tweet{}, false
	}

	return tweet, true
}

func (h TweetHandler) invalidateStats(channelID string) {
	if h.Stats != nil {
		h.Stats.Invalidate(channelID)
	}
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type tweetRequest struct {
	Content string `json:"content"`
}
