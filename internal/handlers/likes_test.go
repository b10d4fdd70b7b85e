package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

type fakeLikeStore struct {
	ToggleVideoFn   func(ctx context.Context, actorID, videoID string) (bool, error)
	ToggleCommentFn func(ctx context.Context, actorID, commentID string) (bool, error)
	ToggleTweetFn   func(ctx context.Context, actorID, tweetID string) (bool, error)
	LikedVideosFn   func(ctx context.Context, actorID string) ([]models.VideoWithOwner, error)
}

func (f *fakeLikeStore) ToggleVideo(ctx context.Context, actorID, videoID string) (bool, error) {
	return f.ToggleVideoFn(ctx, actorID, videoID)
}

func (f *fakeLikeStore) ToggleComment(ctx context.Context, actorID, commentID string) (bool, error) {
	return f.ToggleCommentFn(ctx, actorID, commentID)
}

func (f *fakeLikeStore) ToggleTweet(ctx context.Context, actorID, tweetID string) (bool, error) {
	return f.ToggleTweetFn(ctx, actorID, tweetID)
}

func (f *fakeLikeStore) LikedVideos(ctx context.Context, actorID string) ([]models.VideoWithOwner, error) {
	return f.LikedVideosFn(ctx, actorID)
}

func TestLikeHandlerToggleVideo(t *testing.T) {
	videoID := uuid.NewString()
	liked := true
	likes := &fakeLikeStore{
		ToggleVideoFn: func(_ context.Context, actorID, targetID string) (bool, error) {
			if actorID != "user-1" || targetID != videoID {
				t.Fatalf("unexpected toggle args: %s %s", actorID, targetID)
			}
			return liked, nil
		},
	}
	handler := LikeHandler{Likes: likes}

	doToggle := func() (int, testEnvelope, map[string]bool) {
		req := authedRequest(http.MethodPost, "/api/v1/likes/toggle/v/"+videoID, models.User{ID: "user-1"})
		req.SetPathValue("videoId", videoID)
		rec := httptest.NewRecorder()

		handler.ToggleVideo(rec, req)

		var resp struct {
			testEnvelope
			Data map[string]bool `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return rec.Code, resp.testEnvelope, resp.Data
	}

	code, envelope, data := doToggle()
	if code != http.StatusOK || envelope.Message != "liked" || !data["liked"] {
		t.Fatalf("expected like to be recorded: code=%d envelope=%+v data=%v", code, envelope, data)
	}

	liked = false
	code, envelope, data = doToggle()
	if code != http.StatusOK || envelope.Message != "like removed" || data["liked"] {
		t.Fatalf("expected like to be removed: code=%d envelope=%+v data=%v", code, envelope, data)
	}
}

func TestLikeHandlerToggleRejectsBadID(t *testing.T) {
	handler := LikeHandler{Likes: &fakeLikeStore{}}

	req := authedRequest(http.MethodPost, "/api/v1/likes/toggle/c/nope", models.User{ID: "user-1"})
	req.SetPathValue("commentId", "nope")
	rec := httptest.NewRecorder()

	handler.ToggleComment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestLikeHandlerToggleMissingTarget(t *testing.T) {
	tweetID := uuid.NewString()
	likes := &fakeLikeStore{
		ToggleTweetFn: func(context.Context, string, string) (bool, error) {
			return false, repositories.ErrNotFound
		},
	}
	handler := LikeHandler{Likes: likes}

	req := authedRequest(http.MethodPost, "/api/v1/likes/toggle/t/"+tweetID, models.User{ID: "user-1"})
	req.SetPathValue("tweetId", tweetID)
	rec := httptest.NewRecorder()

	handler.ToggleTweet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestLikeHandlerLikedVideos(t *testing.T) {
	likes := &fakeLikeStore{
		LikedVideosFn: func(_ context.Context, actorID string) ([]models.VideoWithOwner, error) {
			if actorID != "user-1" {
				t.Fatalf("unexpected actor %q", actorID)
			}
			return []models.VideoWithOwner{{Video: models.Video{ID: "v-1"}}}, nil
		},
	}
	handler := LikeHandler{Likes: likes}

	req := authedRequest(http.MethodGet, "/api/v1/likes/videos", models.User{ID: "user-1"})
	rec := httptest.NewRecorder()

	handler.LikedVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data []models.VideoWithOwner `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "v-1" {
		t.Fatalf("unexpected liked videos: %+v", resp.Data)
	}
}
