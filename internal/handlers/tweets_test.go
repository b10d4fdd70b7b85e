package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

type fakeTweetStore struct {
	CreateFn      func(ctx context.Context, tweet models.Tweet) error
	FindByIDFn    func(ctx context.Context, id string) (models.Tweet, error)
	UpdateFn      func(ctx context.Context, tweet models.Tweet) error
	DeleteFn      func(ctx context.Context, id string) error
	ListForUserFn func(ctx context.Context, ownerID, viewerID string) ([]models.TweetWithMeta, error)
}

func (f *fakeTweetStore) Create(ctx context.Context, tweet models.Tweet) error {
	return f.CreateFn(ctx, tweet)
}

func (f *fakeTweetStore) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	return f.FindByIDFn(ctx, id)
}

func (f *fakeTweetStore) Update(ctx context.Context, tweet models.Tweet) error {
	return f.UpdateFn(ctx, tweet)
}

func (f *fakeTweetStore) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func (f *fakeTweetStore) ListForUser(ctx context.Context, ownerID, viewerID string) ([]models.TweetWithMeta, error) {
	return f.ListForUserFn(ctx, ownerID, viewerID)
}

func TestTweetHandlerCreate(t *testing.T) {
	var created models.Tweet
	tweets := &fakeTweetStore{
		CreateFn: func(_ context.Context, tweet models.Tweet) error {
			created = tweet
			return nil
		},
	}
	stats := &fakeStatsProvider{}
	handler := TweetHandler{Tweets: tweets, Stats: stats}

	body, _ := json.Marshal(tweetRequest{Content: "shipping a new series"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if created.Content != "shipping a new series" || created.OwnerID != "user-1" {
		t.Fatalf("unexpected tweet: %+v", created)
	}
	if len(stats.invalidated) != 1 || stats.invalidated[0] != "user-1" {
		t.Fatalf("expected stats invalidation for owner, got %v", stats.invalidated)
	}
}

func TestTweetHandlerCreateRequiresContent(t *testing.T) {
	handler := TweetHandler{Tweets: &fakeTweetStore{}}

	body, _ := json.Marshal(tweetRequest{Content: "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestTweetHandlerUpdateOwnership(t *testing.T) {
	tweetID := uuid.NewString()
	tweets := &fakeTweetStore{
		FindByIDFn: func(_ context.Context, id string) (models.Tweet, error) {
			return models.Tweet{ID: id, OwnerID: "author"}, nil
		},
	}
	handler := TweetHandler{Tweets: tweets}

	body, _ := json.Marshal(tweetRequest{Content: "edited"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tweets/"+tweetID, bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "intruder"}))
	req.SetPathValue("tweetId", tweetID)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
}

func TestTweetHandlerDeleteInvalidatesStats(t *testing.T) {
	tweetID := uuid.NewString()
	tweets := &fakeTweetStore{
		FindByIDFn: func(_ context.Context, id string) (models.Tweet, error) {
			return models.Tweet{ID: id, OwnerID: "author"}, nil
		},
		DeleteFn: func(context.Context, string) error { return nil },
	}
	stats := &fakeStatsProvider{}
	handler := TweetHandler{Tweets: tweets, Stats: stats}

	req := authedRequest(http.MethodDelete, "/api/v1/tweets/"+tweetID, models.User{ID: "author"})
	req.SetPathValue("tweetId", tweetID)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(stats.invalidated) != 1 || stats.invalidated[0] != "author" {
		t.Fatalf("expected stats invalidation, got %v", stats.invalidated)
	}
}

func TestTweetHandlerListForUser(t *testing.T) {
	userID := uuid.NewString()
	users := newInMemoryUserStore()
	users.users[userID] = models.User{ID: userID, Username: "alice"}
	tweets := &fakeTweetStore{
		ListForUserFn: func(_ context.Context, ownerID, viewerID string) ([]models.TweetWithMeta, error) {
			if ownerID != userID {
				t.Fatalf("unexpected owner %q", ownerID)
			}
			return []models.TweetWithMeta{{ID: "t-1", Content: "hello"}}, nil
		},
	}
	handler := TweetHandler{Tweets: tweets, Users: users}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/"+userID, nil)
	req.SetPathValue("userId", userID)
	rec := httptest.NewRecorder()

	handler.ListForUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data []models.TweetWithMeta `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "t-1" {
		t.Fatalf("unexpected tweets: %+v", resp.Data)
	}
}

func TestTweetHandlerListForUnknownUser(t *testing.T) {
	userID := uuid.NewString()
	handler := TweetHandler{Tweets: &fakeTweetStore{}, Users: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/"+userID, nil)
	req.SetPathValue("userId", userID)
	rec := httptest.NewRecorder()

	handler.ListForUser(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}
