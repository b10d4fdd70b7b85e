package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

func authedRequest(method, target string, user models.User) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(auth.WithUser(req.Context(), user))
}

func TestVideoHandlerFeed(t *testing.T) {
	var gotFilter repositories.VideoFeedFilter
	store := &fakeVideoStore{
		FeedFn: func(_ context.Context, filter repositories.VideoFeedFilter) ([]models.VideoWithOwner, int64, error) {
			gotFilter = filter
			return []models.VideoWithOwner{
				{Video: models.Video{ID: "v-1", Title: "first"}},
				{Video: models.Video{ID: "v-2", Title: "second"}},
			}, 7, nil
		},
	}
	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?query=gopher&page=2&limit=2&sortBy=views&sortType=asc", nil)
	rec := httptest.NewRecorder()

	handler.Feed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	if gotFilter.Query != "gopher" || gotFilter.Page != 2 || gotFilter.Limit != 2 {
		t.Fatalf("unexpected filter: %+v", gotFilter)
	}
	if gotFilter.SortBy != "views" || gotFilter.SortType != "asc" {
		t.Fatalf("unexpected sort: %+v", gotFilter)
	}

	var resp struct {
		Data models.VideoPage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Total != 7 || len(resp.Data.Videos) != 2 {
		t.Fatalf("unexpected page: total=%d videos=%d", resp.Data.Total, len(resp.Data.Videos))
	}
	if resp.Data.Page != 2 || resp.Data.Limit != 2 {
		t.Fatalf("unexpected paging echo: %+v", resp.Data)
	}
}

func TestVideoHandlerFeedRejectsBadUserID(t *testing.T) {
	handler := VideoHandler{Videos: &fakeVideoStore{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?userId=not-a-uuid", nil)
	rec := httptest.NewRecorder()

	handler.Feed(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestVideoHandlerGet(t *testing.T) {
	videoID := uuid.NewString()

	t.Run("counts the view", func(t *testing.T) {
		var incremented string
		store := &fakeVideoStore{
			DetailsFn: func(_ context.Context, id, _ string) (models.VideoDetails, error) {
				return models.VideoDetails{
					Video: models.Video{ID: id, OwnerID: "owner-1", IsPublished: true, Views: 4},
				}, nil
			},
			IncrementViewsFn: func(_ context.Context, id string) error {
				incremented = id
				return nil
			},
		}
		handler := VideoHandler{Videos: store, Users: newInMemoryUserStore()}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID, nil)
		req.SetPathValue("videoId", videoID)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		if incremented != videoID {
			t.Fatalf("expected view increment for %s, got %q", videoID, incremented)
		}

		var resp struct {
			Data models.VideoDetails `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Data.Views != 5 {
			t.Fatalf("expected reported views to include this fetch, got %d", resp.Data.Views)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := VideoHandler{Videos: &fakeVideoStore{}}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/nope", nil)
		req.SetPathValue("videoId", "nope")
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		store := &fakeVideoStore{
			DetailsFn: func(context.Context, string, string) (models.VideoDetails, error) {
				return models.VideoDetails{}, repositories.ErrNotFound
			},
		}
		handler := VideoHandler{Videos: store}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID, nil)
		req.SetPathValue("videoId", videoID)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("draft hidden from other viewers", func(t *testing.T) {
		store := &fakeVideoStore{
			DetailsFn: func(_ context.Context, id, _ string) (models.VideoDetails, error) {
				return models.VideoDetails{
					Video: models.Video{ID: id, OwnerID: "owner-1", IsPublished: false},
				}, nil
			},
		}
		handler := VideoHandler{Videos: store}

		req := authedRequest(http.MethodGet, "/api/v1/videos/"+videoID, models.User{ID: "viewer-2"})
		req.SetPathValue("videoId", videoID)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected draft to be hidden with %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestVideoHandlerTogglePublishOwnership(t *testing.T) {
	videoID := uuid.NewString()
	store := &fakeVideoStore{
		FindByIDFn: func(_ context.Context, id string) (models.Video, error) {
			return models.Video{ID: id, OwnerID: "owner-1", IsPublished: true}, nil
		},
	}
	handler := VideoHandler{Videos: store}

	req := authedRequest(http.MethodPatch, "/api/v1/videos/toggle/publish/"+videoID, models.User{ID: "intruder"})
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.TogglePublish(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
}

func TestVideoHandlerTogglePublishFlips(t *testing.T) {
	videoID := uuid.NewString()
	var updated models.Video
	store := &fakeVideoStore{
		FindByIDFn: func(_ context.Context, id string) (models.Video, error) {
			return models.Video{ID: id, OwnerID: "owner-1", IsPublished: true}, nil
		},
		UpdateFn: func(_ context.Context, video models.Video) error {
			updated = video
			return nil
		},
	}
	handler := VideoHandler{Videos: store}

	req := authedRequest(http.MethodPatch, "/api/v1/videos/toggle/publish/"+videoID, models.User{ID: "owner-1"})
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.TogglePublish(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if updated.IsPublished {
		t.Fatal("expected published video to become a draft")
	}
}

func TestVideoHandlerDeleteCleansUpAssets(t *testing.T) {
	videoID := uuid.NewString()
	cleaner := &fakeCleaner{}
	stats := &fakeStatsProvider{}
	store := &fakeVideoStore{
		FindByIDFn: func(_ context.Context, id string) (models.Video, error) {
			return models.Video{
				ID:           id,
				OwnerID:      "owner-1",
				VideoURL:     "https://cdn.test/videos/a.mp4",
				ThumbnailURL: "https://cdn.test/thumbnails/a.jpg",
			}, nil
		},
		DeleteFn: func(context.Context, string) error { return nil },
	}
	handler := VideoHandler{Videos: store, Cleaner: cleaner, Stats: stats}

	req := authedRequest(http.MethodDelete, "/api/v1/videos/"+videoID, models.User{ID: "owner-1"})
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(cleaner.urls) != 2 {
		t.Fatalf("expected video and thumbnail cleanup, got %v", cleaner.urls)
	}
	if len(stats.invalidated) != 1 || stats.invalidated[0] != "owner-1" {
		t.Fatalf("expected stats invalidation for owner, got %v", stats.invalidated)
	}
}
