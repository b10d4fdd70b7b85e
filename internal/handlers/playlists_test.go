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
	"github.com/vidtube/backend/internal/repositories"
)

type fakePlaylistStore struct {
	CreateFn      func(ctx context.Context, playlist models.Playlist) error
	FindByIDFn    func(ctx context.Context, id string) (models.Playlist, error)
	WithVideosFn  func(ctx context.Context, id string) (models.PlaylistWithVideos, error)
	ListForUserFn func(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error)
	UpdateFn      func(ctx context.Context, playlist models.Playlist) error
	DeleteFn      func(ctx context.Context, id string) error
	AddVideoFn    func(ctx context.Context, playlistID, videoID string) error
	RemoveVideoFn func(ctx context.Context, playlistID, videoID string) error
}

func (f *fakePlaylistStore) Create(ctx context.Context, playlist models.Playlist) error {
	return f.CreateFn(ctx, playlist)
}

func (f *fakePlaylistStore) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	return f.FindByIDFn(ctx, id)
}

func (f *fakePlaylistStore) WithVideos(ctx context.Context, id string) (models.PlaylistWithVideos, error) {
	return f.WithVideosFn(ctx, id)
}

func (f *fakePlaylistStore) ListForUser(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error) {
	return f.ListForUserFn(ctx, ownerID)
}

func (f *fakePlaylistStore) Update(ctx context.Context, playlist models.Playlist) error {
	return f.UpdateFn(ctx, playlist)
}

func (f *fakePlaylistStore) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func (f *fakePlaylistStore) AddVideo(ctx context.Context, playlistID, videoID string) error {
	return f.AddVideoFn(ctx, playlistID, videoID)
}

func (f *fakePlaylistStore) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	return f.RemoveVideoFn(ctx, playlistID, videoID)
}

func TestPlaylistHandlerCreate(t *testing.T) {
	var created models.Playlist
	playlists := &fakePlaylistStore{
		CreateFn: func(_ context.Context, playlist models.Playlist) error {
			created = playlist
			return nil
		},
	}
	handler := PlaylistHandler{Playlists: playlists}

	body, _ := json.Marshal(playlistRequest{Name: " Watch later ", Description: "queue"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlist", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if created.Name != "Watch later" || created.OwnerID != "user-1" {
		t.Fatalf("unexpected playlist: %+v", created)
	}
}

func TestPlaylistHandlerCreateRequiresName(t *testing.T) {
	handler := PlaylistHandler{Playlists: &fakePlaylistStore{}}

	body, _ := json.Marshal(playlistRequest{Description: "no name"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlist", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPlaylistHandlerUpdateOwnership(t *testing.T) {
	playlistID := uuid.NewString()
	playlists := &fakePlaylistStore{
		FindByIDFn: func(_ context.Context, id string) (models.Playlist, error) {
			return models.Playlist{ID: id, OwnerID: "owner"}, nil
		},
	}
	handler := PlaylistHandler{Playlists: playlists}

	body, _ := json.Marshal(playlistRequest{Name: "renamed"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/playlist/"+playlistID, bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "intruder"}))
	req.SetPathValue("playlistId", playlistID)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
}

func TestPlaylistHandlerAddVideo(t *testing.T) {
	playlistID := uuid.NewString()
	videoID := uuid.NewString()
	owner := models.User{ID: "owner"}

	newRequest := func() *http.Request {
		req := authedRequest(http.MethodPatch, "/api/v1/playlist/add/"+videoID+"/"+playlistID, owner)
		req.SetPathValue("videoId", videoID)
		req.SetPathValue("playlistId", playlistID)
		return req
	}

	playlists := &fakePlaylistStore{
		FindByIDFn: func(_ context.Context, id string) (models.Playlist, error) {
			return models.Playlist{ID: id, OwnerID: owner.ID}, nil
		},
		AddVideoFn: func(context.Context, string, string) error { return nil },
	}
	handler := PlaylistHandler{Playlists: playlists}

	rec := httptest.NewRecorder()
	handler.AddVideo(rec, newRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	playlists.AddVideoFn = func(context.Context, string, string) error {
		return repositories.ErrConflict
	}
	rec = httptest.NewRecorder()
	handler.AddVideo(rec, newRequest())
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected duplicate add to fail with %d, got %d", http.StatusConflict, rec.Code)
	}

	playlists.AddVideoFn = func(context.Context, string, string) error {
		return repositories.ErrNotFound
	}
	rec = httptest.NewRecorder()
	handler.AddVideo(rec, newRequest())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected missing video to fail with %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPlaylistHandlerRemoveVideoNotInPlaylist(t *testing.T) {
	playlistID := uuid.NewString()
	videoID := uuid.NewString()
	playlists := &fakePlaylistStore{
		FindByIDFn: func(_ context.Context, id string) (models.Playlist, error) {
			return models.Playlist{ID: id, OwnerID: "owner"}, nil
		},
		RemoveVideoFn: func(context.Context, string, string) error {
			return repositories.ErrNotFound
		},
	}
	handler := PlaylistHandler{Playlists: playlists}

	req := authedRequest(http.MethodPatch, "/api/v1/playlist/remove/"+videoID+"/"+playlistID, models.User{ID: "owner"})
	req.SetPathValue("videoId", videoID)
	req.SetPathValue("playlistId", playlistID)
	rec := httptest.NewRecorder()

	handler.RemoveVideo(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPlaylistHandlerGet(t *testing.T) {
	playlistID := uuid.NewString()
	playlists := &fakePlaylistStore{
		WithVideosFn: func(_ context.Context, id string) (models.PlaylistWithVideos, error) {
			return models.PlaylistWithVideos{
				Playlist: models.Playlist{ID: id, OwnerID: "owner-1", Name: "favorites"},
				Videos:   []models.VideoWithOwner{{Video: models.Video{ID: "v-1"}}},
			}, nil
		},
	}
	handler := PlaylistHandler{Playlists: playlists}

	req := authedRequest(http.MethodGet, "/api/v1/playlist/"+playlistID, models.User{ID: "owner-1"})
	req.SetPathValue("playlistId", playlistID)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.PlaylistWithVideos `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Name != "favorites" || len(resp.Data.Videos) != 1 {
		t.Fatalf("unexpected playlist: %+v", resp.Data)
	}
}

func TestPlaylistHandlerGetHiddenFromOthers(t *testing.T) {
	playlistID := uuid.NewString()
	playlists := &fakePlaylistStore{
		WithVideosFn: func(_ context.Context, id string) (models.PlaylistWithVideos, error) {
			return models.PlaylistWithVideos{
				Playlist: models.Playlist{ID: id, OwnerID: "owner-1", Name: "favorites"},
			}, nil
		},
	}
	handler := PlaylistHandler{Playlists: playlists}

	req := authedRequest(http.MethodGet, "/api/v1/playlist/"+playlistID, models.User{ID: "someone-else"})
	req.SetPathValue("playlistId", playlistID)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
}
