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

// PlaylistHandler implements playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	NowFunc   func() time.Time
}

// Create handles POST /api/v1/playlist.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		logging.FromContext(ctx).Error("failed to create playlist", "error", err, "ownerId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create playlist")
		return
	}

	respondData(ctx, w, http.StatusCreated, playlist, "playlist created")
}

// Get handles GET /api/v1/playlist/{playlistId}. Playlists are private to
// their owner.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	playlistID := r.PathValue("playlistId")
	if uuid.Validate(playlistID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, err := h.Playlists.WithVideos(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
			return
		}
		logging.FromContext(ctx).Error("failed to load playlist", "error", err, "playlistId", playlistID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load playlist")
		return
	}

	if playlist.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may view this playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "playlist fetched")
}

// ListForUser handles GET /api/v1/playlist/user/{userId}.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	if uuid.Validate(userID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid user id")
		return
	}

	playlists, err := h.Playlists.ListForUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list playlists", "error", err, "userId", userID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load playlists")
		return
	}

	respondData(ctx, w, http.StatusOK, playlists, "playlists fetched")
}

// Update handles PATCH /api/v1/playlist/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	playlist, ok := h.ownedPlaylist(w, r, user.ID)
	if !ok {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	playlist.Name = req.Name
	playlist.Description = strings.TrimSpace(req.Description)
	playlist.UpdatedAt = h.now()

	if err := h.Playlists.Update(ctx, playlist); err != nil {
		logging.FromContext(ctx).Error("failed to update playlist", "error", err, "playlistId", playlist.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "playlist updated")
}

// Delete handles DELETE /api/v1/playlist/{playlistId}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	playlist, ok := h.ownedPlaylist(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		logging.FromContext(ctx).Error("failed to delete playlist", "error", err, "playlistId", playlist.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to delete playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "playlist deleted")
}

// AddVideo handles PATCH /api/v1/playlist/add/{videoId}/{playlistId}.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	playlist, videoID, ok := h.ownedPlaylistAndVideo(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			respondError(ctx, w, http.StatusConflict, "video is already in the playlist")
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "video not found")
		default:
			logging.FromContext(ctx).Error("failed to add playlist video", "error", err, "playlistId", playlist.ID, "videoId", videoID)
			respondError(ctx, w, http.StatusInternalServerError, "failed to add video to playlist")
		}
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video added to playlist")
}

// RemoveVideo handles PATCH /api/v1/playlist/remove/{videoId}/{playlistId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	playlist, videoID, ok := h.ownedPlaylistAndVideo(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video is not in the playlist")
			return
		}
		logging.FromContext(ctx).Error("failed to remove playlist video", "error", err, "playlistId", playlist.ID, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to remove video from playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video removed from playlist")
}

func (h PlaylistHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request, userID string) (models.Playlist, bool) {
	ctx := r.Context()

	playlistID := r.PathValue("playlistId")
	if uuid.Validate(playlistID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid playlist id")
		return models.Playlist{}, false
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
			return models.Playlist{}, false
		}
		logging.FromContext(ctx).Error("failed to load playlist", "error", err, "playlistId", playlistID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load playlist")
		return models.Playlist{}, false
	}

	if playlist.OwnerID != userID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this playlist")
		return models.Playlist{}, false
	}

	return playlist, true
}

func (h PlaylistHandler) ownedPlaylistAndVideo(w http.ResponseWriter, r *http.Request, userID string) (models.Playlist, string, bool) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid video id")
		return models.Playlist{}, "", false
	}

	playlist, ok := h.ownedPlaylist(w, r, userID)
	if !ok {
		return models.Playlist{}, "", false
	}

	return playlist, videoID, true
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
