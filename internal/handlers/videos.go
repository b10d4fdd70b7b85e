package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

const maxVideoUploadBytes = 512 << 20

// VideoHandler implements video publishing and playback endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Users   UserStore
	Media   MediaStore
	Cleaner AssetCleaner
	Prober  DurationProber
	Stats   StatsProvider
	NowFunc func() time.Time
}

// Feed handles GET /api/v1/videos with pagination, search and sorting.
func (h VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := repositories.VideoFeedFilter{
		OwnerID:  strings.TrimSpace(query.Get("userId")),
		Query:    strings.TrimSpace(query.Get("query")),
		SortBy:   query.Get("sortBy"),
		SortType: query.Get("sortType"),
		Page:     intQueryParam(query.Get("page"), 1),
		Limit:    intQueryParam(query.Get("limit"), 10),
	}

	if filter.OwnerID != "" && uuid.Validate(filter.OwnerID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid user id")
		return
	}

	videos, total, err := h.Videos.Feed(ctx, filter)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list video feed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load videos")
		return
	}

	page := models.VideoPage{
		Videos: videos,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = 10
	}

	respondData(ctx, w, http.StatusOK, page, "videos fetched")
}

// Publish handles POST /api/v1/videos. The request is multipart with title,
// description, a video file and a thumbnail image.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx, span := logging.StartSpan(r.Context(), "video.publish")
	defer span.End()

	logger := logging.FromContext(ctx)
	user, _ := auth.UserFromContext(ctx)

	if err := r.ParseMultipartForm(maxVideoUploadBytes); err != nil {
		logger.Warn("invalid publish form", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		respondError(ctx, w, http.StatusBadRequest, "title is required")
		return
	}

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "videoFile is required")
		return
	}
	defer videoFile.Close()

	// The upload is staged on disk so it can be probed for duration before
	// being streamed to the object store.
	tmp, err := os.CreateTemp("", "vidtube-upload-*")
	if err != nil {
		logger.Error("failed to stage upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to process video")
		return
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			logger.Warn("failed to remove staged upload", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := io.Copy(tmp, videoFile); err != nil {
		logger.Error("failed to stage upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to process video")
		return
	}

	duration, err := h.Prober.Duration(ctx, tmp.Name())
	if err != nil {
		logger.Warn("failed to probe video duration", "error", err)
		duration = 0
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		logger.Error("failed to rewind staged upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to process video")
		return
	}

	videoName := fmt.Sprintf("videos/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(videoHeader.Filename)))
	videoURL, err := h.Media.Upload(ctx, videoName, tmp, formFileContentType(videoHeader))
	if err != nil {
		logger.Error("failed to upload video", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store video")
		return
	}

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	if err != nil {
		h.enqueueCleanup(videoURL)
		respondError(ctx, w, http.StatusBadRequest, "thumbnail is required")
		return
	}
	defer thumbFile.Close()

	thumbName := fmt.Sprintf("thumbnails/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(thumbHeader.Filename)))
	thumbURL, err := h.Media.Upload(ctx, thumbName, thumbFile, formFileContentType(thumbHeader))
	if err != nil {
		logger.Error("failed to upload thumbnail", "error", err)
		h.enqueueCleanup(videoURL)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
		return
	}

	isPublished := true
	if raw := strings.TrimSpace(r.FormValue("isPublished")); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			isPublished = parsed
		}
	}

	now := h.now()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      user.ID,
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbURL,
		Duration:     duration,
		IsPublished:  isPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("failed to create video", "error", err, "ownerId", user.ID)
		h.enqueueCleanup(videoURL)
		h.enqueueCleanup(thumbURL)
		respondError(ctx, w, http.StatusInternalServerError, "failed to publish video")
		return
	}

	h.invalidateStats(user.ID)
	respondData(ctx, w, http.StatusCreated, video, "video published")
}

// Get handles GET /api/v1/videos/{videoId}. Each fetch counts as a view and,
// for signed-in viewers, lands in their watch history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	viewer := viewerID(r)
	details, err := h.Videos.Details(ctx, videoID, viewer)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logger.Error("failed to load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load video")
		return
	}

	if !details.IsPublished && details.OwnerID != viewer {
		respondError(ctx, w, http.StatusNotFound, "video not found")
		return
	}

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		logger.Warn("failed to count view", "error", err, "videoId", videoID)
	} else {
		details.Views++
	}

	if viewer != "" {
		if err := h.Users.RecordWatch(ctx, viewer, videoID); err != nil {
			logger.Warn("failed to record watch", "error", err, "videoId", videoID, "userId", viewer)
		}
	}

	respondData(ctx, w, http.StatusOK, details, "video fetched")
}

// Update handles PATCH /api/v1/videos/{videoId}: title, description and an
// optional replacement thumbnail.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	user, _ := auth.UserFromContext(ctx)

	video, ok := h.ownedVideo(w, r, user.ID)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		video.Title = title
	}
	if description := strings.TrimSpace(r.FormValue("description")); description != "" {
		video.Description = description
	}
	if raw := strings.TrimSpace(r.FormValue("isPublished")); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			video.IsPublished = parsed
		}
	}

	previousThumb := ""
	if thumbFile, thumbHeader, err := r.FormFile("thumbnail"); err == nil {
		defer thumbFile.Close()

		thumbName := fmt.Sprintf("thumbnails/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(thumbHeader.Filename)))
		thumbURL, err := h.Media.Upload(ctx, thumbName, thumbFile, formFileContentType(thumbHeader))
		if err != nil {
			logger.Error("failed to upload thumbnail", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
			return
		}
		previousThumb = video.ThumbnailURL
		video.ThumbnailURL = thumbURL
	}

	video.UpdatedAt = h.now()
	if err := h.Videos.Update(ctx, video); err != nil {
		logger.Error("failed to update video", "error", err, "videoId", video.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update video")
		return
	}

	if previousThumb != "" {
		h.enqueueCleanup(previousThumb)
	}

	respondData(ctx, w, http.StatusOK, video, "video updated")
}

// Delete handles DELETE /api/v1/videos/{videoId}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	video, ok := h.ownedVideo(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		logging.FromContext(ctx).Error("failed to delete video", "error", err, "videoId", video.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to delete video")
		return
	}

	h.enqueueCleanup(video.VideoURL)
	h.enqueueCleanup(video.ThumbnailURL)
	h.invalidateStats(user.ID)

	respondData(ctx, w, http.StatusOK, nil, "video deleted")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	video, ok := h.ownedVideo(w, r, user.ID)
	if !ok {
		return
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		logging.FromContext(ctx).Error("failed to toggle publish state", "error", err, "videoId", video.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update video")
		return
	}

	respondData(ctx, w, http.StatusOK, video, "publish state updated")
}

// ownedVideo loads the path video and enforces ownership. It writes the error
// response itself when the video is missing or owned by someone else.
func (h VideoHandler) ownedVideo(w http.ResponseWriter, r *http.Request, userID string) (models.Video, bool) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid video id")
		return models.Video{}, false
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return models.Video{}, false
		}
		logging.FromContext(ctx).Error("failed to load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load video")
		return models.Video{}, false
	}

	if video.OwnerID != userID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this video")
		return models.Video{}, false
	}

	return video, true
}

func (h VideoHandler) enqueueCleanup(url string) {
	if h.Cleaner != nil && url != "" {
		h.Cleaner.Enqueue(url)
	}
}

func (h VideoHandler) invalidateStats(channelID string) {
	if h.Stats != nil {
		h.Stats.Invalidate(channelID)
	}
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func intQueryParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
