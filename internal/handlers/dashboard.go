package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
)

// DashboardHandler serves the channel owner's aggregate views.
type DashboardHandler struct {
	Stats  StatsProvider
	Videos VideoStore
}

// ChannelStats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	stats, err := h.Stats.ChannelStats(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to load channel stats", "error", err, "channelId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load channel stats")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats fetched")
}

// ChannelVideos handles GET /api/v1/dashboard/videos: every video on the
// channel, drafts included, with like counts.
func (h DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	videos, err := h.Videos.ChannelVideos(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to load channel videos", "error", err, "channelId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load channel videos")
		return
	}

	respondData(ctx, w, http.StatusOK, videos, "channel videos fetched")
}
