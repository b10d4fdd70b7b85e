package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/repositories"
)

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}. Subscribing to
// your own channel is rejected.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	channelID := r.PathValue("channelId")
	if uuid.Validate(channelID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid channel id")
		return
	}

	if channelID == user.ID {
		respondError(ctx, w, http.StatusBadRequest, "you cannot subscribe to your own channel")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, user.ID, channelID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel not found")
			return
		}
		logging.FromContext(ctx).Error("failed to toggle subscription", "error", err, "channelId", channelID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to toggle subscription")
		return
	}

	message := "unsubscribed"
	if subscribed {
		message = "subscribed"
	}

	respondData(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
}

// Subscribers handles GET /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID := r.PathValue("channelId")
	if uuid.Validate(channelID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid channel id")
		return
	}

	subscribers, err := h.Subscriptions.Subscribers(ctx, channelID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list subscribers", "error", err, "channelId", channelID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load subscribers")
		return
	}

	respondData(ctx, w, http.StatusOK, subscribers, "subscribers fetched")
}

// SubscribedChannels handles GET /api/v1/subscriptions/u, listing the
// channels the caller follows.
func (h SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	channels, err := h.Subscriptions.SubscribedChannels(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list subscribed channels", "error", err, "subscriberId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load subscribed channels")
		return
	}

	respondData(ctx, w, http.StatusOK, channels, "subscribed channels fetched")
}
