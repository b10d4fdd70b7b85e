package handlers

import (
	"context"
	"io"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	RecordWatch(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Details(ctx context.Context, videoID, viewerID string) (models.VideoDetails, error)
	Feed(ctx context.Context, filter repositories.VideoFeedFilter) ([]models.VideoWithOwner, int64, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error)
}

// CommentStore captures persistence for video comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID, viewerID string, page, limit int) ([]models.CommentWithMeta, int64, error)
}

// TweetStore captures persistence for tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, ownerID, viewerID string) ([]models.TweetWithMeta, error)
}

// LikeStore toggles reactions and lists liked videos.
type LikeStore interface {
	ToggleVideo(ctx context.Context, actorID, videoID string) (bool, error)
	ToggleComment(ctx context.Context, actorID, commentID string) (bool, error)
	ToggleTweet(ctx context.Context, actorID, tweetID string) (bool, error)
	LikedVideos(ctx context.Context, actorID string) ([]models.VideoWithOwner, error)
}

// PlaylistStore captures persistence for playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	WithVideos(ctx context.Context, id string) (models.PlaylistWithVideos, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

// SubscriptionStore toggles and lists channel subscriptions.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]models.SubscriberInfo, error)
	SubscribedChannels(ctx context.Context, subscriberID string) (models.SubscribedChannels, error)
}

// StatsProvider serves dashboard aggregates. Invalidate drops any cached
// value so the next read recomputes.
type StatsProvider interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
	Invalidate(channelID string)
}

// TokenService issues and verifies bearer credentials.
type TokenService interface {
	Issue(userID string) (models.TokenPair, error)
	VerifyAccess(token string) (string, error)
	VerifyRefresh(token string) (string, error)
}

// MediaStore uploads assets and returns their public URLs.
type MediaStore interface {
	Upload(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
}

// AssetCleaner schedules best-effort removal of replaced or deleted assets.
type AssetCleaner interface {
	Enqueue(url string)
}

// DurationProber inspects an uploaded media file and reports its duration.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Stats         StatsProvider
	Tokens        TokenService
	Media         MediaStore
	Cleaner       AssetCleaner
	Prober        DurationProber
	DB            Pinger
	Limiter       RateLimiter
}
