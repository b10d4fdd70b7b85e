package models

import "time"

// User represents an account (and therefore a channel) on the platform.
// Password and RefreshToken never leave the server.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Password      string    `json:"-"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Video is an upload owned by a user, visible to others once published.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Comment belongs to exactly one video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tweet is a short standalone post on a user's channel.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Like is a reaction join record. Exactly one of VideoID, CommentID and
// TweetID is set; the schema allows at most one like per (actor, target).
type Like struct {
	ID        string    `json:"id"`
	LikedBy   string    `json:"likedBy"`
	VideoID   *string   `json:"videoId,omitempty"`
	CommentID *string   `json:"commentId,omitempty"`
	TweetID   *string   `json:"tweetId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Playlist is an ordered, owner-curated collection of videos.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Subscription records that Subscriber follows Channel.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenPair groups the bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// OwnerSummary is the public slice of a user embedded in derived read models.
type OwnerSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

// VideoWithOwner is a video joined with its owner's public profile.
type VideoWithOwner struct {
	Video
	Owner OwnerSummary `json:"owner"`
}

// VideoOwnerChannel is a video owner's profile enriched with subscription
// data relative to the viewer.
type VideoOwnerChannel struct {
	OwnerSummary
	SubscriberCount int64 `json:"subscriberCount"`
	IsSubscribed    bool  `json:"isSubscribed"`
}

// VideoDetails is the single-video read model: owner channel info plus
// like/comment counts and the viewer's own like state.
type VideoDetails struct {
	Video
	Owner         VideoOwnerChannel `json:"owner"`
	LikesCount    int64             `json:"likesCount"`
	CommentsCount int64             `json:"commentsCount"`
	IsLiked       bool              `json:"isLiked"`
}

// VideoPage is one page of a video listing together with the overall total.
type VideoPage struct {
	Videos []VideoWithOwner `json:"videos"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
}

// ChannelProfile is the public channel view of a user, relative to a viewer.
type ChannelProfile struct {
	ID                   string    `json:"id"`
	Username             string    `json:"username"`
	FullName             string    `json:"fullName"`
	Email                string    `json:"email"`
	AvatarURL            string    `json:"avatar"`
	CoverImageURL        string    `json:"coverImage"`
	SubscriberCount      int64     `json:"subscriberCount"`
	ChannelsSubscribedTo int64     `json:"channelsSubscribedToCount"`
	IsSubscribed         bool      `json:"isSubscribed"`
	CreatedAt            time.Time `json:"createdAt"`
}

// CommentWithMeta joins a comment with its author and like information.
type CommentWithMeta struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Owner      OwnerSummary `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// CommentPage is one page of a video's comments.
type CommentPage struct {
	Comments []CommentWithMeta `json:"comments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// TweetWithMeta joins a tweet with its author and like information.
type TweetWithMeta struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Owner      OwnerSummary `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// PlaylistSummary lists a playlist with the number of videos it holds.
type PlaylistSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VideoCount  int64     `json:"videoCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistWithVideos is a playlist expanded with its videos in list order.
type PlaylistWithVideos struct {
	Playlist
	Videos []VideoWithOwner `json:"videos"`
}

// SubscriberInfo describes one subscriber of a channel, including how many
// subscribers that user has in turn.
type SubscriberInfo struct {
	OwnerSummary
	SubscriberCount int64 `json:"subscriberCount"`
}

// SubscribedChannels lists the channels a user follows.
type SubscribedChannels struct {
	Channels     []SubscriberInfo `json:"channels"`
	ChannelCount int64            `json:"channelCount"`
}

// ChannelVideo is a dashboard row: one of the channel's own videos with its
// like count, published or not.
type ChannelVideo struct {
	Video
	LikesCount int64 `json:"likesCount"`
}

// ChannelStats aggregates the dashboard totals for one channel.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalTweets      int64 `json:"totalTweets"`
	TotalVideoLikes  int64 `json:"totalVideoLikes"`
	TotalTweetLikes  int64 `json:"totalTweetLikes"`
}
