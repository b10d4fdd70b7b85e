package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{DB: deps.DB}
	users := UserHandler{
		Users:   deps.Users,
		Tokens:  deps.Tokens,
		Media:   deps.Media,
		Cleaner: deps.Cleaner,
		Limiter: deps.Limiter,
	}
	videos := VideoHandler{
		Videos:  deps.Videos,
		Users:   deps.Users,
		Media:   deps.Media,
		Cleaner: deps.Cleaner,
		Prober:  deps.Prober,
		Stats:   deps.Stats,
	}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos}
	likes := LikeHandler{Likes: deps.Likes}
	playlists := PlaylistHandler{Playlists: deps.Playlists}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions}
	tweets := TweetHandler{Tweets: deps.Tweets, Users: deps.Users, Stats: deps.Stats}
	dashboard := DashboardHandler{Stats: deps.Stats, Videos: deps.Videos}

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(deps.Users, deps.Tokens, next)
	}
	viewer := func(next http.HandlerFunc) http.HandlerFunc {
		return optionalAuth(deps.Users, deps.Tokens, next)
	}

	mux.HandleFunc("GET /healthz", health.Handle)
	mux.HandleFunc("GET /api/v1/healthcheck", health.Check)

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-token", users.RefreshToken)
	mux.HandleFunc("POST /api/v1/users/logout", authed(users.Logout))
	mux.HandleFunc("POST /api/v1/users/change-password", authed(users.ChangePassword))
	mux.HandleFunc("GET /api/v1/users/current-user", authed(users.CurrentUser))
	mux.HandleFunc("PATCH /api/v1/users/update-details", authed(users.UpdateDetails))
	mux.HandleFunc("PATCH /api/v1/users/avatar", authed(users.UpdateAvatar))
	mux.HandleFunc("PATCH /api/v1/users/cover-image", authed(users.UpdateCoverImage))
	mux.HandleFunc("GET /api/v1/users/c/{username}", authed(users.Channel))
	mux.HandleFunc("GET /api/v1/users/watch-history", authed(users.WatchHistory))

	mux.HandleFunc("GET /api/v1/videos", authed(videos.Feed))
	mux.HandleFunc("POST /api/v1/videos", authed(videos.Publish))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", authed(videos.Get))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", authed(videos.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", authed(videos.Delete))
	mux.HandleFunc("PATCH /api/v1/videos/toggle/publish/{videoId}", authed(videos.TogglePublish))

	mux.HandleFunc("GET /api/v1/comments/{videoId}", authed(comments.List))
	mux.HandleFunc("POST /api/v1/comments/{videoId}", authed(comments.Create))
	mux.HandleFunc("PATCH /api/v1/comments/c/{commentId}", authed(comments.Update))
	mux.HandleFunc("DELETE /api/v1/comments/c/{commentId}", authed(comments.Delete))

	mux.HandleFunc("POST /api/v1/likes/toggle/v/{videoId}", authed(likes.ToggleVideo))
	mux.HandleFunc("POST /api/v1/likes/toggle/c/{commentId}", authed(likes.ToggleComment))
	mux.HandleFunc("POST /api/v1/likes/toggle/t/{tweetId}", authed(likes.ToggleTweet))
	mux.HandleFunc("GET /api/v1/likes/videos", authed(likes.LikedVideos))

	mux.HandleFunc("POST /api/v1/playlist", authed(playlists.Create))
	mux.HandleFunc("GET /api/v1/playlist/{playlistId}", authed(playlists.Get))
	mux.HandleFunc("PATCH /api/v1/playlist/{playlistId}", authed(playlists.Update))
	mux.HandleFunc("DELETE /api/v1/playlist/{playlistId}", authed(playlists.Delete))
	mux.HandleFunc("PATCH /api/v1/playlist/add/{videoId}/{playlistId}", authed(playlists.AddVideo))
	mux.HandleFunc("PATCH /api/v1/playlist/remove/{videoId}/{playlistId}", authed(playlists.RemoveVideo))
	mux.HandleFunc("GET /api/v1/playlist/user/{userId}", authed(playlists.ListForUser))

	mux.HandleFunc("POST /api/v1/subscriptions/c/{channelId}", authed(subscriptions.Toggle))
	mux.HandleFunc("GET /api/v1/subscriptions/c/{channelId}", authed(subscriptions.Subscribers))
	mux.HandleFunc("GET /api/v1/subscriptions/u", authed(subscriptions.SubscribedChannels))

	mux.HandleFunc("POST /api/v1/tweets", authed(tweets.Create))
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", viewer(tweets.ListForUser))
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", authed(tweets.Update))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", authed(tweets.Delete))

	mux.HandleFunc("GET /api/v1/dashboard/stats", authed(dashboard.ChannelStats))
	mux.HandleFunc("GET /api/v1/dashboard/videos", authed(dashboard.ChannelVideos))
}
