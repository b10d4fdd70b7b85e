package handlers

import (
	"context"
	"io"
	"sync"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// inMemoryUserStore backs handler tests without a database.
type inMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[string]models.User)}
}

func (s *inMemoryUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *inMemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) Update(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) UpdateRefreshToken(_ context.Context, userID string, token *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[userID] = user
	return nil
}

func (s *inMemoryUserStore) ChannelProfile(_ context.Context, username, _ string) (models.ChannelProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return models.ChannelProfile{ID: user.ID, Username: user.Username, FullName: user.FullName}, nil
		}
	}
	return models.ChannelProfile{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) RecordWatch(context.Context, string, string) error { return nil }

func (s *inMemoryUserStore) WatchHistory(context.Context, string) ([]models.VideoWithOwner, error) {
	return nil, nil
}

// fakeMediaStore records uploads and hands back deterministic URLs.
type fakeMediaStore struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (f *fakeMediaStore) Upload(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, name)
	return "https://cdn.test/" + name, nil
}

// fakeCleaner records enqueued asset URLs.
type fakeCleaner struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeCleaner) Enqueue(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
}

// fakeVideoStore implements VideoStore with overridable functions.
type fakeVideoStore struct {
	CreateFn         func(ctx context.Context, video models.Video) error
	FindByIDFn       func(ctx context.Context, id string) (models.Video, error)
	DetailsFn        func(ctx context.Context, videoID, viewerID string) (models.VideoDetails, error)
	FeedFn           func(ctx context.Context, filter repositories.VideoFeedFilter) ([]models.VideoWithOwner, int64, error)
	UpdateFn         func(ctx context.Context, video models.Video) error
	DeleteFn         func(ctx context.Context, id string) error
	IncrementViewsFn func(ctx context.Context, id string) error
	ChannelVideosFn  func(ctx context.Context, ownerID string) ([]models.ChannelVideo, error)
}

func (f *fakeVideoStore) Create(ctx context.Context, video models.Video) error {
	return f.CreateFn(ctx, video)
}

func (f *fakeVideoStore) FindByID(ctx context.Context, id string) (models.Video, error) {
	return f.FindByIDFn(ctx, id)
}

func (f *fakeVideoStore) Details(ctx context.Context, videoID, viewerID string) (models.VideoDetails, error) {
	return f.DetailsFn(ctx, videoID, viewerID)
}

func (f *fakeVideoStore) Feed(ctx context.Context, filter repositories.VideoFeedFilter) ([]models.VideoWithOwner, int64, error) {
	return f.FeedFn(ctx, filter)
}

func (f *fakeVideoStore) Update(ctx context.Context, video models.Video) error {
	return f.UpdateFn(ctx, video)
}

func (f *fakeVideoStore) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func (f *fakeVideoStore) IncrementViews(ctx context.Context, id string) error {
	return f.IncrementViewsFn(ctx, id)
}

func (f *fakeVideoStore) ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error) {
	return f.ChannelVideosFn(ctx, ownerID)
}

// fakeStatsProvider records invalidations.
type fakeStatsProvider struct {
	mu          sync.Mutex
	stats       models.ChannelStats
	err         error
	invalidated []string
}

func (f *fakeStatsProvider) ChannelStats(context.Context, string) (models.ChannelStats, error) {
	return f.stats, f.err
}

func (f *fakeStatsProvider) Invalidate(channelID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, channelID)
}

// testEnvelope unpacks the response envelope for assertions.
type testEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}
