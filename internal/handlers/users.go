package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

const maxImageUploadBytes = 8 << 20

// UserHandler implements account, session and channel profile endpoints.
type UserHandler struct {
	Users   UserStore
	Tokens  TokenService
	Media   MediaStore
	Cleaner AssetCleaner
	Limiter RateLimiter
	NowFunc func() time.Time
}

// Register handles POST /api/v1/users/register. The request is multipart:
// account fields plus a required avatar image and an optional cover image.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many registration attempts")
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		logger.Warn("invalid registration form", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	fullName := strings.TrimSpace(r.FormValue("fullName"))
	password := r.FormValue("password")

	var problems []string
	if username == "" {
		problems = append(problems, "username is required")
	}
	if email == "" {
		problems = append(problems, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		problems = append(problems, "email address is invalid")
	}
	if fullName == "" {
		problems = append(problems, "fullName is required")
	}
	if len(password) < 8 {
		problems = append(problems, "password must be at least 8 characters")
	}
	if len(problems) > 0 {
		respondError(ctx, w, http.StatusBadRequest, "invalid registration details", problems...)
		return
	}

	avatarURL, err := h.uploadFormImage(r, "avatar")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "avatar image is required")
		return
	}

	coverURL, err := h.uploadFormImage(r, "coverImage")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		logger.Error("cover image upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store cover image")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	now := h.now()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		Password:      string(hashed),
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "username or email already in use")
			return
		}
		logger.Error("failed to create user", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create account")
		return
	}

	respondData(ctx, w, http.StatusCreated, user, "account created")
}

// Login handles POST /api/v1/users/login. Either username or email may be
// supplied; tokens come back in the body and as httpOnly cookies.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	if (req.Email == "" && req.Username == "") || req.Password == "" {
		respondError(ctx, w, http.StatusBadRequest, "username or email, and password are required")
		return
	}

	var (
		user models.User
		err  error
	)
	if req.Email != "" {
		user, err = h.Users.FindByEmail(ctx, req.Email)
	} else {
		user, err = h.Users.FindByUsername(ctx, req.Username)
	}
	if err != nil {
		logger.Warn("login user lookup failed", "error", err)
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tokens, err := h.issueSession(r, w, user.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondData(ctx, w, http.StatusOK, loginResponse{User: user, Tokens: tokens}, "logged in")
}

// Logout handles POST /api/v1/users/logout: the stored refresh token is
// cleared so outstanding refresh tokens stop working.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	if err := h.Users.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		logging.FromContext(ctx).Error("failed to clear refresh token", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to log out")
		return
	}

	clearAuthCookies(w)
	respondData(ctx, w, http.StatusOK, nil, "logged out")
}

// RefreshToken handles POST /api/v1/users/refresh-token. The incoming token
// must match the one stored for the user; both rotate on success.
func (h UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	token := refreshTokenFromRequest(r)
	if token == "" {
		respondError(ctx, w, http.StatusUnauthorized, "refresh token is required")
		return
	}

	userID, err := h.Tokens.VerifyRefresh(token)
	if err != nil {
		logger.Warn("refresh token rejected", "error", err)
		respondError(ctx, w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("refresh subject not found", "userId", userID, "error", err)
		respondError(ctx, w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	if user.RefreshToken == nil || *user.RefreshToken != token {
		logger.Warn("refresh token mismatch", "userId", userID)
		respondError(ctx, w, http.StatusUnauthorized, "refresh token is no longer valid")
		return
	}

	tokens, err := h.issueSession(r, w, user.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to refresh session")
		return
	}

	respondData(ctx, w, http.StatusOK, tokens, "session refreshed")
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	user, _ := auth.UserFromContext(ctx)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		respondError(ctx, w, http.StatusBadRequest, "oldPassword, newPassword and confirmPassword are required")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondError(ctx, w, http.StatusBadRequest, "newPassword and confirmPassword do not match")
		return
	}
	if req.NewPassword == req.OldPassword {
		respondError(ctx, w, http.StatusBadRequest, "new password must differ from the old one")
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		respondError(ctx, w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash new password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	user.Password = string(hashed)
	user.UpdatedAt = h.now()
	if err := h.Users.Update(ctx, user); err != nil {
		logger.Error("failed to update password", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to change password")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "password changed")
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)
	respondData(ctx, w, http.StatusOK, user, "current user")
}

// UpdateDetails handles PATCH /api/v1/users/update-details. Any subset of
// fullName, username and email may be provided; untouched fields keep their
// current values.
func (h UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	user, _ := auth.UserFromContext(ctx)

	var req updateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.FullName == "" && req.Username == "" && req.Email == "" {
		respondError(ctx, w, http.StatusBadRequest, "at least one of fullName, username or email is required")
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "email address is invalid")
			return
		}
		user.Email = req.Email
	}
	user.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "username or email already in use")
			return
		}
		logger.Error("failed to update account details", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update account details")
		return
	}

	respondData(ctx, w, http.StatusOK, user, "account details updated")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar")
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage")
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	user, _ := auth.UserFromContext(ctx)

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	url, err := h.uploadFormImage(r, field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, fmt.Sprintf("%s file is required", field))
			return
		}
		logger.Error("image upload failed", "field", field, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store image")
		return
	}

	var previous string
	switch field {
	case "avatar":
		previous = user.AvatarURL
		user.AvatarURL = url
	case "coverImage":
		previous = user.CoverImageURL
		user.CoverImageURL = url
	}
	user.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, user); err != nil {
		logger.Error("failed to persist image update", "field", field, "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update image")
		return
	}

	if previous != "" && h.Cleaner != nil {
		h.Cleaner.Enqueue(previous)
	}

	respondData(ctx, w, http.StatusOK, user, fmt.Sprintf("%s updated", field))
}

// Channel handles GET /api/v1/users/c/{username}.
func (h UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(strings.ToLower(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	profile, err := h.Users.ChannelProfile(ctx, username, viewerID(r))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel not found")
			return
		}
		logging.FromContext(ctx).Error("failed to load channel profile", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load channel")
		return
	}

	respondData(ctx, w, http.StatusOK, profile, "channel profile")
}

// WatchHistory handles GET /api/v1/users/watch-history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	history, err := h.Users.WatchHistory(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to load watch history", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load watch history")
		return
	}

	respondData(ctx, w, http.StatusOK, history, "watch history")
}

// issueSession creates a token pair, persists the refresh token and sets the
// auth cookies.
func (h UserHandler) issueSession(r *http.Request, w http.ResponseWriter, userID string) (models.TokenPair, error) {
	ctx := r.Context()

	tokens, err := h.Tokens.Issue(userID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to issue tokens", "error", err, "userId", userID)
		return models.TokenPair{}, err
	}

	if err := h.Users.UpdateRefreshToken(ctx, userID, &tokens.RefreshToken); err != nil {
		logging.FromContext(ctx).Error("failed to store refresh token", "error", err, "userId", userID)
		return models.TokenPair{}, err
	}

	setAuthCookies(w, tokens)
	return tokens, nil
}

func (h UserHandler) uploadFormImage(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	name := fmt.Sprintf("images/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(header.Filename)))
	return h.Media.Upload(r.Context(), name, file, formFileContentType(header))
}

func formFileContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return strings.TrimSpace(req.RefreshToken)
	}
	return ""
}

func setAuthCookies(w http.ResponseWriter, tokens models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		Path:     "/",
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User   models.User      `json:"user"`
	Tokens models.TokenPair `json:"tokens"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type updateDetailsRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
