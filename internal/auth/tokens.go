package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
)

var (
	// ErrInvalidToken indicates the token failed signature, shape or type checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token was valid but is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the JWT payload carried by both token kinds. TokenType keeps an
// access token from being replayed as a refresh token and vice versa.
type Claims struct {
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256-signed access and refresh tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	// NowFunc overrides the time source in tests.
	NowFunc func() time.Time
}

// NewTokenManager constructs a TokenManager with the provided secrets and TTLs.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessSecret == "" || refreshSecret == "" {
		panic("auth: token secrets must not be empty")
	}
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue creates a new access/refresh token pair for the provided user.
func (m *TokenManager) Issue(userID string) (models.TokenPair, error) {
	if userID == "" {
		return models.TokenPair{}, errors.New("user id must be provided")
	}

	now := m.now()

	access, accessExp, err := m.sign(userID, tokenTypeAccess, m.accessSecret, now, m.accessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, refreshExp, err := m.sign(userID, tokenTypeRefresh, m.refreshSecret, now, m.refreshTTL)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess validates an access token and returns its subject user ID.
func (m *TokenManager) VerifyAccess(token string) (string, error) {
	return m.verify(token, tokenTypeAccess, m.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its subject user ID.
func (m *TokenManager) VerifyRefresh(token string) (string, error) {
	return m.verify(token, tokenTypeRefresh, m.refreshSecret)
}

func (m *TokenManager) sign(userID, tokenType string, secret []byte, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)

	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (m *TokenManager) verify(token, wantType string, secret []byte) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if !parsed.Valid || claims.TokenType != wantType || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func (m *TokenManager) now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return time.Now().UTC()
}
