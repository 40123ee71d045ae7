package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/ports"
)

const AudienceAccess = "session:access"
const AudienceRefresh = "session:refresh"

// DefaultAccessTTL is the default lifetime of access tokens
const DefaultAccessTTL = 15 * time.Minute

// DefaultRefreshTTL is the default lifetime of refresh tokens
const DefaultRefreshTTL = 7 * 24 * time.Hour

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs.
// Access and refresh tokens are signed with distinct secrets so that
// compromise of one does not compromise the other.
type JWTTokenizer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTTokenizer creates a new JWT tokenizer with the given signing secrets
func NewJWTTokenizer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) ports.Tokenizer {
	if accessTTL == 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &JWTTokenizer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueTokens creates a signed access/refresh token pair bound to userID
func (j *JWTTokenizer) IssueTokens(userID string) (string, string, error) {
	now := time.Now()

	access, err := j.sign(userID, AudienceAccess, j.accessSecret, now, now.Add(j.accessTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := j.sign(userID, AudienceRefresh, j.refreshSecret, now, now.Add(j.refreshTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return access, refresh, nil
}

// VerifyAccess checks an access token and returns the bound userID
func (j *JWTTokenizer) VerifyAccess(token string) (string, error) {
	return j.verify(token, AudienceAccess, j.accessSecret)
}

// VerifyRefresh checks a refresh token and returns the bound userID
func (j *JWTTokenizer) VerifyRefresh(token string) (string, error) {
	return j.verify(token, AudienceRefresh, j.refreshSecret)
}

func (j *JWTTokenizer) sign(userID, audience string, secret []byte, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.New().String(),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

func (j *JWTTokenizer) verify(tokenStr, audience string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithAudience(audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", core.ErrTokenExpired
		}
		return "", core.ErrInvalidToken
	}

	if !token.Valid {
		return "", core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", core.ErrInvalidToken
	}

	return claims.Subject, nil
}
