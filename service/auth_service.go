package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/ports"
)

// AuthService orchestrates signup, login, logout, and token refresh
type AuthService struct {
	users     ports.UserStore
	registry  ports.SessionRegistry
	tokenizer ports.Tokenizer
	hasher    ports.PasswordHasher
	eventPub  ports.EventPublisher
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service. eventPub may be nil,
// in which case no lifecycle events are published.
func NewAuthService(
	users ports.UserStore,
	registry ports.SessionRegistry,
	tokenizer ports.Tokenizer,
	hasher ports.PasswordHasher,
	eventPub ports.EventPublisher,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:     users,
		registry:  registry,
		tokenizer: tokenizer,
		hasher:    hasher,
		eventPub:  eventPub,
		logger:    logger,
	}
}

// Signup registers a new user and starts a session for it
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*core.User, core.TokenPair, error) {
	// Fast path; the store's unique email index is the real guard against
	// concurrent signups
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, core.TokenPair{}, core.ErrEmailTaken
	}
	if !errors.Is(err, core.ErrUserNotFound) {
		return nil, core.TokenPair{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, core.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         core.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			return nil, core.TokenPair{}, core.ErrEmailTaken
		}
		return nil, core.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, core.TokenPair{}, err
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishSignup(ctx, user.ID); err != nil {
			// The account exists and the session is live; the event is best effort
			s.logger.Warn("failed to publish signup event", "user_id", user.ID, "error", err)
		}
	}

	return user, pair, nil
}

// Login verifies credentials and starts a session, overwriting any prior
// session for the same user
func (s *AuthService) Login(ctx context.Context, email, password string) (*core.User, core.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.TokenPair{}, core.ErrInvalidCredentials
		}
		return nil, core.TokenPair{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			return nil, core.TokenPair{}, core.ErrInvalidCredentials
		}
		return nil, core.TokenPair{}, fmt.Errorf("failed to verify password: %w", err)
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, core.TokenPair{}, err
	}

	return user, pair, nil
}

// Logout revokes the session bound to refreshToken. An empty token is not an
// error: cookies are cleared by the transport either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	userID, err := s.tokenizer.VerifyRefresh(refreshToken)
	if err != nil {
		return err
	}

	// Only revoke if the presented token is still the active one, so a stale
	// logout cannot kill a session started by a later login
	if err := s.registry.CompareAndRevoke(ctx, userID, refreshToken); err != nil {
		if !errors.Is(err, core.ErrSessionNotFound) {
			return fmt.Errorf("failed to revoke session: %w", err)
		}
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogout(ctx, userID); err != nil {
			s.logger.Warn("failed to publish logout event", "user_id", userID, "error", err)
		}
	}

	return nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", core.ErrNoRefreshToken
	}

	userID, err := s.tokenizer.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	stored, err := s.registry.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return "", core.ErrSessionRevoked
		}
		return "", fmt.Errorf("failed to look up session: %w", err)
	}

	// Exact equality enforces the single-active-token invariant and detects
	// reuse of a superseded token
	if stored != refreshToken {
		return "", core.ErrSessionRevoked
	}

	access, _, err := s.tokenizer.IssueTokens(userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	return access, nil
}

// ValidateAccess checks an access token and returns the user it belongs to
func (s *AuthService) ValidateAccess(ctx context.Context, accessToken string) (*core.User, error) {
	userID, err := s.tokenizer.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// GetUser returns the user with the given identifier
func (s *AuthService) GetUser(ctx context.Context, id string) (*core.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) startSession(ctx context.Context, userID string) (core.TokenPair, error) {
	access, refresh, err := s.tokenizer.IssueTokens(userID)
	if err != nil {
		return core.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if err := s.registry.Store(ctx, userID, refresh); err != nil {
		return core.TokenPair{}, fmt.Errorf("failed to store session: %w", err)
	}

	return core.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
