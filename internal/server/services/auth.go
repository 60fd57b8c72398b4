// Package services contains server-side business logic. AuthService owns the
// session lifecycle: registration, login, token refresh and the lookups the
// HTTP layer needs to authorize requests.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/auth"
	"github.com/dmitrijs2005/backoffice/internal/server/config"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/users"
	"github.com/google/uuid"
)

// PasswordHasher turns plain passwords into stored credentials and checks
// them. cryptox.Argon2Hasher satisfies it.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, stored string) bool
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is what a successful login hands back to the transport.
type LoginResult struct {
	User   *models.UserInfo
	Tokens *TokenPair
}

type AuthService struct {
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	access      auth.SignOptions
	refresh     auth.SignOptions
	log         logging.Logger

	// dummyCredential is compared against on unknown emails so both login
	// failures cost one password derivation.
	dummyCredential string
}

func NewAuthService(m repomanager.RepositoryManager, hasher PasswordHasher, cfg *config.Config, log logging.Logger) *AuthService {
	s := &AuthService{
		repomanager: m,
		hasher:      hasher,
		access: auth.SignOptions{
			Secret:    []byte(cfg.AccessTokenSecret),
			ExpiresIn: cfg.AccessTokenExpiresIn,
			Audience:  common.TokenAudience,
		},
		refresh: auth.SignOptions{
			Secret:    []byte(cfg.RefreshTokenSecret),
			ExpiresIn: cfg.RefreshTokenExpiresIn,
			Audience:  common.TokenAudience,
		},
		log: log.With("component", "auth"),
	}
	if dummy, err := hasher.Hash(uuid.NewString()); err == nil {
		s.dummyCredential = dummy
	}
	return s
}

// Register creates a SELLER account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.UserInfo, error) {
	return s.CreateUser(ctx, name, email, password, models.RoleSeller)
}

// CreateUser creates an account with an explicit role. The email is stored
// trimmed and lower-cased; a taken email yields common.ErrDuplicateEmail.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role models.Role) (*models.UserInfo, error) {
	email = normalizeEmail(email)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrInvalidInput, role)
	}

	// an existing email is rejected before paying for a hash; the unique
	// index still settles concurrent inserts below
	if err := s.ensureEmailFree(ctx, s.repomanager.Users(), email); err != nil {
		s.logRegisterFailure(ctx, err)
		return nil, err
	}

	credential, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: credential,
		Role:     role,
	}

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if err := s.ensureEmailFree(ctx, repo, email); err != nil {
			return err
		}

		if err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrDuplicateEmail
			}
			return fmt.Errorf("%w: create user: %v", common.ErrorInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logRegisterFailure(ctx, err)
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user.Info(), nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, repo users.Repository, email string) error {
	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}
	return nil
}

func (s *AuthService) logRegisterFailure(ctx context.Context, err error) {
	if errors.Is(err, common.ErrDuplicateEmail) {
		s.log.Info(ctx, "registration rejected, email taken")
		return
	}
	s.log.Error(ctx, "registration failed", "error", err)
}

// Login checks the credentials and issues a token pair. Unknown emails and
// wrong passwords both yield common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.repomanager.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Compare(password, s.dummyCredential)
			s.log.Info(ctx, "login failed")
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "login lookup failed", "error", err)
		return nil, fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Compare(password, user.Password) {
		s.log.Info(ctx, "login failed")
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issue(user.ID, user.Role)
	if err != nil {
		s.log.Error(ctx, "token issue failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{User: user.Info(), Tokens: pair}, nil
}

// Revalidate exchanges a refresh token for a fresh pair. The previous
// refresh token stays valid until it expires.
func (s *AuthService) Revalidate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	payload, err := auth.VerifyRefreshToken(refreshToken, s.refresh.Verify())
	if err != nil {
		s.log.Info(ctx, "refresh rejected", "reason", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	info, err := s.CurrentUser(ctx, payload.ID)
	if err != nil {
		return nil, err
	}

	pair, err := s.issue(info.ID, info.Role)
	if err != nil {
		s.log.Error(ctx, "token issue failed", "user_id", info.ID, "error", err)
		return nil, err
	}

	s.log.Debug(ctx, "session refreshed", "user_id", info.ID)
	return pair, nil
}

// Authenticate verifies an access token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.AccessTokenPayload, error) {
	payload, err := auth.VerifyAccessToken(accessToken, s.access.Verify())
	if err != nil {
		s.log.Debug(ctx, "access token rejected", "reason", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}
	return &payload, nil
}

// CurrentUser returns the public summary of the user with the given id.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*models.UserInfo, error) {
	info, err := s.repomanager.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Info(ctx, "user not found", "user_id", id)
			return nil, common.ErrUserNotFound
		}
		s.log.Error(ctx, "user lookup failed", "user_id", id, "error", err)
		return nil, fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}
	return info, nil
}

func (s *AuthService) issue(userID string, role models.Role) (*TokenPair, error) {
	access, err := auth.SignAccessToken(auth.AccessTokenPayload{ID: userID, Role: role}, s.access)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	refresh, err := auth.SignRefreshToken(auth.RefreshTokenPayload{ID: userID}, s.refresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
