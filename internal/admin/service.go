package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/londonshop-backend/pkg/auth"
	"github.com/angelmondragon/londonshop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service gates the admin dashboard behind the shared admin password.
type Service interface {
	Login(ctx context.Context, password string) (*LoginResult, error)
	Verify(ctx context.Context, token string) (*pkgAuth.AdminClaims, error)
	Logout(ctx context.Context, token string) error
}

// LoginResult carries the signed session token placed in the admin cookie.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

type sessionRegistry interface {
	Register(ctx context.Context, tokenID string, ttl time.Duration) error
	Revoke(ctx context.Context, tokenID string) error
	HasSession(ctx context.Context, tokenID string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an admin service.
type ServiceParams struct {
	Config   config.AdminConfig
	Sessions sessionRegistry
	Logger   *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	cfg      config.AdminConfig
	sessions sessionRegistry
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	if strings.TrimSpace(params.Config.Password) == "" && strings.TrimSpace(params.Config.PasswordHash) == "" {
		return nil, fmt.Errorf("admin password or password hash is required")
	}
	s := &service{
		cfg:      params.Config,
		sessions: params.Sessions,
		logg:     params.Logger,
		now:      params.Now,
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *service) Login(ctx context.Context, password string) (*LoginResult, error) {
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	ok, err := s.passwordMatches(password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		s.logg.Warn(ctx, "admin login rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, claims, err := pkgAuth.MintAdminToken(s.cfg, s.now(), "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Register(ctx, claims.ID, s.cfg.SessionTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store admin session")
	}

	s.logg.Info(s.logg.WithAdmin(ctx, claims.ID), "admin logged in")
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *service) passwordMatches(password string) (bool, error) {
	if hash := strings.TrimSpace(s.cfg.PasswordHash); hash != "" {
		return security.VerifyPassword(password, hash)
	}
	return security.EqualSecret(password, s.cfg.Password), nil
}

// Verify accepts a token only while its signature, expiry and server-side
// session record are all valid.
func (s *service) Verify(ctx context.Context, token string) (*pkgAuth.AdminClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required")
	}
	claims, err := pkgAuth.ParseAdminToken(s.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid admin session")
	}
	live, err := s.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin session")
	}
	if !live {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session revoked")
	}
	return claims, nil
}

// Logout revokes the session behind token. Unparseable or expired tokens
// have nothing to revoke and are not an error.
func (s *service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims, err := pkgAuth.ParseAdminToken(s.cfg, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke admin session")
	}
	s.logg.Info(s.logg.WithAdmin(ctx, claims.ID), "admin logged out")
	return nil
}
