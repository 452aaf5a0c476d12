package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/productapi/app/models"
	"github.com/shashiranjanraj/productapi/app/repositories"
	"github.com/shashiranjanraj/productapi/app/requests"
	"github.com/shashiranjanraj/productapi/pkg/apperr"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	"github.com/shashiranjanraj/productapi/pkg/logger"
	"github.com/shashiranjanraj/productapi/pkg/metrics"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "Invalid email or password")

// TokenIssuer signs bearer tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type AuthService struct {
	users    repositories.UserRepository
	tokens   TokenIssuer
	denylist auth.Denylist
	now      func() time.Time
}

// NewAuthService wires the user store and token issuer. denylist may be nil,
// in which case Logout is unsupported.
func NewAuthService(users repositories.UserRepository, tokens TokenIssuer, denylist auth.Denylist) *AuthService {
	return &AuthService{users: users, tokens: tokens, denylist: denylist, now: time.Now}
}

// Register stores a new user with a lower-cased email and a bcrypt hash of
// the password.
func (s *AuthService) Register(ctx context.Context, req requests.RegisterUser) (models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.User{}, apperr.NewValidation("The password must not exceed 72 bytes.")
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.Internal, "could not hash password", err)
	}

	user := models.User{
		Email:    NormalizeEmail(req.Email),
		Password: hash,
		Username: strings.TrimSpace(req.Username),
		JoinedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID.Hex())
	return user, nil
}

// Login checks the credentials and issues a token for the user's ID.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if apperr.Is(err, apperr.NotFound) {
		metrics.RecordAuthFailure("credentials")
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		metrics.RecordAuthFailure("credentials")
		logger.WithCtx(ctx).Warn("login rejected", "user_id", user.ID.Hex())
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "could not issue token", err)
	}
	return token, nil
}

// Profile returns the user identified by a token subject.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// SupportsLogout reports whether tokens can be revoked.
func (s *AuthService) SupportsLogout() bool { return s.denylist != nil }

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.denylist == nil {
		return apperr.New(apperr.Internal, "token revocation is not configured")
	}
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return apperr.ErrUnauthorized
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperr.NewStore(err)
	}

	logger.WithCtx(ctx).Info("token revoked", "user_id", claims.Subject)
	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
