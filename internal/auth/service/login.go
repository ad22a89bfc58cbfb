package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/terracehq/terrace-auth/internal/auth/domain"
	"github.com/terracehq/terrace-auth/internal/auth/store"
	"github.com/terracehq/terrace-auth/pkg/cryptox"
	"github.com/terracehq/terrace-auth/pkg/slogx"
)

// ErrInvalidCredentials is the single failure for login: unknown email and
// wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyDigest is compared against when the email is unknown, so that both
// failure paths perform the same digest work.
var dummyDigest = cryptox.HashPassword("terrace-auth-dummy-credential")

// LoginService authenticates email/password pairs against the user store.
type LoginService struct {
	Store store.Store
}

// Login resolves the user by email and verifies the password against the
// stored digest. Every failure surfaces as ErrInvalidCredentials; storage
// errors other than not-found pass through untouched.
func (s *LoginService) Login(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		// Burn the same digest work as a real attempt.
		_ = cryptox.VerifyPassword(password, dummyDigest)
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyDigest)
			log.Warn("login attempt for unknown email")
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordDigest); err != nil {
		log.Warn("login attempt with wrong password",
			slog.String("user_id", user.ID),
		)
		return domain.User{}, ErrInvalidCredentials
	}

	log.Debug("login succeeded", slog.String("user_id", user.ID))
	return user, nil
}
