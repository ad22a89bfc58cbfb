package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/domain"
	"github.com/terracehq/terrace-auth/internal/auth/store"
	"github.com/terracehq/terrace-auth/pkg/cryptox"
	"github.com/terracehq/terrace-auth/pkg/idx"
	"github.com/terracehq/terrace-auth/pkg/mailx"
	"github.com/terracehq/terrace-auth/pkg/slogx"
)

var (
	ErrResetNotFound = errors.New("password reset not found")
	ErrResetExpired  = errors.New("password reset expired")
	ErrResetConsumed = errors.New("password reset already used")
)

// DefaultResetTTL is how long an issued reset code stays redeemable.
const DefaultResetTTL = 15 * time.Minute

// ResetService runs the password reset workflow: issuing single-use
// capability codes, validating them for the landing page, and consuming
// them exactly once to change a password.
type ResetService struct {
	Store  store.Store
	Mailer mailx.Sender

	// BaseURL is the public prefix the emailed reset link is built on,
	// e.g. "https://example.com/password-reset". Empty means links are
	// not rendered and the mail carries only the code.
	BaseURL string

	// TTL of issued codes. Zero means DefaultResetTTL.
	TTL time.Duration

	// Now is the clock for expiry decisions. Nil means time.Now.
	Now func() time.Time
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ResetService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultResetTTL
}

// Issue creates a fresh reset record for the user and returns the raw
// capability code. The code itself is never stored; only its fingerprint is.
// This is the sole place the raw code exists server-side.
func (s *ResetService) Issue(ctx context.Context, userID string) (string, domain.PasswordReset, error) {
	log := slogx.FromContext(ctx)

	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate reset code", slog.Any("error", err))
		return "", domain.PasswordReset{}, err
	}

	now := s.now()
	pr := domain.PasswordReset{
		ID:        idx.New().String(),
		UserID:    userID,
		CodeHash:  cryptox.FingerprintToken(code),
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}

	if err := s.Store.PasswordResets().CreatePasswordReset(ctx, pr); err != nil {
		log.Error("failed to store password reset",
			slog.String("reset_id", pr.ID),
			slog.Any("error", err),
		)
		return "", domain.PasswordReset{}, err
	}

	log.Debug("password reset issued",
		slog.String("reset_id", pr.ID),
		slog.String("user_id", userID),
		slog.Time("expires_at", pr.ExpiresAt),
	)

	return code, pr, nil
}

// Lookup resolves a raw code to its pending reset record. Unknown, consumed,
// and expired codes all read as ErrResetNotFound: the landing page has no
// business telling an unauthenticated caller why a code is dead.
func (s *ResetService) Lookup(ctx context.Context, code string) (domain.PasswordReset, error) {
	if code == "" {
		return domain.PasswordReset{}, ErrResetNotFound
	}

	pr, err := s.Store.PasswordResets().GetPasswordResetByCodeHash(ctx, cryptox.FingerprintToken(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PasswordReset{}, ErrResetNotFound
		}
		return domain.PasswordReset{}, err
	}

	if pr.Consumed() || pr.Expired(s.now()) {
		return domain.PasswordReset{}, ErrResetNotFound
	}

	return pr, nil
}

// Consume redeems a code exactly once and rewrites the user's password
// digest within the same transaction. Failures are distinguishable here
// (unlike Lookup) because the caller has proven possession of the code:
//   - ErrResetNotFound: no record for this code
//   - ErrResetExpired:  record exists, expiry passed, never consumed
//   - ErrResetConsumed: record was already redeemed
//
// Concurrent consumes of the same code race on a conditional update in the
// store; exactly one wins, the rest re-read and report ErrResetConsumed.
// The update runs before any read in the transaction: under SQLite WAL a
// transaction that reads first pins a snapshot, and a losing writer would
// then fail the lock upgrade with SQLITE_BUSY instead of queueing behind
// the winner.
func (s *ResetService) Consume(ctx context.Context, code string, newPassword string) error {
	log := slogx.FromContext(ctx)

	if code == "" {
		return ErrResetNotFound
	}
	if newPassword == "" {
		return errors.New("new password must not be empty")
	}

	hash := cryptox.FingerprintToken(code)
	now := s.now()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Try the conditional consume first. This is the write that
		//    racing transactions serialize on.
		if err := tx.PasswordResets().ConsumePasswordReset(ctx, hash, now); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			// 2. The conditional update lost. Re-read to say why.
			pr, rerr := tx.PasswordResets().GetPasswordResetByCodeHash(ctx, hash)
			if rerr != nil {
				if errors.Is(rerr, store.ErrNotFound) {
					return ErrResetNotFound
				}
				return rerr
			}
			if pr.Consumed() {
				return ErrResetConsumed
			}
			return ErrResetExpired
		}

		// 3. We won; the record now reads as consumed by us.
		pr, err := tx.PasswordResets().GetPasswordResetByCodeHash(ctx, hash)
		if err != nil {
			return err
		}

		digest := cryptox.HashPassword(newPassword)
		if err := tx.Users().UpdatePasswordDigest(ctx, pr.UserID, digest); err != nil {
			return fmt.Errorf("update password digest: %w", err)
		}

		log.Info("password reset consumed",
			slog.String("reset_id", pr.ID),
			slog.String("user_id", pr.UserID),
		)
		return nil
	})
	if err != nil {
		log.Warn("password reset consume failed", slog.Any("error", err))
		return err
	}

	return nil
}

// Request is the "forgot password" boundary. An unknown email is a silent
// success so the endpoint cannot be used to enumerate accounts; a known one
// gets a fresh code delivered by mail.
func (s *ResetService) Request(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		log.Error("failed to fetch user for reset request", slog.Any("error", err))
		return err
	}

	code, pr, err := s.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := s.Mailer.Send(user.Email, "Reset your password", s.renderMail(user, code, pr)); err != nil {
		log.Error("failed to deliver reset mail",
			slog.String("reset_id", pr.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("password reset mail queued",
		slog.String("reset_id", pr.ID),
		slog.String("user_id", user.ID),
	)
	return nil
}

func (s *ResetService) renderMail(user domain.User, code string, pr domain.PasswordReset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", user.FirstName)
	b.WriteString("<p>A password reset was requested for your account.</p>")
	if s.BaseURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s/%s">Reset your password</a></p>`,
			strings.TrimRight(s.BaseURL, "/"), code)
	} else {
		fmt.Fprintf(&b, "<p>Your reset code: <code>%s</code></p>", code)
	}
	fmt.Fprintf(&b, "<p>The link expires at %s. If you did not request this, ignore this mail.</p>",
		pr.ExpiresAt.Format(time.RFC1123))
	return b.String()
}
