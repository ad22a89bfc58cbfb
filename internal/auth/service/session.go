package service

import (
	"net/http"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/domain"
	"github.com/terracehq/terrace-auth/pkg/jwtx"
)

// SessionService signs, verifies, and cookie-wraps session tokens. It is the
// only component that knows both the token codec and the cookie contract, so
// handlers deal purely in domain.Session values and ready-made cookies.
type SessionService struct {
	Codec      *jwtx.HS256
	CookieName string
	TTL        time.Duration

	// Now is the clock used for claim timestamps. Nil means time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Ready reports whether the service has a codec and can sign tokens.
func (s *SessionService) Ready() bool { return s.Codec != nil }

// Sign produces a signed token carrying the session's claims, expiring
// TTL from now.
func (s *SessionService) Sign(session domain.Session) (string, error) {
	claims := jwtx.NewSessionClaims(
		session.ID,
		session.Email,
		session.FirstName,
		session.LastName,
		session.Color,
		session.Admin,
		s.TTL,
		s.Codec.Issuer(),
		s.now(),
	)
	return s.Codec.Sign(claims)
}

// Verify checks a token and returns the session it carries. Failures are
// jwtx sentinels: ErrMalformed, ErrInvalidSig, ErrExpired.
func (s *SessionService) Verify(token string) (domain.Session, error) {
	claims, err := s.Codec.Verify(token)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Color:     claims.Color,
		Admin:     claims.Admin,
	}, nil
}

// Resolve extracts and verifies the session cookie from a raw Cookie header.
// Any failure at all (no header, no cookie by that name, bad token) reads as
// "no session"; callers never see an error here because an anonymous request
// is not an exceptional one.
func (s *SessionService) Resolve(rawCookieHeader string) (domain.Session, bool) {
	if rawCookieHeader == "" {
		return domain.Session{}, false
	}

	cookies, err := http.ParseCookie(rawCookieHeader)
	if err != nil {
		return domain.Session{}, false
	}

	for _, c := range cookies {
		if c.Name != s.CookieName {
			continue
		}
		session, err := s.Verify(c.Value)
		if err != nil {
			return domain.Session{}, false
		}
		return session, true
	}

	return domain.Session{}, false
}

// Authenticate signs the session and wraps the token in the session cookie.
// The cookie is returned as data; writing it to a response is the caller's
// job. No Max-Age is set: the cookie lives for the browser session while the
// token carries the real expiry.
func (s *SessionService) Authenticate(session domain.Session) (string, *http.Cookie, error) {
	token, err := s.Sign(session)
	if err != nil {
		return "", nil, err
	}

	return token, &http.Cookie{
		Name:     s.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Unauthenticate returns a deletion cookie for the session. Safe to send
// whether or not a session cookie was present.
func (s *SessionService) Unauthenticate() *http.Cookie {
	return &http.Cookie{
		Name:     s.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
