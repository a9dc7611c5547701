// Package credential issues and inspects the bearer tokens that gate
// protected routes. Tokens carry their own expiry and are registered in Redis
// so they can be revoked before they lapse.
package credential

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Errors returned by the store.
var (
	ErrMalformedToken = errors.New("credential: malformed token")
	ErrBadSignature   = errors.New("credential: signature mismatch")
)

// Token is a decoded bearer token.
type Token struct {
	ID        string
	Subject   string
	ExpiresAt time.Time
	Raw       string
}

// Store issues tokens and answers the validity facts route guards need.
type Store struct {
	client     *redis.Client
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	logger     *slog.Logger
	now        func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for Redis failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSecureCookie marks the token cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Store) { s.secure = secure }
}

// NewStore constructs a Store.
func NewStore(client *redis.Client, cookieName, secret string, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		client:     client,
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CookieName returns the cookie carrying the token.
func (s *Store) CookieName() string {
	return s.cookieName
}

// TTL returns the lifetime of issued tokens.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Issue creates and registers a token for subject.
func (s *Store) Issue(ctx context.Context, subject string) (Token, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Token{}, err
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	payload := id.String() + "|" + strconv.FormatInt(expiresAt.Unix(), 10)
	raw := encode(payload) + "." + encode(string(s.sign(payload)))
	if err := s.client.Set(ctx, redisKey(id.String()), subject, s.ttl).Err(); err != nil {
		return Token{}, err
	}
	return Token{ID: id.String(), Subject: subject, ExpiresAt: expiresAt, Raw: raw}, nil
}

// Parse verifies the signature of raw and decodes its claims. It does not
// consult Redis.
func (s *Store) Parse(raw string) (Token, error) {
	body, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return Token{}, ErrMalformedToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return Token{}, ErrMalformedToken
	}
	gotSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return Token{}, ErrMalformedToken
	}
	if !hmac.Equal(gotSig, s.sign(string(payload))) {
		return Token{}, ErrBadSignature
	}
	id, exp, ok := strings.Cut(string(payload), "|")
	if !ok {
		return Token{}, ErrMalformedToken
	}
	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return Token{}, ErrMalformedToken
	}
	return Token{ID: id, ExpiresAt: time.Unix(unix, 0), Raw: raw}, nil
}

// HasToken extracts the raw token from the Authorization header or cookie.
func (s *Store) HasToken(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), true
		}
	}
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// IsExpired reports whether raw can no longer be honoured: undecodable,
// tampered, past its expiry, revoked, or unverifiable because Redis failed.
func (s *Store) IsExpired(ctx context.Context, raw string) bool {
	tok, err := s.Parse(raw)
	if err != nil {
		return true
	}
	if !s.now().Before(tok.ExpiresAt) {
		return true
	}
	n, err := s.client.Exists(ctx, redisKey(tok.ID)).Result()
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("credential lookup", slog.Any("error", err))
		}
		return true
	}
	return n == 0
}

// Subject returns the subject registered for raw.
func (s *Store) Subject(ctx context.Context, raw string) (string, error) {
	tok, err := s.Parse(raw)
	if err != nil {
		return "", err
	}
	subject, err := s.client.Get(ctx, redisKey(tok.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMalformedToken
	}
	return subject, err
}

// Revoke removes the Redis registration of raw.
func (s *Store) Revoke(ctx context.Context, raw string) error {
	tok, err := s.Parse(raw)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, redisKey(tok.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// SetCookie writes tok as an HttpOnly cookie.
func (s *Store) SetCookie(w http.ResponseWriter, tok Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    tok.Raw,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  tok.ExpiresAt,
	})
}

// ClearCookie expires the token cookie.
func (s *Store) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Store) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func encode(v string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(v))
}

func redisKey(id string) string {
	return "token:" + id
}
