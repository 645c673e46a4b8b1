// Package auth resolves the owner of a request. Tokens are issued by the
// hosted auth provider; this package only verifies them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/log"
)

// TokenCookie carries the access token for browser requests.
const TokenCookie = "access_token"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying ownerID.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the owner stored by the middleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerKey{}).(string)
	return id, ok && id != ""
}

// Authenticator verifies HS256 tokens and uses the subject as owner id.
// Without a secret every request belongs to the default owner.
type Authenticator struct {
	secret       []byte
	defaultOwner string
	logger       *log.Logger
	now          func() time.Time
}

func New(secret, defaultOwner string, logger *log.Logger) *Authenticator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Authenticator{
		secret:       []byte(secret),
		defaultOwner: defaultOwner,
		logger:       logger.WithComponent(log.ComponentAuth),
		now:          time.Now,
	}
}

// Enabled reports whether tokens are verified.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// Owner resolves the owner id for r.
func (a *Authenticator) Owner(r *http.Request) (string, error) {
	if !a.Enabled() {
		if a.defaultOwner == "" {
			return "", ErrMissingToken
		}
		return a.defaultOwner, nil
	}

	raw := bearerToken(r)
	if raw == "" {
		return "", ErrMissingToken
	}
	return a.Verify(raw)
}

// Verify checks signature and expiry and returns the subject.
func (a *Authenticator) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// Middleware rejects requests without a resolvable owner. onError writes the
// failure response; nil means a plain 401.
func (a *Authenticator) Middleware(onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, err := a.Owner(r)
			if err != nil {
				a.logger.WarnContext(r.Context(), "Request rejected",
					log.FieldPath, r.URL.Path,
					log.FieldError, err)
				if onError != nil {
					onError(w, r, err)
				} else {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
				}
				return
			}
			ctx := WithOwner(r.Context(), owner)
			ctx = log.NewContext(ctx, log.FromContext(ctx).With(log.FieldOwner, owner))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
