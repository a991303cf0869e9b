package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/users"
	"github.com/2beens/fitnesstracker/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type identityResolver interface {
	Resolve(ctx context.Context, token string) (*users.User, error)
	ResolveActive(ctx context.Context, token string) (*users.User, error)
}

type AuthMiddlewareHandler struct {
	resolver identityResolver
}

func NewAuthMiddlewareHandler(resolver identityResolver) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		resolver: resolver,
	}
}

// RequireUser lets through any user holding a valid token, active or not.
func (h *AuthMiddlewareHandler) RequireUser() func(next http.Handler) http.Handler {
	return h.check(h.resolver.Resolve)
}

// RequireActiveUser lets through only active users holding a valid token.
func (h *AuthMiddlewareHandler) RequireActiveUser() func(next http.Handler) http.Handler {
	return h.check(h.resolver.ResolveActive)
}

func (h *AuthMiddlewareHandler) check(
	resolve func(ctx context.Context, token string) (*users.User, error),
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			token, ok := BearerToken(r)
			if !ok {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteUnauthorized(w, "Not authenticated")
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			user, err := resolve(ctx, token)
			if err != nil {
				span.SetStatus(codes.Error, "resolve-user")
				switch {
				case errors.Is(err, auth.ErrInvalidCredentials):
					pkg.WriteUnauthorized(w, "Invalid authentication credentials")
				case errors.Is(err, auth.ErrUserNotFound):
					pkg.WriteUnauthorized(w, "User not found")
				case errors.Is(err, auth.ErrInactiveUser):
					pkg.WriteUnauthorized(w, "Inactive user")
				default:
					log.Errorf("[failed auth check] => %s: %s", r.URL.Path, err)
					span.RecordError(err)
					pkg.WriteErrorResponse(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
