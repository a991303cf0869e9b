package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/users"
)

var (
	ErrInvalidCredentials = errors.New("invalid authentication credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInactiveUser       = errors.New("inactive user")
)

//go:generate mockgen -source=$GOFILE -destination=identity_mocks_test.go -package=auth_test

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type userFinder interface {
	GetByUsername(ctx context.Context, username string) (*users.User, error)
}

// IdentityResolver maps a bearer token to the stored user it was issued for.
type IdentityResolver struct {
	tokens tokenVerifier
	users  userFinder
}

func NewIdentityResolver(tokens tokenVerifier, users userFinder) *IdentityResolver {
	return &IdentityResolver{
		tokens: tokens,
		users:  users,
	}
}

// Resolve accepts inactive users; see ResolveActive.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (_ *users.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.identity.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := r.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", subject, err)
	}

	return user, nil
}

func (r *IdentityResolver) ResolveActive(ctx context.Context, token string) (*users.User, error) {
	user, err := r.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrInactiveUser
	}
	return user, nil
}
