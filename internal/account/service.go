package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/users"
	"github.com/2beens/fitnesstracker/pkg"

	"go.opentelemetry.io/otel/attribute"
)

const TokenTypeBearer = "bearer"

var (
	ErrBadCredentials   = errors.New("incorrect username or password")
	ErrWrongOldPassword = errors.New("incorrect old password")
)

type userStore interface {
	Add(ctx context.Context, user users.User) (*users.User, error)
	GetByUsername(ctx context.Context, username string) (*users.User, error)
	UpdatePassword(ctx context.Context, username, hashedPassword string) error
}

type tokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service struct {
	users  userStore
	tokens tokenIssuer

	hashPassword  func(password string) (string, error)
	checkPassword func(password, hash string) bool

	dummyHashOnce sync.Once
	dummyHash     string
}

func NewService(users userStore, tokens tokenIssuer) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		hashPassword:  pkg.HashPassword,
		checkPassword: pkg.CheckPasswordHash,
	}
}

// Register validates and stores a new active user.
func (s *Service) Register(ctx context.Context, in users.NewUser) (_ *users.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Add(ctx, users.User{
		Username:       in.Username,
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: hash,
	})
}

// Login checks the credentials and issues a token with the default TTL.
// An unknown user and a wrong password are reported the same way.
func (s *Service) Login(ctx context.Context, username, password string) (_ *Token, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			// keep the response time close to the one of a wrong password
			s.checkPassword(password, s.getDummyHash())
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if !s.checkPassword(password, user.HashedPassword) {
		return nil, ErrBadCredentials
	}
	if !user.IsActive() {
		return nil, auth.ErrInactiveUser
	}

	return s.IssueToken(user)
}

// IssueToken issues a fresh token for an already authenticated user.
func (s *Service) IssueToken(user *users.User) (*Token, error) {
	accessToken, _, err := s.tokens.Issue(user.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Token{
		AccessToken: accessToken,
		TokenType:   TokenTypeBearer,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, user *users.User, oldPassword, newPassword string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.changePassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !s.checkPassword(oldPassword, user.HashedPassword) {
		return ErrWrongOldPassword
	}
	if err := users.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.Username, hash)
}

func (s *Service) getDummyHash() string {
	s.dummyHashOnce.Do(func() {
		s.dummyHash, _ = s.hashPassword("dummy-password-for-timing")
	})
	return s.dummyHash
}
