package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")
)

type Repo struct {
	coll    docstore.Collection
	nowFunc func() time.Time
}

func NewRepo(store docstore.Store) *Repo {
	return &Repo{
		coll:    store.Collection(CollectionName),
		nowFunc: time.Now,
	}
}

// EnsureIndexes makes usernames unique, and emails unique when present.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	if err := r.coll.EnsureUniqueIndex(ctx, "username", false); err != nil {
		return fmt.Errorf("username index: %w", err)
	}
	if err := r.coll.EnsureUniqueIndex(ctx, "email", true); err != nil {
		return fmt.Errorf("email index: %w", err)
	}
	return nil
}

// Add persists a new active user. Username and email uniqueness are checked
// up front for a precise error, and again by the store indexes.
func (r *Repo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", user.Username))

	if _, err := r.GetByUsername(ctx, user.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if user.Email != "" {
		if _, err := r.GetByEmail(ctx, user.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
	}

	now := r.nowFunc().UTC()
	user.ID = docstore.NewID()
	user.CreatedAt = now
	user.UpdatedAt = now
	active := true
	user.Active = &active

	if err := r.coll.InsertOne(ctx, &user); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			// lost a race with a concurrent registration
			if strings.Contains(err.Error(), "email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.GetByID(ctx, user.ID)
}

func (r *Repo) GetByID(ctx context.Context, id docstore.ID) (*User, error) {
	return r.findOne(ctx, docstore.ByID(id))
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, docstore.Filter{"username": username})
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, docstore.Filter{"email": email})
}

func (r *Repo) findOne(ctx context.Context, filter docstore.Filter) (*User, error) {
	var u User
	if err := r.coll.FindOne(ctx, filter, &u); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) UpdatePassword(ctx context.Context, username, hashedPassword string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updatePassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.update(ctx, username, map[string]any{
		"hashed_password": hashedPassword,
	})
}

func (r *Repo) SetActive(ctx context.Context, username string, active bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.setActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("active", active))

	return r.update(ctx, username, map[string]any{
		"is_active": active,
	})
}

func (r *Repo) update(ctx context.Context, username string, set map[string]any) error {
	set["updated_at"] = r.nowFunc().UTC()
	matched, err := r.coll.UpdateOne(ctx, docstore.Filter{"username": username}, set)
	if err != nil {
		return err
	}
	if !matched {
		return ErrUserNotFound
	}
	return nil
}
