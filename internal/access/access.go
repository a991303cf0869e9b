// Package access scopes every read and write on a user owned collection to
// the calling user. A document owned by someone else is reported exactly
// like a missing one.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/users"

	"go.opentelemetry.io/otel/attribute"
)

// OwnerField holds the owning user id on every owned document.
const OwnerField = "user_id"

var (
	ErrNotFound       = errors.New("not found")
	ErrNoOwner        = errors.New("missing owner")
	ErrProtectedField = errors.New("protected field")
)

// Owned is a document that can be stamped with its owner.
type Owned interface {
	docstore.Document
	SetOwner(ownerID string)
}

type Scope struct {
	OwnerID string
}

func ForUser(user *users.User) Scope {
	return Scope{OwnerID: user.ID.String()}
}

func (s Scope) Filter() docstore.Filter {
	return docstore.Filter{OwnerField: s.OwnerID}
}

// OwnedCollection is a docstore.Collection view restricted to one owner.
type OwnedCollection struct {
	coll  docstore.Collection
	scope Scope
}

func NewOwnedCollection(coll docstore.Collection, scope Scope) (*OwnedCollection, error) {
	if scope.OwnerID == "" {
		return nil, ErrNoOwner
	}
	return &OwnedCollection{
		coll:  coll,
		scope: scope,
	}, nil
}

func (c *OwnedCollection) Scope() Scope {
	return c.scope
}

// filter merges extra constraints with the owner constraint; the owner always wins.
func (c *OwnedCollection) filter(extra docstore.Filter) docstore.Filter {
	f := docstore.Filter{}
	for k, v := range extra {
		f[k] = v
	}
	f[OwnerField] = c.scope.OwnerID
	return f
}

func (c *OwnedCollection) byID(rawID string) (docstore.Filter, error) {
	id, err := docstore.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return c.filter(docstore.ByID(id)), nil
}

// Find lists up to limit owned documents matching extra into out.
func (c *OwnedCollection) Find(ctx context.Context, extra docstore.Filter, limit int64, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "access.find")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("limit", limit))

	return c.coll.Find(ctx, c.filter(extra), limit, out)
}

// FindByID accepts either identifier form, see docstore.ParseID.
func (c *OwnedCollection) FindByID(ctx context.Context, rawID string, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "access.findByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	filter, err := c.byID(rawID)
	if err != nil {
		return err
	}
	if err := c.coll.FindOne(ctx, filter, out); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (c *OwnedCollection) Insert(ctx context.Context, doc Owned) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "access.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc.SetOwner(c.scope.OwnerID)
	return c.coll.InsertOne(ctx, doc)
}

func (c *OwnedCollection) InsertMany(ctx context.Context, docs []Owned) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "access.insertMany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("count", len(docs)))

	toInsert := make([]docstore.Document, 0, len(docs))
	for _, d := range docs {
		d.SetOwner(c.scope.OwnerID)
		toInsert = append(toInsert, d)
	}
	return c.coll.InsertMany(ctx, toInsert)
}

// Update sets the given fields on an owned document. Neither the id nor the
// owner can be changed.
func (c *OwnedCollection) Update(ctx context.Context, rawID string, set map[string]any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "access.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for _, field := range []string{docstore.IDField, OwnerField} {
		if _, ok := set[field]; ok {
			return fmt.Errorf("%w: %s", ErrProtectedField, field)
		}
	}

	filter, err := c.byID(rawID)
	if err != nil {
		return err
	}
	matched, err := c.coll.UpdateOne(ctx, filter, set)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func (c *OwnedCollection) Delete(ctx context.Context, rawID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "access.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	filter, err := c.byID(rawID)
	if err != nil {
		return err
	}
	deleted, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every document of the owner.
func (c *OwnedCollection) DeleteAll(ctx context.Context) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "access.deleteAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return c.coll.DeleteMany(ctx, c.filter(nil))
}
