// Package docstore is the document persistence layer: a small collection
// contract implemented on MongoDB, on Postgres JSONB and in memory.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
	ErrInvalidID = errors.New("invalid document id")
)

// IDField is the identifier field name; a Filter value under this key must be an ID.
const IDField = "_id"

// Filter is a set of field equality constraints, combined with AND.
type Filter map[string]any

func ByID(id ID) Filter {
	return Filter{IDField: id}
}

// With returns a copy of f extended by the given field constraint.
func (f Filter) With(field string, value any) Filter {
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[field] = value
	return out
}

// split separates the identifier constraint from the plain field constraints.
func (f Filter) split() (*ID, map[string]any, error) {
	var id *ID
	fields := make(map[string]any, len(f))
	for k, v := range f {
		if k != IDField {
			fields[k] = v
			continue
		}
		switch typed := v.(type) {
		case ID:
			id = &typed
		case *ID:
			id = typed
		default:
			return nil, nil, fmt.Errorf("%w: filter value for %s has type %T", ErrInvalidID, IDField, v)
		}
	}
	return id, fields, nil
}

// Document is anything that can be stored; it must know its own identifier.
type Document interface {
	DocumentID() ID
}

type Collection interface {
	// FindOne decodes the first document matching filter into out, or returns ErrNotFound.
	FindOne(ctx context.Context, filter Filter, out any) error
	// Find decodes up to limit matching documents (limit <= 0 means all) into out,
	// which must be a pointer to a slice. Documents come in insertion order.
	Find(ctx context.Context, filter Filter, limit int64, out any) error
	InsertOne(ctx context.Context, doc Document) error
	InsertMany(ctx context.Context, docs []Document) error
	// UpdateOne sets the given top level fields on the first matching document.
	UpdateOne(ctx context.Context, filter Filter, set map[string]any) (matched bool, err error)
	DeleteOne(ctx context.Context, filter Filter) (deleted bool, err error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	// EnsureUniqueIndex enforces uniqueness of field; sparse ignores documents without it.
	EnsureUniqueIndex(ctx context.Context, field string, sparse bool) error
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func checkSet(set map[string]any) error {
	if _, ok := set[IDField]; ok {
		return fmt.Errorf("%s cannot be updated", IDField)
	}
	return nil
}
