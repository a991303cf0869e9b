package docstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxIDLength = 256

// ID identifies a document. New documents always get an ObjectID; documents
// written by older clients may carry an arbitrary string instead, and ID
// round-trips both forms unchanged.
type ID struct {
	oid primitive.ObjectID
	str string
}

func NewID() ID {
	return ID{oid: primitive.NewObjectID()}
}

// ParseID reads a client supplied identifier. A valid ObjectID hex literal is
// taken as an ObjectID; anything else is matched as a literal string.
func ParseID(raw string) (ID, error) {
	if strings.TrimSpace(raw) == "" || len(raw) > maxIDLength {
		return ID{}, ErrInvalidID
	}
	if oid, err := primitive.ObjectIDFromHex(raw); err == nil && !oid.IsZero() {
		return ID{oid: oid}, nil
	}
	return ID{str: raw}, nil
}

// StringID builds a literal string identifier, bypassing ObjectID detection.
func StringID(s string) ID {
	return ID{str: s}
}

func (id ID) IsZero() bool {
	return id.oid.IsZero() && id.str == ""
}

func (id ID) IsObjectID() bool {
	return !id.oid.IsZero()
}

func (id ID) String() string {
	if !id.oid.IsZero() {
		return id.oid.Hex()
	}
	return id.str
}

func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !id.oid.IsZero() {
		return bson.MarshalValue(id.oid)
	}
	return bson.MarshalValue(id.str)
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		oid, ok := raw.ObjectIDOK()
		if !ok {
			return fmt.Errorf("%w: malformed object id", ErrInvalidID)
		}
		*id = ID{oid: oid}
	case bsontype.String:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("%w: malformed string id", ErrInvalidID)
		}
		*id = ID{str: s}
	case bsontype.Null, bsontype.Undefined:
		*id = ID{}
	default:
		return fmt.Errorf("%w: cannot decode bson %s", ErrInvalidID, t)
	}
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, err)
	}
	if s == "" {
		*id = ID{}
		return nil
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
