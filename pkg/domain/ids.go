// Package domain holds identity primitives shared by every aggregate.
package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	dErrors "knights/pkg/domain-errors"
)

// KnightID is a 24-character hex identifier (ObjectID layout: timestamp,
// process-unique value, counter), so generated ids sort by creation time.
type KnightID primitive.ObjectID

// NewKnightID generates a fresh identifier.
func NewKnightID() KnightID {
	return KnightID(primitive.NewObjectID())
}

// ParseKnightID validates a 24-character hex string.
func ParseKnightID(s string) (KnightID, error) {
	if s == "" {
		return KnightID{}, dErrors.New(dErrors.CodeInvalidInput, "knight id is required")
	}
	if len(s) != 24 {
		return KnightID{}, dErrors.New(dErrors.CodeInvalidInput, "knight id must be a 24-character hex string")
	}
	oid, err := primitive.ObjectIDFromHex(strings.ToLower(s))
	if err != nil {
		return KnightID{}, dErrors.New(dErrors.CodeInvalidInput, "knight id must be a 24-character hex string")
	}
	if oid.IsZero() {
		return KnightID{}, dErrors.New(dErrors.CodeInvalidInput, "knight id must not be the zero id")
	}
	return KnightID(oid), nil
}

// MustParseKnightID is ParseKnightID for fixtures and tests.
func MustParseKnightID(s string) KnightID {
	id, err := ParseKnightID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id KnightID) String() string {
	return primitive.ObjectID(id).Hex()
}

// IsNil reports whether the id is the zero value.
func (id KnightID) IsNil() bool {
	return primitive.ObjectID(id).IsZero()
}

func (id KnightID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *KnightID) UnmarshalText(b []byte) error {
	parsed, err := ParseKnightID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
