// Package identifier converts between external id strings and MongoDB ObjectIDs
package identifier

import (
	"fmt"

	"github.com/gameassets/backend/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decode parses a 24-character hex string into an ObjectID.
// Any other input returns an apperr.KindInvalid error.
func Decode(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Invalid(fmt.Sprintf("invalid id %q: must be a 24-character hex string", raw))
	}
	return id, nil
}

// Encode returns the external string form of an ObjectID
func Encode(id primitive.ObjectID) string {
	return id.Hex()
}
