package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MachineType is a category a machine can be filed under. Names are unique.
type MachineType struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Region is a sales region a machine is offered in. Names are unique.
type Region struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NameFields is the request body for machine types and regions.
type NameFields struct {
	Name *string `json:"name"`
}

func (f NameFields) ValidateCreate() error {
	var errs ValidationErrors
	if isBlank(f.Name) {
		errs.Add("name", "Name is required")
	}
	return errs.Err()
}

// Apply returns the patched name, leaving current untouched when the field
// is absent or empty.
func (f NameFields) Apply(current string) string {
	name := current
	setString(&name, f.Name)
	return name
}
