package services

import (
	"context"
	"io"

	"github.com/machinery-hub/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stores return an error wrapping models.ErrNotFound when a document does
// not exist and models.ErrConflict when a write breaks a unique key.

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Replace(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MachineStore interface {
	Insert(ctx context.Context, m *models.Machine) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Machine, error)
	FindAll(ctx context.Context) ([]models.Machine, error)
	FindByType(ctx context.Context, typeRef string) ([]models.Machine, error)
	// Restock atomically adds one unit to the machine called name and
	// returns the updated document.
	Restock(ctx context.Context, name string) (*models.Machine, error)
	Replace(ctx context.Context, m *models.Machine) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MachineTypeStore interface {
	Insert(ctx context.Context, t *models.MachineType) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MachineType, error)
	FindByName(ctx context.Context, name string) (*models.MachineType, error)
	FindAll(ctx context.Context) ([]models.MachineType, error)
	Replace(ctx context.Context, t *models.MachineType) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type RegionStore interface {
	Insert(ctx context.Context, r *models.Region) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Region, error)
	FindByName(ctx context.Context, name string) (*models.Region, error)
	FindAll(ctx context.Context) ([]models.Region, error)
	Replace(ctx context.Context, r *models.Region) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ObjectStore keeps uploaded image bytes and hands back a public URL.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// RemoveObject deletes the object behind url. URLs the store did not
	// issue are ignored.
	RemoveObject(ctx context.Context, url string) error
}

// ParseID converts a path parameter into a document id.
func ParseID(param, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, models.InvalidID(param)
	}
	return id, nil
}
