package db

import (
	"context"

	"github.com/machinery-hub/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MachineTypeRepository stores machine types in the machinetypes collection.
type MachineTypeRepository struct {
	coll *mongo.Collection
}

// NewMachineTypeRepository returns a repository bound to db.
func NewMachineTypeRepository(db *mongo.Database) *MachineTypeRepository {
	return &MachineTypeRepository{coll: db.Collection(MachineTypesCollection)}
}

// Insert stores a new machine type, assigning its id when unset.
func (r *MachineTypeRepository) Insert(ctx context.Context, t *models.MachineType) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, t)
	return mapError("insert machine type", err)
}

// FindByID returns the machine type with the given id.
func (r *MachineTypeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MachineType, error) {
	return findOne[models.MachineType](ctx, r.coll, bson.M{"_id": id}, "find machine type")
}

// FindByName returns the machine type with the exact name.
func (r *MachineTypeRepository) FindByName(ctx context.Context, name string) (*models.MachineType, error) {
	return findOne[models.MachineType](ctx, r.coll, bson.M{"name": name}, "find machine type by name")
}

// FindAll lists machine types oldest first.
func (r *MachineTypeRepository) FindAll(ctx context.Context) ([]models.MachineType, error) {
	return findAll[models.MachineType](ctx, r.coll, bson.M{}, "list machine types")
}

// Replace overwrites the stored machine type with t.
func (r *MachineTypeRepository) Replace(ctx context.Context, t *models.MachineType) error {
	return replaceByID(ctx, r.coll, t.ID, t, "update machine type")
}

// Delete removes the machine type with the given id.
func (r *MachineTypeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "delete machine type")
}

// RegionRepository stores sales regions in the regions collection.
type RegionRepository struct {
	coll *mongo.Collection
}

// NewRegionRepository returns a repository bound to db.
func NewRegionRepository(db *mongo.Database) *RegionRepository {
	return &RegionRepository{coll: db.Collection(RegionsCollection)}
}

// Insert stores a new region, assigning its id when unset.
func (r *RegionRepository) Insert(ctx context.Context, region *models.Region) error {
	if region.ID.IsZero() {
		region.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, region)
	return mapError("insert region", err)
}

// FindByID returns the region with the given id.
func (r *RegionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Region, error) {
	return findOne[models.Region](ctx, r.coll, bson.M{"_id": id}, "find region")
}

// FindByName returns the region with the exact name.
func (r *RegionRepository) FindByName(ctx context.Context, name string) (*models.Region, error) {
	return findOne[models.Region](ctx, r.coll, bson.M{"name": name}, "find region by name")
}

// FindAll lists regions oldest first.
func (r *RegionRepository) FindAll(ctx context.Context) ([]models.Region, error) {
	return findAll[models.Region](ctx, r.coll, bson.M{}, "list regions")
}

// Replace overwrites the stored region.
func (r *RegionRepository) Replace(ctx context.Context, region *models.Region) error {
	return replaceByID(ctx, r.coll, region.ID, region, "update region")
}

// Delete removes the region with the given id.
func (r *RegionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "delete region")
}
