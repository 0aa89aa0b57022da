package db

import (
	"context"
	"time"

	"github.com/machinery-hub/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MachineRepository stores machines in the machines collection.
type MachineRepository struct {
	coll *mongo.Collection
}

func NewMachineRepository(db *mongo.Database) *MachineRepository {
	return &MachineRepository{coll: db.Collection(MachinesCollection)}
}

func (r *MachineRepository) Insert(ctx context.Context, m *models.Machine) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, m)
	return mapError("insert machine", err)
}

func (r *MachineRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Machine, error) {
	return findOne[models.Machine](ctx, r.coll, bson.M{"_id": id}, "find machine")
}

func (r *MachineRepository) FindAll(ctx context.Context) ([]models.Machine, error) {
	return findAll[models.Machine](ctx, r.coll, bson.M{}, "list machines")
}

func (r *MachineRepository) FindByType(ctx context.Context, typeRef string) ([]models.Machine, error) {
	return findAll[models.Machine](ctx, r.coll, bson.M{"types": typeRef}, "list machines by type")
}

// Restock increments stock with $inc so concurrent restocks never lose a
// unit.
func (r *MachineRepository) Restock(ctx context.Context, name string) (*models.Machine, error) {
	var m models.Machine
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"name": name},
		bson.M{
			"$inc": bson.M{"stock": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return nil, mapError("restock machine", err)
	}
	return &m, nil
}

func (r *MachineRepository) Replace(ctx context.Context, m *models.Machine) error {
	return replaceByID(ctx, r.coll, m.ID, m, "update machine")
}

func (r *MachineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "delete machine")
}
