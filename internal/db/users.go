package db

import (
	"context"

	"github.com/machinery-hub/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository stores users in the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, u)
	return mapError("insert user", err)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"_id": id}, "find user")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"email": email}, "find user by email")
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"username": username}, "find user by username")
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.coll, bson.M{}, "list users")
}

func (r *UserRepository) Replace(ctx context.Context, u *models.User) error {
	return replaceByID(ctx, r.coll, u.ID, u, "update user")
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "delete user")
}
