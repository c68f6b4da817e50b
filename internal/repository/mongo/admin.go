package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/furniture-server/internal/model"
)

var _ model.AdminStore = (*AdminRepository)(nil)

type adminDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash []byte    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newAdminDocument(a model.Admin) adminDocument {
	return adminDocument{
		ID:           a.ID.String(),
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (d adminDocument) toModel() (model.Admin, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Admin{}, fmt.Errorf("invalid admin id %q: %w", d.ID, err)
	}
	return model.Admin{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type AdminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *Connection) *AdminRepository {
	return &AdminRepository{collection: db.DB.Collection(adminCollectionName)}
}

func (r *AdminRepository) findOne(ctx context.Context, filter bson.M) (model.Admin, error) {
	var doc adminDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Admin{}, model.ErrNotFound
		}
		return model.Admin{}, err
	}
	return doc.toModel()
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	a, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Admin{}, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return a, err
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	a, err := r.findOne(ctx, bson.M{"_id": id.String()})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Admin{}, fmt.Errorf("failed to get admin by id: %w", err)
	}
	return a, err
}

func (r *AdminRepository) Create(ctx context.Context, admin model.Admin) (model.Admin, error) {
	if _, err := r.collection.InsertOne(ctx, newAdminDocument(admin)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Admin{}, model.ErrAlreadyExists
		}
		return model.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

func (r *AdminRepository) Update(ctx context.Context, admin model.Admin) (model.Admin, error) {
	update := bson.M{"$set": bson.M{
		"email":         admin.Email,
		"password_hash": admin.PasswordHash,
		"updated_at":    admin.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc adminDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": admin.ID.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Admin{}, model.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return model.Admin{}, model.ErrAlreadyExists
		}
		return model.Admin{}, fmt.Errorf("failed to update admin: %w", err)
	}
	return doc.toModel()
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
