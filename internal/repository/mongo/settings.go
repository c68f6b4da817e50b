package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/furniture-server/internal/model"
)

var _ model.SettingsStore = (*SettingsRepository)(nil)

const settingsDocumentID = "site"

type settingsDocument struct {
	ID        string                   `bson:"_id"`
	Values    bson.Raw                 `bson:"values"`
	Images    map[string]imageDocument `bson:"images"`
	UpdatedAt time.Time                `bson:"updated_at"`
}

// SettingsRepository keeps the settings singleton in one document with a fixed id.
type SettingsRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewSettingsRepository(db *Connection) *SettingsRepository {
	return &SettingsRepository{collection: db.DB.Collection(settingsCollectionName), now: time.Now}
}

// encodeSettings converts field values to a BSON document through their JSON form,
// so that stored values match the JSON the API serves.
func (r *SettingsRepository) encodeSettings(s model.Settings) (bson.M, error) {
	raw, err := json.Marshal(s.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings values: %w", err)
	}
	var values bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &values); err != nil {
		return nil, fmt.Errorf("failed to convert settings values: %w", err)
	}

	images := make(map[string]imageDocument, len(s.Images))
	for slot, img := range s.Images {
		images[slot] = imageDocument{URL: img.URL, StorageKey: img.StorageKey}
	}

	return bson.M{
		"values":     values,
		"images":     images,
		"updated_at": r.now().UTC(),
	}, nil
}

func (d settingsDocument) toModel() (model.Settings, error) {
	var raw []byte
	if len(d.Values) > 0 {
		var err error
		raw, err = bson.MarshalExtJSON(d.Values, false, false)
		if err != nil {
			return model.Settings{}, fmt.Errorf("failed to convert settings values: %w", err)
		}
	}
	values, err := model.DecodeSettingsValues(raw)
	if err != nil {
		return model.Settings{}, err
	}

	images := make(map[string]model.Image, len(model.ImageSlots()))
	for _, slot := range model.ImageSlots() {
		img := d.Images[slot]
		images[slot] = model.Image{URL: img.URL, StorageKey: img.StorageKey}
	}

	return model.Settings{Values: values, Images: images, UpdatedAt: d.UpdatedAt}, nil
}

func (r *SettingsRepository) Get(ctx context.Context) (model.Settings, error) {
	var doc settingsDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsDocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Settings{}, model.ErrNotFound
		}
		return model.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return doc.toModel()
}

func (r *SettingsRepository) Create(ctx context.Context, settings model.Settings) (model.Settings, error) {
	fields, err := r.encodeSettings(settings)
	if err != nil {
		return model.Settings{}, err
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": settingsDocumentID},
		bson.M{"$setOnInsert": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to create settings: %w", err)
	}

	return r.Get(ctx)
}

func (r *SettingsRepository) Save(ctx context.Context, settings model.Settings) (model.Settings, error) {
	fields, err := r.encodeSettings(settings)
	if err != nil {
		return model.Settings{}, err
	}

	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)

	var doc settingsDocument
	err = r.collection.FindOneAndReplace(ctx, bson.M{"_id": settingsDocumentID}, fields, opts).Decode(&doc)
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return doc.toModel()
}
