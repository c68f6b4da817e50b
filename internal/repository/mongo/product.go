package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/furniture-server/internal/model"
)

var _ model.ProductStore = (*ProductRepository)(nil)

type imageDocument struct {
	URL        string `bson:"url"`
	StorageKey string `bson:"storage_key"`
}

type productDocument struct {
	ID            string          `bson:"_id"`
	Name          string          `bson:"name"`
	Description   string          `bson:"description"`
	Price         float64         `bson:"price"`
	OriginalPrice *float64        `bson:"original_price"`
	OfferLabel    string          `bson:"offer_label"`
	Category      string          `bson:"category"`
	Stock         int             `bson:"stock"`
	Images        []imageDocument `bson:"images"`
	Featured      bool            `bson:"featured"`
	CreatedAt     time.Time       `bson:"created_at"`
}

func newImageDocuments(images []model.Image) []imageDocument {
	docs := make([]imageDocument, 0, len(images))
	for _, img := range images {
		docs = append(docs, imageDocument{URL: img.URL, StorageKey: img.StorageKey})
	}
	return docs
}

func newProductDocument(p model.Product) productDocument {
	return productDocument{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		OfferLabel:    p.OfferLabel,
		Category:      p.Category,
		Stock:         p.Stock,
		Images:        newImageDocuments(p.Images),
		Featured:      p.Featured,
		CreatedAt:     p.CreatedAt,
	}
}

func (d productDocument) toModel() (model.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid product id %q: %w", d.ID, err)
	}
	images := make([]model.Image, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, model.Image{URL: img.URL, StorageKey: img.StorageKey})
	}
	return model.Product{
		ID:            id,
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		OfferLabel:    d.OfferLabel,
		Category:      d.Category,
		Stock:         d.Stock,
		Images:        images,
		Featured:      d.Featured,
		CreatedAt:     d.CreatedAt,
	}, nil
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *Connection) *ProductRepository {
	return &ProductRepository{collection: db.DB.Collection(productCollectionName)}
}

func (r *ProductRepository) Create(ctx context.Context, product model.Product) (model.Product, error) {
	doc := newProductDocument(product)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return model.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return doc.toModel()
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to find product: %w", err)
	}
	return doc.toModel()
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}

	products, err := r.find(ctx, query, bson.D{{Key: "created_at", Value: -1}})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product model.Product) (model.Product, error) {
	doc := newProductDocument(product)
	update := bson.M{"$set": bson.M{
		"name":           doc.Name,
		"description":    doc.Description,
		"price":          doc.Price,
		"original_price": doc.OriginalPrice,
		"offer_label":    doc.OfferLabel,
		"category":       doc.Category,
		"stock":          doc.Stock,
		"images":         doc.Images,
		"featured":       doc.Featured,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var saved productDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": doc.ID}, update, opts).Decode(&saved)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return saved.toModel()
}

func (r *ProductRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price float64, originalPrice *float64) error {
	update := bson.M{"$set": bson.M{"price": price, "original_price": originalPrice}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return fmt.Errorf("failed to update product price: %w", err)
	}
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products, err := r.find(ctx,
		bson.M{"stock": bson.M{"$lt": threshold}},
		bson.D{{Key: "stock", Value: 1}, {Key: "created_at", Value: -1}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
