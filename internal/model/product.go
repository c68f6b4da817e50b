package model

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "General"

// MaxProductImages is the number of images accepted per product request.
const MaxProductImages = 5

// ProductStore defines persistence operations for catalog products.
type ProductStore interface {
	Create(ctx context.Context, product Product) (Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price float64, originalPrice *float64) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListLowStock(ctx context.Context, threshold int) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Product is a catalog entry.
type Product struct {
	ID            uuid.UUID `json:"_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	OfferLabel    string    `json:"offerLabel,omitempty"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	Images        []Image   `json:"images"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Image references an object in remote image storage.
type Image struct {
	URL        string `json:"url"`
	StorageKey string `json:"storageKey"`
}

// IsZero reports whether the image slot is empty.
func (i Image) IsZero() bool {
	return i.URL == "" && i.StorageKey == ""
}

// ProductFilter narrows product listings. Zero values disable a filter.
type ProductFilter struct {
	Category string
	Search   string
	Featured *bool
}

// BulkPriceAction selects the direction of a bulk price adjustment.
type BulkPriceAction string

const (
	BulkPriceIncrease BulkPriceAction = "Increase"
	BulkPriceDecrease BulkPriceAction = "Decrease"
)

// AllProductsCategory selects every product in bulk operations.
const AllProductsCategory = "All Products"

// MarshalJSON renders a product, always emitting images as an array.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	out := product(p)
	if out.Images == nil {
		out.Images = []Image{}
	}
	return json.Marshal(out)
}

// BulkPriceRequest describes a percentage price adjustment over a category.
// A nil Value means the client did not send one.
type BulkPriceRequest struct {
	Category string
	Action   BulkPriceAction
	Value    *decimal.Decimal
}

// DefaultLowStockThreshold is used when no positive threshold is given.
const DefaultLowStockThreshold = 5
