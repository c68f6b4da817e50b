package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/metrics"
	"github.com/dtroode/furniture-server/internal/model"
)

const productImagePrefix = "products"

var hundred = decimal.NewFromInt(100)

// Product implements catalog operations.
type Product struct {
	store   model.ProductStore
	storage model.ImageStorage
	janitor *Janitor
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

func NewProduct(
	store model.ProductStore,
	storage model.ImageStorage,
	janitor *Janitor,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Product {
	return &Product{
		store:   store,
		storage: storage,
		janitor: janitor,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns products matching filter, newest first.
func (s *Product) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	products, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("Product service: failed to list products",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *Product) Get(ctx context.Context, id uuid.UUID) (model.Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apierrors.NewErrProductNotFound()
	}
	if err != nil {
		s.logger.Error("Product service: failed to get product",
			"product_id", id,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Create stores a new product and uploads its images in order.
func (s *Product) Create(ctx context.Context, fields model.FormFields, uploads []model.Upload) (model.Product, error) {
	if len(uploads) > model.MaxProductImages {
		return model.Product{}, apierrors.NewErrInvalidInput("At most %d images are allowed", model.MaxProductImages)
	}

	name, _ := fields.Lookup("name")
	if strings.TrimSpace(name) == "" {
		return model.Product{}, apierrors.NewErrInvalidInput("Product name is required")
	}

	rawPrice, _ := fields.Lookup("price")
	price, err := parsePrice(rawPrice)
	if err != nil || !price.IsPositive() {
		return model.Product{}, apierrors.NewErrInvalidInput("Product price must be a positive number")
	}

	product := model.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price.InexactFloat64(),
		Category:  model.DefaultCategory,
		Images:    []model.Image{},
		CreatedAt: s.now(),
	}
	product.Description, _ = fields.Lookup("description")
	product.OfferLabel, _ = fields.Lookup("offerLabel")
	if category, ok := fields.Truthy("category"); ok {
		product.Category = category
	}
	if raw, ok := fields.Truthy("originalPrice"); ok {
		original, err := parsePrice(raw)
		if err != nil {
			return model.Product{}, apierrors.NewErrInvalidInput("Original price must be a number")
		}
		v := original.InexactFloat64()
		product.OriginalPrice = &v
	}
	if raw, ok := fields.Truthy("stock"); ok {
		stock, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return model.Product{}, apierrors.NewErrInvalidInput("Stock must be a whole number")
		}
		product.Stock = stock
	}
	featured, _ := fields.Lookup("featured")
	product.Featured = featured == "true"

	images, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return model.Product{}, err
	}
	product.Images = images

	saved, err := s.store.Create(ctx, product)
	if err != nil {
		s.janitor.Discard(images...)
		s.logger.Error("Product service: failed to create product",
			"name", name,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.metrics.RecordCatalogOperation("product_create")
	s.logger.Info("Product service: product created",
		"product_id", saved.ID,
		"images", len(saved.Images))
	return saved, nil
}

func (s *Product) uploadAll(ctx context.Context, uploads []model.Upload) ([]model.Image, error) {
	images := make([]model.Image, 0, len(uploads))
	for _, u := range uploads {
		img, err := uploadImage(ctx, s.storage, productImagePrefix, u)
		if err != nil {
			s.janitor.Discard(images...)
			s.logger.Error("Product service: failed to upload image",
				"filename", u.Filename,
				"error", err.Error())
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// Update changes the fields that carry a meaningful value. Empty strings and
// zero or unparsable numbers keep the stored value; featured honors any value sent.
// existingImages, when sent, replaces the stored images before new uploads are appended.
func (s *Product) Update(ctx context.Context, id uuid.UUID, fields model.FormFields, uploads []model.Upload) (model.Product, error) {
	if len(uploads) > model.MaxProductImages {
		return model.Product{}, apierrors.NewErrInvalidInput("At most %d images are allowed", model.MaxProductImages)
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	images := product.Images
	if raw, ok := fields.Truthy("existingImages"); ok {
		var existing []model.Image
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			return model.Product{}, apierrors.NewErrInvalidInput("existingImages must be a JSON array of images")
		}
		images = existing
	}

	if v, ok := fields.Truthy("name"); ok {
		product.Name = v
	}
	if v, ok := fields.Truthy("description"); ok {
		product.Description = v
	}
	if v, ok := fields.Truthy("offerLabel"); ok {
		product.OfferLabel = v
	}
	if v, ok := fields.Truthy("category"); ok {
		product.Category = v
	}
	if v, ok := truthyPrice(fields, "price"); ok {
		product.Price = v
	}
	if v, ok := truthyPrice(fields, "originalPrice"); ok {
		product.OriginalPrice = &v
	}
	if raw, ok := fields.Truthy("stock"); ok {
		if stock, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && stock != 0 {
			product.Stock = stock
		}
	}
	if v, ok := fields.Lookup("featured"); ok {
		product.Featured = v == "true"
	}

	uploaded, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return model.Product{}, err
	}
	product.Images = append(append([]model.Image{}, images...), uploaded...)

	saved, err := s.store.Update(ctx, product)
	if err != nil {
		s.janitor.Discard(uploaded...)
		if errors.Is(err, model.ErrNotFound) {
			return model.Product{}, apierrors.NewErrProductNotFound()
		}
		s.logger.Error("Product service: failed to update product",
			"product_id", id,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	s.metrics.RecordCatalogOperation("product_update")
	s.logger.Info("Product service: product updated",
		"product_id", id,
		"images", len(saved.Images))
	return saved, nil
}

// DeleteImage removes the image at index; later images shift left.
func (s *Product) DeleteImage(ctx context.Context, id uuid.UUID, index int) (model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if index < 0 || index >= len(product.Images) {
		return model.Product{}, apierrors.NewErrInvalidImageIndex(index)
	}

	removed := product.Images[index]
	images := make([]model.Image, 0, len(product.Images)-1)
	images = append(images, product.Images[:index]...)
	images = append(images, product.Images[index+1:]...)
	product.Images = images

	saved, err := s.store.Update(ctx, product)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apierrors.NewErrProductNotFound()
	}
	if err != nil {
		s.logger.Error("Product service: failed to remove image",
			"product_id", id,
			"index", index,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	s.janitor.Discard(removed)
	s.metrics.RecordCatalogOperation("product_image_delete")
	s.logger.Info("Product service: image removed",
		"product_id", id,
		"index", index)
	return saved, nil
}

// Delete removes the product and schedules deletion of its images.
func (s *Product) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrProductNotFound()
	}
	if err != nil {
		s.logger.Error("Product service: failed to delete product",
			"product_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.janitor.Discard(product.Images...)
	s.metrics.RecordCatalogOperation("product_delete")
	s.logger.Info("Product service: product deleted",
		"product_id", id)
	return nil
}

// BulkAdjustPrice scales price and original price of every product in the
// category by the given percentage, rounding to whole units. It returns the
// number of products updated.
func (s *Product) BulkAdjustPrice(ctx context.Context, req model.BulkPriceRequest) (int, error) {
	if req.Action == "" || req.Value == nil {
		return 0, apierrors.NewErrInvalidInput("Action and value are required")
	}
	if req.Action != model.BulkPriceIncrease && req.Action != model.BulkPriceDecrease {
		return 0, apierrors.NewErrInvalidInput("Action must be %s or %s", model.BulkPriceIncrease, model.BulkPriceDecrease)
	}
	value := *req.Value
	if value.IsNegative() {
		return 0, apierrors.NewErrInvalidInput("Value must not be negative")
	}
	if req.Action == model.BulkPriceDecrease && value.GreaterThanOrEqual(hundred) {
		return 0, apierrors.NewErrInvalidInput("A decrease must be less than 100 percent")
	}
	if value.IsZero() {
		return 0, nil
	}

	ratio := value.Div(hundred)
	modifier := decimal.NewFromInt(1).Add(ratio)
	if req.Action == model.BulkPriceDecrease {
		modifier = decimal.NewFromInt(1).Sub(ratio)
	}

	filter := model.ProductFilter{Category: req.Category}
	if req.Category == model.AllProductsCategory {
		filter = model.ProductFilter{}
	}
	products, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("Product service: failed to select products for bulk price",
			"category", req.Category,
			"error", err.Error())
		return 0, fmt.Errorf("failed to list products: %w", err)
	}

	for _, p := range products {
		price := adjustPrice(p.Price, modifier)
		var original *float64
		if p.OriginalPrice != nil && *p.OriginalPrice != 0 {
			v := adjustPrice(*p.OriginalPrice, modifier)
			original = &v
		}

		if err := s.store.UpdatePrice(ctx, p.ID, price, original); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			s.logger.Error("Product service: bulk price update failed",
				"product_id", p.ID,
				"error", err.Error())
			return 0, fmt.Errorf("failed to update price: %w", err)
		}
	}

	s.metrics.RecordCatalogOperation("bulk_price")
	s.logger.Info("Product service: bulk price adjusted",
		"category", req.Category,
		"action", req.Action,
		"value", value.String(),
		"count", len(products))
	return len(products), nil
}

func adjustPrice(price float64, modifier decimal.Decimal) float64 {
	return decimal.NewFromFloat(price).Mul(modifier).Round(0).InexactFloat64()
}

// LowStock returns products whose stock is below threshold.
// A zero threshold selects the default; negative thresholds are used as given.
func (s *Product) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	if threshold == 0 {
		threshold = model.DefaultLowStockThreshold
	}

	products, err := s.store.ListLowStock(ctx, threshold)
	if err != nil {
		s.logger.Error("Product service: failed to list low stock products",
			"threshold", threshold,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}

// Categories returns the distinct category labels in use.
func (s *Product) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// truthyPrice returns a price field only when it was sent as a non-zero number.
func truthyPrice(fields model.FormFields, name string) (float64, bool) {
	raw, ok := fields.Truthy(name)
	if !ok {
		return 0, false
	}
	v, err := parsePrice(raw)
	if err != nil || v.IsZero() {
		return 0, false
	}
	return v.InexactFloat64(), true
}
