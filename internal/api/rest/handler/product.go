package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/model"
)

// ProductService defines the catalog operations exposed over HTTP.
type ProductService interface {
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (model.Product, error)
	Create(ctx context.Context, fields model.FormFields, uploads []model.Upload) (model.Product, error)
	Update(ctx context.Context, id uuid.UUID, fields model.FormFields, uploads []model.Upload) (model.Product, error)
	DeleteImage(ctx context.Context, id uuid.UUID, index int) (model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkAdjustPrice(ctx context.Context, req model.BulkPriceRequest) (int, error)
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Product serves the /api/products routes.
type Product struct {
	productService ProductService
	logger         *logger.Logger
}

func NewProduct(productService ProductService, logger *logger.Logger) *Product {
	return &Product{productService: productService, logger: logger}
}

// List returns products filtered by the category, search and featured query parameters.
func (h *Product) List(c echo.Context) error {
	filter := model.ProductFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	if v := c.QueryParam("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}

	products, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, nonNilProducts(products))
}

func (h *Product) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return handleError(err)
	}

	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *Product) Create(c echo.Context) error {
	form, err := readForm(c)
	if err != nil {
		return handleError(err)
	}

	uploads, closeUploads, err := openUploads(form.files["images"])
	if err != nil {
		return handleError(err)
	}
	defer closeUploads()

	product, err := h.productService.Create(c.Request().Context(), form.fields, uploads)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *Product) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return handleError(err)
	}

	form, err := readForm(c)
	if err != nil {
		return handleError(err)
	}

	uploads, closeUploads, err := openUploads(form.files["images"])
	if err != nil {
		return handleError(err)
	}
	defer closeUploads()

	product, err := h.productService.Update(c.Request().Context(), id, form.fields, uploads)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *Product) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return handleError(err)
	}

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product removed"})
}

// DeleteImage removes the image at the imageIndex sent in the body.
func (h *Product) DeleteImage(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return handleError(err)
	}

	form, err := readForm(c)
	if err != nil {
		return handleError(err)
	}

	raw, ok := form.fields.Truthy("imageIndex")
	if !ok {
		return handleError(apierrors.NewErrInvalidInput("Invalid image index"))
	}
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return handleError(apierrors.NewErrInvalidInput("Invalid image index"))
	}

	product, err := h.productService.DeleteImage(c.Request().Context(), id, index)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, product)
}

// LowStock lists products below the threshold query parameter.
func (h *Product) LowStock(c echo.Context) error {
	threshold, err := strconv.Atoi(c.QueryParam("threshold"))
	if err != nil {
		threshold = 0
	}

	products, err := h.productService.LowStock(c.Request().Context(), threshold)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, nonNilProducts(products))
}

func (h *Product) BulkPrice(c echo.Context) error {
	form, err := readForm(c)
	if err != nil {
		return handleError(err)
	}

	req := model.BulkPriceRequest{}
	req.Category, _ = form.fields.Lookup("category")
	action, _ := form.fields.Lookup("action")
	req.Action = model.BulkPriceAction(action)
	if raw, ok := form.fields.Truthy("value"); ok {
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return handleError(apierrors.NewErrInvalidInput("Value must be a number"))
		}
		req.Value = &value
	}

	count, err := h.productService.BulkAdjustPrice(c.Request().Context(), req)
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Successfully updated %d products.", count),
		"count":   count,
	})
}

func (h *Product) Categories(c echo.Context) error {
	categories, err := h.productService.Categories(c.Request().Context())
	if err != nil {
		return handleError(err)
	}
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(http.StatusOK, categories)
}

func productID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apierrors.NewErrProductNotFound()
	}
	return id, nil
}

func nonNilProducts(products []model.Product) []model.Product {
	if products == nil {
		return []model.Product{}
	}
	return products
}
