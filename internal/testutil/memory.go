package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/furniture-server/internal/model"
)

// AdminStore is an in-memory model.AdminStore.
type AdminStore struct {
	mu     sync.Mutex
	admins map[uuid.UUID]model.Admin
}

var _ model.AdminStore = (*AdminStore)(nil)

func NewAdminStore() *AdminStore {
	return &AdminStore{admins: make(map[uuid.UUID]model.Admin)}
}

func (s *AdminStore) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Admin{}, model.ErrNotFound
}

func (s *AdminStore) GetByID(_ context.Context, id uuid.UUID) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		return model.Admin{}, model.ErrNotFound
	}
	return a, nil
}

func (s *AdminStore) Create(_ context.Context, admin model.Admin) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if a.Email == admin.Email {
			return model.Admin{}, model.ErrAlreadyExists
		}
	}
	s.admins[admin.ID] = admin
	return admin, nil
}

func (s *AdminStore) Update(_ context.Context, admin model.Admin) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[admin.ID]; !ok {
		return model.Admin{}, model.ErrNotFound
	}
	for id, a := range s.admins {
		if id != admin.ID && a.Email == admin.Email {
			return model.Admin{}, model.ErrAlreadyExists
		}
	}
	s.admins[admin.ID] = admin
	return admin, nil
}

func (s *AdminStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.admins)), nil
}

// ProductStore is an in-memory model.ProductStore with the same
// filtering and ordering as the database repositories.
type ProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
}

var _ model.ProductStore = (*ProductStore)(nil)

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[uuid.UUID]model.Product)}
}

func (s *ProductStore) Create(_ context.Context, product model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; ok {
		return model.Product{}, model.ErrAlreadyExists
	}
	product = copyProduct(product)
	s.products[product.ID] = product
	return copyProduct(product), nil
}

func (s *ProductStore) GetByID(_ context.Context, id uuid.UUID) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return model.Product{}, model.ErrNotFound
	}
	return copyProduct(p), nil
}

func (s *ProductStore) List(_ context.Context, filter model.ProductFilter) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		out = append(out, copyProduct(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ProductStore) Update(_ context.Context, product model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return model.Product{}, model.ErrNotFound
	}
	product = copyProduct(product)
	s.products[product.ID] = product
	return copyProduct(product), nil
}

func (s *ProductStore) UpdatePrice(_ context.Context, id uuid.UUID, price float64, originalPrice *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return model.ErrNotFound
	}
	p.Price = price
	if originalPrice != nil {
		v := *originalPrice
		p.OriginalPrice = &v
	}
	s.products[id] = p
	return nil
}

func (s *ProductStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *ProductStore) ListLowStock(_ context.Context, threshold int) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, 0)
	for _, p := range s.products {
		if p.Stock < threshold {
			out = append(out, copyProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ProductStore) Categories(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func copyProduct(p model.Product) model.Product {
	p.Images = append([]model.Image{}, p.Images...)
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	return p
}

// SettingsStore is an in-memory model.SettingsStore.
type SettingsStore struct {
	mu       sync.Mutex
	settings *model.Settings
	now      func() time.Time
}

var _ model.SettingsStore = (*SettingsStore)(nil)

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{now: time.Now}
}

func (s *SettingsStore) Get(context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		return model.Settings{}, model.ErrNotFound
	}
	return s.settings.Clone(), nil
}

func (s *SettingsStore) Create(_ context.Context, settings model.Settings) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		stored := settings.Clone()
		stored.UpdatedAt = s.now()
		s.settings = &stored
	}
	return s.settings.Clone(), nil
}

func (s *SettingsStore) Save(_ context.Context, settings model.Settings) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := settings.Clone()
	stored.UpdatedAt = s.now()
	s.settings = &stored
	return stored.Clone(), nil
}

// ErrStorageUnavailable is returned by ImageStorage when a failure is injected.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ImageStorage is an in-memory model.ImageStorage that records deletions.
type ImageStorage struct {
	mu          sync.Mutex
	objects     map[string][]byte
	deleted     []string
	FailUploads bool
	FailDeletes bool
}

var _ model.ImageStorage = (*ImageStorage)(nil)

func NewImageStorage() *ImageStorage {
	return &ImageStorage{objects: make(map[string][]byte)}
}

func (s *ImageStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if s.FailUploads {
		return ErrStorageUnavailable
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	return nil
}

func (s *ImageStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, key)
	if s.FailDeletes {
		return ErrStorageUnavailable
	}
	delete(s.objects, key)
	return nil
}

func (s *ImageStorage) URL(key string) string {
	return "http://images.test/" + key
}

// Has reports whether an object is stored under key.
func (s *ImageStorage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Objects returns the number of stored objects.
func (s *ImageStorage) Objects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Deleted returns every key a deletion was attempted for, in order.
func (s *ImageStorage) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// NewUpload returns an in-memory upload with the given name and content.
func NewUpload(filename, content string) model.Upload {
	return model.Upload{
		Filename:    filename,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Body:        strings.NewReader(content),
	}
}
