//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/furniture-server/internal/model"
	repo "github.com/dtroode/furniture-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "furniture_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/furniture_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	ar := repo.NewAdminRepository(connect(t))

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := model.Admin{ID: uuid.New(), Email: "admin@example.com", PasswordHash: []byte("hash"), CreatedAt: now, UpdatedAt: now}
	saved, err := ar.Create(ctx, a)
	require.NoError(t, err)
	require.Equal(t, a.ID, saved.ID)

	_, err = ar.Create(ctx, model.Admin{ID: uuid.New(), Email: a.Email, PasswordHash: []byte("x"), CreatedAt: now, UpdatedAt: now})
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	byEmail, err := ar.GetByEmail(ctx, a.Email)
	require.NoError(t, err)
	require.Equal(t, a.ID, byEmail.ID)

	n, err := ar.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	saved.Email = "owner@example.com"
	saved.PasswordHash = []byte("new-hash")
	updated, err := ar.Update(ctx, saved)
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", updated.Email)
	require.Equal(t, []byte("new-hash"), updated.PasswordHash)

	_, err = ar.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	pr := repo.NewProductRepository(connect(t))

	original := 1200.0
	chair := model.Product{
		ID: uuid.New(), Name: "Oak Chair", Price: 500, OriginalPrice: &original, Category: "Chairs", Stock: 2,
		Images:    []model.Image{{URL: "http://x/a.jpg", StorageKey: "products/a.jpg"}},
		CreatedAt: time.Now().Add(-time.Minute),
	}
	sofa := model.Product{
		ID: uuid.New(), Name: "Velvet Sofa", Price: 2000, Category: "Sofas", Stock: 10, Featured: true,
		CreatedAt: time.Now(),
	}
	for _, p := range []model.Product{chair, sofa} {
		_, err := pr.Create(ctx, p)
		require.NoError(t, err)
	}

	got, err := pr.GetByID(ctx, chair.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	require.NotNil(t, got.OriginalPrice)
	assert.Equal(t, 1200.0, *got.OriginalPrice)

	all, err := pr.List(ctx, model.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, sofa.ID, all[0].ID)

	found, err := pr.List(ctx, model.ProductFilter{Search: "CHAIR"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, chair.ID, found[0].ID)

	featured := true
	onlyFeatured, err := pr.List(ctx, model.ProductFilter{Featured: &featured, Category: "Sofas"})
	require.NoError(t, err)
	require.Len(t, onlyFeatured, 1)

	low, err := pr.ListLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, chair.ID, low[0].ID)

	require.NoError(t, pr.UpdatePrice(ctx, chair.ID, 550, nil))
	got, err = pr.GetByID(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, 550.0, got.Price)
	assert.Nil(t, got.OriginalPrice)

	got.Images = nil
	got.Name = "Teak Chair"
	updated, err := pr.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Teak Chair", updated.Name)
	assert.Empty(t, updated.Images)

	cats, err := pr.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chairs", "Sofas"}, cats)

	require.NoError(t, pr.Delete(ctx, chair.ID))
	require.ErrorIs(t, pr.Delete(ctx, chair.ID), model.ErrNotFound)
	_, err = pr.GetByID(ctx, chair.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	sr := repo.NewSettingsRepository(connect(t))

	_, err := sr.Get(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)

	created, err := sr.Create(ctx, model.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "FURNITURE.", created.Text("brandName"))

	again, err := sr.Create(ctx, model.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, again.UpdatedAt)

	next := created.Clone()
	next.Values["showAnnouncement"] = true
	next.Values["testimonials"] = []model.Testimonial{{Name: "Asha", Content: "Lovely", Rating: 4}}
	next.Images["logo"] = model.Image{URL: "http://x/logo.png", StorageKey: "settings/logo/1.png"}
	saved, err := sr.Save(ctx, next)
	require.NoError(t, err)

	got, err := sr.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Bool("showAnnouncement"))
	assert.Equal(t, []model.Testimonial{{Name: "Asha", Content: "Lovely", Rating: 4}}, got.Values["testimonials"])
	assert.Equal(t, "settings/logo/1.png", got.Image("logo").StorageKey)
	assert.Equal(t, saved.UpdatedAt, got.UpdatedAt)
}
