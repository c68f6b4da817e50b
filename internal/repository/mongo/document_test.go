package mongo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dtroode/furniture-server/internal/model"
)

func TestProductDocument_RoundTrip(t *testing.T) {
	original := 900.0
	p := model.Product{
		ID:            uuid.New(),
		Name:          "Oak Chair",
		Price:         500,
		OriginalPrice: &original,
		Category:      "Chairs",
		Stock:         3,
		Images:        []model.Image{{URL: "http://x/a.jpg", StorageKey: "products/a.jpg"}},
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	got, err := newProductDocument(p).toModel()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProductDocument_InvalidID(t *testing.T) {
	_, err := productDocument{ID: "not-a-uuid"}.toModel()
	assert.Error(t, err)
}

func TestAdminDocument_RoundTrip(t *testing.T) {
	a := model.Admin{ID: uuid.New(), Email: "a@b.c", PasswordHash: []byte("h")}

	got, err := newAdminDocument(a).toModel()
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestSettingsDocument_RoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	r := &SettingsRepository{now: func() time.Time { return now }}

	s := model.DefaultSettings()
	s.Values["brandName"] = "AURA"
	s.Values["lowStockThreshold"] = float64(7)
	s.Values["testimonials"] = []model.Testimonial{{Name: "Ravi", Content: "Great sofa", Rating: 4}}
	s.Images["favicon"] = model.Image{URL: "http://x/f.ico", StorageKey: "settings/favicon/f.ico"}

	fields, err := r.encodeSettings(s)
	require.NoError(t, err)

	raw, err := bson.Marshal(fields["values"])
	require.NoError(t, err)

	doc := settingsDocument{
		ID:        settingsDocumentID,
		Values:    raw,
		Images:    fields["images"].(map[string]imageDocument),
		UpdatedAt: now,
	}
	got, err := doc.toModel()
	require.NoError(t, err)

	assert.Equal(t, "AURA", got.Text("brandName"))
	assert.Equal(t, float64(7), got.Number("lowStockThreshold"))
	assert.Equal(t, []model.Testimonial{{Name: "Ravi", Content: "Great sofa", Rating: 4}}, got.Values["testimonials"])
	assert.True(t, got.Bool("showFeaturedSection"))
	assert.Equal(t, "settings/favicon/f.ico", got.Image("favicon").StorageKey)
	assert.True(t, got.Image("logo").IsZero())
	assert.Equal(t, now, got.UpdatedAt)
}
