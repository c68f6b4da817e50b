package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/mocks"
	"github.com/dtroode/furniture-server/internal/model"
	"github.com/dtroode/furniture-server/internal/testutil"
)

type settingsFixture struct {
	svc     *Settings
	store   *testutil.SettingsStore
	storage *testutil.ImageStorage
	janitor *Janitor
}

func newSettingsFixture() settingsFixture {
	store := testutil.NewSettingsStore()
	storage := testutil.NewImageStorage()
	lg := testutil.MakeNoopLogger()
	janitor := NewJanitor(storage, lg, nil)

	return settingsFixture{
		svc:     NewSettings(store, storage, janitor, nil, lg),
		store:   store,
		storage: storage,
		janitor: janitor,
	}
}

func TestSettings_Get_CreatesDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	got, err := f.svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FURNITURE.", got.Text("brandName"))
	assert.True(t, got.Bool("showFeaturedSection"))
	assert.False(t, got.Bool("showAnnouncement"))
	assert.Equal(t, 5.0, got.Number("lowStockThreshold"))
	assert.Nil(t, got.Date("announcementCountdown"))
	assert.True(t, got.Image("logo").IsZero())
	assert.False(t, got.UpdatedAt.IsZero())

	again, err := f.svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, got.UpdatedAt, again.UpdatedAt)
}

func TestSettings_Get_StoreError(t *testing.T) {
	t.Parallel()

	store := mocks.NewSettingsStore(t)
	store.On("Get", mock.Anything).Return(model.Settings{}, assert.AnError)

	lg := testutil.MakeNoopLogger()
	storage := testutil.NewImageStorage()
	svc := NewSettings(store, storage, NewJanitor(storage, lg, nil), nil, lg)

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSettings_Update_Fields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	got, err := f.svc.Update(ctx, model.FormFields{
		"brandName":             "AURA",
		"showAnnouncement":      "true",
		"showFeaturedSection":   "false",
		"lowStockThreshold":     "3",
		"announcementCountdown": "2026-12-31T18:30",
		"tagline":               "",
		"testimonials":          `[{"name":"Asha","content":"Lovely","rating":"4"},{"name":"Ravi","content":"Great"}]`,
		"socialLinks":           `{"instagram":"https://instagram.com/aura"}`,
		"notAField":             "ignored",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "AURA", got.Text("brandName"))
	assert.True(t, got.Bool("showAnnouncement"))
	assert.False(t, got.Bool("showFeaturedSection"))
	assert.Equal(t, 3.0, got.Number("lowStockThreshold"))
	require.NotNil(t, got.Date("announcementCountdown"))
	assert.True(t, time.Date(2026, 12, 31, 18, 30, 0, 0, time.UTC).Equal(*got.Date("announcementCountdown")))
	assert.Equal(t, "", got.Text("tagline"))
	assert.Equal(t, []model.Testimonial{
		{Name: "Asha", Content: "Lovely", Rating: 4},
		{Name: "Ravi", Content: "Great", Rating: model.DefaultTestimonialRating},
	}, got.Values["testimonials"])
	assert.Equal(t, model.SocialLinks{Instagram: "https://instagram.com/aura"}, got.Values["socialLinks"])
	assert.NotContains(t, got.Values, "notAField")

	// untouched fields keep their value
	assert.Equal(t, "#121212", got.Text("primaryColor"))

	stored, err := f.svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, got.Values, stored.Values)
}

func TestSettings_Update_SequentialMerges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	_, err := f.svc.Update(ctx, model.FormFields{"showAnnouncement": "true", "brandName": "AURA"}, nil)
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, model.FormFields{"showAnnouncement": "false"}, nil)
	require.NoError(t, err)
	assert.False(t, got.Bool("showAnnouncement"))
	assert.Equal(t, "AURA", got.Text("brandName"))
}

func TestSettings_Update_EmptyValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	_, err := f.svc.Update(ctx, model.FormFields{
		"showFeaturedSection":   "false",
		"lowStockThreshold":     "9",
		"announcementCountdown": "2026-12-31",
	}, nil)
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, model.FormFields{
		"showFeaturedSection":   "",
		"lowStockThreshold":     "undefined",
		"announcementCountdown": "null",
	}, nil)
	require.NoError(t, err)
	assert.True(t, got.Bool("showFeaturedSection"))
	assert.Equal(t, 5.0, got.Number("lowStockThreshold"))
	assert.Nil(t, got.Date("announcementCountdown"))
}

func TestSettings_Update_InvalidJSONKeepsPrevious(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	faqs := `[{"question":"Do you deliver?","answer":"Yes"}]`
	_, err := f.svc.Update(ctx, model.FormFields{"faqs": faqs}, nil)
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, model.FormFields{"faqs": "[{", "brandName": "AURA"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.FAQ{{Question: "Do you deliver?", Answer: "Yes"}}, got.Values["faqs"])
	assert.Equal(t, "AURA", got.Text("brandName"))
}

func TestSettings_Update_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fields  model.FormFields
		uploads map[string]model.Upload
	}{
		{name: "bad bool", fields: model.FormFields{"showAnnouncement": "maybe"}},
		{name: "bad number", fields: model.FormFields{"lowStockThreshold": "many"}},
		{name: "NaN number", fields: model.FormFields{"lowStockThreshold": "NaN"}},
		{name: "infinite number", fields: model.FormFields{"lowStockThreshold": "Inf"}},
		{name: "negative infinite number", fields: model.FormFields{"lowStockThreshold": "-Infinity"}},
		{name: "bad date", fields: model.FormFields{"announcementCountdown": "tomorrow"}},
		{name: "upload to a text field", uploads: map[string]model.Upload{"brandName": testutil.NewUpload("a.png", "a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newSettingsFixture()
			_, err := f.svc.Update(context.Background(), tt.fields, tt.uploads)
			requireKind(t, err, apierrors.KindValidation)
			assert.Zero(t, f.storage.Objects())
		})
	}
}

func TestSettings_Update_ReplacesImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	first, err := f.svc.Update(ctx, nil, map[string]model.Upload{"logo": testutil.NewUpload("logo.png", "v1")})
	require.NoError(t, err)
	oldLogo := first.Image("logo")
	require.NotEmpty(t, oldLogo.StorageKey)
	assert.Equal(t, f.storage.URL(oldLogo.StorageKey), oldLogo.URL)

	second, err := f.svc.Update(ctx, nil, map[string]model.Upload{"logo": testutil.NewUpload("logo.png", "v2")})
	require.NoError(t, err)
	f.janitor.Wait()

	assert.NotEqual(t, oldLogo.StorageKey, second.Image("logo").StorageKey)
	assert.Equal(t, []string{oldLogo.StorageKey}, f.storage.Deleted())
	assert.False(t, f.storage.Has(oldLogo.StorageKey))
	assert.True(t, f.storage.Has(second.Image("logo").StorageKey))
}

func TestSettings_Update_ImageDeleteFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	first, err := f.svc.Update(ctx, nil, map[string]model.Upload{"heroImage": testutil.NewUpload("hero.jpg", "v1")})
	require.NoError(t, err)

	f.storage.FailDeletes = true
	second, err := f.svc.Update(ctx, nil, map[string]model.Upload{"heroImage": testutil.NewUpload("hero.jpg", "v2")})
	require.NoError(t, err)
	f.janitor.Wait()

	assert.Equal(t, []string{first.Image("heroImage").StorageKey}, f.storage.Deleted())
	assert.NotEqual(t, first.Image("heroImage"), second.Image("heroImage"))
}

func TestSettings_Update_SaveFailureDiscardsUploads(t *testing.T) {
	t.Parallel()

	store := mocks.NewSettingsStore(t)
	store.On("Get", mock.Anything).Return(model.DefaultSettings(), nil)
	store.On("Save", mock.Anything, mock.Anything).Return(model.Settings{}, assert.AnError)

	lg := testutil.MakeNoopLogger()
	storage := testutil.NewImageStorage()
	janitor := NewJanitor(storage, lg, nil)
	svc := NewSettings(store, storage, janitor, nil, lg)

	_, err := svc.Update(context.Background(), nil, map[string]model.Upload{"favicon": testutil.NewUpload("f.ico", "f")})
	require.ErrorIs(t, err, assert.AnError)

	janitor.Wait()
	assert.Zero(t, storage.Objects())
	assert.Len(t, storage.Deleted(), 1)
}

func TestSettings_DeleteImageField(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSettingsFixture()

	_, err := f.svc.DeleteImageField(ctx, "brandName")
	requireKind(t, err, apierrors.KindValidation)

	_, err = f.svc.DeleteImageField(ctx, "logo")
	requireKind(t, err, apierrors.KindNotFound)

	updated, err := f.svc.Update(ctx, nil, map[string]model.Upload{"logo": testutil.NewUpload("logo.png", "v1")})
	require.NoError(t, err)

	got, err := f.svc.DeleteImageField(ctx, "logo")
	require.NoError(t, err)
	f.janitor.Wait()

	assert.True(t, got.Image("logo").IsZero())
	assert.Equal(t, []string{updated.Image("logo").StorageKey}, f.storage.Deleted())
}
