package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/mocks"
	"github.com/dtroode/furniture-server/internal/model"
	"github.com/dtroode/furniture-server/internal/testutil"
)

func TestSettings_Get(t *testing.T) {
	t.Parallel()

	svc := mocks.NewSettingsService(t)
	svc.On("Get", mock.Anything).Return(model.DefaultSettings(), nil)

	rec := serve(NewSettings(svc, testutil.MakeNoopLogger()).Get, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "FURNITURE.", body["brandName"])
	assert.Equal(t, map[string]any{"url": "", "storageKey": ""}, body["logo"])
}

func TestSettings_Update_Multipart(t *testing.T) {
	t.Parallel()

	svc := mocks.NewSettingsService(t)
	svc.On("Update", mock.Anything,
		model.FormFields{"showAnnouncement": "false", "brandName": "AURA"},
		mock.MatchedBy(func(uploads map[string]model.Upload) bool {
			logo, ok := uploads["logo"]
			return len(uploads) == 1 && ok && logo.Filename == "logo.png"
		}),
	).Return(model.DefaultSettings(), nil)

	req := multipartRequest(t, http.MethodPut, "/api/settings",
		map[string]string{"showAnnouncement": "false", "brandName": "AURA"},
		filePart{"logo", "logo.png", "png-bytes"},
	)
	rec := serve(NewSettings(svc, testutil.MakeNoopLogger()).Update, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettings_Update_JSON(t *testing.T) {
	t.Parallel()

	svc := mocks.NewSettingsService(t)
	svc.On("Update", mock.Anything,
		model.FormFields{
			"showAnnouncement":  "true",
			"lowStockThreshold": "3",
			"brandName":         "AURA",
			"testimonials":      `[{"name":"Asha","rating":4}]`,
			"customCSS":         "",
		},
		map[string]model.Upload{},
	).Return(model.DefaultSettings(), nil)

	req := jsonRequest(t, http.MethodPut, "/api/settings", map[string]any{
		"showAnnouncement":  true,
		"lowStockThreshold": 3,
		"brandName":         "AURA",
		"testimonials":      []map[string]any{{"name": "Asha", "rating": 4}},
		"customCSS":         nil,
	})
	rec := serve(NewSettings(svc, testutil.MakeNoopLogger()).Update, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettings_Update_URLEncoded(t *testing.T) {
	t.Parallel()

	svc := mocks.NewSettingsService(t)
	svc.On("Update", mock.Anything, model.FormFields{"brandName": "AURA"}, map[string]model.Upload{}).
		Return(model.DefaultSettings(), nil)

	rec := serve(NewSettings(svc, testutil.MakeNoopLogger()).Update,
		formRequest(http.MethodPut, "/api/settings", map[string]string{"brandName": "AURA"}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettings_Update_TwoFilesForOneSlot(t *testing.T) {
	t.Parallel()

	svc := mocks.NewSettingsService(t)
	req := multipartRequest(t, http.MethodPut, "/api/settings", nil,
		filePart{"logo", "a.png", "a"},
		filePart{"logo", "b.png", "b"},
	)
	rec := serve(NewSettings(svc, testutil.MakeNoopLogger()).Update, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings_Update_MalformedJSON(t *testing.T) {
	t.Parallel()

	svc := mocks.NewSettingsService(t)
	req := jsonRequest(t, http.MethodPut, "/api/settings", "not an object")

	rec := serve(NewSettings(svc, testutil.MakeNoopLogger()).Update, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings_DeleteImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		field      string
		svcErr     error
		wantStatus int
	}{
		{name: "cleared", field: "logo", wantStatus: http.StatusOK},
		{name: "not an image slot", field: "brandName", svcErr: apierrors.NewErrInvalidImageField("brandName"), wantStatus: http.StatusBadRequest},
		{name: "slot already empty", field: "favicon", svcErr: apierrors.NewErrNothingToDelete(), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewSettingsService(t)
			svc.On("DeleteImageField", mock.Anything, tt.field).Return(model.DefaultSettings(), tt.svcErr)

			rec := serve(NewSettings(svc, testutil.MakeNoopLogger()).DeleteImage,
				httptest.NewRequest(http.MethodDelete, "/api/settings/image/"+tt.field, nil),
				param{"field", tt.field})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
