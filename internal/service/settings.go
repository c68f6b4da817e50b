package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/metrics"
	"github.com/dtroode/furniture-server/internal/model"
)

const settingsImagePrefix = "settings"

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// Settings manages the site settings singleton.
type Settings struct {
	store   model.SettingsStore
	storage model.ImageStorage
	janitor *Janitor
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewSettings(
	store model.SettingsStore,
	storage model.ImageStorage,
	janitor *Janitor,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Settings {
	return &Settings{
		store:   store,
		storage: storage,
		janitor: janitor,
		metrics: metrics,
		logger:  logger,
	}
}

// Get returns the settings, creating them with defaults on first use.
func (s *Settings) Get(ctx context.Context) (model.Settings, error) {
	current, err := s.store.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		s.logger.Error("Settings service: failed to get settings",
			"error", err.Error())
		return model.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	created, err := s.store.Create(ctx, model.DefaultSettings())
	if err != nil {
		s.logger.Error("Settings service: failed to create default settings",
			"error", err.Error())
		return model.Settings{}, fmt.Errorf("failed to create settings: %w", err)
	}

	s.logger.Info("Settings service: default settings created")
	return created, nil
}

// Update merges fields and image uploads into the stored settings.
//
// Only fields present in fields change. Json fields are replaced wholesale and
// keep their value when the submitted JSON does not parse. Text and color fields
// store the value as sent, including an empty string. An empty bool or number
// resets the field to its default and an empty date clears it. Each uploaded
// image replaces its slot and the previous object is deleted in the background.
func (s *Settings) Update(ctx context.Context, fields model.FormFields, uploads map[string]model.Upload) (model.Settings, error) {
	for slot := range uploads {
		if !model.IsImageSlot(slot) {
			return model.Settings{}, apierrors.NewErrInvalidImageField(slot)
		}
	}

	current, err := s.Get(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	next := current.Clone()

	for name, raw := range fields {
		spec, ok := model.LookupSettingsField(name)
		if !ok {
			s.logger.Debug("Settings service: ignoring unknown field",
				"field", name)
			continue
		}
		if spec.Kind == model.FieldImage {
			continue
		}

		if spec.Kind == model.FieldJSON {
			v, err := model.DecodeJSON(name, []byte(raw))
			if err != nil {
				s.logger.Warn("Settings service: invalid JSON, keeping previous value",
					"field", name,
					"error", err.Error())
				continue
			}
			next.Values[name] = v
			continue
		}

		v, err := coerceSettingsValue(name, spec, raw)
		if err != nil {
			return model.Settings{}, err
		}
		next.Values[name] = v
	}

	var (
		uploaded []model.Image
		replaced []model.Image
	)
	for _, slot := range model.ImageSlots() {
		u, ok := uploads[slot]
		if !ok {
			continue
		}

		img, err := uploadImage(ctx, s.storage, settingsImagePrefix+"/"+slot, u)
		if err != nil {
			s.janitor.Discard(uploaded...)
			s.logger.Error("Settings service: failed to upload image",
				"slot", slot,
				"error", err.Error())
			return model.Settings{}, err
		}
		uploaded = append(uploaded, img)
		if prev := next.Images[slot]; !prev.IsZero() {
			replaced = append(replaced, prev)
		}
		next.Images[slot] = img
	}

	saved, err := s.store.Save(ctx, next)
	if err != nil {
		s.janitor.Discard(uploaded...)
		s.logger.Error("Settings service: failed to save settings",
			"error", err.Error())
		return model.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.janitor.Discard(replaced...)
	s.metrics.RecordCatalogOperation("settings_update")
	s.logger.Info("Settings service: settings updated",
		"fields", len(fields),
		"images", len(uploaded))
	return saved, nil
}

// DeleteImageField clears an image slot and deletes its object in the background.
func (s *Settings) DeleteImageField(ctx context.Context, slot string) (model.Settings, error) {
	if !model.IsImageSlot(slot) {
		return model.Settings{}, apierrors.NewErrInvalidImageField(slot)
	}

	current, err := s.Get(ctx)
	if err != nil {
		return model.Settings{}, err
	}

	old := current.Image(slot)
	if old.StorageKey == "" {
		return model.Settings{}, apierrors.NewErrNothingToDelete()
	}

	next := current.Clone()
	next.Images[slot] = model.Image{}

	saved, err := s.store.Save(ctx, next)
	if err != nil {
		s.logger.Error("Settings service: failed to clear image slot",
			"slot", slot,
			"error", err.Error())
		return model.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.janitor.Discard(old)
	s.metrics.RecordCatalogOperation("settings_image_delete")
	s.logger.Info("Settings service: image slot cleared",
		"slot", slot)
	return saved, nil
}

func isEmptyFormValue(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "null", "undefined":
		return true
	default:
		return false
	}
}

func coerceSettingsValue(name string, spec model.FieldSpec, raw string) (any, error) {
	switch spec.Kind {
	case model.FieldBool:
		if isEmptyFormValue(raw) {
			return spec.DefaultValue(name), nil
		}
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, apierrors.NewErrInvalidInput("Field %s must be true or false", name)
		}
		return v, nil
	case model.FieldNumber:
		if isEmptyFormValue(raw) {
			return spec.DefaultValue(name), nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apierrors.NewErrInvalidInput("Field %s must be a number", name)
		}
		return v, nil
	case model.FieldDate:
		if isEmptyFormValue(raw) {
			return spec.DefaultValue(name), nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
				return &t, nil
			}
		}
		return nil, apierrors.NewErrInvalidInput("Field %s must be a date", name)
	default:
		return raw, nil
	}
}
