package service

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/metrics"
	"github.com/dtroode/furniture-server/internal/model"
)

const defaultCleanupTimeout = 30 * time.Second

// Janitor deletes image objects from remote storage in the background.
// Failures are logged and counted; they never reach the caller.
type Janitor struct {
	storage model.ImageStorage
	logger  *logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewJanitor(storage model.ImageStorage, logger *logger.Logger, metrics *metrics.Metrics) *Janitor {
	return &Janitor{
		storage: storage,
		logger:  logger,
		metrics: metrics,
		timeout: defaultCleanupTimeout,
	}
}

// Discard schedules deletion of every image that has a storage key.
func (j *Janitor) Discard(images ...model.Image) {
	keys := make([]string, 0, len(images))
	for _, img := range images {
		if img.StorageKey != "" {
			keys = append(keys, img.StorageKey)
		}
	}
	if len(keys) == 0 {
		return
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		for _, key := range keys {
			if err := j.storage.Delete(ctx, key); err != nil {
				j.metrics.RecordImageCleanupFailure()
				j.logger.Warn("Janitor: failed to delete image",
					"storage_key", key,
					"error", err.Error())
				continue
			}
			j.logger.Debug("Janitor: image deleted",
				"storage_key", key)
		}
	}()
}

// Wait blocks until every scheduled deletion has finished.
func (j *Janitor) Wait() {
	j.wg.Wait()
}

// Shutdown waits for scheduled deletions or until ctx is done.
func (j *Janitor) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
