package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/service"
)

// SyncWorker refreshes the catalog cache from the store API on a fixed interval.
type SyncWorker struct {
	syncService *service.SyncService
	interval    time.Duration
	timeout     time.Duration
}

// NewSyncWorker constructs a SyncWorker.
func NewSyncWorker(syncService *service.SyncService, interval, timeout time.Duration) *SyncWorker {
	return &SyncWorker{
		syncService: syncService,
		interval:    interval,
		timeout:     timeout,
	}
}

// Start runs an initial sync, then loops on the interval until the context
// is canceled. Each run is capped by the configured timeout.
func (w *SyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog sync worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog sync worker stopped")
			return
		}
	}
}

func (w *SyncWorker) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if _, err := w.syncService.SyncCatalog(runCtx); err != nil {
		log.Error().Err(err).Msg("Catalog sync failed")
	}
}
