package app

import (
	"context"
	"fmt"
	"time"

	"github.com/knawat/mp-go/internal/catalog"
	"github.com/knawat/mp-go/internal/config"
	"github.com/knawat/mp-go/internal/logger"
	"github.com/knawat/mp-go/internal/storage"
	"github.com/knawat/mp-go/pkg/publishers"
)

// Syncer represents the catalog sync runtime. It owns the publishers and the
// storage backend and runs sync passes once or on an interval.
type Syncer struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	service  *catalog.Service
	interval time.Duration
	log      logger.Logger
	store    storage.Store
}

// NewSyncer builds a sync runtime from config files around the given product source.
func NewSyncer(ctx context.Context, cfg *config.Config, source catalog.ProductSource, log logger.Logger) (*Syncer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("product source must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.DefaultBuilders().BuildAll(ctx, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ProductTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"product_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := catalog.NewService(source, fanout, store,
		catalog.WithPageSize(cfg.SyncPageSize),
		catalog.WithLogger(log),
	)

	return &Syncer{
		cfg:      cfg,
		fanout:   fanout,
		service:  service,
		interval: cfg.SyncInterval,
		log:      log,
		store:    store,
	}, nil
}

// Run performs one sync pass when no interval is configured, otherwise it
// repeats passes until the context is cancelled. Resources are released on return.
func (s *Syncer) Run(ctx context.Context) (catalog.Report, error) {
	if s == nil || s.service == nil {
		return catalog.Report{}, fmt.Errorf("syncer is not initialized")
	}
	defer s.close()

	if s.interval <= 0 {
		return s.runOnce(ctx)
	}

	s.log.InfoObj("sync loop starting", "sync_state", map[string]any{
		"publishers_count": s.fanout.Size(),
		"sync_interval":    s.interval.String(),
	})

	last, err := s.runOnce(ctx)
	if err != nil {
		s.log.ErrorObj("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("sync loop exiting", "reason", ctx.Err())
			return last, nil
		case <-ticker.C:
			report, err := s.runOnce(ctx)
			if err != nil {
				s.log.ErrorObj("scheduled sync failed", "error", err)
			}
			last = report
		}
	}
}

// runOnce performs a single sync pass.
func (s *Syncer) runOnce(ctx context.Context) (catalog.Report, error) {
	start := time.Now()
	s.log.InfoObj("sync started", "sync_meta", map[string]any{
		"started_at": start.UTC(),
	})
	report, err := s.service.Run(ctx)
	if err != nil {
		return report, err
	}
	s.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"published":  report.Published,
		"skipped":    report.Skipped,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return report, nil
}

// close releases publishers and the storage backend, logging any errors encountered.
func (s *Syncer) close() {
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publishers close failed", "error", err)
	}
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.ErrorObj("storage close failed", "error", err)
	}
}
