// Package scheduler drives the sync pipelines on fixed intervals.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OrderExporter is the outbound pipeline the trigger drives
type OrderExporter interface {
	ProcessAllPendingOrders(ctx context.Context) map[string][]string
}

// ReportImporter is the inbound pipeline the trigger drives
type ReportImporter interface {
	RetrieveAndProcessFiles(ctx context.Context) (int, error)
}

// SyncTriggerConfig holds the trigger intervals
type SyncTriggerConfig struct {
	ExportEnabled  bool
	ExportInterval time.Duration
	ImportEnabled  bool
	ImportInterval time.Duration
}

// DefaultSyncTriggerConfig returns the production defaults: hourly order
// export, half-hourly report import
func DefaultSyncTriggerConfig() SyncTriggerConfig {
	return SyncTriggerConfig{
		ExportEnabled:  true,
		ExportInterval: time.Hour,
		ImportEnabled:  true,
		ImportInterval: 30 * time.Minute,
	}
}

// SyncTrigger runs the export and import pipelines on their own tickers.
// Runs of the same pipeline never overlap; the two pipelines are independent.
type SyncTrigger struct {
	config   SyncTriggerConfig
	exporter OrderExporter
	importer ReportImporter
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncTrigger creates a trigger over the two pipelines
func NewSyncTrigger(
	config SyncTriggerConfig,
	exporter OrderExporter,
	importer ReportImporter,
	logger *zap.Logger,
) *SyncTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncTrigger{
		config:   config,
		exporter: exporter,
		importer: importer,
		logger:   logger,
	}
}

// Start starts the trigger loops
func (t *SyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	if t.config.ExportEnabled {
		t.wg.Add(1)
		go t.exportLoop(ctx)
	}
	if t.config.ImportEnabled {
		t.wg.Add(1)
		go t.importLoop(ctx)
	}

	t.logger.Info("Sync trigger started",
		zap.Bool("export_enabled", t.config.ExportEnabled),
		zap.Duration("export_interval", t.config.ExportInterval),
		zap.Bool("import_enabled", t.config.ImportEnabled),
		zap.Duration("import_interval", t.config.ImportInterval),
	)

	return nil
}

// Stop stops the trigger and waits for in-flight runs to finish
func (t *SyncTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// exportLoop runs the order export on its interval
func (t *SyncTrigger) exportLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.ExportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runExport(ctx)
		}
	}
}

// importLoop runs the report import on its interval
func (t *SyncTrigger) importLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.ImportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runImport(ctx)
		}
	}
}

func (t *SyncTrigger) runExport(ctx context.Context) {
	start := time.Now()
	results := t.exporter.ProcessAllPendingOrders(ctx)

	generated := 0
	for _, files := range results {
		generated += len(files)
	}
	t.logger.Info("Scheduled order export finished",
		zap.Int("tenants", len(results)),
		zap.Int("files", generated),
		zap.Duration("took", time.Since(start)),
	)
}

func (t *SyncTrigger) runImport(ctx context.Context) {
	start := time.Now()
	downloaded, err := t.importer.RetrieveAndProcessFiles(ctx)
	if err != nil {
		t.logger.Error("Scheduled report import failed",
			zap.Error(err),
			zap.Duration("took", time.Since(start)),
		)
		return
	}
	t.logger.Info("Scheduled report import finished",
		zap.Int("downloaded", downloaded),
		zap.Duration("took", time.Since(start)),
	)
}
