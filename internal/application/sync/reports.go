package sync

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/tenant"
)

// Annotation applied for in-progress preparation reports
const (
	inProgressNote = "Preparation in progress"
	inProgressTags = "In Progress"
)

// ReportConfig holds the import pipeline's settings
type ReportConfig struct {
	// OutboxDir is the remote directory where the 3PL publishes reports
	OutboxDir string
	// ArchiveDir is the remote directory processed reports are moved to
	ArchiveDir string
	// RecordTimeout bounds each per-order status update
	RecordTimeout time.Duration
	// FileTimeout bounds the processing of one report file
	FileTimeout time.Duration
	// LedgerTTL is how long applied updates are remembered
	LedgerTTL time.Duration
}

// ReportImportService pulls preparation reports from the 3PL's outbox and
// applies the status of each contained order back onto the commerce platform.
type ReportImportService struct {
	platform fulfillment.CommercePlatform
	gateway  fulfillment.TransferGateway
	files    FileStore
	tenants  *tenant.Registry
	ledger   fulfillment.CompletionLedger // nil disables replay suppression
	config   ReportConfig
	logger   *zap.Logger
}

// NewReportImportService wires the import pipeline. Passing a nil ledger
// keeps the protocol purely at-least-once.
func NewReportImportService(
	platform fulfillment.CommercePlatform,
	gateway fulfillment.TransferGateway,
	files FileStore,
	tenants *tenant.Registry,
	ledger fulfillment.CompletionLedger,
	config ReportConfig,
	logger *zap.Logger,
) *ReportImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RecordTimeout == 0 {
		config.RecordTimeout = 30 * time.Second
	}
	if config.FileTimeout == 0 {
		config.FileTimeout = 5 * time.Minute
	}
	if config.LedgerTTL == 0 {
		config.LedgerTTL = 168 * time.Hour
	}
	return &ReportImportService{
		platform: platform,
		gateway:  gateway,
		files:    files,
		tenants:  tenants,
		ledger:   ledger,
		config:   config,
		logger:   logger,
	}
}

// RetrieveAndProcessFiles downloads every report waiting in the remote
// outbox, then processes the local queue. Returns the number of files
// downloaded. A file that fails to download is logged and skipped; it will
// still be remote on the next run.
func (s *ReportImportService) RetrieveAndProcessFiles(ctx context.Context) (int, error) {
	remote, err := s.gateway.List(ctx, s.config.OutboxDir)
	if err != nil {
		return 0, fmt.Errorf("list remote outbox: %w", err)
	}

	downloaded := 0
	for _, file := range remote {
		if !fulfillment.IsReportFilename(file.Name) {
			continue
		}

		localPath, err := s.files.IncomingPath(file.Name)
		if err != nil {
			return downloaded, err
		}

		remotePath := path.Join(s.config.OutboxDir, file.Name)
		if err := s.gateway.Fetch(ctx, remotePath, localPath); err != nil {
			s.logger.Error("failed to download report",
				zap.String("file", file.Name),
				zap.Error(err))
			continue
		}
		downloaded++
	}

	if _, err := s.ProcessLocalFiles(ctx); err != nil {
		return downloaded, err
	}
	return downloaded, nil
}

// ProcessLocalFiles processes every report waiting in the incoming directory
// and returns how many were fully applied. A failing file is logged and left
// in place for the next run; it never blocks its neighbors.
func (s *ReportImportService) ProcessLocalFiles(ctx context.Context) (int, error) {
	names, err := s.files.ListIncoming()
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, name := range names {
		// Partially written downloads and foreign files stay untouched
		if !fulfillment.IsReportFilename(name) {
			continue
		}
		if err := s.ProcessReportFile(ctx, name); err != nil {
			s.logger.Error("failed to process report",
				zap.String("file", name),
				zap.Error(err))
			continue
		}
		processed++
	}
	return processed, nil
}

// ProcessReportFile applies one local report file. The file is archived
// remotely and deleted locally only when every contained record succeeded;
// otherwise it stays for a retry and ErrPartialFailure is returned.
func (s *ReportImportService) ProcessReportFile(ctx context.Context, filename string) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.FileTimeout)
	defer cancel()

	prefix, ok := fulfillment.ExtractTenantPrefix(filename)
	if !ok {
		return fmt.Errorf("%w: %q carries no tenant prefix", fulfillment.ErrUnresolvedTenant, filename)
	}

	t, err := s.tenants.ByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("%w: prefix %q: %v", fulfillment.ErrUnresolvedTenant, prefix, err)
	}

	data, err := s.files.ReadIncoming(filename)
	if err != nil {
		return err
	}

	report, err := fulfillment.DecodeReportFile(data)
	if err != nil {
		return err
	}

	outcomes := s.applyReport(ctx, t.Key, filename, report)
	if !fulfillment.AllSucceeded(outcomes) {
		failed := 0
		for _, o := range outcomes {
			if !o.Success {
				failed++
			}
		}
		return fmt.Errorf("%w: %s: %d of %d records failed",
			fulfillment.ErrPartialFailure, filename, failed, len(outcomes))
	}

	if err := s.archiveRemote(ctx, filename); err != nil {
		return err
	}
	if err := s.files.RemoveIncoming(filename); err != nil {
		return err
	}

	s.logger.Info("report applied",
		zap.String("tenant", t.Key),
		zap.String("file", filename),
		zap.Int("records", len(outcomes)))
	return nil
}

// applyReport fans the records out and waits for all of them. Records are
// independent; one order's failure must not keep a sibling's tracking number
// from reaching the shop.
func (s *ReportImportService) applyReport(ctx context.Context, tenantKey, filename string, report *fulfillment.ReportFile) []fulfillment.RecordOutcome {
	outcomes := make([]fulfillment.RecordOutcome, len(report.Orders))

	var wg sync.WaitGroup
	for i := range report.Orders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := &report.Orders[i]
			err := s.applyRecord(ctx, tenantKey, filename, record)
			if err != nil {
				s.logger.Error("status update failed",
					zap.String("tenant", tenantKey),
					zap.String("file", filename),
					zap.String("order", record.OrderID),
					zap.String("status", record.Status.String()),
					zap.Error(err))
			}
			outcomes[i] = fulfillment.RecordOutcome{
				OrderID: record.OrderID,
				Success: err == nil,
			}
		}(i)
	}
	wg.Wait()

	return outcomes
}

// applyRecord applies one order's status update, bounded by the record
// timeout and guarded by the ledger when one is configured.
func (s *ReportImportService) applyRecord(ctx context.Context, tenantKey, filename string, record *fulfillment.ReportOrder) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.RecordTimeout)
	defer cancel()

	ledgerKey := fmt.Sprintf("%s/%s/%s/%s", tenantKey, filename, record.OrderID, record.Status)
	if s.ledger != nil {
		done, err := s.ledger.IsProcessed(ctx, ledgerKey)
		if err != nil {
			s.logger.Warn("ledger lookup failed, applying anyway",
				zap.String("key", ledgerKey),
				zap.Error(err))
		} else if done {
			s.logger.Info("skipping already applied record",
				zap.String("key", ledgerKey))
			return nil
		}
	}

	if err := s.dispatchStatus(ctx, tenantKey, record); err != nil {
		return err
	}

	if s.ledger != nil {
		if _, err := s.ledger.MarkProcessed(ctx, ledgerKey, s.config.LedgerTTL); err != nil {
			s.logger.Warn("ledger write failed",
				zap.String("key", ledgerKey),
				zap.Error(err))
		}
	}
	return nil
}

// dispatchStatus maps the 3PL's preparation code onto a platform call.
// Unknown codes are deliberately a successful no-op so a schema extension on
// the 3PL side cannot wedge a whole file.
func (s *ReportImportService) dispatchStatus(ctx context.Context, tenantKey string, record *fulfillment.ReportOrder) error {
	if !record.Status.Known() {
		s.logger.Warn("unknown preparation status, skipping record",
			zap.String("tenant", tenantKey),
			zap.String("order", record.OrderID),
			zap.String("status", record.Status.String()))
		return nil
	}

	order, err := s.platform.FindOrderByNumber(ctx, tenantKey, record.OrderID)
	if err != nil {
		return err
	}

	switch record.Status {
	case fulfillment.PrepStatusComplete:
		return s.platform.CreateFulfillment(ctx, tenantKey, order.ID, record.TrackingNumber(), true)
	case fulfillment.PrepStatusInProgress:
		return s.platform.AnnotateOrder(ctx, tenantKey, order.ID, inProgressNote, inProgressTags)
	case fulfillment.PrepStatusCanceled:
		return s.platform.CancelOrder(ctx, tenantKey, order.ID)
	}
	return nil
}

// archiveRemote moves the processed report into the remote archive. A report
// that is no longer remote (already archived by a previous partial run) is
// not an error.
func (s *ReportImportService) archiveRemote(ctx context.Context, filename string) error {
	if err := s.gateway.EnsureDir(ctx, s.config.ArchiveDir); err != nil {
		return err
	}

	remotePath := path.Join(s.config.OutboxDir, filename)
	exists, err := s.gateway.Exists(ctx, remotePath)
	if err != nil {
		return err
	}
	if !exists {
		s.logger.Info("remote report already gone, skipping archive",
			zap.String("file", filename))
		return nil
	}

	return s.gateway.Move(ctx, remotePath, path.Join(s.config.ArchiveDir, filename))
}
