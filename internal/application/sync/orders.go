// Package sync implements the two order-synchronization pipelines: exporting
// pending commerce orders to the 3PL's drop-box, and importing the 3PL's
// preparation reports back onto the commerce platform.
package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/tenant"
)

// OrderExportService turns pending commerce orders into order files on the
// 3PL's inbox. One run produces at most one file per tenant.
type OrderExportService struct {
	platform fulfillment.CommercePlatform
	gateway  fulfillment.TransferGateway
	files    FileStore
	tenants  *tenant.Registry
	logger   *zap.Logger

	now func() time.Time
}

// NewOrderExportService wires the export pipeline
func NewOrderExportService(
	platform fulfillment.CommercePlatform,
	gateway fulfillment.TransferGateway,
	files FileStore,
	tenants *tenant.Registry,
	logger *zap.Logger,
) *OrderExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderExportService{
		platform: platform,
		gateway:  gateway,
		files:    files,
		tenants:  tenants,
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessPendingOrders exports one tenant's pending orders and returns the
// paths of the generated files. A tenant with nothing to ship produces no
// file and no remote traffic.
func (s *OrderExportService) ProcessPendingOrders(ctx context.Context, tenantKey string) ([]string, error) {
	t, err := s.tenants.ByKey(tenantKey)
	if err != nil {
		return nil, err
	}

	orders, err := s.platform.ListPendingOrders(ctx, tenantKey)
	if err != nil {
		return nil, fmt.Errorf("list pending orders for %q: %w", tenantKey, err)
	}
	if len(orders) == 0 {
		s.logger.Info("no pending orders", zap.String("tenant", tenantKey))
		return nil, nil
	}

	localPath, err := s.exportBatch(ctx, tenantKey, t, orders)
	if err != nil {
		return nil, err
	}

	return []string{localPath}, nil
}

// ExportOrder exports a single order, typically delivered by a platform
// webhook, without waiting for the next scheduled run.
func (s *OrderExportService) ExportOrder(ctx context.Context, tenantKey string, order fulfillment.CommerceOrder) (string, error) {
	t, err := s.tenants.ByKey(tenantKey)
	if err != nil {
		return "", err
	}
	return s.exportBatch(ctx, tenantKey, t, []fulfillment.CommerceOrder{order})
}

// exportBatch encodes the orders into a single file, uploads it and keeps a
// timestamped backup. Returns the local path of the produced file. The local
// copy survives a failed upload for inspection.
func (s *OrderExportService) exportBatch(ctx context.Context, tenantKey string, t *tenant.Config, orders []fulfillment.CommerceOrder) (string, error) {
	batch := &fulfillment.OrderBatch{}
	for i := range orders {
		batch.Orders = append(batch.Orders, fulfillment.BuildOrder(t.Name, &orders[i]))
	}

	encoded, err := fulfillment.EncodeOrderBatch(batch)
	if err != nil {
		return "", fmt.Errorf("encode order batch for %q: %w", tenantKey, err)
	}

	filename := fulfillment.OrderFilename(s.now())
	localPath, err := s.files.WriteOutgoing(filename, encoded)
	if err != nil {
		return "", err
	}

	if err := s.gateway.Send(ctx, localPath); err != nil {
		return "", fmt.Errorf("upload %s for %q: %w", filename, tenantKey, err)
	}

	if _, err := s.files.Backup(localPath); err != nil {
		// The file is already delivered; losing the backup is not worth
		// failing the run over
		s.logger.Warn("backup failed after upload",
			zap.String("tenant", tenantKey),
			zap.String("file", filename),
			zap.Error(err))
	}

	s.logger.Info("exported orders",
		zap.String("tenant", tenantKey),
		zap.String("file", filename),
		zap.Int("orders", len(orders)))

	return localPath, nil
}

// ProcessAllPendingOrders exports every tenant's pending orders. A failing
// tenant is logged and reported as an empty slice; it never blocks the others.
func (s *OrderExportService) ProcessAllPendingOrders(ctx context.Context) map[string][]string {
	results := make(map[string][]string)

	for _, key := range s.tenants.Keys() {
		files, err := s.ProcessPendingOrders(ctx, key)
		if err != nil {
			s.logger.Error("order export failed for tenant",
				zap.String("tenant", key),
				zap.Error(err))
			results[key] = []string{}
			continue
		}
		if files == nil {
			files = []string{}
		}
		results[key] = files
	}

	return results
}
