package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// MockCommercePlatform is a mock implementation of CommercePlatform
type MockCommercePlatform struct {
	mock.Mock
}

func (m *MockCommercePlatform) ListPendingOrders(ctx context.Context, tenantKey string) ([]fulfillment.CommerceOrder, error) {
	args := m.Called(ctx, tenantKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.CommerceOrder), args.Error(1)
}

func (m *MockCommercePlatform) FindOrderByNumber(ctx context.Context, tenantKey, orderNumber string) (*fulfillment.CommerceOrder, error) {
	args := m.Called(ctx, tenantKey, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.CommerceOrder), args.Error(1)
}

func (m *MockCommercePlatform) CreateFulfillment(ctx context.Context, tenantKey string, orderID int64, trackingNumber string, notifyCustomer bool) error {
	args := m.Called(ctx, tenantKey, orderID, trackingNumber, notifyCustomer)
	return args.Error(0)
}

func (m *MockCommercePlatform) AnnotateOrder(ctx context.Context, tenantKey string, orderID int64, note, tags string) error {
	args := m.Called(ctx, tenantKey, orderID, note, tags)
	return args.Error(0)
}

func (m *MockCommercePlatform) CancelOrder(ctx context.Context, tenantKey string, orderID int64) error {
	args := m.Called(ctx, tenantKey, orderID)
	return args.Error(0)
}

// MockTransferGateway is a mock implementation of TransferGateway
type MockTransferGateway struct {
	mock.Mock
}

func (m *MockTransferGateway) Send(ctx context.Context, localPath string) error {
	args := m.Called(ctx, localPath)
	return args.Error(0)
}

func (m *MockTransferGateway) List(ctx context.Context, remoteDir string) ([]fulfillment.RemoteFile, error) {
	args := m.Called(ctx, remoteDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.RemoteFile), args.Error(1)
}

func (m *MockTransferGateway) Fetch(ctx context.Context, remotePath, localPath string) error {
	args := m.Called(ctx, remotePath, localPath)
	return args.Error(0)
}

func (m *MockTransferGateway) Exists(ctx context.Context, remotePath string) (bool, error) {
	args := m.Called(ctx, remotePath)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferGateway) EnsureDir(ctx context.Context, remoteDir string) error {
	args := m.Called(ctx, remoteDir)
	return args.Error(0)
}

func (m *MockTransferGateway) Move(ctx context.Context, srcRemote, dstRemote string) error {
	args := m.Called(ctx, srcRemote, dstRemote)
	return args.Error(0)
}

func (m *MockTransferGateway) Close() error {
	args := m.Called()
	return args.Error(0)
}

// fakeFileStore is an in-memory FileStore
type fakeFileStore struct {
	mu       stdsync.Mutex
	outgoing map[string][]byte
	incoming map[string][]byte
	backups  []string

	writeErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{
		outgoing: make(map[string][]byte),
		incoming: make(map[string][]byte),
	}
}

func (f *fakeFileStore) WriteOutgoing(name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.outgoing[name] = data
	return "outgoing/" + name, nil
}

func (f *fakeFileStore) IncomingPath(name string) (string, error) {
	return "incoming/" + name, nil
}

func (f *fakeFileStore) ReadIncoming(name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.incoming[name]
	if !ok {
		return nil, fmt.Errorf("localstore: read %s: file does not exist", name)
	}
	return data, nil
}

func (f *fakeFileStore) ListIncoming() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.incoming))
	for name := range f.incoming {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeFileStore) RemoveIncoming(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.incoming[name]; !ok {
		return fmt.Errorf("localstore: remove %s: file does not exist", name)
	}
	delete(f.incoming, name)
	return nil
}

func (f *fakeFileStore) Backup(srcPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backups = append(f.backups, srcPath)
	return "backups/" + srcPath, nil
}

func (f *fakeFileStore) putIncoming(name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incoming[name] = data
}

func (f *fakeFileStore) hasIncoming(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.incoming[name]
	return ok
}

// fakeLedger is an in-memory CompletionLedger without expiry
type fakeLedger struct {
	mu      stdsync.Mutex
	entries map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]bool)}
}

func (l *fakeLedger) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.entries[key] {
		return false, nil
	}
	l.entries[key] = true
	return true, nil
}

func (l *fakeLedger) IsProcessed(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[key], nil
}

func (l *fakeLedger) Close() error { return nil }
