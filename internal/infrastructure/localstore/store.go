// Package localstore manages the local working directories of the sync
// pipelines: outgoing order files awaiting upload, incoming shipping reports
// awaiting processing, and timestamped backups of everything transferred.
package localstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

const dirPerm = 0o755

// Store gives the pipelines scoped access to the three working directories.
// Directories are created on demand.
type Store struct {
	outgoingDir string
	incomingDir string
	backupsDir  string

	now func() time.Time
}

// New creates a store over the given directory roots
func New(outgoingDir, incomingDir, backupsDir string) *Store {
	return &Store{
		outgoingDir: outgoingDir,
		incomingDir: incomingDir,
		backupsDir:  backupsDir,
		now:         time.Now,
	}
}

// OutgoingDir returns the outgoing directory root
func (s *Store) OutgoingDir() string { return s.outgoingDir }

// IncomingDir returns the incoming directory root
func (s *Store) IncomingDir() string { return s.incomingDir }

// BackupsDir returns the backups directory root
func (s *Store) BackupsDir() string { return s.backupsDir }

// WriteOutgoing writes an order file into the outgoing directory and
// returns its absolute-ish path
func (s *Store) WriteOutgoing(name string, data []byte) (string, error) {
	return s.write(s.outgoingDir, name, data)
}

// IncomingPath returns the path a fetched report should be stored at
func (s *Store) IncomingPath(name string) (string, error) {
	if err := os.MkdirAll(s.incomingDir, dirPerm); err != nil {
		return "", fmt.Errorf("localstore: create %s: %w", s.incomingDir, err)
	}
	return filepath.Join(s.incomingDir, name), nil
}

// ReadIncoming reads a report file from the incoming directory
func (s *Store) ReadIncoming(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.incomingDir, name))
	if err != nil {
		return nil, fmt.Errorf("localstore: read %s: %w", name, err)
	}
	return data, nil
}

// ListIncoming returns the report filenames waiting in the incoming
// directory, sorted for stable processing order
func (s *Store) ListIncoming() ([]string, error) {
	entries, err := os.ReadDir(s.incomingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("localstore: list %s: %w", s.incomingDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// RemoveIncoming deletes a processed report from the incoming directory
func (s *Store) RemoveIncoming(name string) error {
	if err := os.Remove(filepath.Join(s.incomingDir, name)); err != nil {
		return fmt.Errorf("localstore: remove %s: %w", name, err)
	}
	return nil
}

// Backup copies a file into the backups directory under a timestamped name
// and returns the backup path
func (s *Store) Backup(srcPath string) (string, error) {
	if err := os.MkdirAll(s.backupsDir, dirPerm); err != nil {
		return "", fmt.Errorf("localstore: create %s: %w", s.backupsDir, err)
	}

	backupName := fulfillment.BackupFilename(s.now(), filepath.Base(srcPath))
	dstPath := filepath.Join(s.backupsDir, backupName)

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("localstore: open %s: %w", srcPath, err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("localstore: create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("localstore: copy to %s: %w", dstPath, err)
	}
	return dstPath, nil
}

func (s *Store) write(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("localstore: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("localstore: write %s: %w", path, err)
	}
	return path, nil
}
