package sync

// FileStore is the slice of the local working directories the pipelines use.
// The localstore package provides the production implementation.
type FileStore interface {
	// WriteOutgoing writes an order file and returns its path
	WriteOutgoing(name string, data []byte) (string, error)

	// IncomingPath returns the path a fetched report should be stored at
	IncomingPath(name string) (string, error)

	// ReadIncoming reads a report file from the incoming directory
	ReadIncoming(name string) ([]byte, error)

	// ListIncoming returns waiting report filenames in stable order
	ListIncoming() ([]string, error)

	// RemoveIncoming deletes a processed report
	RemoveIncoming(name string) error

	// Backup copies a file into the backups directory under a timestamped
	// name and returns the backup path
	Backup(srcPath string) (string, error)
}
