// Package transfer implements the 3PL file drop-box port over SFTP.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// Config holds the SFTP connection and directory settings
type Config struct {
	Addr        string
	User        string
	Password    string
	DialTimeout time.Duration
	// HostKeyCallback defaults to accepting any host key; the 3PL's server
	// presents a self-signed key that rotates without notice
	HostKeyCallback ssh.HostKeyCallback

	InboxDir   string // remote directory receiving outbound order files
	OutboxDir  string // remote directory where shipping reports appear
	ArchiveDir string // remote directory for processed reports
}

// Validate checks the connection settings
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("transfer: sftp address is required")
	}
	if c.User == "" {
		return errors.New("transfer: sftp user is required")
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 30 * time.Second
	}
	if c.InboxDir == "" {
		c.InboxDir = "/IN"
	}
	if c.OutboxDir == "" {
		c.OutboxDir = "/OUT"
	}
	if c.ArchiveDir == "" {
		c.ArchiveDir = "/OUT/ARCHIVES"
	}
	return nil
}

// SFTPGateway implements the TransferGateway port with one SFTP session per
// operation: the drop-box is polled at long intervals, so holding a
// connection open buys nothing and leaks half-closed sessions.
type SFTPGateway struct {
	config *Config
	logger *zap.Logger
}

// NewSFTPGateway creates a gateway for the given connection settings
func NewSFTPGateway(config *Config, logger *zap.Logger) (*SFTPGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SFTPGateway{config: config, logger: logger}, nil
}

// InboxDir returns the remote inbox directory
func (g *SFTPGateway) InboxDir() string { return g.config.InboxDir }

// OutboxDir returns the remote outbox directory
func (g *SFTPGateway) OutboxDir() string { return g.config.OutboxDir }

// ArchiveDir returns the remote archive directory
func (g *SFTPGateway) ArchiveDir() string { return g.config.ArchiveDir }

// withSession dials, runs fn, and tears the session down
func (g *SFTPGateway) withSession(ctx context.Context, fn func(*sftp.Client) error) error {
	hostKeyCallback := g.config.HostKeyCallback
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	sshConfig := &ssh.ClientConfig{
		User:            g.config.User,
		Auth:            []ssh.AuthMethod{ssh.Password(g.config.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         g.config.DialTimeout,
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	sshConn, err := ssh.Dial("tcp", g.config.Addr, sshConfig)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", fulfillment.ErrTransport, g.config.Addr, err)
	}
	defer sshConn.Close()

	client, err := sftp.NewClient(sshConn)
	if err != nil {
		return fmt.Errorf("%w: open sftp subsystem: %v", fulfillment.ErrTransport, err)
	}
	defer client.Close()

	return fn(client)
}

// Send uploads a local file into the 3PL's inbox
func (g *SFTPGateway) Send(ctx context.Context, localPath string) error {
	remotePath := path.Join(g.config.InboxDir, path.Base(localPath))

	return g.withSession(ctx, func(client *sftp.Client) error {
		src, err := os.Open(localPath)
		if err != nil {
			return fmt.Errorf("transfer: open %s: %w", localPath, err)
		}
		defer src.Close()

		dst, err := client.Create(remotePath)
		if err != nil {
			return fmt.Errorf("%w: create %s: %v", fulfillment.ErrTransport, remotePath, err)
		}
		defer dst.Close()

		n, err := io.Copy(dst, src)
		if err != nil {
			return fmt.Errorf("%w: upload %s: %v", fulfillment.ErrTransport, remotePath, err)
		}

		g.logger.Info("uploaded file",
			zap.String("local", localPath),
			zap.String("remote", remotePath),
			zap.Int64("bytes", n))
		return nil
	})
}

// List returns the files present in a remote directory
func (g *SFTPGateway) List(ctx context.Context, remoteDir string) ([]fulfillment.RemoteFile, error) {
	var files []fulfillment.RemoteFile

	err := g.withSession(ctx, func(client *sftp.Client) error {
		entries, err := client.ReadDir(remoteDir)
		if err != nil {
			return fmt.Errorf("%w: list %s: %v", fulfillment.ErrTransport, remoteDir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, fulfillment.RemoteFile{
				Name:    entry.Name(),
				Size:    entry.Size(),
				ModTime: entry.ModTime(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Fetch downloads a remote file to a local path
func (g *SFTPGateway) Fetch(ctx context.Context, remotePath, localPath string) error {
	return g.withSession(ctx, func(client *sftp.Client) error {
		src, err := client.Open(remotePath)
		if err != nil {
			return fmt.Errorf("%w: open %s: %v", fulfillment.ErrTransport, remotePath, err)
		}
		defer src.Close()

		dst, err := os.Create(localPath)
		if err != nil {
			return fmt.Errorf("transfer: create %s: %w", localPath, err)
		}
		defer dst.Close()

		n, err := io.Copy(dst, src)
		if err != nil {
			return fmt.Errorf("%w: download %s: %v", fulfillment.ErrTransport, remotePath, err)
		}

		g.logger.Info("downloaded file",
			zap.String("remote", remotePath),
			zap.String("local", localPath),
			zap.Int64("bytes", n))
		return nil
	})
}

// Exists reports whether a remote path exists
func (g *SFTPGateway) Exists(ctx context.Context, remotePath string) (bool, error) {
	var exists bool
	err := g.withSession(ctx, func(client *sftp.Client) error {
		_, statErr := client.Stat(remotePath)
		if statErr == nil {
			exists = true
			return nil
		}
		if errors.Is(statErr, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: stat %s: %v", fulfillment.ErrTransport, remotePath, statErr)
	})
	return exists, err
}

// EnsureDir creates a remote directory (and parents) when missing
func (g *SFTPGateway) EnsureDir(ctx context.Context, remoteDir string) error {
	return g.withSession(ctx, func(client *sftp.Client) error {
		if _, err := client.Stat(remoteDir); err == nil {
			return nil
		}
		if err := client.MkdirAll(remoteDir); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", fulfillment.ErrTransport, remoteDir, err)
		}
		return nil
	})
}

// Move renames a remote file, used for archival
func (g *SFTPGateway) Move(ctx context.Context, srcRemote, dstRemote string) error {
	return g.withSession(ctx, func(client *sftp.Client) error {
		if _, err := client.Stat(srcRemote); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s", fulfillment.ErrRemoteFileMissing, srcRemote)
			}
			return fmt.Errorf("%w: stat %s: %v", fulfillment.ErrTransport, srcRemote, err)
		}
		if err := client.Rename(srcRemote, dstRemote); err != nil {
			return fmt.Errorf("%w: rename %s to %s: %v", fulfillment.ErrTransport, srcRemote, dstRemote, err)
		}
		g.logger.Info("moved remote file",
			zap.String("from", srcRemote),
			zap.String("to", dstRemote))
		return nil
	})
}

// Close is a no-op; sessions are per-operation
func (g *SFTPGateway) Close() error { return nil }

// Ensure SFTPGateway implements the TransferGateway port
var _ fulfillment.TransferGateway = (*SFTPGateway)(nil)
