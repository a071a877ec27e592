package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Backup copies the local upload directory into a timestamped folder under
// Dest once a day and prunes folders older than Retention.
type Backup struct {
	Src       string
	Dest      string
	Retention time.Duration
	Hour      int
	Log       *zap.Logger
	now       func() time.Time
}

func NewBackup(src, dest string, retention time.Duration, hour int, log *zap.Logger) *Backup {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backup{Src: src, Dest: dest, Retention: retention, Hour: hour, Log: log, now: time.Now}
}

// Run blocks until ctx is done, backing up at Hour:00 every day.
func (b *Backup) Run(ctx context.Context) error {
	for {
		next := b.nextRun(b.now())
		b.Log.Info("next upload backup scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if dir, err := b.RunOnce(); err != nil {
			b.Log.Error("upload backup failed", zap.Error(err))
		} else {
			b.Log.Info("uploads backed up", zap.String("dir", dir))
		}
	}
}

func (b *Backup) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), b.Hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// RunOnce takes one backup and prunes old ones. It returns the new folder.
func (b *Backup) RunOnce() (string, error) {
	now := b.now()
	destDir := filepath.Join(b.Dest, now.Format("2006-01-02_15-04-05"))
	if err := copyDir(b.Src, destDir); err != nil {
		return "", fmt.Errorf("back up %s: %w", b.Src, err)
	}
	b.prune(now)
	return destDir, nil
}

func (b *Backup) prune(now time.Time) {
	entries, err := os.ReadDir(b.Dest)
	if err != nil {
		b.Log.Warn("read backup directory", zap.Error(err))
		return
	}

	cutoff := now.Add(-b.Retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(b.Dest, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(folderPath); err != nil {
			b.Log.Warn("remove old backup", zap.String("dir", folderPath), zap.Error(err))
			continue
		}
		b.Log.Info("removed old backup", zap.String("dir", folderPath))
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
