package publish

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vango-dev/spark/internal/errors"
)

// DirPublisher writes pages into a local directory.
type DirPublisher struct {
	dir    string
	logger *slog.Logger
}

// NewDirPublisher creates a publisher writing into dir. The directory is
// created on first publish.
func NewDirPublisher(dir string, logger *slog.Logger) *DirPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirPublisher{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (p *DirPublisher) Dir() string { return p.dir }

// Publish implements Publisher.
func (p *DirPublisher) Publish(ctx context.Context, name string, page []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}
	if err := checkName(name); err != nil {
		return err
	}

	target := filepath.Join(p.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}

	// Write to a temp file and rename so readers never see a partial page.
	tmp, err := os.CreateTemp(filepath.Dir(target), ".spark-*")
	if err != nil {
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}
	if _, err := tmp.Write(page); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}

	p.logger.Info("publish: wrote page", "path", target, "bytes", len(page))
	return nil
}
