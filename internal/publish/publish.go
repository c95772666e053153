package publish

import (
	"bytes"
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/vango-dev/spark/internal/config"
	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/internal/treefile"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/render"
)

// Publisher stores one rendered page under a name such as "index.html".
type Publisher interface {
	Publish(ctx context.Context, name string, page []byte) error
}

// New returns the publisher selected by cfg: S3 when a bucket is configured,
// otherwise the output directory.
func New(cfg *config.Config, logger *slog.Logger) (Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Publish.Bucket != "" {
		return NewS3Publisher(S3Options{
			Bucket: cfg.Publish.Bucket,
			Prefix: cfg.Publish.Prefix,
			Region: cfg.Publish.Region,
			Logger: logger,
		}), nil
	}
	return NewDirPublisher(cfg.OutputPath(), logger), nil
}

// RenderDocument renders doc as a complete static HTML page using the
// initial values of its variables. A render failure is returned rather than
// raised.
func RenderDocument(doc *treefile.Document) (page []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, errors.FromPanic(r)
		}
	}()
	tree := doc.Bind(deps.New())
	var buf bytes.Buffer
	if err := render.RenderPage(&buf, render.PageData{
		Title: doc.Title,
		Body:  tree.Content(),
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document renders doc and publishes it under name.
func Document(ctx context.Context, p Publisher, name string, doc *treefile.Document) error {
	page, err := RenderDocument(doc)
	if err != nil {
		return errors.New(errors.CodePublishFailed).Wrap(err)
	}
	return p.Publish(ctx, name, page)
}

// PageName derives the published page name from a tree file path:
// "pages/about.yaml" becomes "about.html".
func PageName(treePath string) string {
	base := path.Base(strings.ReplaceAll(treePath, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		base = "index"
	}
	return base + ".html"
}

// checkName rejects names that would escape the destination.
func checkName(name string) error {
	clean := path.Clean("/" + name)
	if name == "" || clean == "/" || clean[1:] != name {
		return errors.New(errors.CodePublishFailed).
			WithDetailf("invalid page name %q", name)
	}
	return nil
}
