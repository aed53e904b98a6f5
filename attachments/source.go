package attachments

import (
	"context"
	"errors"
	"mime"
	"path"
	"path/filepath"

	"checkout-service/models"
)

// ErrNotFound is returned when the configured document does not exist.
var ErrNotFound = errors.New("attachment not found")

// Source yields the document mailed to buyers. Every call re-reads it.
type Source interface {
	Load(ctx context.Context) (*models.Attachment, error)
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func baseName(name string) string {
	return path.Base(filepath.ToSlash(name))
}
