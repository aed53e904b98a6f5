package attachments

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"checkout-service/models"
)

// FileSource reads the attachment from the local filesystem.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Load(ctx context.Context) (*models.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.path)
		}
		return nil, fmt.Errorf("read attachment %s: %w", f.path, err)
	}

	return &models.Attachment{
		Filename:    baseName(f.path),
		ContentType: contentTypeFor(f.path),
		Data:        data,
	}, nil
}
