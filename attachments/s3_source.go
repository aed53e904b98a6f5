package attachments

import (
	"context"
	"errors"
	"fmt"

	"checkout-service/models"
	awspkg "checkout-service/pkg/aws"
)

// ObjectReader is satisfied by pkg/aws.ObjectReader.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Source reads the attachment from an S3 object.
type S3Source struct {
	reader ObjectReader
	bucket string
	key    string
}

func NewS3Source(reader ObjectReader, bucket, key string) *S3Source {
	return &S3Source{reader: reader, bucket: bucket, key: key}
}

func (s *S3Source) Load(ctx context.Context) (*models.Attachment, error) {
	data, err := s.reader.ReadObject(ctx, s.bucket, s.key)
	if err != nil {
		if errors.Is(err, awspkg.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, s.key)
		}
		return nil, err
	}

	return &models.Attachment{
		Filename:    baseName(s.key),
		ContentType: contentTypeFor(s.key),
		Data:        data,
	}, nil
}
