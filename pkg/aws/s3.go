package aws

import (
	"context"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrObjectNotFound = errors.New("s3 object not found")

// ObjectReader downloads whole objects from a bucket into memory.
type ObjectReader struct {
	downloader *manager.Downloader
}

func NewObjectReader(cfg sdkaws.Config) *ObjectReader {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// LocalStack serves buckets on the path, not on a subdomain.
		o.UsePathStyle = cfg.BaseEndpoint != nil
	})
	return newObjectReader(client)
}

func newObjectReader(api manager.DownloadAPIClient) *ObjectReader {
	return &ObjectReader{downloader: manager.NewDownloader(api)}
}

func (r *ObjectReader) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := r.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: sdkaws.String(bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}
