package storage

import "context"

// ObjectStorage captures the minimal operations the export flow needs against
// an S3-compatible bucket.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// ObjectInfo is metadata for a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}
