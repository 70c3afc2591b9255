package port

import (
	"context"
	"image"
)

// SnapshotWriter persists a decoded frame as an image file. Implementations
// must not leave a partial file at path when they fail.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, path string, img image.Image) error
}

// SnapshotMirror copies a captured snapshot to remote object storage.
type SnapshotMirror interface {
	UploadSnapshot(ctx context.Context, objectKey string, filePath string) error
}
