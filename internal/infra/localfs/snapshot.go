package localfs

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
)

const DefaultJPEGQuality = 90

// JPEGWriter implements port.SnapshotWriter on the local filesystem.
type JPEGWriter struct {
	quality int
}

func NewJPEGWriter(quality int) *JPEGWriter {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &JPEGWriter{quality: quality}
}

// WriteSnapshot encodes img into a temporary file next to path and renames it
// into place, so path either holds a complete image or is left untouched.
// An existing file at path is replaced.
func (w *JPEGWriter) WriteSnapshot(ctx context.Context, path string, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: w.quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename snapshot %s: %w", path, err)
	}
	committed = true
	return nil
}
