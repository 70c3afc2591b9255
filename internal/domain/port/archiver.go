package port

import "context"

// Archiver packs the given files into one archive written to outputPath.
type Archiver interface {
	Archive(ctx context.Context, files []string, outputPath string) error
}
