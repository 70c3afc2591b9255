package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	"github.com/fuad00/rtspshot/internal/domain/port"
)

// ArchiveSnapshots zips the files captured in report next to outputDir and
// returns the archive path. It returns "" when nothing was captured.
func ArchiveSnapshots(ctx context.Context, archiver port.Archiver, report *entity.Report, outputDir string) (string, error) {
	// Duplicate sources share a file; archive it once.
	seen := make(map[string]bool)
	var files []string
	for _, f := range report.CapturedFiles() {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return "", nil
	}
	zipPath := filepath.Clean(outputDir) + ".zip"
	if err := archiver.Archive(ctx, files, zipPath); err != nil {
		return "", fmt.Errorf("archive snapshots: %w", err)
	}
	return zipPath, nil
}
