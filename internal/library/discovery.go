package library

import (
	"context"
	"os"
	"path/filepath"

	"github.com/llehouerou/wavesdb/internal/tags"
)

// discoverFiles walks the given source directories and returns all music
// files found. A file whose URI was already found under an earlier source is
// returned in shadowed instead. Unreadable entries are skipped; cancellation
// stops the walk.
func discoverFiles(ctx context.Context, sources []string, report func(ScanProgress)) ([]fileInfo, []fileInfo, error) {
	var files, shadowed []fileInfo
	seen := make(map[string]struct{})
	for _, src := range sources {
		err := filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Skip any walk errors - intentionally continuing to scan other paths
			if walkErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if d.IsDir() || !tags.IsMusicFile(path) {
				return nil
			}

			f := fileInfo{
				path:   path,
				uri:    relativeURI(src, path),
				source: src,
			}
			if _, ok := seen[f.uri]; ok {
				shadowed = append(shadowed, f)
				return nil
			}
			seen[f.uri] = struct{}{}
			files = append(files, f)

			if len(files)%100 == 0 {
				report(ScanProgress{Phase: PhaseScanning, Current: len(files), CurrentFile: path})
			}
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return files, shadowed, nil
}

// relativeURI returns the slash-separated path relative to the source, or
// the full path if not under source.
func relativeURI(source, path string) string {
	rel, err := filepath.Rel(source, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
