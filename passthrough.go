package md2site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// copyPassthrough copies each configured path from inputDir to the same
// relative location under outputDir. Missing paths are skipped. Returns the
// number of files copied.
func copyPassthrough(ctx context.Context, logger *slog.Logger, inputDir, outputDir string, paths []string) (int, error) {
	total := 0
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		src, err := fileutil.JoinWithin(inputDir, filepath.FromSlash(rel))
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrPassthrough, err)
		}
		if _, err := os.Stat(src); os.IsNotExist(err) {
			logger.Debug("passthrough path not found, skipping", "path", rel)
			continue
		}
		dst, err := fileutil.JoinWithin(outputDir, filepath.FromSlash(rel))
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrPassthrough, err)
		}

		n, err := fileutil.CopyTree(src, dst)
		total += n
		if err != nil {
			return total, fmt.Errorf("%w: %s: %w", ErrPassthrough, rel, err)
		}
		logger.Debug("passthrough copied", "path", rel, "files", n)
	}
	return total, nil
}

// passthroughRoots returns the absolute source paths hashed for cache busting.
func passthroughRoots(inputDir string, paths []string) []string {
	roots := make([]string, 0, len(paths))
	for _, rel := range paths {
		if p, err := fileutil.JoinWithin(inputDir, filepath.FromSlash(rel)); err == nil {
			roots = append(roots, p)
		}
	}
	return roots
}
