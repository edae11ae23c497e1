// Package assethash computes the build-wide cache-busting hash appended to
// asset URLs. The hash is computed once per build from the bytes of the
// static files the build copies, so it changes only when those files do.
package assethash

import (
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// Length is the number of hex characters kept from the digest.
const Length = 10

// Compute hashes every regular file under the given roots (files or
// directories). Each file is keyed by the root's base name joined with its
// path inside the root, so the digest does not depend on where the site is
// checked out. Keys are visited in sorted order and both key and content feed
// the digest, so renames change the hash too.
// Missing roots are skipped. With no files at all, ok is false.
func Compute(roots ...string) (hash string, ok bool, err error) {
	var files []hashedFile
	for _, root := range roots {
		info, statErr := os.Stat(root)
		if statErr != nil {
			if os.IsNotExist(statErr) {
				continue
			}
			return "", false, statErr
		}
		base := filepath.Base(root)
		if !info.IsDir() {
			files = append(files, hashedFile{key: base, path: root})
			continue
		}
		walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			files = append(files, hashedFile{key: path.Join(base, filepath.ToSlash(rel)), path: p})
			return nil
		})
		if walkErr != nil {
			return "", false, walkErr
		}
	}

	if len(files) == 0 {
		return "", false, nil
	}
	slices.SortFunc(files, func(a, b hashedFile) int {
		return strings.Compare(a.key, b.key)
	})

	h := blake3.New()
	for _, file := range files {
		_, _ = h.Write([]byte(file.key))
		_, _ = h.Write([]byte{0})

		f, err := os.Open(file.path) // #nosec G304 -- passthrough path from site config
		if err != nil {
			return "", false, err
		}
		_, copyErr := io.Copy(h, f)
		_ = f.Close()
		if copyErr != nil {
			return "", false, copyErr
		}
		_, _ = h.Write([]byte{0})
	}

	return truncate(hex.EncodeToString(h.Sum(nil))), true, nil
}

type hashedFile struct {
	key  string // slash-separated, relative to the root's parent
	path string
}

// FromTime derives a hash from a timestamp. Used when a build has no static
// files to hash, so every build still gets a distinct, non-empty value.
func FromTime(t time.Time) string {
	h := blake3.New()
	_, _ = h.Write([]byte(strconv.FormatInt(t.UnixNano(), 10)))
	return truncate(hex.EncodeToString(h.Sum(nil)))
}

func truncate(s string) string {
	if len(s) > Length {
		return s[:Length]
	}
	return s
}
