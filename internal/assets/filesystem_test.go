package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader.BasePath() == "" {
			t.Error("BasePath() is empty")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, filePath, "test")

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "css", "main.css"), ".a { color: red; }")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := loader.LoadStyle("css/main.css")
	if err != nil {
		t.Fatalf("LoadStyle() error: %v", err)
	}
	if got != ".a { color: red; }" {
		t.Errorf("LoadStyle() = %q", got)
	}

	// Re-read on every call: edits are picked up.
	writeFile(t, filepath.Join(dir, "css", "main.css"), ".b { color: blue; }")
	got, err = loader.LoadStyle("css/main.css")
	if err != nil {
		t.Fatalf("LoadStyle() error: %v", err)
	}
	if got != ".b { color: blue; }" {
		t.Errorf("LoadStyle() after edit = %q", got)
	}

	if _, err := loader.LoadStyle("css/missing.css"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadStyle("../outside.css"); !errors.Is(err, ErrInvalidStylePath) {
		t.Errorf("LoadStyle(../outside.css) error = %v, want ErrInvalidStylePath", err)
	}
}

func TestFilesystemLoader_LoadLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LayoutDir, "post.html"), "<article>{{ .Content }}</article>")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := loader.LoadLayout("post")
	if err != nil {
		t.Fatalf("LoadLayout() error: %v", err)
	}
	if got != "<article>{{ .Content }}</article>" {
		t.Errorf("LoadLayout() = %q", got)
	}

	if _, err := loader.LoadLayout("base"); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("LoadLayout(base) error = %v, want ErrLayoutNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on Windows")
	}

	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.css"), "secret")

	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(dir, "link.css")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := loader.LoadStyle("link.css"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(link.css) error = %v, want ErrPathTraversal", err)
	}
}
