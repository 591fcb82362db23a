package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStorePutDeleteAndURL(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	key := "abc123.png"
	if err := fs.Put(context.Background(), key, strings.NewReader("png-bytes"), 9, "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, key))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content = %q", data)
	}
	if got := fs.URL(key); got != "/uploads/abc123.png" {
		t.Fatalf("URL = %q", got)
	}
	if err := fs.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := fs.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete of missing file should be idempotent: %v", err)
	}
}

func TestFileStorePutStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := fs.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err != nil {
		t.Fatalf("file should land inside base dir: %v", err)
	}
}
