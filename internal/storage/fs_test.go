package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFSStoreGet(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	rc, err := s.Get("logo.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "png" {
		t.Fatalf("content = %q", b)
	}

	if _, err := s.Get("missing.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFSStoreStaysInsideBase(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	base := filepath.Join(root, "assets")
	s, err := NewFSStore(base)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if _, err := s.Get("../secret.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("traversal should not escape base, got %v", err)
	}
	if _, err := s.Get("."); !errors.Is(err, ErrNotFound) {
		t.Fatalf("directory should not be served, got %v", err)
	}
}
