package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resort/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestSaveBytesWritesImage(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	url, err := store.SaveBytes("Profile 7", pngHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/profile7-") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))); err != nil {
		t.Fatalf("file not written: %v", err)
	}
}

func TestSaveBytesRejectsNonImage(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.SaveBytes("x", []byte("just some text"))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveDataURL(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	if _, err := store.SaveDataURL("avatar", encoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.SaveDataURL("avatar", "not-a-data-url"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
