package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreSaveURLDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "media"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	key, err := s.Save(ctx, DirInteriors, "../../Living Room.GLB", strings.NewReader("glTF"), 4, "model/gltf-binary")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(key, "3d_models/interiors/Living_Room_") || !strings.HasSuffix(key, ".glb") {
		t.Fatalf("unexpected key %q", key)
	}
	b, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(key)))
	if err != nil || string(b) != "glTF" {
		t.Fatalf("stored content = %q, %v", b, err)
	}

	u, err := s.URL(ctx, "https://estate.example.com/", key)
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if u != "https://estate.example.com/media/"+key {
		t.Fatalf("url = %q", u)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete missing should be a no-op: %v", err)
	}
}

func TestNewKeyUnique(t *testing.T) {
	a := newKey(DirProfilePics, "photo.jpg")
	b := newKey(DirProfilePics, "photo.jpg")
	if a == b {
		t.Fatalf("keys collide: %s", a)
	}
	if k := newKey(DirProfilePics, ""); !strings.HasPrefix(k, "profile_pics/file_") {
		t.Fatalf("empty name key = %q", k)
	}
}

func TestNewLocalStoreRequiresPath(t *testing.T) {
	if _, err := NewLocalStore("  "); err == nil {
		t.Fatal("expected error for blank base path")
	}
}
