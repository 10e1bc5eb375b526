package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// MediaPrefix 用户端挂载本地文件的 URL 前缀
const MediaPrefix = "/media/"

// LocalStore 文件落在 base 目录下
type LocalStore struct {
	basePath string
}

// NewLocalStore 目录不存在就建
func NewLocalStore(basePath string) (*LocalStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) Root() string { return s.basePath }

func (s *LocalStore) Save(_ context.Context, dir, filename string, r io.Reader, _ int64, _ string) (string, error) {
	key := newKey(dir, filename)
	target := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write file: %w", err)
	}
	return key, nil
}

func (s *LocalStore) URL(_ context.Context, origin, key string) (string, error) {
	u := url.URL{Path: MediaPrefix + key}
	return strings.TrimRight(origin, "/") + u.EscapedPath(), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	target := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
