// Package storage 存上传的图片和 3D 模型；库里只记 key，读的时候再换成 URL
package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 上传目录，各后端共用
const (
	DirProfilePics    = "profile_pics"
	DirPropertyImages = "property_images"
	DirModels         = "3d_models"
	DirInteriors      = "3d_models/interiors"
)

type AssetStore interface {
	Save(ctx context.Context, dir, filename string, r io.Reader, size int64, contentType string) (string, error)
	// URL key → 绝对地址；origin 是当前请求的 scheme://host
	URL(ctx context.Context, origin, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// newKey 生成 dir/<name>_<rand><ext>，避免同名覆盖
func newKey(dir, filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, stem)
	if stem == "" {
		stem = "file"
	}
	return path.Join(dir, stem+"_"+uuid.NewString()[:8]+strings.ToLower(ext))
}
