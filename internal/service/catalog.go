package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"realestate3d/internal/core/storage"
	"realestate3d/internal/domain"
)

type Catalog struct {
	props  PropertyStore
	assets storage.AssetStore
	res    resolver
	log    *zap.Logger
}

func NewCatalog(props PropertyStore, assets storage.AssetStore, log *zap.Logger) *Catalog {
	return &Catalog{props: props, assets: assets, res: resolver{assets: assets}, log: log}
}

// ListProperties 全量返回，资源已解析成绝对 URL
func (s *Catalog) ListProperties(ctx context.Context, origin string) ([]PropertyView, error) {
	return s.Search(ctx, origin, "")
}

func (s *Catalog) Search(ctx context.Context, origin, q string) ([]PropertyView, error) {
	ps, err := s.props.List(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	out := make([]PropertyView, 0, len(ps))
	for _, p := range ps {
		v, err := s.res.property(ctx, origin, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type NewProperty struct {
	Name         string
	Location     string
	Price        string
	Description  string
	Bedrooms     int
	Bathrooms    int
	Area         string
	Image        *Upload
	ThreeDFile   *Upload
	InteriorFile *Upload
}

func (in NewProperty) validate() error {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"name", in.Name}, {"location", in.Location}, {"price", in.Price}, {"description", in.Description},
	} {
		if strings.TrimSpace(f.v) == "" {
			missing = append(missing, f.name)
		}
	}
	if in.Image == nil {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return invalid("Missing required fields: " + strings.Join(missing, ", "))
	}
	if in.Bedrooms < 0 || in.Bathrooms < 0 {
		return invalid("bedrooms and bathrooms must not be negative")
	}
	return nil
}

// CreateProperty 先上传资源再写库；写库失败时清理已上传文件
func (s *Catalog) CreateProperty(ctx context.Context, origin string, in NewProperty) (PropertyView, error) {
	if err := in.validate(); err != nil {
		return PropertyView{}, err
	}
	p := domain.Property{
		Name:        strings.TrimSpace(in.Name),
		Location:    strings.TrimSpace(in.Location),
		Price:       strings.TrimSpace(in.Price),
		Description: in.Description,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        strings.TrimSpace(in.Area),
	}
	if p.Bedrooms == 0 {
		p.Bedrooms = 1
	}
	if p.Bathrooms == 0 {
		p.Bathrooms = 1
	}
	if p.Area == "" {
		p.Area = "1200 sqft"
	}

	var saved []string
	put := func(dir string, up *Upload) (*string, error) {
		if up == nil {
			return nil, nil
		}
		key, err := s.assets.Save(ctx, dir, up.Filename, up.Body, up.Size, up.ContentType)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", dir, err)
		}
		saved = append(saved, key)
		return &key, nil
	}

	img, err := put(storage.DirPropertyImages, in.Image)
	if err == nil {
		p.Image = *img
		p.ThreeDFile, err = put(storage.DirModels, in.ThreeDFile)
	}
	if err == nil {
		p.InteriorFile, err = put(storage.DirInteriors, in.InteriorFile)
	}
	if err == nil {
		err = s.props.Create(ctx, &p)
		if err != nil {
			err = fmt.Errorf("create property: %w", err)
		}
	}
	if err != nil {
		s.cleanup(ctx, saved)
		return PropertyView{}, err
	}
	s.log.Info("property created", zap.Uint("property_id", p.ID), zap.String("name", p.Name))
	return s.res.property(ctx, origin, p)
}

// DeleteProperty 删除房源、其预约以及引用的资源文件
func (s *Catalog) DeleteProperty(ctx context.Context, id uint) error {
	p, err := s.props.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find property: %w", err)
	}
	if p == nil {
		return errPropertyNotFound
	}
	deleted, err := s.props.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if !deleted {
		return errPropertyNotFound
	}
	s.cleanup(ctx, p.AssetKeys())
	return nil
}

func (s *Catalog) cleanup(ctx context.Context, keys []string) {
	for _, k := range keys {
		if err := s.assets.Delete(ctx, k); err != nil {
			s.log.Warn("asset cleanup failed", zap.String("key", k), zap.Error(err))
		}
	}
}
