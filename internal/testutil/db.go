// Package testutil 各包测试共用的夹具
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate3d/internal/core/database"
	"realestate3d/internal/domain"
)

// NewDB 每次调用返回一个独立的内存 SQLite，已建表
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:?_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func SeedProperty(t testing.TB, db *gorm.DB, name string) domain.Property {
	t.Helper()
	exterior := "3d_models/" + name + ".glb"
	p := domain.Property{
		Name:        name,
		Location:    "Downtown, City Center",
		Price:       "$430,000",
		Image:       "property_images/" + name + ".jpg",
		ThreeDFile:  &exterior,
		Description: "Corner unit with skyline view",
		Bedrooms:    3,
		Bathrooms:   2,
		Area:        "1450 sqft",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return p
}
