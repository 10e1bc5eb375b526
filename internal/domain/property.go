package domain

// Property 房源；资源字段存的是相对 key
type Property struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:255;not null"`
	Location     string  `gorm:"size:255;not null"`
	Price        string  `gorm:"size:100;not null"`
	Image        string  `gorm:"size:255;not null"`
	ThreeDFile   *string `gorm:"size:255"`
	InteriorFile *string `gorm:"size:255"`
	Description  string  `gorm:"type:text;not null"`
	Bedrooms     int     `gorm:"not null;default:1"`
	Bathrooms    int     `gorm:"not null;default:1"`
	Area         string  `gorm:"size:50;not null;default:'1200 sqft'"`
}

func (Property) TableName() string { return "properties" }

// AssetKeys 返回该房源引用的全部资源 key
func (p Property) AssetKeys() []string {
	keys := []string{p.Image}
	if p.ThreeDFile != nil {
		keys = append(keys, *p.ThreeDFile)
	}
	if p.InteriorFile != nil {
		keys = append(keys, *p.InteriorFile)
	}
	return keys
}
