package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            string         `gorm:"primarykey;type:varchar(64)" json:"id"`                       // 商品ID
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`                      // 名称
	Brand         string         `gorm:"type:varchar(128)" json:"brand,omitempty"`                    // 品牌
	PriceAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`          // 售价
	OriginalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"` // 划线价（0 表示无）
	Image         string         `gorm:"type:varchar(512)" json:"image"`                              // 主图
	Images        StringArray    `gorm:"type:json" json:"images,omitempty"`                           // 图片数组
	Weight        string         `gorm:"type:varchar(64)" json:"weight,omitempty"`                    // 规格重量
	Description   string         `gorm:"type:text" json:"description,omitempty"`                      // 描述
	Category      string         `gorm:"type:varchar(64);index" json:"category,omitempty"`            // 分类
	InStock       bool           `gorm:"not null" json:"in_stock"`                                    // 是否有货
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                           // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Options []ProductOption `gorm:"foreignKey:ProductID" json:"options,omitempty"` // 可选规格
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// FindOption 按 ID 查找规格
func (p *Product) FindOption(optionID string) *ProductOption {
	if p == nil {
		return nil
	}
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

// ProductOption 商品规格表（如 500g / 1kg）
type ProductOption struct {
	ID          string    `gorm:"primarykey;type:varchar(64)" json:"id"`              // 规格ID
	ProductID   string    `gorm:"type:varchar(64);not null;index" json:"product_id"`  // 商品ID
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`             // 规格名
	PriceAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 规格价格
	SortOrder   int       `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt   time.Time `json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (ProductOption) TableName() string {
	return "product_options"
}
