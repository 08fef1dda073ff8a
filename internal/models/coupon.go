package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券（拉取后不可变）
type Coupon struct {
	ID            uint           `gorm:"primarykey" json:"-"`                                          // 主键
	Code          string         `gorm:"uniqueIndex;not null" json:"code"`                             // 优惠码
	DiscountType  string         `gorm:"type:varchar(20);not null" json:"discount_type"`               // 类型（percentage/fixed）
	Discount      Money          `gorm:"type:decimal(20,2);not null" json:"discount"`                  // 数值（百分比或固定金额）
	MinOrderValue Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_value"` // 使用门槛（0 表示无）
	MaxDiscount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`    // 百分比券最大优惠（0 表示不限）
	Description   string         `gorm:"type:varchar(255)" json:"description,omitempty"`               // 说明
	StartsAt      *time.Time     `gorm:"index" json:"-"`                                               // 生效时间
	EndsAt        *time.Time     `gorm:"index" json:"-"`                                               // 失效时间
	IsActive      bool           `gorm:"not null" json:"-"`                                            // 是否启用
	CreatedAt     time.Time      `gorm:"index" json:"-"`                                               // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"-"`                                               // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// HasMinOrderValue 是否设置了使用门槛
func (c *Coupon) HasMinOrderValue() bool {
	return c != nil && c.MinOrderValue.Decimal.IsPositive()
}

// HasMaxDiscount 是否设置了最大优惠
func (c *Coupon) HasMaxDiscount() bool {
	return c != nil && c.MaxDiscount.Decimal.IsPositive()
}
