package models

import "time"

// ServiceZone 可配送区域（按邮编）
type ServiceZone struct {
	Pincode      string    `gorm:"primarykey;type:varchar(16)" json:"pincode"`      // 邮编
	City         string    `gorm:"type:varchar(128)" json:"city"`                   // 城市
	Serviceable  bool      `gorm:"not null" json:"serviceable"`                     // 是否可配送
	DeliveryTime string    `gorm:"type:varchar(64)" json:"delivery_time,omitempty"` // 预计送达时间
	UpdatedAt    time.Time `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (ServiceZone) TableName() string {
	return "service_zones"
}
