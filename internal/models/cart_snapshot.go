package models

import "time"

// CartSnapshot 购物车快照（键值存储，Payload 为空表示已清空）
type CartSnapshot struct {
	Key       string    `gorm:"column:cart_key;primarykey;type:varchar(128)" json:"key"` // 存储键
	Revision  uint64    `gorm:"not null;default:0" json:"revision"`                      // 快照版本（单调递增）
	Payload   string    `gorm:"type:text" json:"payload"`                                // 序列化后的 CartState
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                 // 更新时间
}

// TableName 指定表名
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

// Removed 是否为清空标记
func (s *CartSnapshot) Removed() bool {
	return s == nil || s.Payload == ""
}
