package models

import "strings"

// DeliveryOption 配送方式
type DeliveryOption struct {
	Type          string `json:"type"`
	Label         string `json:"label"`
	Fee           Money  `json:"fee"`
	EstimatedTime string `json:"estimated_time,omitempty"`
}

// Address 收货地址
type Address struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	AddressLine1  string `json:"address_line1" validate:"required"`
	AddressLine2  string `json:"address_line2,omitempty"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	Pincode       string `json:"pincode" validate:"required,len=6,numeric"`
	Phone         string `json:"phone" validate:"required"`
	IsDefault     bool   `json:"is_default"`
	IsServiceable *bool  `json:"is_serviceable,omitempty"`
}

// Serviceable 是否可配送，未设置视为可配送
func (a *Address) Serviceable() bool {
	if a == nil || a.IsServiceable == nil {
		return true
	}
	return *a.IsServiceable
}

// Format 拼接非空地址字段
func (a *Address) Format() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, 5)
	for _, part := range []string{a.AddressLine1, a.AddressLine2, a.City, a.State, a.Pincode} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// OrderSummary 订单金额汇总（始终由购物车内容推导）
type OrderSummary struct {
	ItemTotal    Money `json:"item_total"`
	DeliveryFee  Money `json:"delivery_fee"`
	Discount     Money `json:"discount"`
	PlatformFee  Money `json:"platform_fee"`
	TotalPayable Money `json:"total_payable"`
	Savings      Money `json:"savings"`
}

// CartState 购物车完整状态
type CartState struct {
	Revision        uint64          `json:"revision"`
	Items           []CartItem      `json:"items"`
	AppliedCoupon   *Coupon         `json:"applied_coupon,omitempty"`
	DeliveryOption  *DeliveryOption `json:"delivery_option,omitempty"`
	SelectedAddress *Address        `json:"selected_address,omitempty"`
	DeliveryTime    string          `json:"delivery_time,omitempty"`
	Summary         OrderSummary    `json:"order_summary"`
}

// Clone 深拷贝，快照与订阅方拿到的都是副本
func (s *CartState) Clone() *CartState {
	if s == nil {
		return nil
	}
	out := *s
	out.Items = make([]CartItem, len(s.Items))
	for i, item := range s.Items {
		if item.Option != nil {
			opt := *item.Option
			item.Option = &opt
		}
		out.Items[i] = item
	}
	if s.AppliedCoupon != nil {
		coupon := *s.AppliedCoupon
		out.AppliedCoupon = &coupon
	}
	if s.DeliveryOption != nil {
		option := *s.DeliveryOption
		out.DeliveryOption = &option
	}
	if s.SelectedAddress != nil {
		addr := *s.SelectedAddress
		if addr.IsServiceable != nil {
			flag := *addr.IsServiceable
			addr.IsServiceable = &flag
		}
		out.SelectedAddress = &addr
	}
	return &out
}

// ItemCount 商品件数合计
func (s *CartState) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// FindItem 按购物车项ID查找下标，未找到返回 -1
func (s *CartState) FindItem(itemID string) int {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}
