package service

import (
	"github.com/quickcart-next/internal/models"

	"github.com/shopspring/decimal"
)

// FreeDeliveryProgress 免配送费进度
type FreeDeliveryProgress struct {
	IsFree    bool         `json:"is_free"`
	Remaining models.Money `json:"remaining"`
	Threshold models.Money `json:"threshold"`
}

// CashbackInfo 返现信息
type CashbackInfo struct {
	Amount    models.Money `json:"amount"`
	NeedsMore bool         `json:"needs_more"`
	Remaining models.Money `json:"remaining"`
	Threshold models.Money `json:"threshold"`
	Percent   int64        `json:"percent"`
}

// CouponStatus 已挂载优惠券的当前可用性
type CouponStatus struct {
	Code       string       `json:"code"`
	Applicable bool         `json:"applicable"`
	Shortfall  models.Money `json:"shortfall"`
	Message    string       `json:"message,omitempty"`
}

// CartInsights 购物车衍生信息
type CartInsights struct {
	ItemCount     int                  `json:"item_count"`
	FreeDelivery  FreeDeliveryProgress `json:"free_delivery"`
	Cashback      CashbackInfo         `json:"cashback"`
	ItemSavings   models.Money         `json:"item_savings"`
	CouponSavings models.Money         `json:"coupon_savings"`
	TotalSavings  models.Money         `json:"total_savings"`
	Coupon        *CouponStatus        `json:"coupon,omitempty"`
}

// BuildInsights 由购物车状态推导展示用信息
func BuildInsights(state *models.CartState, cfg PricingConfig) CartInsights {
	if state == nil {
		state = &models.CartState{}
	}
	itemTotal := state.Summary.ItemTotal

	itemSavings := models.ZeroMoney()
	for i := range state.Items {
		itemSavings = itemSavings.Plus(state.Items[i].Savings())
	}
	couponSavings := state.Summary.Savings

	insights := CartInsights{
		ItemCount:     state.ItemCount(),
		FreeDelivery:  freeDeliveryProgress(itemTotal, cfg),
		Cashback:      cashback(itemTotal, cfg),
		ItemSavings:   itemSavings,
		CouponSavings: couponSavings,
		TotalSavings:  itemSavings.Plus(couponSavings),
	}
	if coupon := state.AppliedCoupon; coupon != nil {
		validation := ValidateCoupon(coupon, itemTotal)
		insights.Coupon = &CouponStatus{
			Code:       coupon.Code,
			Applicable: validation.Applied,
			Shortfall:  validation.Shortfall,
			Message:    validation.Message,
		}
	}
	return insights
}

func freeDeliveryProgress(itemTotal models.Money, cfg PricingConfig) FreeDeliveryProgress {
	return FreeDeliveryProgress{
		IsFree:    itemTotal.Decimal.GreaterThanOrEqual(cfg.FreeDeliveryThreshold.Decimal),
		Remaining: remainingTo(cfg.FreeDeliveryThreshold, itemTotal),
		Threshold: cfg.FreeDeliveryThreshold,
	}
}

func cashback(itemTotal models.Money, cfg PricingConfig) CashbackInfo {
	info := CashbackInfo{
		Amount:    models.ZeroMoney(),
		NeedsMore: itemTotal.Decimal.LessThan(cfg.CashbackThreshold.Decimal),
		Remaining: remainingTo(cfg.CashbackThreshold, itemTotal),
		Threshold: cfg.CashbackThreshold,
		Percent:   cfg.CashbackPercent,
	}
	if !info.NeedsMore {
		amount := itemTotal.Decimal.Mul(decimal.NewFromInt(cfg.CashbackPercent)).Div(decimal.NewFromInt(100)).Floor()
		info.Amount = models.NewMoneyFromDecimal(amount)
	}
	return info
}

func remainingTo(threshold, value models.Money) models.Money {
	remaining := threshold.Minus(value)
	if remaining.Decimal.IsNegative() {
		return models.ZeroMoney()
	}
	return remaining
}
