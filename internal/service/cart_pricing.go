package service

import (
	"strings"

	"github.com/quickcart-next/internal/config"
	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/models"

	"github.com/shopspring/decimal"
)

// PricingConfig 计价参数
type PricingConfig struct {
	FreeDeliveryThreshold models.Money
	DefaultDeliveryFee    models.Money
	PlatformFee           models.Money
	CashbackThreshold     models.Money
	CashbackPercent       int64
}

// DefaultPricingConfig 默认计价参数
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		FreeDeliveryThreshold: models.NewMoneyFromInt(constants.FreeDeliveryThreshold),
		DefaultDeliveryFee:    models.NewMoneyFromInt(constants.DefaultDeliveryFee),
		PlatformFee:           models.NewMoneyFromInt(constants.PlatformFee),
		CashbackThreshold:     models.NewMoneyFromInt(constants.CashbackThreshold),
		CashbackPercent:       constants.CashbackPercent,
	}
}

// NewPricingConfig 由购物车配置生成计价参数
func NewPricingConfig(cfg config.CartConfig) PricingConfig {
	return PricingConfig{
		FreeDeliveryThreshold: models.NewMoneyFromInt(cfg.FreeDeliveryThreshold),
		DefaultDeliveryFee:    models.NewMoneyFromInt(cfg.DefaultDeliveryFee),
		PlatformFee:           models.NewMoneyFromInt(cfg.PlatformFee),
		CashbackThreshold:     models.NewMoneyFromInt(cfg.CashbackThreshold),
		CashbackPercent:       cfg.CashbackPercent,
	}
}

// ItemTotal 商品小计之和
func ItemTotal(items []models.CartItem) models.Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice.Decimal)
	}
	return models.NewMoneyFromDecimal(total)
}

// CalculateSummary 由购物车内容推导订单金额（纯函数）
//
// 空购物车同样计入配送费与平台费；只有初始状态与清空使用全零汇总。
// totalPayable 不做下限截断：折扣上限由优惠券本身保证。
func CalculateSummary(items []models.CartItem, coupon *models.Coupon, option *models.DeliveryOption, cfg PricingConfig) models.OrderSummary {
	itemTotal := ItemTotal(items)

	deliveryFee := models.ZeroMoney()
	if itemTotal.Decimal.LessThan(cfg.FreeDeliveryThreshold.Decimal) {
		deliveryFee = cfg.DefaultDeliveryFee
		if option != nil {
			deliveryFee = option.Fee
		}
	}

	discount := CouponDiscount(coupon, itemTotal)
	total := itemTotal.Plus(deliveryFee).Minus(discount).Plus(cfg.PlatformFee)

	return models.OrderSummary{
		ItemTotal:    itemTotal,
		DeliveryFee:  deliveryFee,
		Discount:     discount,
		PlatformFee:  cfg.PlatformFee,
		TotalPayable: total,
		Savings:      discount,
	}
}

// CouponDiscount 计算优惠金额，未达门槛时为 0
func CouponDiscount(coupon *models.Coupon, itemTotal models.Money) models.Money {
	if coupon == nil || !CouponApplicable(coupon, itemTotal) {
		return models.ZeroMoney()
	}
	switch strings.ToLower(strings.TrimSpace(coupon.DiscountType)) {
	case constants.CouponTypePercentage:
		raw := itemTotal.Decimal.Mul(coupon.Discount.Decimal).Div(decimal.NewFromInt(100))
		if coupon.HasMaxDiscount() && raw.GreaterThan(coupon.MaxDiscount.Decimal) {
			raw = coupon.MaxDiscount.Decimal
		}
		return models.NewMoneyFromDecimal(raw)
	case constants.CouponTypeFixed:
		return coupon.Discount
	default:
		return models.ZeroMoney()
	}
}

// CouponApplicable 商品总额是否满足使用门槛
func CouponApplicable(coupon *models.Coupon, itemTotal models.Money) bool {
	if coupon == nil {
		return false
	}
	if !coupon.HasMinOrderValue() {
		return true
	}
	return itemTotal.Decimal.GreaterThanOrEqual(coupon.MinOrderValue.Decimal)
}

// zeroSummary 初始与清空后的汇总
func zeroSummary() models.OrderSummary {
	return models.OrderSummary{
		ItemTotal:    models.ZeroMoney(),
		DeliveryFee:  models.ZeroMoney(),
		Discount:     models.ZeroMoney(),
		PlatformFee:  models.ZeroMoney(),
		TotalPayable: models.ZeroMoney(),
		Savings:      models.ZeroMoney(),
	}
}
