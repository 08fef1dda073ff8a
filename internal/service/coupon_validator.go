package service

import (
	"github.com/quickcart-next/internal/i18n"
	"github.com/quickcart-next/internal/models"
)

// CouponValidation 优惠券校验结果（拒绝不是错误）
type CouponValidation struct {
	Applied   bool
	Shortfall models.Money
	Message   string
}

// ValidateCoupon 校验已查到的优惠券能否用于当前商品总额
func ValidateCoupon(coupon *models.Coupon, itemTotal models.Money) CouponValidation {
	if coupon == nil {
		return CouponValidation{}
	}
	if CouponApplicable(coupon, itemTotal) {
		return CouponValidation{Applied: true}
	}
	shortfall := coupon.MinOrderValue.Minus(itemTotal)
	return CouponValidation{
		Shortfall: shortfall,
		Message:   i18n.Sprintf(i18n.LocaleEN, "cart.coupon_shortfall", shortfall.Display()),
	}
}
