package service

import (
	"testing"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/models"
)

func TestValidateCouponShortfall(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "FLAT100",
		DiscountType:  constants.CouponTypeFixed,
		Discount:      money(100),
		MinOrderValue: money(500),
	}
	result := ValidateCoupon(coupon, money(450))
	if result.Applied {
		t.Fatalf("coupon should not apply below minimum")
	}
	assertMoney(t, "shortfall", result.Shortfall, "50")
	if result.Message != "Add items worth ₹50 more to apply this coupon" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestValidateCouponApplies(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "FLAT100",
		DiscountType:  constants.CouponTypeFixed,
		Discount:      money(100),
		MinOrderValue: money(500),
	}
	if result := ValidateCoupon(coupon, money(500)); !result.Applied {
		t.Fatalf("coupon should apply at minimum")
	}
	noMinimum := &models.Coupon{Code: "ANY", DiscountType: constants.CouponTypeFixed, Discount: money(10)}
	if result := ValidateCoupon(noMinimum, money(1)); !result.Applied {
		t.Fatalf("coupon without minimum should apply")
	}
}
