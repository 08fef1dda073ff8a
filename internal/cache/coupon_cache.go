package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quickcart-next/internal/models"
)

const defaultCouponCacheTTL = 5 * time.Minute

func couponCacheKey(code string) string {
	return fmt.Sprintf("coupon:%s", strings.ToUpper(strings.TrimSpace(code)))
}

// GetCoupon 读取优惠券缓存
func GetCoupon(ctx context.Context, code string) (*models.Coupon, bool, error) {
	var coupon models.Coupon
	hit, err := GetJSON(ctx, couponCacheKey(code), &coupon)
	if err != nil || !hit {
		return nil, false, err
	}
	return &coupon, true, nil
}

// SetCoupon 写入优惠券缓存
func SetCoupon(ctx context.Context, coupon *models.Coupon, ttl time.Duration) error {
	if coupon == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCouponCacheTTL
	}
	return SetJSON(ctx, couponCacheKey(coupon.Code), coupon, ttl)
}

// DeleteCoupon 删除优惠券缓存
func DeleteCoupon(ctx context.Context, code string) error {
	return Del(ctx, couponCacheKey(code))
}
