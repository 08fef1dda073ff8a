package service

import "errors"

// 商品与购物车
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductOptionNotFound = errors.New("product option not found")
	ErrProductOutOfStock     = errors.New("product out of stock")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrInvalidQuantity       = errors.New("invalid quantity")
)

// 优惠券
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponCodeRequired = errors.New("coupon code required")
	ErrCouponInvalid      = errors.New("coupon invalid")
	ErrCouponExists       = errors.New("coupon already exists")
)

// 配送与地址
var (
	ErrDeliveryOptionInvalid = errors.New("delivery option invalid")
	ErrAddressInvalid        = errors.New("address invalid")
	ErrPincodeInvalid        = errors.New("pincode invalid")
)

// 外部协作方
var (
	ErrLookupTimeout      = errors.New("catalog lookup timed out")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrQueueUnavailable   = errors.New("queue unavailable")
)

// 管理端
var (
	ErrAdminSecretMissing = errors.New("admin jwt secret missing")
	ErrAdminTokenInvalid  = errors.New("admin token invalid")
	ErrAdminTokenExpired  = errors.New("admin token expired")
)
