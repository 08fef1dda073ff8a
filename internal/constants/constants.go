package constants

// 优惠券类型常量
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// 配送方式常量
const (
	DeliveryTypeStandard = "standard"
	DeliveryTypeInstant  = "instant"
)

// 计价默认值（货币单位：卢比）
const (
	FreeDeliveryThreshold = 500
	DefaultDeliveryFee    = 50
	PlatformFee           = 10
	CashbackThreshold     = 1000
	CashbackPercent       = 5
	RecommendedLimit      = 5
)

// 配送时间默认值
const (
	DefaultDeliveryTime = "30-60 mins"
	InstantDeliveryTime = "30-40 mins"
)

// 购物车持久化常量
const (
	CartStorageKey       = "cart"
	CartStorageDatabase  = "database"
	CartStorageRedis     = "redis"
	CartPersistModeLocal = "inline"
	CartPersistModeQueue = "queue"
)

// 购物车变更操作名（日志与指标标签）
const (
	CartOpAddItem        = "add_item"
	CartOpRemoveItem     = "remove_item"
	CartOpSetQuantity    = "set_quantity"
	CartOpApplyCoupon    = "apply_coupon"
	CartOpRemoveCoupon   = "remove_coupon"
	CartOpDeliveryOption = "set_delivery_option"
	CartOpSelectAddress  = "select_address"
	CartOpDeliveryTime   = "set_delivery_time"
	CartOpLoad           = "load"
	CartOpClear          = "clear"
)

// 队列常量
const (
	QueueDefault            = "default"
	TaskCartSnapshotPersist = "cart:snapshot_persist"
)
