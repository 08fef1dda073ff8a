package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":              "Invalid request",
		"error.not_found":                "Resource not found",
		"error.internal_error":           "Internal server error",
		"error.too_many_requests":        "Too many requests, please try again later",
		"error.product_not_found":        "Product not found",
		"error.product_option_not_found": "Product option not found",
		"error.product_out_of_stock":     "Product is out of stock",
		"error.cart_item_not_found":      "Cart item not found",
		"error.quantity_invalid":         "Quantity must be at least 1",
		"error.coupon_not_found":         "Coupon not found",
		"error.coupon_code_required":     "Coupon code is required",
		"error.delivery_option_invalid":  "Unknown delivery option",
		"error.address_invalid":          "Address is incomplete",
		"error.pincode_invalid":          "Pincode must be 6 digits",
		"error.lookup_timeout":           "Catalog service timed out",
		"error.catalog_unavailable":      "Catalog service unavailable",
		"error.rate_limited":             "Too many attempts, please retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiting is temporarily unavailable",
		"error.coupon_rate_limited":      "Too many coupon attempts, please retry in %d seconds",
		"error.unauthorized":             "Unauthorized",
		"error.token_invalid":            "Token is invalid or expired",
		"error.jwt_secret_missing":       "Admin authentication is not configured",
		"error.auth_header_missing":      "Authorization header is missing",
		"error.auth_header_invalid":      "Authorization header must be a Bearer token",
		"error.coupon_invalid":           "Coupon parameters are invalid",
		"error.coupon_exists":            "Coupon code already exists",
		"cart.coupon_applied":            "Coupon %s applied",
		"cart.coupon_shortfall":          "Add items worth ₹%s more to apply this coupon",
		"cart.coupon_removed":            "Coupon removed",
		"cart.address_not_serviceable":   "We do not deliver to this address yet",
		"cart.cleared":                   "Cart cleared",
	},
	LocaleZHCN: {
		"error.bad_request":              "请求参数错误",
		"error.not_found":                "资源不存在",
		"error.internal_error":           "服务器内部错误",
		"error.too_many_requests":        "请求过于频繁，请稍后再试",
		"error.product_not_found":        "商品不存在",
		"error.product_option_not_found": "商品规格不存在",
		"error.product_out_of_stock":     "商品已售罄",
		"error.cart_item_not_found":      "购物车项不存在",
		"error.quantity_invalid":         "数量至少为 1",
		"error.coupon_not_found":         "优惠券不存在",
		"error.coupon_code_required":     "请输入优惠码",
		"error.delivery_option_invalid":  "未知的配送方式",
		"error.address_invalid":          "地址信息不完整",
		"error.pincode_invalid":          "邮编必须为 6 位数字",
		"error.lookup_timeout":           "目录服务超时",
		"error.catalog_unavailable":      "目录服务不可用",
		"error.rate_limited":             "操作过于频繁，请在 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务暂不可用",
		"error.coupon_rate_limited":      "优惠码尝试次数过多，请在 %d 秒后重试",
		"error.unauthorized":             "未授权",
		"error.token_invalid":            "令牌无效或已过期",
		"error.jwt_secret_missing":       "管理端认证未配置",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 请求头格式应为 Bearer 令牌",
		"error.coupon_invalid":           "优惠券参数无效",
		"error.coupon_exists":            "优惠码已存在",
		"cart.coupon_applied":            "已使用优惠券 %s",
		"cart.coupon_shortfall":          "再购买 ₹%s 即可使用此优惠券",
		"cart.coupon_removed":            "已移除优惠券",
		"cart.address_not_serviceable":   "该地址暂不支持配送",
		"cart.cleared":                   "购物车已清空",
	},
	LocaleZHTW: {
		"error.bad_request":              "請求參數錯誤",
		"error.not_found":                "資源不存在",
		"error.internal_error":           "伺服器內部錯誤",
		"error.too_many_requests":        "請求過於頻繁，請稍後再試",
		"error.product_not_found":        "商品不存在",
		"error.product_option_not_found": "商品規格不存在",
		"error.product_out_of_stock":     "商品已售罄",
		"error.cart_item_not_found":      "購物車項目不存在",
		"error.quantity_invalid":         "數量至少為 1",
		"error.coupon_not_found":         "優惠券不存在",
		"error.coupon_code_required":     "請輸入優惠碼",
		"error.delivery_option_invalid":  "未知的配送方式",
		"error.address_invalid":          "地址資訊不完整",
		"error.pincode_invalid":          "郵遞區號必須為 6 位數字",
		"error.lookup_timeout":           "目錄服務逾時",
		"error.catalog_unavailable":      "目錄服務不可用",
		"error.rate_limited":             "操作過於頻繁，請在 %d 秒後重試",
		"error.rate_limit_unavailable":   "限流服務暫不可用",
		"error.coupon_rate_limited":      "優惠碼嘗試次數過多，請在 %d 秒後重試",
		"error.unauthorized":             "未授權",
		"error.token_invalid":            "令牌無效或已過期",
		"error.jwt_secret_missing":       "管理端認證未設定",
		"error.auth_header_missing":      "缺少 Authorization 請求標頭",
		"error.auth_header_invalid":      "Authorization 請求標頭格式應為 Bearer 令牌",
		"error.coupon_invalid":           "優惠券參數無效",
		"error.coupon_exists":            "優惠碼已存在",
		"cart.coupon_applied":            "已使用優惠券 %s",
		"cart.coupon_shortfall":          "再購買 ₹%s 即可使用此優惠券",
		"cart.coupon_removed":            "已移除優惠券",
		"cart.address_not_serviceable":   "該地址暫不支援配送",
		"cart.cleared":                   "購物車已清空",
	},
}
