package public

import (
	"errors"

	"github.com/quickcart-next/internal/http/response"
	"github.com/quickcart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// 目录查询失败：超时与不可用要区分，调用方据此决定是否重试
var catalogLookupErrorRules = []mappedHandlerError{
	{target: service.ErrLookupTimeout, code: response.CodeGatewayTimeout, key: "error.lookup_timeout"},
	{target: service.ErrCatalogUnavailable, code: response.CodeServiceUnavailable, key: "error.catalog_unavailable"},
}

var cartItemErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductOptionNotFound, code: response.CodeBadRequest, key: "error.product_option_not_found"},
	{target: service.ErrProductOutOfStock, code: response.CodeConflict, key: "error.product_out_of_stock"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponCodeRequired, code: response.CodeBadRequest, key: "error.coupon_code_required"},
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, key: "error.coupon_not_found"},
}

var deliveryErrorRules = []mappedHandlerError{
	{target: service.ErrDeliveryOptionInvalid, code: response.CodeBadRequest, key: "error.delivery_option_invalid"},
	{target: service.ErrAddressInvalid, code: response.CodeUnprocessable, key: "error.address_invalid"},
}

var cartMutationErrorRules = concatMappedHandlerErrors(
	cartItemErrorRules,
	couponErrorRules,
	deliveryErrorRules,
	catalogLookupErrorRules,
)

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "error.internal_error")
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(
		[]mappedHandlerError{{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"}},
		catalogLookupErrorRules,
	), response.CodeInternal, "error.internal_error")
}
