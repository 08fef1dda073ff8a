package admin

import (
	"errors"

	handlershared "github.com/quickcart-next/internal/http/handlers/shared"
	"github.com/quickcart-next/internal/http/response"
	"github.com/quickcart-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondAdminError 目录维护错误映射，未识别的错误按内部错误处理
func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCouponInvalid):
		respondError(c, response.CodeBadRequest, "error.coupon_invalid", nil)
	case errors.Is(err, service.ErrCouponExists):
		respondError(c, response.CodeConflict, "error.coupon_exists", nil)
	case errors.Is(err, service.ErrCouponNotFound):
		respondError(c, response.CodeNotFound, "error.coupon_not_found", nil)
	case errors.Is(err, service.ErrPincodeInvalid):
		respondError(c, response.CodeBadRequest, "error.pincode_invalid", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal_error", err)
	}
}
