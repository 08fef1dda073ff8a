package public

import (
	"strings"

	"github.com/quickcart-next/internal/http/response"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateCartItemRequest 修改数量请求，数量为 0 表示移除
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ApplyCouponRequest 使用优惠券请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// DeliveryOptionRequest 选择配送方式请求，type 为空表示取消
type DeliveryOptionRequest struct {
	Type string `json:"type"`
}

// GetCart 获取购物车快照
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, h.CartService.State())
}

// GetCartInsights 获取免运费进度、返现与优惠券状态
func (h *Handler) GetCartInsights(c *gin.Context) {
	response.Success(c, h.CartService.Insights())
}

// AddCartItem 加购商品，同商品同规格合并数量
func (h *Handler) AddCartItem(c *gin.Context) {
	var req service.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	state, err := h.CartService.AddItem(c.Request.Context(), req)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, state)
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID := strings.TrimSpace(c.Param("id"))
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	state, err := h.CartService.UpdateQuantity(c.Request.Context(), itemID, *req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, state)
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	state, err := h.CartService.RemoveItem(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, state)
}

// ApplyCoupon 使用优惠券
// 未找到或未达门槛属于业务结果而非错误，购物车保持不变并返回提示语。
func (h *Handler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.coupon_code_required", err)
		return
	}
	result, err := h.CartService.ApplyCoupon(c.Request.Context(), req.Code)
	if err != nil {
		respondCartError(c, err)
		return
	}
	switch {
	case result.Applied && result.Coupon != nil:
		result.Message = localized(c, "cart.coupon_applied", result.Coupon.Code)
	case result.NotFound:
		result.Message = localized(c, "error.coupon_not_found")
	case result.Shortfall.Decimal.IsPositive():
		result.Message = localized(c, "cart.coupon_shortfall", result.Shortfall.Display())
	}
	response.SuccessWithMsg(c, result.Message, result)
}

// RemoveCoupon 移除优惠券
func (h *Handler) RemoveCoupon(c *gin.Context) {
	state, err := h.CartService.RemoveCoupon(c.Request.Context())
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, localized(c, "cart.coupon_removed"), state)
}

// SetDeliveryOption 选择配送方式
func (h *Handler) SetDeliveryOption(c *gin.Context) {
	var req DeliveryOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	state, err := h.CartService.SetDeliveryOption(c.Request.Context(), req.Type)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, state)
}

// SelectAddress 选择收货地址，校验失败时返回逐字段问题
func (h *Handler) SelectAddress(c *gin.Context) {
	var req models.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CartService.SelectAddress(c.Request.Context(), req)
	if err != nil {
		respondCartError(c, err)
		return
	}
	if len(result.Problems) > 0 {
		response.Unprocessable(c, localized(c, "error.address_invalid"), gin.H{
			"problems": result.Problems,
			"cart":     result.Cart,
		})
		return
	}
	if result.Accepted && !result.Serviceable {
		response.SuccessWithMsg(c, localized(c, "cart.address_not_serviceable"), result)
		return
	}
	response.Success(c, result)
}

// ClearCart 清空购物车（下单完成）
func (h *Handler) ClearCart(c *gin.Context) {
	state, err := h.CartService.Clear(c.Request.Context())
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, localized(c, "cart.cleared"), state)
}

// GetRecommendations 推荐商品与可用优惠券
func (h *Handler) GetRecommendations(c *gin.Context) {
	result, err := h.CartService.Recommendations(c.Request.Context())
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, result)
}
