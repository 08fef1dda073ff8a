package public

import (
	"strconv"
	"strings"

	handlershared "github.com/quickcart-next/internal/http/handlers/shared"
	"github.com/quickcart-next/internal/http/response"
	"github.com/quickcart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.CatalogService.ListProducts(c.Request.Context(), service.ProductQuery{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 商品详情（含规格）
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.CatalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, product)
}

// GetCoupons 当前可用优惠券
func (h *Handler) GetCoupons(c *gin.Context) {
	coupons, err := h.CatalogService.ListCoupons(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, coupons)
}

// GetDeliveryOptions 可选配送方式
func (h *Handler) GetDeliveryOptions(c *gin.Context) {
	response.Success(c, h.CartService.DeliveryOptions())
}
