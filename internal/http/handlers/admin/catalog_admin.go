package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/quickcart-next/internal/http/handlers/shared"
	"github.com/quickcart-next/internal/http/response"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/repository"
	"github.com/quickcart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CouponRequest 优惠券写入请求
type CouponRequest struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type" binding:"required"`
	Discount      float64 `json:"discount" binding:"required"`
	MinOrderValue float64 `json:"min_order_value"`
	MaxDiscount   float64 `json:"max_discount"`
	Description   string  `json:"description"`
	StartsAt      string  `json:"starts_at"`
	EndsAt        string  `json:"ends_at"`
	IsActive      *bool   `json:"is_active"`
}

// ServiceZoneRequest 配送区域写入请求
type ServiceZoneRequest struct {
	City         string `json:"city"`
	Serviceable  *bool  `json:"serviceable" binding:"required"`
	DeliveryTime string `json:"delivery_time"`
}

// ProductStockRequest 库存状态请求
type ProductStockRequest struct {
	InStock *bool `json:"in_stock" binding:"required"`
}

// couponView 管理端优惠券视图（包含前台隐藏的字段）
type couponView struct {
	models.Coupon
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	IsActive  bool       `json:"is_active"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newCouponView(coupon *models.Coupon) couponView {
	return couponView{
		Coupon:    *coupon,
		StartsAt:  coupon.StartsAt,
		EndsAt:    coupon.EndsAt,
		IsActive:  coupon.IsActive,
		UpdatedAt: coupon.UpdatedAt,
	}
}

func (req CouponRequest) toInput() (service.CouponInput, error) {
	startsAt, err := parseTimeNullable(req.StartsAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	endsAt, err := parseTimeNullable(req.EndsAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	return service.CouponInput{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		Discount:      models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Discount)),
		MinOrderValue: models.NewMoneyFromDecimal(decimal.NewFromFloat(req.MinOrderValue)),
		MaxDiscount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(req.MaxDiscount)),
		Description:   req.Description,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		IsActive:      req.IsActive,
	}, nil
}

// GetAdminCoupons 优惠券列表（含停用与过期）
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var isActive *bool
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		isActive = &parsed
	}

	coupons, total, err := h.CatalogAdminService.ListCoupons(c.Request.Context(), repository.CouponListFilter{
		Code:     strings.TrimSpace(c.Query("code")),
		IsActive: isActive,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	views := make([]couponView, 0, len(coupons))
	for i := range coupons {
		views = append(views, newCouponView(&coupons[i]))
	}
	response.SuccessWithPage(c, views, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CatalogAdminService.CreateCoupon(c.Request.Context(), input)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("admin_coupon_created", "operator", handlershared.AdminOperator(c), "code", coupon.Code)
	response.Success(c, newCouponView(coupon))
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CatalogAdminService.UpdateCoupon(c.Request.Context(), c.Param("code"), input)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("admin_coupon_updated", "operator", handlershared.AdminOperator(c), "code", coupon.Code)
	response.Success(c, newCouponView(coupon))
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	code := c.Param("code")
	if err := h.CatalogAdminService.DeleteCoupon(c.Request.Context(), code); err != nil {
		respondAdminError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("admin_coupon_deleted", "operator", handlershared.AdminOperator(c), "code", code)
	response.Success(c, gin.H{
		"deleted": true,
	})
}

// GetServiceZones 配送区域列表
func (h *Handler) GetServiceZones(c *gin.Context) {
	zones, err := h.CatalogAdminService.ListZones(c.Request.Context())
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, zones)
}

// PutServiceZone 新增或覆盖配送区域
func (h *Handler) PutServiceZone(c *gin.Context) {
	var req ServiceZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	zone, err := h.CatalogAdminService.UpsertZone(c.Request.Context(), service.ServiceZoneInput{
		Pincode:      c.Param("pincode"),
		City:         req.City,
		Serviceable:  *req.Serviceable,
		DeliveryTime: req.DeliveryTime,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, zone)
}

// PutProductStock 修改商品有货状态
func (h *Handler) PutProductStock(c *gin.Context) {
	var req ProductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.CatalogAdminService.SetProductStock(c.Request.Context(), c.Param("id"), *req.InStock)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, product)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
