package service

import (
	"context"
	"strings"
	"time"

	"github.com/quickcart-next/internal/cache"
	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogAdminService 目录维护服务（优惠券、配送区域、库存）
type CatalogAdminService struct {
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	zoneRepo    repository.ServiceZoneRepository
}

// NewCatalogAdminService 创建目录维护服务
func NewCatalogAdminService(productRepo repository.ProductRepository, couponRepo repository.CouponRepository, zoneRepo repository.ServiceZoneRepository) *CatalogAdminService {
	return &CatalogAdminService{
		productRepo: productRepo,
		couponRepo:  couponRepo,
		zoneRepo:    zoneRepo,
	}
}

// CouponInput 优惠券写入参数
type CouponInput struct {
	Code          string
	DiscountType  string
	Discount      models.Money
	MinOrderValue models.Money
	MaxDiscount   models.Money
	Description   string
	StartsAt      *time.Time
	EndsAt        *time.Time
	IsActive      *bool
}

// normalizeCouponInput 校验并归一化优惠券参数
func normalizeCouponInput(input CouponInput) (CouponInput, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if input.Code == "" {
		return input, ErrCouponInvalid
	}
	input.DiscountType = strings.ToLower(strings.TrimSpace(input.DiscountType))
	if input.DiscountType != constants.CouponTypeFixed && input.DiscountType != constants.CouponTypePercentage {
		return input, ErrCouponInvalid
	}
	if !input.Discount.Decimal.IsPositive() {
		return input, ErrCouponInvalid
	}
	if input.DiscountType == constants.CouponTypePercentage && input.Discount.Decimal.GreaterThan(decimal.NewFromInt(100)) {
		return input, ErrCouponInvalid
	}
	if input.MinOrderValue.Decimal.IsNegative() || input.MaxDiscount.Decimal.IsNegative() {
		return input, ErrCouponInvalid
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return input, ErrCouponInvalid
	}
	input.Description = strings.TrimSpace(input.Description)
	return input, nil
}

func applyCouponInput(coupon *models.Coupon, input CouponInput) {
	coupon.Code = input.Code
	coupon.DiscountType = input.DiscountType
	coupon.Discount = input.Discount
	coupon.MinOrderValue = input.MinOrderValue
	coupon.MaxDiscount = input.MaxDiscount
	coupon.Description = input.Description
	coupon.StartsAt = input.StartsAt
	coupon.EndsAt = input.EndsAt
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
}

// CreateCoupon 创建优惠券，未指定启用状态时默认启用
func (s *CatalogAdminService) CreateCoupon(ctx context.Context, input CouponInput) (*models.Coupon, error) {
	input, err := normalizeCouponInput(input)
	if err != nil {
		return nil, err
	}
	repo := s.couponRepo.WithContext(ctx)
	exist, err := repo.FindByCode(input.Code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponExists
	}

	coupon := &models.Coupon{IsActive: true}
	applyCouponInput(coupon, input)
	if err := repo.Create(coupon); err != nil {
		return nil, err
	}
	s.invalidateCoupon(ctx, coupon.Code)
	logger.Infow("catalog_admin_coupon_created", "code", coupon.Code, "discount_type", coupon.DiscountType)
	return coupon, nil
}

// UpdateCoupon 按优惠码更新优惠券，优惠码本身不可修改
func (s *CatalogAdminService) UpdateCoupon(ctx context.Context, code string, input CouponInput) (*models.Coupon, error) {
	repo := s.couponRepo.WithContext(ctx)
	existing, err := repo.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}
	input.Code = existing.Code
	input, err = normalizeCouponInput(input)
	if err != nil {
		return nil, err
	}
	applyCouponInput(existing, input)
	if err := repo.Update(existing); err != nil {
		return nil, err
	}
	s.invalidateCoupon(ctx, existing.Code)
	logger.Infow("catalog_admin_coupon_updated", "code", existing.Code, "is_active", existing.IsActive)
	return existing, nil
}

// DeleteCoupon 删除优惠券
func (s *CatalogAdminService) DeleteCoupon(ctx context.Context, code string) error {
	repo := s.couponRepo.WithContext(ctx)
	existing, err := repo.FindByCode(code)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	if err := repo.Delete(existing.Code); err != nil {
		return err
	}
	s.invalidateCoupon(ctx, existing.Code)
	logger.Infow("catalog_admin_coupon_deleted", "code", existing.Code)
	return nil
}

// ListCoupons 优惠券列表（含停用与过期）
func (s *CatalogAdminService) ListCoupons(ctx context.Context, filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.WithContext(ctx).List(filter)
}

// invalidateCoupon 清除优惠券缓存，失败只记录日志
func (s *CatalogAdminService) invalidateCoupon(ctx context.Context, code string) {
	if err := cache.DeleteCoupon(ctx, code); err != nil {
		logger.Warnw("catalog_admin_coupon_cache_invalidate_failed", "code", code, "error", err)
	}
}

// ServiceZoneInput 配送区域写入参数
type ServiceZoneInput struct {
	Pincode      string
	City         string
	Serviceable  bool
	DeliveryTime string
}

// UpsertZone 新增或覆盖配送区域
func (s *CatalogAdminService) UpsertZone(ctx context.Context, input ServiceZoneInput) (*models.ServiceZone, error) {
	pincode := strings.TrimSpace(input.Pincode)
	if !ValidatePincode(pincode) {
		return nil, ErrPincodeInvalid
	}
	zone := &models.ServiceZone{
		Pincode:      pincode,
		City:         strings.TrimSpace(input.City),
		Serviceable:  input.Serviceable,
		DeliveryTime: strings.TrimSpace(input.DeliveryTime),
		UpdatedAt:    time.Now(),
	}
	if err := s.zoneRepo.WithContext(ctx).Upsert(zone); err != nil {
		return nil, err
	}
	logger.Infow("catalog_admin_zone_upserted", "pincode", zone.Pincode, "serviceable", zone.Serviceable)
	return zone, nil
}

// ListZones 全部配送区域
func (s *CatalogAdminService) ListZones(ctx context.Context) ([]models.ServiceZone, error) {
	return s.zoneRepo.WithContext(ctx).List()
}

// SetProductStock 修改商品有货状态
func (s *CatalogAdminService) SetProductStock(ctx context.Context, productID string, inStock bool) (*models.Product, error) {
	repo := s.productRepo.WithContext(ctx)
	product, err := repo.GetByID(strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.InStock == inStock {
		return product, nil
	}
	product.InStock = inStock
	if err := repo.Update(product); err != nil {
		return nil, err
	}
	logger.Infow("catalog_admin_product_stock_updated", "product_id", product.ID, "in_stock", inStock)
	return product, nil
}
