package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quickcart-next/internal/cache"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/repository"
)

// Catalog 购物车依赖的目录服务，所有调用都可能变慢或失败
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, int64, error)
	GetCoupon(ctx context.Context, code string) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	CheckServiceability(ctx context.Context, address *models.Address) (bool, error)
	GetDeliveryTime(ctx context.Context, address *models.Address) (string, error)
}

// ProductQuery 商品查询条件
type ProductQuery struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	ExcludeIDs []string
}

// CatalogService 基于数据库的目录服务，优惠券查询走 Redis 缓存
type CatalogService struct {
	productRepo         repository.ProductRepository
	couponRepo          repository.CouponRepository
	zoneRepo            repository.ServiceZoneRepository
	couponCacheTTL      time.Duration
	defaultDeliveryTime string
}

// NewCatalogService 创建目录服务
func NewCatalogService(productRepo repository.ProductRepository, couponRepo repository.CouponRepository, zoneRepo repository.ServiceZoneRepository, couponCacheTTL time.Duration, defaultDeliveryTime string) *CatalogService {
	return &CatalogService{
		productRepo:         productRepo,
		couponRepo:          couponRepo,
		zoneRepo:            zoneRepo,
		couponCacheTTL:      couponCacheTTL,
		defaultDeliveryTime: defaultDeliveryTime,
	}
}

// GetProduct 获取商品详情
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.WithContext(ctx).GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts 获取商品列表
func (s *CatalogService) ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.WithContext(ctx).List(repository.ProductListFilter{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Category:   query.Category,
		Search:     query.Search,
		ExcludeIDs: query.ExcludeIDs,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return products, total, nil
}

// GetCoupon 按优惠码查询，缓存未命中时回源数据库
func (s *CatalogService) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCouponCodeRequired
	}
	if cached, hit, err := cache.GetCoupon(ctx, code); err == nil && hit {
		return cached, nil
	}
	coupon, err := s.couponRepo.WithContext(ctx).GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	_ = cache.SetCoupon(ctx, coupon, s.couponCacheTTL)
	return coupon, nil
}

// ListCoupons 当前可用的优惠券
func (s *CatalogService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	coupons, _, err := s.couponRepo.WithContext(ctx).List(repository.CouponListFilter{OnlyValid: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return coupons, nil
}

// CheckServiceability 按邮编判断是否可配送，未登记的邮编以地址自身标记为准
func (s *CatalogService) CheckServiceability(ctx context.Context, address *models.Address) (bool, error) {
	zone, err := s.lookupZone(ctx, address)
	if err != nil {
		return false, err
	}
	if zone != nil {
		return zone.Serviceable, nil
	}
	return address.Serviceable(), nil
}

// GetDeliveryTime 预计送达时间
func (s *CatalogService) GetDeliveryTime(ctx context.Context, address *models.Address) (string, error) {
	zone, err := s.lookupZone(ctx, address)
	if err != nil {
		return "", err
	}
	if zone != nil && strings.TrimSpace(zone.DeliveryTime) != "" {
		return zone.DeliveryTime, nil
	}
	return s.defaultDeliveryTime, nil
}

func (s *CatalogService) lookupZone(ctx context.Context, address *models.Address) (*models.ServiceZone, error) {
	if address == nil {
		return nil, ErrAddressInvalid
	}
	zone, err := s.zoneRepo.WithContext(ctx).GetByPincode(address.Pincode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return zone, nil
}
