package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCatalogServiceTest(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductOption{},
		&models.Coupon{},
		&models.ServiceZone{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCouponRepository(db),
		repository.NewServiceZoneRepository(db),
		time.Minute,
		constants.DefaultDeliveryTime,
	)
	return svc, db
}

func TestCatalogServiceGetProduct(t *testing.T) {
	svc, db := setupCatalogServiceTest(t)
	product := weightedProduct()
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	ctx := context.Background()

	got, err := svc.GetProduct(ctx, "rice")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if len(got.Options) != 2 {
		t.Fatalf("expected options preloaded, got %d", len(got.Options))
	}
	if _, err := svc.GetProduct(ctx, "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestCatalogServiceListProductsExcludesIDs(t *testing.T) {
	svc, db := setupCatalogServiceTest(t)
	for _, p := range []*models.Product{testProduct("a", 10), testProduct("b", 20), testProduct("c", 30)} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	products, total, err := svc.ListProducts(context.Background(), ProductQuery{Page: 1, PageSize: 10, ExcludeIDs: []string{"b"}})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("expected two products, total=%d len=%d", total, len(products))
	}
	for _, p := range products {
		if p.ID == "b" {
			t.Fatalf("excluded product returned")
		}
	}
}

func TestCatalogServiceGetCoupon(t *testing.T) {
	svc, db := setupCatalogServiceTest(t)
	past := time.Now().Add(-time.Hour)
	coupons := []models.Coupon{
		{Code: "FLAT100", DiscountType: constants.CouponTypeFixed, Discount: money(100), IsActive: true},
		{Code: "OLD", DiscountType: constants.CouponTypeFixed, Discount: money(10), IsActive: true, EndsAt: &past},
	}
	for i := range coupons {
		if err := db.Create(&coupons[i]).Error; err != nil {
			t.Fatalf("create coupon failed: %v", err)
		}
	}
	ctx := context.Background()

	got, err := svc.GetCoupon(ctx, " flat100 ")
	if err != nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if got.Code != "FLAT100" {
		t.Fatalf("unexpected coupon: %+v", got)
	}
	if _, err := svc.GetCoupon(ctx, "OLD"); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expired coupon should not be found, got %v", err)
	}
	if _, err := svc.GetCoupon(ctx, ""); !errors.Is(err, ErrCouponCodeRequired) {
		t.Fatalf("expected code required, got %v", err)
	}

	listed, err := svc.ListCoupons(ctx)
	if err != nil {
		t.Fatalf("list coupons failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected only valid coupons listed, got %d", len(listed))
	}
}

func TestCatalogServiceServiceability(t *testing.T) {
	svc, db := setupCatalogServiceTest(t)
	zones := []models.ServiceZone{
		{Pincode: "560001", City: "Bengaluru", Serviceable: true, DeliveryTime: "15-20 mins"},
		{Pincode: "110001", City: "Delhi", Serviceable: false},
	}
	for i := range zones {
		if err := db.Create(&zones[i]).Error; err != nil {
			t.Fatalf("create zone failed: %v", err)
		}
	}
	ctx := context.Background()

	known := validAddress("560001")
	ok, err := svc.CheckServiceability(ctx, &known)
	if err != nil || !ok {
		t.Fatalf("expected serviceable, ok=%v err=%v", ok, err)
	}
	eta, err := svc.GetDeliveryTime(ctx, &known)
	if err != nil || eta != "15-20 mins" {
		t.Fatalf("unexpected delivery time %q err=%v", eta, err)
	}

	blocked := validAddress("110001")
	ok, err = svc.CheckServiceability(ctx, &blocked)
	if err != nil || ok {
		t.Fatalf("expected not serviceable, ok=%v err=%v", ok, err)
	}

	unknown := validAddress("400001")
	flag := false
	unknown.IsServiceable = &flag
	ok, err = svc.CheckServiceability(ctx, &unknown)
	if err != nil || ok {
		t.Fatalf("unknown pincode should follow address flag, ok=%v err=%v", ok, err)
	}
	eta, err = svc.GetDeliveryTime(ctx, &unknown)
	if err != nil || eta != constants.DefaultDeliveryTime {
		t.Fatalf("expected default delivery time, got %q err=%v", eta, err)
	}
}
