package repository

import (
	"testing"
	"time"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/models"
)

func TestCouponRepositoryGetByCodeRespectsValidity(t *testing.T) {
	repo := NewCouponRepository(openRepositoryTestDB(t, "coupon_get"))
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	coupons := []models.Coupon{
		{Code: "SAVE10", DiscountType: constants.CouponTypePercentage, Discount: models.NewMoneyFromInt(10), IsActive: true},
		{Code: "EXPIRED", DiscountType: constants.CouponTypeFixed, Discount: models.NewMoneyFromInt(50), IsActive: true, EndsAt: &past},
		{Code: "LATER", DiscountType: constants.CouponTypeFixed, Discount: models.NewMoneyFromInt(50), IsActive: true, StartsAt: &future},
		{Code: "OFF", DiscountType: constants.CouponTypeFixed, Discount: models.NewMoneyFromInt(50), IsActive: true},
	}
	for i := range coupons {
		if err := repo.Create(&coupons[i]); err != nil {
			t.Fatalf("create coupon failed: %v", err)
		}
	}
	coupons[3].IsActive = false
	if err := repo.Update(&coupons[3]); err != nil {
		t.Fatalf("disable coupon failed: %v", err)
	}

	got, err := repo.GetByCode(" save10 ")
	if err != nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if got == nil || got.Code != "SAVE10" {
		t.Fatalf("expected SAVE10, got %+v", got)
	}
	for _, code := range []string{"EXPIRED", "LATER", "OFF", "MISSING", ""} {
		got, err := repo.GetByCode(code)
		if err != nil {
			t.Fatalf("get coupon %s failed: %v", code, err)
		}
		if got != nil {
			t.Fatalf("coupon %s should not be found", code)
		}
	}

	valid, total, err := repo.List(CouponListFilter{OnlyValid: true})
	if err != nil {
		t.Fatalf("list coupons failed: %v", err)
	}
	if total != 1 || len(valid) != 1 || valid[0].Code != "SAVE10" {
		t.Fatalf("expected only SAVE10 in valid list, got %+v", valid)
	}
}

func TestServiceZoneRepositoryUpsert(t *testing.T) {
	repo := NewServiceZoneRepository(openRepositoryTestDB(t, "service_zone"))
	if err := repo.Upsert(&models.ServiceZone{Pincode: "560001", City: "Bengaluru", Serviceable: true, DeliveryTime: "20-30 mins"}); err != nil {
		t.Fatalf("upsert zone failed: %v", err)
	}
	if err := repo.Upsert(&models.ServiceZone{Pincode: "560001", City: "Bengaluru", Serviceable: false}); err != nil {
		t.Fatalf("overwrite zone failed: %v", err)
	}
	zone, err := repo.GetByPincode("560001")
	if err != nil {
		t.Fatalf("get zone failed: %v", err)
	}
	if zone == nil || zone.Serviceable || zone.DeliveryTime != "" {
		t.Fatalf("zone should be overwritten, got %+v", zone)
	}
	missing, err := repo.GetByPincode("999999")
	if err != nil || missing != nil {
		t.Fatalf("missing zone should be nil, got %+v err=%v", missing, err)
	}
	zones, err := repo.List()
	if err != nil || len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d err=%v", len(zones), err)
	}
}
