package main

import (
	"context"

	"github.com/quickcart-next/internal/config"
	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/repository"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	productRepo := repository.NewProductRepository(models.DB).WithContext(ctx)
	couponRepo := repository.NewCouponRepository(models.DB).WithContext(ctx)
	zoneRepo := repository.NewServiceZoneRepository(models.DB).WithContext(ctx)

	// 添加商品
	for _, prod := range seedProducts() {
		existing, err := productRepo.GetByID(prod.ID)
		if err != nil {
			stdLog.Printf("Failed to load product %s: %v", prod.ID, err)
			continue
		}
		if existing != nil {
			stdLog.Printf("Product already exists: %s", prod.ID)
			continue
		}
		if err := productRepo.Create(&prod); err != nil {
			stdLog.Printf("Failed to create product %s: %v", prod.ID, err)
		} else {
			stdLog.Printf("Created product: %s", prod.ID)
		}
	}

	// 添加优惠券
	for _, coupon := range seedCoupons() {
		existing, err := couponRepo.GetByCode(coupon.Code)
		if err != nil {
			stdLog.Printf("Failed to load coupon %s: %v", coupon.Code, err)
			continue
		}
		if existing != nil {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
			continue
		}
		if err := couponRepo.Create(&coupon); err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
		} else {
			stdLog.Printf("Created coupon: %s", coupon.Code)
		}
	}

	// 配送区域
	for _, zone := range seedZones() {
		if err := zoneRepo.Upsert(&zone); err != nil {
			stdLog.Printf("Failed to upsert zone %s: %v", zone.Pincode, err)
		} else {
			stdLog.Printf("Upserted zone: %s", zone.Pincode)
		}
	}

	stdLog.Printf("Seed completed")
}

func price(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}

func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:            "amul-milk",
			Name:          "Amul Taaza Toned Milk",
			Brand:         "Amul",
			PriceAmount:   price("27"),
			OriginalPrice: price("29"),
			Image:         "https://images.unsplash.com/photo-1563636619-e9143da7973b?w=800",
			Weight:        "500 ml",
			Category:      "dairy",
			InStock:       true,
			SortOrder:     100,
			Options: []models.ProductOption{
				{ID: "amul-milk-500ml", Name: "500 ml", PriceAmount: price("27"), SortOrder: 2},
				{ID: "amul-milk-1l", Name: "1 L", PriceAmount: price("54"), SortOrder: 1},
			},
		},
		{
			ID:          "brown-bread",
			Name:        "Harvest Gold Brown Bread",
			Brand:       "Harvest Gold",
			PriceAmount: price("50"),
			Image:       "https://images.unsplash.com/photo-1509440159596-0249088772ff?w=800",
			Weight:      "400 g",
			Category:    "bakery",
			InStock:     true,
			SortOrder:   90,
		},
		{
			ID:            "basmati-rice",
			Name:          "India Gate Basmati Rice",
			Brand:         "India Gate",
			PriceAmount:   price("120"),
			OriginalPrice: price("140"),
			Image:         "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=800",
			Category:      "staples",
			InStock:       true,
			SortOrder:     80,
			Options: []models.ProductOption{
				{ID: "basmati-rice-1kg", Name: "1 kg", PriceAmount: price("120"), SortOrder: 2},
				{ID: "basmati-rice-5kg", Name: "5 kg", PriceAmount: price("560"), SortOrder: 1},
			},
		},
		{
			ID:          "alphonso-mango",
			Name:        "Alphonso Mango",
			PriceAmount: price("399"),
			Image:       "https://images.unsplash.com/photo-1553279768-865429fa0078?w=800",
			Weight:      "1 kg",
			Category:    "fruits",
			InStock:     true,
			SortOrder:   70,
		},
		{
			ID:          "cold-coffee",
			Name:        "Sleepy Owl Cold Brew",
			Brand:       "Sleepy Owl",
			PriceAmount: price("245"),
			Image:       "https://images.unsplash.com/photo-1461023058943-07fcbe16d735?w=800",
			Weight:      "3 x 200 ml",
			Category:    "beverages",
			InStock:     false,
			SortOrder:   60,
		},
	}
}

func seedCoupons() []models.Coupon {
	return []models.Coupon{
		{
			Code:          "FLAT100",
			DiscountType:  constants.CouponTypeFixed,
			Discount:      price("100"),
			MinOrderValue: price("500"),
			Description:   "Flat ₹100 off on orders above ₹500",
			IsActive:      true,
		},
		{
			Code:          "SAVE10",
			DiscountType:  constants.CouponTypePercentage,
			Discount:      price("10"),
			MaxDiscount:   price("75"),
			MinOrderValue: price("300"),
			Description:   "10% off up to ₹75",
			IsActive:      true,
		},
		{
			Code:         "WELCOME50",
			DiscountType: constants.CouponTypeFixed,
			Discount:     price("50"),
			Description:  "₹50 off on your first order",
			IsActive:     true,
		},
	}
}

func seedZones() []models.ServiceZone {
	return []models.ServiceZone{
		{Pincode: "560001", City: "Bengaluru", Serviceable: true, DeliveryTime: "10-15 mins"},
		{Pincode: "560034", City: "Bengaluru", Serviceable: true, DeliveryTime: "15-20 mins"},
		{Pincode: "400001", City: "Mumbai", Serviceable: true, DeliveryTime: "20-30 mins"},
		{Pincode: "110001", City: "New Delhi", Serviceable: false},
	}
}
