package router

import (
	"fmt"
	"strings"

	"github.com/quickcart-next/internal/cache"
	"github.com/quickcart-next/internal/config"
	adminhandlers "github.com/quickcart-next/internal/http/handlers/admin"
	publichandlers "github.com/quickcart-next/internal/http/handlers/public"
	"github.com/quickcart-next/internal/http/response"
	"github.com/quickcart-next/internal/i18n"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "qc"
	}
	couponRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:coupon", redisPrefix),
		WindowSeconds: cfg.Cart.CouponRateLimit.WindowSeconds,
		MaxRequests:   cfg.Cart.CouponRateLimit.MaxRequests,
		MessageKey:    "error.coupon_rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(c.HTTPMetrics))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 购物车
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.GET("/insights", publicHandler.GetCartInsights)
			cart.GET("/recommendations", publicHandler.GetRecommendations)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/:id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:id", publicHandler.RemoveCartItem)
			cart.POST("/coupon", RateLimitMiddleware(cache.Client(), couponRule, KeyByIPAndJSONField("code")), publicHandler.ApplyCoupon)
			cart.DELETE("/coupon", publicHandler.RemoveCoupon)
			cart.PUT("/delivery-option", publicHandler.SetDeliveryOption)
			cart.PUT("/address", publicHandler.SelectAddress)
		}

		// 目录
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/coupons", publicHandler.GetCoupons)
		apiV1.GET("/delivery-options", publicHandler.GetDeliveryOptions)

		// 目录维护（需管理端令牌）
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.JWT.SecretKey))
		{
			admin.GET("/coupons", adminHandler.GetAdminCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:code", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:code", adminHandler.DeleteCoupon)
			admin.GET("/service-zones", adminHandler.GetServiceZones)
			admin.PUT("/service-zones/:pincode", adminHandler.PutServiceZone)
			admin.PUT("/products/:id/stock", adminHandler.PutProductStock)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
	})

	// 指标
	if c.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"status":   "ok",
			"redis":    cache.Enabled(),
			"queue":    c.QueueClient.Enabled(),
			"revision": c.CartService.State().Revision,
		})
	})

	return r
}
