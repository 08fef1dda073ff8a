package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quickcart-next/internal/http/response"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/provider"
	"github.com/quickcart-next/internal/repository"
	"github.com/quickcart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupAdminHandlerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductOption{}, &models.Coupon{}, &models.ServiceZone{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	product := models.Product{ID: "milk", Name: "Milk", PriceAmount: models.NewMoneyFromInt(150), InStock: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	h := New(&provider.Container{
		CatalogAdminService: service.NewCatalogAdminService(
			repository.NewProductRepository(db),
			repository.NewCouponRepository(db),
			repository.NewServiceZoneRepository(db),
		),
	})
	r := gin.New()
	r.GET("/coupons", h.GetAdminCoupons)
	r.POST("/coupons", h.CreateCoupon)
	r.PUT("/coupons/:code", h.UpdateCoupon)
	r.DELETE("/coupons/:code", h.DeleteCoupon)
	r.GET("/service-zones", h.GetServiceZones)
	r.PUT("/service-zones/:pincode", h.PutServiceZone)
	r.PUT("/products/:id/stock", h.PutProductStock)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestCouponAdminHandlers(t *testing.T) {
	r := setupAdminHandlerTest(t)

	resp := doJSON(t, r, http.MethodPost, "/coupons", `{"code":"save15","discount_type":"percentage","discount":15,"max_discount":60,"min_order_value":200}`)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("create want ok got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var created struct {
		Code     string `json:"code"`
		IsActive bool   `json:"is_active"`
		Discount string `json:"discount"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("decode coupon failed: %v", err)
	}
	if created.Code != "SAVE15" || !created.IsActive || created.Discount != "15.00" {
		t.Fatalf("unexpected coupon view: %+v", created)
	}

	if resp := doJSON(t, r, http.MethodPost, "/coupons", `{"code":"SAVE15","discount_type":"fixed","discount":5}`); resp.StatusCode != response.CodeConflict {
		t.Fatalf("duplicate want 409 got %d", resp.StatusCode)
	}
	if resp := doJSON(t, r, http.MethodPost, "/coupons", `{"code":"BAD","discount_type":"percentage","discount":150}`); resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("invalid want 400 got %d", resp.StatusCode)
	}
	if resp := doJSON(t, r, http.MethodPost, "/coupons", `{"code":"BAD","discount_type":"fixed","discount":5,"ends_at":"tomorrow"}`); resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("bad time want 400 got %d", resp.StatusCode)
	}

	if resp := doJSON(t, r, http.MethodPut, "/coupons/save15", `{"discount_type":"percentage","discount":15,"is_active":false}`); resp.StatusCode != response.CodeOK {
		t.Fatalf("update want ok got %d (%s)", resp.StatusCode, resp.Msg)
	}
	if resp := doJSON(t, r, http.MethodPut, "/coupons/NOPE", `{"discount_type":"fixed","discount":5}`); resp.StatusCode != response.CodeNotFound {
		t.Fatalf("update missing want 404 got %d", resp.StatusCode)
	}

	resp = doJSON(t, r, http.MethodGet, "/coupons?is_active=false", "")
	var listed []struct {
		Code     string `json:"code"`
		IsActive bool   `json:"is_active"`
	}
	if err := json.Unmarshal(resp.Data, &listed); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Code != "SAVE15" || listed[0].IsActive {
		t.Fatalf("unexpected list: %+v", listed)
	}
	if resp := doJSON(t, r, http.MethodGet, "/coupons?is_active=maybe", ""); resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("bad filter want 400 got %d", resp.StatusCode)
	}

	if resp := doJSON(t, r, http.MethodDelete, "/coupons/SAVE15", ""); resp.StatusCode != response.CodeOK {
		t.Fatalf("delete want ok got %d", resp.StatusCode)
	}
	if resp := doJSON(t, r, http.MethodDelete, "/coupons/SAVE15", ""); resp.StatusCode != response.CodeNotFound {
		t.Fatalf("second delete want 404 got %d", resp.StatusCode)
	}
}

func TestServiceZoneAndStockHandlers(t *testing.T) {
	r := setupAdminHandlerTest(t)

	if resp := doJSON(t, r, http.MethodPut, "/service-zones/560001", `{"city":"Bengaluru","serviceable":true,"delivery_time":"10-15 mins"}`); resp.StatusCode != response.CodeOK {
		t.Fatalf("upsert zone want ok got %d (%s)", resp.StatusCode, resp.Msg)
	}
	if resp := doJSON(t, r, http.MethodPut, "/service-zones/5600", `{"serviceable":true}`); resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("short pincode want 400 got %d", resp.StatusCode)
	}
	if resp := doJSON(t, r, http.MethodPut, "/service-zones/560002", `{"city":"Bengaluru"}`); resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("missing serviceable want 400 got %d", resp.StatusCode)
	}
	resp := doJSON(t, r, http.MethodGet, "/service-zones", "")
	var zones []models.ServiceZone
	if err := json.Unmarshal(resp.Data, &zones); err != nil {
		t.Fatalf("decode zones failed: %v", err)
	}
	if len(zones) != 1 || zones[0].DeliveryTime != "10-15 mins" {
		t.Fatalf("unexpected zones: %+v", zones)
	}

	resp = doJSON(t, r, http.MethodPut, "/products/milk/stock", `{"in_stock":false}`)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("set stock want ok got %d", resp.StatusCode)
	}
	var product struct {
		InStock bool `json:"in_stock"`
	}
	if err := json.Unmarshal(resp.Data, &product); err != nil {
		t.Fatalf("decode product failed: %v", err)
	}
	if product.InStock {
		t.Fatalf("expected product out of stock")
	}
	if resp := doJSON(t, r, http.MethodPut, "/products/missing/stock", `{"in_stock":true}`); resp.StatusCode != response.CodeNotFound {
		t.Fatalf("missing product want 404 got %d", resp.StatusCode)
	}
}
