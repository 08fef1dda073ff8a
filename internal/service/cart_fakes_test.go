package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/queue"

	"github.com/hibiken/asynq"
)

// fakeCatalog 内存目录服务，before 钩子可用于阻塞或注入错误
type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]*models.Product
	coupons  map[string]*models.Coupon
	zones    map[string]*models.ServiceZone
	before   func(ctx context.Context, kind, key string) error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: make(map[string]*models.Product),
		coupons:  make(map[string]*models.Coupon),
		zones:    make(map[string]*models.ServiceZone),
	}
}

func (c *fakeCatalog) addProduct(p *models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

func (c *fakeCatalog) addCoupon(coupon *models.Coupon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupons[strings.ToUpper(coupon.Code)] = coupon
}

func (c *fakeCatalog) setBefore(fn func(ctx context.Context, kind, key string) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.before = fn
}

func (c *fakeCatalog) hook(ctx context.Context, kind, key string) error {
	c.mu.Lock()
	fn := c.before
	c.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, kind, key)
}

func (c *fakeCatalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := c.hook(ctx, "product", id); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	copied := *p
	copied.Options = append([]models.ProductOption(nil), p.Options...)
	return &copied, nil
}

func (c *fakeCatalog) ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, int64, error) {
	if err := c.hook(ctx, "products", ""); err != nil {
		return nil, 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	excluded := make(map[string]struct{}, len(query.ExcludeIDs))
	for _, id := range query.ExcludeIDs {
		excluded[id] = struct{}{}
	}
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (c *fakeCatalog) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if err := c.hook(ctx, "coupon", code); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	coupon, ok := c.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrCouponNotFound
	}
	copied := *coupon
	return &copied, nil
}

func (c *fakeCatalog) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	if err := c.hook(ctx, "coupons", ""); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Coupon, 0, len(c.coupons))
	for _, coupon := range c.coupons {
		out = append(out, *coupon)
	}
	return out, nil
}

func (c *fakeCatalog) CheckServiceability(ctx context.Context, address *models.Address) (bool, error) {
	if err := c.hook(ctx, "serviceability", address.Pincode); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if zone, ok := c.zones[address.Pincode]; ok {
		return zone.Serviceable, nil
	}
	return address.Serviceable(), nil
}

func (c *fakeCatalog) GetDeliveryTime(ctx context.Context, address *models.Address) (string, error) {
	if err := c.hook(ctx, "delivery_time", address.Pincode); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if zone, ok := c.zones[address.Pincode]; ok && zone.DeliveryTime != "" {
		return zone.DeliveryTime, nil
	}
	return constants.DefaultDeliveryTime, nil
}

// memoryCartStorage 内存快照存储，记录每次写入的版本号
type memoryCartStorage struct {
	mu        sync.Mutex
	states    map[string]*models.CartState
	saved     []uint64
	removed   []uint64
	saveErr   error
	saveGate  chan struct{}
	loadGate  chan struct{}
	loadErr   error
	saveCalls chan uint64
}

func newMemoryCartStorage() *memoryCartStorage {
	return &memoryCartStorage{states: make(map[string]*models.CartState)}
}

func (s *memoryCartStorage) SaveCart(ctx context.Context, key string, state *models.CartState) error {
	if s.saveCalls != nil {
		s.saveCalls <- state.Revision
	}
	if s.saveGate != nil {
		select {
		case <-s.saveGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.states[key] = state.Clone()
	s.saved = append(s.saved, state.Revision)
	return nil
}

func (s *memoryCartStorage) LoadCart(ctx context.Context, key string) (*models.CartState, error) {
	if s.loadGate != nil {
		select {
		case <-s.loadGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	state, ok := s.states[key]
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (s *memoryCartStorage) RemoveCart(ctx context.Context, key string, revision uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = &models.CartState{Revision: revision, Items: []models.CartItem{}}
	s.removed = append(s.removed, revision)
	return nil
}

func (s *memoryCartStorage) savedRevisions() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint64(nil), s.saved...)
}

func (s *memoryCartStorage) removedRevisions() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint64(nil), s.removed...)
}

type fakeEnqueuer struct {
	mu       sync.Mutex
	payloads []queue.CartSnapshotPayload
	err      error
}

func (e *fakeEnqueuer) EnqueueCartSnapshot(_ context.Context, payload queue.CartSnapshotPayload, _ ...asynq.Option) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.payloads = append(e.payloads, payload)
	return nil
}

var errCatalogDown = errors.New("catalog down")

func money(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}

func testProduct(id string, price int64, options ...models.ProductOption) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        "Product " + id,
		PriceAmount: money(price),
		InStock:     true,
		Options:     options,
	}
}

func testItem(t *testing.T, product *models.Product, optionID string, quantity int) models.CartItem {
	t.Helper()
	item, err := NewCartItem(product, optionID, quantity)
	if err != nil {
		t.Fatalf("new cart item failed: %v", err)
	}
	return item
}

func validAddress(pincode string) models.Address {
	return models.Address{
		ID:           "addr-1",
		Name:         "Home",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      pincode,
		Phone:        "9876543210",
	}
}
