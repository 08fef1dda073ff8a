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

func setupCartServiceTest(t *testing.T) (*CartService, *fakeCatalog, *memoryCartStorage) {
	t.Helper()
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 150))
	catalog.addProduct(testProduct("p2", 300))
	catalog.addProduct(weightedProduct())
	catalog.addCoupon(&models.Coupon{
		Code:          "FLAT100",
		DiscountType:  constants.CouponTypeFixed,
		Discount:      money(100),
		MinOrderValue: money(500),
		IsActive:      true,
	})
	catalog.addCoupon(&models.Coupon{
		Code:         "SAVE10",
		DiscountType: constants.CouponTypePercentage,
		Discount:     money(10),
		MaxDiscount:  money(40),
		IsActive:     true,
	})

	storage := newMemoryCartStorage()
	store := NewCartStore(DefaultPricingConfig(), nil)
	persister := NewSnapshotPersister(storage, constants.CartStorageKey, time.Second, nil)
	persister.Start()
	svc := NewCartService(store, catalog, storage, persister, CartServiceOptions{
		LookupTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Close(ctx)
	})
	return svc, catalog, storage
}

func initCartService(t *testing.T, svc *CartService) {
	t.Helper()
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
}

func TestCartServiceAddItemMergesAndPersists(t *testing.T) {
	svc, _, storage := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	state, err := svc.AddItem(ctx, AddItemInput{ProductID: "p1"})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(state.Items) != 1 || state.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %+v", state.Items)
	}
	assertMoney(t, "total_payable", state.Summary.TotalPayable, "510")

	if err := svc.Close(ctx); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	saved := storage.savedRevisions()
	if len(saved) == 0 || saved[len(saved)-1] != state.Revision {
		t.Fatalf("latest revision not persisted: %v", saved)
	}
}

func TestCartServiceMutationWaitsForInitialLoad(t *testing.T) {
	svc, _, storage := setupCartServiceTest(t)
	persisted := &models.CartState{
		Revision: 4,
		Items:    []models.CartItem{testItem(t, testProduct("p2", 300), "", 1)},
	}
	storage.states[constants.CartStorageKey] = persisted
	storage.loadGate = make(chan struct{})

	added := make(chan *models.CartState, 1)
	go func() {
		state, err := svc.AddItem(context.Background(), AddItemInput{ProductID: "p1", Quantity: 1})
		if err != nil {
			t.Errorf("add item failed: %v", err)
		}
		added <- state
	}()

	initDone := make(chan error, 1)
	go func() { initDone <- svc.Init(context.Background()) }()

	select {
	case <-added:
		t.Fatalf("mutation applied before initial load finished")
	case <-time.After(30 * time.Millisecond):
	}
	close(storage.loadGate)

	if err := <-initDone; err != nil {
		t.Fatalf("init failed: %v", err)
	}
	state := <-added
	if state == nil || len(state.Items) != 2 {
		t.Fatalf("expected loaded item plus new item, got %+v", state)
	}
	if state.Revision != 5 {
		t.Fatalf("expected revision 5 after load at 4, got %d", state.Revision)
	}
}

func TestCartServiceUpdateQuantityWaitsForInitialLoad(t *testing.T) {
	svc, _, storage := setupCartServiceTest(t)
	persisted := &models.CartState{
		Revision: 2,
		Items:    []models.CartItem{testItem(t, testProduct("p2", 300), "", 1)},
	}
	itemID := persisted.Items[0].ID
	storage.states[constants.CartStorageKey] = persisted
	storage.loadGate = make(chan struct{})

	type result struct {
		state *models.CartState
		err   error
	}
	updated := make(chan result, 1)
	go func() {
		state, err := svc.UpdateQuantity(context.Background(), itemID, 3)
		updated <- result{state: state, err: err}
	}()

	select {
	case got := <-updated:
		t.Fatalf("update resolved before initial load finished: %+v", got)
	case <-time.After(30 * time.Millisecond):
	}
	close(storage.loadGate)
	initCartService(t, svc)

	got := <-updated
	if got.err != nil {
		t.Fatalf("update persisted item failed: %v", got.err)
	}
	if len(got.state.Items) != 1 || got.state.Items[0].Quantity != 3 {
		t.Fatalf("expected persisted item at quantity 3, got %+v", got.state.Items)
	}
	if got.state.Revision != 3 {
		t.Fatalf("expected revision 3 after load at 2, got %d", got.state.Revision)
	}
}

func TestCartServiceInitContinuesOnLoadFailure(t *testing.T) {
	svc, _, storage := setupCartServiceTest(t)
	storage.loadErr = errors.New("corrupt snapshot")
	initCartService(t, svc)

	state, err := svc.AddItem(context.Background(), AddItemInput{ProductID: "p1", Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(state.Items) != 1 {
		t.Fatalf("expected empty cart plus one item, got %+v", state.Items)
	}
}

func TestCartServiceLookupFailureLeavesStateUntouched(t *testing.T) {
	svc, catalog, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	before, _ := svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 1})

	catalog.setBefore(func(context.Context, string, string) error { return errCatalogDown })
	if _, err := svc.AddItem(ctx, AddItemInput{ProductID: "p2", Quantity: 1}); !errors.Is(err, errCatalogDown) {
		t.Fatalf("expected catalog error, got %v", err)
	}
	after := svc.State()
	if after.Revision != before.Revision || len(after.Items) != 1 {
		t.Fatalf("failed lookup changed state: %+v", after)
	}
}

func TestCartServiceLookupTimeout(t *testing.T) {
	svc, catalog, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	catalog.setBefore(func(ctx context.Context, _, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	})

	_, err := svc.AddItem(context.Background(), AddItemInput{ProductID: "p1", Quantity: 1})
	if !errors.Is(err, ErrLookupTimeout) {
		t.Fatalf("expected lookup timeout, got %v", err)
	}
	if len(svc.State().Items) != 0 {
		t.Fatalf("timed out lookup should not change cart")
	}
}

func TestCartServiceUpdateQuantityRefreshesPrice(t *testing.T) {
	svc, catalog, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	state, _ := svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 1})

	catalog.addProduct(testProduct("p1", 160))
	state, err := svc.UpdateQuantity(ctx, state.Items[0].ID, 2)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	assertMoney(t, "total_price", state.Items[0].TotalPrice, "320")

	state, err = svc.UpdateQuantity(ctx, state.Items[0].ID, 0)
	if err != nil {
		t.Fatalf("update quantity to zero failed: %v", err)
	}
	if len(state.Items) != 0 {
		t.Fatalf("quantity zero should remove item")
	}

	if _, err := svc.UpdateQuantity(ctx, "missing", 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
}

func TestCartServiceApplyCouponOutcomes(t *testing.T) {
	svc, _, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 3})

	missing, err := svc.ApplyCoupon(ctx, "NOPE")
	if err != nil {
		t.Fatalf("apply unknown coupon failed: %v", err)
	}
	if !missing.NotFound || missing.Applied || missing.Cart.AppliedCoupon != nil {
		t.Fatalf("unexpected not-found result: %+v", missing)
	}

	short, err := svc.ApplyCoupon(ctx, "flat100")
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if short.Applied {
		t.Fatalf("coupon should not apply at 450")
	}
	assertMoney(t, "shortfall", short.Shortfall, "50")

	svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 1})
	applied, err := svc.ApplyCoupon(ctx, "FLAT100")
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if !applied.Applied || applied.Cart.AppliedCoupon == nil {
		t.Fatalf("coupon should apply at 600: %+v", applied)
	}
	assertMoney(t, "discount", applied.Cart.Summary.Discount, "100")

	if _, err := svc.ApplyCoupon(ctx, "  "); !errors.Is(err, ErrCouponCodeRequired) {
		t.Fatalf("expected code required, got %v", err)
	}

	removed, err := svc.RemoveCoupon(ctx)
	if err != nil {
		t.Fatalf("remove coupon failed: %v", err)
	}
	if removed.AppliedCoupon != nil {
		t.Fatalf("coupon should be removed")
	}
}

func TestCartServiceLatestCouponIntentWins(t *testing.T) {
	svc, catalog, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 4})

	entered := make(chan struct{})
	release := make(chan struct{})
	catalog.setBefore(func(ctx context.Context, kind, key string) error {
		if kind == "coupon" && key == "FLAT100" {
			close(entered)
			<-release
		}
		return nil
	})

	older := make(chan *CouponApplyResult, 1)
	go func() {
		result, err := svc.ApplyCoupon(ctx, "FLAT100")
		if err != nil {
			t.Errorf("apply older coupon failed: %v", err)
		}
		older <- result
	}()
	<-entered

	newer := make(chan *CouponApplyResult, 1)
	go func() {
		result, err := svc.ApplyCoupon(ctx, "SAVE10")
		if err != nil {
			t.Errorf("apply newer coupon failed: %v", err)
		}
		newer <- result
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	first := <-older
	second := <-newer
	if first == nil || !first.Superseded || first.Applied {
		t.Fatalf("older intent should be superseded: %+v", first)
	}
	if second == nil || !second.Applied {
		t.Fatalf("newer intent should apply: %+v", second)
	}
	state := svc.State()
	if state.AppliedCoupon == nil || state.AppliedCoupon.Code != "SAVE10" {
		t.Fatalf("expected SAVE10 applied, got %+v", state.AppliedCoupon)
	}
}

func TestCartServiceSelectAddress(t *testing.T) {
	svc, catalog, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	catalog.zones["560001"] = &models.ServiceZone{Pincode: "560001", Serviceable: true, DeliveryTime: "15-20 mins"}
	catalog.zones["999999"] = &models.ServiceZone{Pincode: "999999", Serviceable: false}

	invalid := validAddress("12ab")
	result, err := svc.SelectAddress(ctx, invalid)
	if err != nil {
		t.Fatalf("select invalid address failed: %v", err)
	}
	if result.Accepted || len(result.Problems) == 0 || result.Cart.SelectedAddress != nil {
		t.Fatalf("invalid address should be rejected: %+v", result)
	}

	result, err = svc.SelectAddress(ctx, validAddress("560001"))
	if err != nil {
		t.Fatalf("select address failed: %v", err)
	}
	if !result.Accepted || !result.Serviceable || result.DeliveryTime != "15-20 mins" {
		t.Fatalf("unexpected select result: %+v", result)
	}
	if result.Cart.DeliveryTime != "15-20 mins" || result.Cart.SelectedAddress.Pincode != "560001" {
		t.Fatalf("address not stored: %+v", result.Cart)
	}

	result, err = svc.SelectAddress(ctx, validAddress("999999"))
	if err != nil {
		t.Fatalf("select address failed: %v", err)
	}
	if result.Serviceable || result.Cart.SelectedAddress.Serviceable() {
		t.Fatalf("address should be marked not serviceable: %+v", result)
	}
	if result.DeliveryTime != constants.DefaultDeliveryTime {
		t.Fatalf("expected default delivery time, got %q", result.DeliveryTime)
	}
}

func TestCartServiceDeliveryOption(t *testing.T) {
	svc, _, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 1})

	state, err := svc.SetDeliveryOption(ctx, "instant")
	if err != nil {
		t.Fatalf("set delivery option failed: %v", err)
	}
	assertMoney(t, "delivery_fee", state.Summary.DeliveryFee, "20")

	if _, err := svc.SetDeliveryOption(ctx, "drone"); !errors.Is(err, ErrDeliveryOptionInvalid) {
		t.Fatalf("expected invalid delivery option, got %v", err)
	}

	state, err = svc.SetDeliveryOption(ctx, "")
	if err != nil {
		t.Fatalf("unset delivery option failed: %v", err)
	}
	if state.DeliveryOption != nil {
		t.Fatalf("delivery option should be cleared")
	}
	assertMoney(t, "delivery_fee", state.Summary.DeliveryFee, "50")
}

func TestCartServiceClearRemovesSnapshot(t *testing.T) {
	svc, _, storage := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 1})

	state, err := svc.Clear(ctx)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(state.Items) != 0 {
		t.Fatalf("cart not cleared")
	}
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	removed := storage.removedRevisions()
	if len(removed) == 0 || removed[len(removed)-1] != state.Revision {
		t.Fatalf("expected snapshot removal at revision %d, got %v", state.Revision, removed)
	}
}

func TestCartServiceRecommendationsExcludeCartProducts(t *testing.T) {
	svc, _, _ := setupCartServiceTest(t)
	initCartService(t, svc)
	ctx := context.Background()
	svc.AddItem(ctx, AddItemInput{ProductID: "p1", Quantity: 1})

	recs, err := svc.Recommendations(ctx)
	if err != nil {
		t.Fatalf("recommendations failed: %v", err)
	}
	for _, product := range recs.Products {
		if product.ID == "p1" {
			t.Fatalf("cart product should be excluded")
		}
	}
	if len(recs.Products) != 2 {
		t.Fatalf("expected two recommendations, got %d", len(recs.Products))
	}
	if len(recs.Coupons) != 2 {
		t.Fatalf("expected coupons listed, got %d", len(recs.Coupons))
	}
}

func openCartSnapshotDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_restart_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartSnapshot{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

// startCartService 模拟一次进程启动：新的 store、persister 与 service 共用同一份快照存储
func startCartService(t *testing.T, catalog Catalog, storage CartStorage) *CartService {
	t.Helper()
	store := NewCartStore(DefaultPricingConfig(), nil)
	persister := NewSnapshotPersister(storage, constants.CartStorageKey, time.Second, nil)
	persister.Start()
	svc := NewCartService(store, catalog, storage, persister, CartServiceOptions{
		LookupTimeout: 200 * time.Millisecond,
	})
	initCartService(t, svc)
	return svc
}

func closeCartService(t *testing.T, svc *CartService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestCartServiceRestartAfterClearKeepsPersisting(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 150))
	catalog.addProduct(testProduct("p2", 300))
	repo := repository.NewCartSnapshotRepository(openCartSnapshotDB(t))
	ctx := context.Background()

	first := startCartService(t, catalog, repo)
	for i := 0; i < 3; i++ {
		if _, err := first.AddItem(ctx, AddItemInput{ProductID: "p1"}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	}
	cleared, err := first.Clear(ctx)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	closeCartService(t, first)

	snapshot, err := repo.Get(ctx, constants.CartStorageKey)
	if err != nil || snapshot == nil || !snapshot.Removed() || snapshot.Revision != cleared.Revision {
		t.Fatalf("expected tombstone at revision %d, got %+v err=%v", cleared.Revision, snapshot, err)
	}

	second := startCartService(t, catalog, repo)
	if got := second.State().Revision; got != cleared.Revision {
		t.Fatalf("restart should resume at revision %d, got %d", cleared.Revision, got)
	}
	added, err := second.AddItem(ctx, AddItemInput{ProductID: "p2", Quantity: 2})
	if err != nil {
		t.Fatalf("add after restart failed: %v", err)
	}
	if added.Revision <= cleared.Revision {
		t.Fatalf("revision %d should move past the cleared revision %d", added.Revision, cleared.Revision)
	}
	closeCartService(t, second)

	third := startCartService(t, catalog, repo)
	defer closeCartService(t, third)
	state := third.State()
	if len(state.Items) != 1 || state.Items[0].ProductID != "p2" || state.Items[0].Quantity != 2 {
		t.Fatalf("cart added after restart was not persisted: %+v", state.Items)
	}
	if state.Revision != added.Revision {
		t.Fatalf("expected revision %d, got %d", added.Revision, state.Revision)
	}
	assertMoney(t, "total_payable", state.Summary.TotalPayable, "610")
}
