package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/i18n"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/metrics"
	"github.com/quickcart-next/internal/models"

	"golang.org/x/sync/errgroup"
)

// 意图分组键，同组意图后发先至
const (
	intentKeyCoupon   = "coupon"
	intentKeyAddress  = "address"
	intentKeyDelivery = "delivery"
)

// CartServiceOptions 购物车服务参数
type CartServiceOptions struct {
	StorageKey          string
	LookupTimeout       time.Duration
	DefaultDeliveryTime string
	RecommendedLimit    int
	Metrics             *metrics.CartMetrics
}

// AddItemInput 加购输入
type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	OptionID  string `json:"option_id"`
	Quantity  int    `json:"quantity"`
}

// CouponApplyResult 使用优惠券的结果，未通过时购物车不变
type CouponApplyResult struct {
	Applied    bool              `json:"applied"`
	NotFound   bool              `json:"not_found"`
	Superseded bool              `json:"superseded"`
	Shortfall  models.Money      `json:"shortfall"`
	Message    string            `json:"message,omitempty"`
	Coupon     *models.Coupon    `json:"coupon,omitempty"`
	Cart       *models.CartState `json:"cart"`
}

// AddressSelectResult 选择地址的结果
type AddressSelectResult struct {
	Accepted     bool              `json:"accepted"`
	Problems     []AddressProblem  `json:"problems,omitempty"`
	Serviceable  bool              `json:"serviceable"`
	DeliveryTime string            `json:"delivery_time,omitempty"`
	Superseded   bool              `json:"superseded"`
	Cart         *models.CartState `json:"cart"`
}

// Recommendations 推荐商品与可用优惠券
type Recommendations struct {
	Products []models.Product `json:"products"`
	Coupons  []models.Coupon  `json:"coupons"`
}

// CartService 购物车编排服务
//
// 所有修改意图按到达顺序排队：远程查询可以并发，落到 CartStore 的变更严格按意图顺序执行。
// 启动加载占用第一个排队号，因此在 Init 完成前到达的意图都会排在加载之后。
type CartService struct {
	store     *CartStore
	catalog   Catalog
	storage   CartStorage
	persister *SnapshotPersister
	seq       *intentSequencer
	options   CartServiceOptions

	initTicket intentTicket
	initOnce   sync.Once
	initErr    error
	initDone   chan struct{}
}

// NewCartService 创建购物车服务，persister 可为空（不持久化）
func NewCartService(store *CartStore, catalog Catalog, storage CartStorage, persister *SnapshotPersister, options CartServiceOptions) *CartService {
	if strings.TrimSpace(options.StorageKey) == "" {
		options.StorageKey = constants.CartStorageKey
	}
	if options.LookupTimeout <= 0 {
		options.LookupTimeout = 3 * time.Second
	}
	if strings.TrimSpace(options.DefaultDeliveryTime) == "" {
		options.DefaultDeliveryTime = constants.DefaultDeliveryTime
	}
	if options.RecommendedLimit <= 0 {
		options.RecommendedLimit = constants.RecommendedLimit
	}
	seq := newIntentSequencer()
	s := &CartService{
		store:      store,
		catalog:    catalog,
		storage:    storage,
		persister:  persister,
		seq:        seq,
		options:    options,
		initTicket: seq.Take(""),
		initDone:   make(chan struct{}),
	}
	if persister != nil {
		store.OnChange(persister.Schedule)
	}
	return s
}

// Store 底层状态仓库
func (s *CartService) Store() *CartStore {
	return s.store
}

// Init 加载持久化快照；加载失败时以空购物车继续
func (s *CartService) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		defer close(s.initDone)
		s.initErr = s.seq.Run(ctx, s.initTicket, func(bool) error {
			s.loadPersisted(ctx)
			return nil
		})
	})
	<-s.initDone
	return s.initErr
}

func (s *CartService) loadPersisted(ctx context.Context) {
	if s.storage == nil {
		return
	}
	loadCtx, cancel := context.WithTimeout(ctx, s.options.LookupTimeout)
	defer cancel()
	state, err := s.storage.LoadCart(loadCtx, s.options.StorageKey)
	if err != nil {
		logger.Warnw("cart_load_failed", "key", s.options.StorageKey, "error", err)
		return
	}
	if state == nil {
		logger.Infow("cart_load_empty", "key", s.options.StorageKey)
		return
	}
	loaded, _ := s.store.Load(state)
	logger.Infow("cart_loaded",
		"key", s.options.StorageKey,
		"revision", loaded.Revision,
		"items", len(loaded.Items),
	)
}

// State 当前购物车状态
func (s *CartService) State() *models.CartState {
	return s.store.Snapshot()
}

// AddItem 查询商品后加购；查询失败时购物车不变
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (*models.CartState, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	ticket := s.seq.Take("")

	var item models.CartItem
	lookupErr := s.lookup(ctx, "product", func(ctx context.Context) error {
		product, err := s.catalog.GetProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		item, err = NewCartItem(product, strings.TrimSpace(input.OptionID), quantity)
		return err
	})

	var state *models.CartState
	err := s.seq.Run(ctx, ticket, func(bool) error {
		if lookupErr != nil {
			return lookupErr
		}
		var err error
		state, err = s.store.AddItem(item)
		return err
	})
	return state, err
}

// UpdateQuantity 刷新单价后设置数量，数量 <= 0 时删除
//
// 同一购物车项的多次调整只有最后一次生效，过期的调整直接返回当前状态。
// 购物车项在轮到本次调整时才解析，商品查询占用该轮次。
func (s *CartService) UpdateQuantity(ctx context.Context, itemID string, quantity int) (*models.CartState, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}
	ticket := s.seq.Take(itemIntentKey(itemID))

	var state *models.CartState
	err := s.seq.Run(ctx, ticket, func(latest bool) error {
		if !latest {
			state = s.superseded(constants.CartOpSetQuantity)
			return nil
		}
		// 轮到本次调整时再定位购物车项，启动加载与排在前面的操作均已生效
		current := s.store.Snapshot()
		idx := current.FindItem(itemID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		target := current.Items[idx]

		var refreshed models.CartItem
		err := s.lookup(ctx, "product", func(ctx context.Context) error {
			product, err := s.catalog.GetProduct(ctx, target.ProductID)
			if err != nil {
				return err
			}
			refreshed, err = NewCartItem(product, target.OptionID(), quantity)
			return err
		})
		if err != nil {
			return err
		}
		state, err = s.store.RefreshItem(itemID, refreshed.Product, refreshed.Option, quantity)
		return err
	})
	return state, err
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(ctx context.Context, itemID string) (*models.CartState, error) {
	ticket := s.seq.Take(itemIntentKey(itemID))
	var state *models.CartState
	err := s.seq.Run(ctx, ticket, func(bool) error {
		var err error
		state, err = s.store.RemoveItem(itemID)
		return err
	})
	return state, err
}

// ApplyCoupon 查询优惠券并按当前商品总额校验
func (s *CartService) ApplyCoupon(ctx context.Context, code string) (*CouponApplyResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCouponCodeRequired
	}
	ticket := s.seq.Take(intentKeyCoupon)

	var coupon *models.Coupon
	lookupErr := s.lookup(ctx, "coupon", func(ctx context.Context) error {
		var err error
		coupon, err = s.catalog.GetCoupon(ctx, code)
		return err
	})

	result := &CouponApplyResult{Shortfall: models.ZeroMoney()}
	err := s.seq.Run(ctx, ticket, func(latest bool) error {
		if !latest {
			result.Superseded = true
			result.Cart = s.superseded(constants.CartOpApplyCoupon)
			return nil
		}
		if errors.Is(lookupErr, ErrCouponNotFound) {
			result.NotFound = true
			result.Message = i18n.T(i18n.LocaleEN, "error.coupon_not_found")
			result.Cart = s.store.Snapshot()
			return nil
		}
		if lookupErr != nil {
			return lookupErr
		}
		validation, state, err := s.store.ApplyCoupon(coupon)
		if err != nil {
			return err
		}
		result.Applied = validation.Applied
		result.Shortfall = validation.Shortfall
		result.Message = validation.Message
		if validation.Applied {
			result.Message = i18n.Sprintf(i18n.LocaleEN, "cart.coupon_applied", coupon.Code)
		}
		result.Coupon = coupon
		result.Cart = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveCoupon 移除优惠券，总是成功
func (s *CartService) RemoveCoupon(ctx context.Context) (*models.CartState, error) {
	ticket := s.seq.Take(intentKeyCoupon)
	var state *models.CartState
	err := s.seq.Run(ctx, ticket, func(bool) error {
		var err error
		state, err = s.store.RemoveCoupon()
		return err
	})
	return state, err
}

// SetDeliveryOption 按类型设置配送方式，空类型表示取消
func (s *CartService) SetDeliveryOption(ctx context.Context, deliveryType string) (*models.CartState, error) {
	var option *models.DeliveryOption
	if strings.TrimSpace(deliveryType) != "" {
		found, err := FindDeliveryOption(s.store.Pricing(), deliveryType)
		if err != nil {
			return nil, err
		}
		option = found
	}
	ticket := s.seq.Take(intentKeyDelivery)
	var state *models.CartState
	err := s.seq.Run(ctx, ticket, func(latest bool) error {
		if !latest {
			state = s.superseded(constants.CartOpDeliveryOption)
			return nil
		}
		var err error
		state, err = s.store.SetDeliveryOption(option)
		return err
	})
	return state, err
}

// SelectAddress 校验地址，并发查询可配送性与送达时间后一次性写入
func (s *CartService) SelectAddress(ctx context.Context, address models.Address) (*AddressSelectResult, error) {
	if problems := ValidateAddress(&address); len(problems) > 0 {
		return &AddressSelectResult{Problems: problems, Cart: s.store.Snapshot()}, nil
	}
	ticket := s.seq.Take(intentKeyAddress)

	var (
		serviceable  bool
		deliveryTime string
	)
	lookupErr := s.lookup(ctx, "address", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			serviceable, err = s.catalog.CheckServiceability(gctx, &address)
			return err
		})
		g.Go(func() error {
			var err error
			deliveryTime, err = s.catalog.GetDeliveryTime(gctx, &address)
			return err
		})
		return g.Wait()
	})
	if strings.TrimSpace(deliveryTime) == "" {
		deliveryTime = s.options.DefaultDeliveryTime
	}

	result := &AddressSelectResult{}
	err := s.seq.Run(ctx, ticket, func(latest bool) error {
		if !latest {
			result.Superseded = true
			result.Cart = s.superseded(constants.CartOpSelectAddress)
			return nil
		}
		if lookupErr != nil {
			return lookupErr
		}
		selected := address
		selected.IsServiceable = &serviceable
		state, err := s.store.SelectAddress(&selected, deliveryTime)
		if err != nil {
			return err
		}
		result.Accepted = true
		result.Serviceable = serviceable
		result.DeliveryTime = deliveryTime
		result.Cart = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clear 清空购物车（下单完成后调用）
func (s *CartService) Clear(ctx context.Context) (*models.CartState, error) {
	ticket := s.seq.Take("")
	var state *models.CartState
	err := s.seq.Run(ctx, ticket, func(bool) error {
		var err error
		state, err = s.store.Clear()
		return err
	})
	return state, err
}

// Insights 购物车衍生信息
func (s *CartService) Insights() CartInsights {
	return BuildInsights(s.store.Snapshot(), s.store.Pricing())
}

// DeliveryOptions 可选配送方式
func (s *CartService) DeliveryOptions() []models.DeliveryOption {
	return DeliveryOptions(s.store.Pricing())
}

// Recommendations 推荐未加购的商品，并附带可用优惠券
func (s *CartService) Recommendations(ctx context.Context) (*Recommendations, error) {
	state := s.store.Snapshot()
	exclude := make([]string, 0, len(state.Items))
	seen := make(map[string]struct{}, len(state.Items))
	for _, item := range state.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		exclude = append(exclude, item.ProductID)
	}

	result := &Recommendations{}
	err := s.lookup(ctx, "recommendations", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			products, _, err := s.catalog.ListProducts(gctx, ProductQuery{
				Page:       1,
				PageSize:   s.options.RecommendedLimit,
				ExcludeIDs: exclude,
			})
			result.Products = products
			return err
		})
		g.Go(func() error {
			coupons, err := s.catalog.ListCoupons(gctx)
			result.Coupons = coupons
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	if len(result.Products) > s.options.RecommendedLimit {
		result.Products = result.Products[:s.options.RecommendedLimit]
	}
	return result, nil
}

// Close 等待未完成的快照写入
func (s *CartService) Close(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Stop(ctx)
}

// lookup 为目录查询加超时，并把超时统一为 ErrLookupTimeout
func (s *CartService) lookup(ctx context.Context, kind string, fn func(ctx context.Context) error) error {
	lookupCtx, cancel := context.WithTimeout(ctx, s.options.LookupTimeout)
	defer cancel()
	err := fn(lookupCtx)
	if err != nil && errors.Is(lookupCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = ErrLookupTimeout
	}
	s.options.Metrics.IncLookup(kind, err)
	return err
}

func (s *CartService) superseded(op string) *models.CartState {
	s.options.Metrics.IncStaleDiscard(op)
	logger.Debugw("cart_intent_superseded", "op", op)
	return s.store.Snapshot()
}

func itemIntentKey(itemID string) string {
	return "item:" + itemID
}
