package service

import (
	"errors"
	"sync"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/metrics"
	"github.com/quickcart-next/internal/models"
)

// errNoChange 变更未产生任何效果，不重算也不持久化
var errNoChange = errors.New("cart unchanged")

// CartEvent 购物车变更事件
type CartEvent struct {
	Op      string
	State   *models.CartState
	Persist bool
	Cleared bool
}

// CartStore 购物车状态唯一持有者
//
// 每次变更在同一把锁内完成状态修改与金额重算，外部只能拿到副本。
// 变更钩子与订阅投递都在锁内执行，必须非阻塞。
type CartStore struct {
	mu          sync.Mutex
	state       *models.CartState
	pricing     PricingConfig
	hooks       []func(CartEvent)
	subscribers map[int]chan *models.CartState
	nextSubID   int
	metrics     *metrics.CartMetrics
}

// NewCartStore 创建空购物车
func NewCartStore(pricing PricingConfig, m *metrics.CartMetrics) *CartStore {
	state := &models.CartState{Items: []models.CartItem{}, Summary: zeroSummary()}
	return &CartStore{
		state:       state,
		pricing:     pricing,
		subscribers: make(map[int]chan *models.CartState),
		metrics:     m,
	}
}

// Pricing 当前计价参数
func (s *CartStore) Pricing() PricingConfig {
	return s.pricing
}

// OnChange 注册变更钩子（持久化等）
func (s *CartStore) OnChange(hook func(CartEvent)) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Snapshot 返回当前状态副本
func (s *CartStore) Snapshot() *models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe 订阅状态变更，订阅时立即收到一次当前状态；慢消费者只保留最新状态
func (s *CartStore) Subscribe(buffer int) (<-chan *models.CartState, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan *models.CartState, buffer)
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	ch <- s.state.Clone()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// AddItem 加购，相同商品+规格合并数量
func (s *CartStore) AddItem(item models.CartItem) (*models.CartState, error) {
	if item.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(constants.CartOpAddItem, func(st *models.CartState) error {
		st.Items = ResolveAdd(st.Items, item)
		return nil
	})
}

// RemoveItem 按购物车项ID删除
func (s *CartStore) RemoveItem(itemID string) (*models.CartState, error) {
	return s.mutate(constants.CartOpRemoveItem, func(st *models.CartState) error {
		idx := st.FindItem(itemID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		st.Items = append(st.Items[:idx], st.Items[idx+1:]...)
		return nil
	})
}

// RemoveItemByIdentity 按商品+规格删除
func (s *CartStore) RemoveItemByIdentity(identity models.ItemIdentity) (*models.CartState, error) {
	return s.mutate(constants.CartOpRemoveItem, func(st *models.CartState) error {
		for i := range st.Items {
			if st.Items[i].Identity() == identity {
				st.Items = append(st.Items[:i], st.Items[i+1:]...)
				return nil
			}
		}
		return ErrCartItemNotFound
	})
}

// SetQuantity 设置数量，数量 <= 0 时删除该项
func (s *CartStore) SetQuantity(itemID string, quantity int) (*models.CartState, error) {
	op := constants.CartOpSetQuantity
	if quantity <= 0 {
		op = constants.CartOpRemoveItem
	}
	return s.mutate(op, func(st *models.CartState) error {
		idx := st.FindItem(itemID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		if quantity <= 0 {
			st.Items = append(st.Items[:idx], st.Items[idx+1:]...)
			return nil
		}
		if st.Items[idx].Quantity == quantity {
			return errNoChange
		}
		st.Items[idx].Quantity = quantity
		st.Items[idx].Recompute()
		return nil
	})
}

// RefreshItem 用最新商品快照更新单价并设置数量
func (s *CartStore) RefreshItem(itemID string, product models.CartProduct, option *models.CartOption, quantity int) (*models.CartState, error) {
	if quantity <= 0 {
		return s.SetQuantity(itemID, quantity)
	}
	return s.mutate(constants.CartOpSetQuantity, func(st *models.CartState) error {
		idx := st.FindItem(itemID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		item := &st.Items[idx]
		item.Product = product
		if option != nil {
			selected := *option
			item.Option = &selected
		}
		item.Quantity = quantity
		item.Recompute()
		return nil
	})
}

// ApplyCoupon 在锁内按当前商品总额校验并挂载优惠券，未通过时不修改状态
func (s *CartStore) ApplyCoupon(coupon *models.Coupon) (CouponValidation, *models.CartState, error) {
	if coupon == nil {
		return CouponValidation{}, nil, ErrCouponNotFound
	}
	var validation CouponValidation
	state, err := s.mutate(constants.CartOpApplyCoupon, func(st *models.CartState) error {
		validation = ValidateCoupon(coupon, ItemTotal(st.Items))
		if !validation.Applied {
			return errNoChange
		}
		applied := *coupon
		st.AppliedCoupon = &applied
		return nil
	})
	return validation, state, err
}

// RemoveCoupon 移除优惠券，未挂载时为空操作
func (s *CartStore) RemoveCoupon() (*models.CartState, error) {
	return s.mutate(constants.CartOpRemoveCoupon, func(st *models.CartState) error {
		if st.AppliedCoupon == nil {
			return errNoChange
		}
		st.AppliedCoupon = nil
		return nil
	})
}

// SetDeliveryOption 设置配送方式，传 nil 取消选择
func (s *CartStore) SetDeliveryOption(option *models.DeliveryOption) (*models.CartState, error) {
	return s.mutate(constants.CartOpDeliveryOption, func(st *models.CartState) error {
		if option == nil {
			st.DeliveryOption = nil
			return nil
		}
		selected := *option
		st.DeliveryOption = &selected
		return nil
	})
}

// SetSelectedAddress 设置收货地址
func (s *CartStore) SetSelectedAddress(address *models.Address) (*models.CartState, error) {
	return s.mutate(constants.CartOpSelectAddress, func(st *models.CartState) error {
		st.SelectedAddress = cloneAddress(address)
		return nil
	})
}

// SetDeliveryTime 设置预计送达时间
func (s *CartStore) SetDeliveryTime(label string) (*models.CartState, error) {
	return s.mutate(constants.CartOpDeliveryTime, func(st *models.CartState) error {
		st.DeliveryTime = label
		return nil
	})
}

// SelectAddress 地址、可配送结论与送达时间一次性写入
func (s *CartStore) SelectAddress(address *models.Address, deliveryTime string) (*models.CartState, error) {
	return s.mutate(constants.CartOpSelectAddress, func(st *models.CartState) error {
		st.SelectedAddress = cloneAddress(address)
		st.DeliveryTime = deliveryTime
		return nil
	})
}

// Load 整体替换状态（启动加载），非空购物车的小计与汇总按当前规则重算，不触发持久化
func (s *CartStore) Load(loaded *models.CartState) (*models.CartState, error) {
	if loaded == nil {
		return s.Snapshot(), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := loaded.Clone()
	if next.Items == nil {
		next.Items = []models.CartItem{}
	}
	// 空购物车沿用写入时的汇总，清空标记不带汇总即为全零
	if len(next.Items) > 0 {
		for i := range next.Items {
			next.Items[i].Recompute()
		}
		next.Summary = CalculateSummary(next.Items, next.AppliedCoupon, next.DeliveryOption, s.pricing)
	}
	if next.Revision < s.state.Revision {
		next.Revision = s.state.Revision
	}
	s.state = next
	s.publish(CartEvent{Op: constants.CartOpLoad, State: next.Clone()})
	return next.Clone(), nil
}

// Clear 清空商品、优惠券与配送方式（保留地址），汇总归零，并删除持久化快照
func (s *CartStore) Clear() (*models.CartState, error) {
	return s.mutate(constants.CartOpClear, func(st *models.CartState) error {
		st.Items = []models.CartItem{}
		st.AppliedCoupon = nil
		st.DeliveryOption = nil
		return nil
	})
}

func (s *CartStore) mutate(op string, fn func(st *models.CartState) error) (*models.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errNoChange) {
			return s.state.Clone(), nil
		}
		return nil, err
	}
	if op == constants.CartOpClear {
		next.Summary = zeroSummary()
	} else {
		next.Summary = CalculateSummary(next.Items, next.AppliedCoupon, next.DeliveryOption, s.pricing)
	}
	next.Revision = s.state.Revision + 1
	s.state = next

	s.publish(CartEvent{
		Op:      op,
		State:   next.Clone(),
		Persist: true,
		Cleared: op == constants.CartOpClear,
	})
	logger.Debugw("cart_mutated",
		"op", op,
		"revision", next.Revision,
		"items", len(next.Items),
		"item_total", next.Summary.ItemTotal.String(),
	)
	return next.Clone(), nil
}

// publish 调用钩子并投递给订阅者（调用方持锁）
func (s *CartStore) publish(event CartEvent) {
	s.metrics.IncMutation(event.Op)
	s.metrics.SetItemTotal(event.State.Summary.ItemTotal.InexactFloat64())
	for _, hook := range s.hooks {
		hook(event)
	}
	for _, ch := range s.subscribers {
		deliverLatest(ch, event.State.Clone())
	}
}

func deliverLatest(ch chan *models.CartState, state *models.CartState) {
	select {
	case ch <- state:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- state:
	default:
	}
}

func cloneAddress(address *models.Address) *models.Address {
	if address == nil {
		return nil
	}
	st := models.CartState{SelectedAddress: address}
	return st.Clone().SelectedAddress
}
