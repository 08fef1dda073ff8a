package models

// CartProduct 加入购物车时的商品快照
type CartProduct struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand,omitempty"`
	Price         Money  `json:"price"`
	OriginalPrice Money  `json:"original_price"`
	Image         string `json:"image,omitempty"`
	Weight        string `json:"weight,omitempty"`
	Category      string `json:"category,omitempty"`
	InStock       bool   `json:"in_stock"`
}

// CartOption 加入购物车时的规格快照
type CartOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// ItemIdentity 购物车项的合并身份（商品ID + 规格ID）
type ItemIdentity struct {
	ProductID string
	OptionID  string
}

// CartItem 购物车项
type CartItem struct {
	ID         string      `json:"id"`
	ProductID  string      `json:"product_id"`
	Product    CartProduct `json:"product"`
	Option     *CartOption `json:"selected_option,omitempty"`
	Quantity   int         `json:"quantity"`
	TotalPrice Money       `json:"total_price"`
}

// OptionID 已选规格ID，未选返回空串
func (i *CartItem) OptionID() string {
	if i == nil || i.Option == nil {
		return ""
	}
	return i.Option.ID
}

// Identity 返回合并身份
func (i *CartItem) Identity() ItemIdentity {
	return ItemIdentity{ProductID: i.ProductID, OptionID: i.OptionID()}
}

// UnitPrice 单价：有规格取规格价，否则取商品价
func (i *CartItem) UnitPrice() Money {
	if i.Option != nil {
		return i.Option.Price
	}
	return i.Product.Price
}

// Recompute 按数量与单价重算小计
func (i *CartItem) Recompute() {
	i.TotalPrice = i.UnitPrice().MulQuantity(i.Quantity)
}

// Savings 划线价节省金额（不为负）
func (i *CartItem) Savings() Money {
	original := i.Product.OriginalPrice
	if !original.Decimal.IsPositive() {
		original = i.Product.Price
	}
	saved := original.Minus(i.UnitPrice()).MulQuantity(i.Quantity)
	if saved.Decimal.IsNegative() {
		return ZeroMoney()
	}
	return saved
}

// NewCartProduct 从商品表记录生成快照
func NewCartProduct(p *Product) CartProduct {
	return CartProduct{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.PriceAmount,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Weight:        p.Weight,
		Category:      p.Category,
		InStock:       p.InStock,
	}
}

// NewCartOption 从规格表记录生成快照
func NewCartOption(o *ProductOption) *CartOption {
	if o == nil {
		return nil
	}
	return &CartOption{ID: o.ID, Name: o.Name, Price: o.PriceAmount}
}
