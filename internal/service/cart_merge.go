package service

import (
	"github.com/quickcart-next/internal/models"

	"github.com/google/uuid"
)

// ResolveAdd 按商品+规格合并加购，返回新切片，不修改入参
func ResolveAdd(existing []models.CartItem, incoming models.CartItem) []models.CartItem {
	identity := incoming.Identity()
	out := make([]models.CartItem, len(existing), len(existing)+1)
	copy(out, existing)
	for i := range out {
		if out[i].Identity() != identity {
			continue
		}
		merged := out[i]
		merged.Quantity += incoming.Quantity
		// 以最新拉取的商品与规格价格为准
		merged.Product = incoming.Product
		merged.Option = incoming.Option
		merged.Recompute()
		out[i] = merged
		return out
	}
	incoming.Recompute()
	return append(out, incoming)
}

// NewCartItem 由商品与规格生成购物车项，未指定规格时默认取第一个规格
func NewCartItem(product *models.Product, optionID string, quantity int) (models.CartItem, error) {
	if product == nil {
		return models.CartItem{}, ErrProductNotFound
	}
	if quantity <= 0 {
		return models.CartItem{}, ErrInvalidQuantity
	}
	if !product.InStock {
		return models.CartItem{}, ErrProductOutOfStock
	}
	var option *models.ProductOption
	switch {
	case optionID != "":
		option = product.FindOption(optionID)
		if option == nil {
			return models.CartItem{}, ErrProductOptionNotFound
		}
	case len(product.Options) > 0:
		option = &product.Options[0]
	}

	item := models.CartItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Product:   models.NewCartProduct(product),
		Option:    models.NewCartOption(option),
		Quantity:  quantity,
	}
	item.Recompute()
	return item, nil
}
