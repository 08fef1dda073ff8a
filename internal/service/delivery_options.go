package service

import (
	"strings"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/models"
)

// DeliveryOptions 可选配送方式，标准配送费与默认配送费一致
func DeliveryOptions(cfg PricingConfig) []models.DeliveryOption {
	return []models.DeliveryOption{
		{
			Type:  constants.DeliveryTypeStandard,
			Label: "Door delivery",
			Fee:   cfg.DefaultDeliveryFee,
		},
		{
			Type:          constants.DeliveryTypeInstant,
			Label:         "Instant delivery",
			Fee:           models.NewMoneyFromInt(20),
			EstimatedTime: constants.InstantDeliveryTime,
		},
	}
}

// FindDeliveryOption 按类型查找配送方式
func FindDeliveryOption(cfg PricingConfig, deliveryType string) (*models.DeliveryOption, error) {
	deliveryType = strings.ToLower(strings.TrimSpace(deliveryType))
	for _, option := range DeliveryOptions(cfg) {
		if option.Type == deliveryType {
			found := option
			return &found, nil
		}
	}
	return nil, ErrDeliveryOptionInvalid
}
