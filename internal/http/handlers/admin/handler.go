package admin

import "github.com/quickcart-next/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：仅承载目录维护（优惠券、配送区域、库存）。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
