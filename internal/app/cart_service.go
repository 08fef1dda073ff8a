package app

import (
	"context"

	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/provider"
)

// CartService 购物车生命周期：启动快照写入循环，退出时刷盘并关闭队列客户端
type CartService struct {
	container *provider.Container
}

// NewCartService 创建购物车生命周期服务
func NewCartService(c *provider.Container) *CartService {
	return &CartService{container: c}
}

// Name 服务名称
func (s *CartService) Name() string {
	return "cart"
}

// Prepare 启动写入循环并加载持久化快照，需在 HTTP 服务监听前调用
func (s *CartService) Prepare(ctx context.Context) error {
	if s == nil || s.container == nil {
		return nil
	}
	if s.container.SnapshotPersister != nil {
		s.container.SnapshotPersister.Start()
	}
	return s.container.CartService.Init(ctx)
}

// Start 阻塞直到退出信号
func (s *CartService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Stop 等待未完成的快照写入
func (s *CartService) Stop(ctx context.Context) error {
	if s == nil || s.container == nil {
		return nil
	}
	err := s.container.CartService.Close(ctx)
	if err != nil {
		logger.Warnw("cart_close_flush_failed", "error", err)
	}
	if s.container.QueueClient != nil {
		if cerr := s.container.QueueClient.Close(); cerr != nil {
			logger.Warnw("cart_close_queue_client_failed", "error", cerr)
		}
	}
	return err
}
