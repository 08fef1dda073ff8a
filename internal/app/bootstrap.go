package app

import (
	"context"
	"errors"

	"github.com/quickcart-next/internal/config"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/provider"
	"github.com/quickcart-next/internal/router"
	"github.com/quickcart-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 购物车与 HTTP 服务：先完成快照加载再开始监听
	if mode == ModeAll || mode == ModeAPI {
		cartService := NewCartService(container)
		loadCtx, cancel := context.WithTimeout(context.Background(), cfg.Cart.LookupTimeout()+cfg.Cart.PersistTimeout())
		err := cartService.Prepare(loadCtx)
		cancel()
		if err != nil {
			return nil, err
		}
		services = append(services, cartService)

		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务：all 模式下队列未启用时跳过
	if mode == ModeAll || mode == ModeWorker {
		if mode == ModeAll && !cfg.Queue.Enabled {
			logger.Infow("app_worker_skip_queue_disabled", "mode", mode)
		} else {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	if !validMode(opts.Mode) {
		return errors.New("unknown mode: " + opts.Mode)
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode, "cart_storage", opts.Config.Cart.Storage, "persist_mode", opts.Config.Cart.PersistMode)
	return RunWithOptions(runner, opts)
}
