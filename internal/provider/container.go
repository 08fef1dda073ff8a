package provider

import (
	"github.com/quickcart-next/internal/cache"
	"github.com/quickcart-next/internal/config"
	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/metrics"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/queue"
	"github.com/quickcart-next/internal/repository"
	"github.com/quickcart-next/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Registry    *prometheus.Registry
	CartMetrics *metrics.CartMetrics
	HTTPMetrics *metrics.HTTPMetrics

	// Repositories
	ProductRepo      repository.ProductRepository
	CouponRepo       repository.CouponRepository
	ServiceZoneRepo  repository.ServiceZoneRepository
	CartSnapshotRepo repository.CartSnapshotRepository

	// Services
	CatalogService      *service.CatalogService
	CatalogAdminService *service.CatalogAdminService
	CartStorage         service.CartStorage
	SnapshotPersister   *service.SnapshotPersister
	CartStore           *service.CartStore
	CartService         *service.CartService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Registry:    registry,
		CartMetrics: metrics.NewCartMetrics(registry),
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.ProductRepo = repository.NewProductRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.ServiceZoneRepo = repository.NewServiceZoneRepository(db)
	c.CartSnapshotRepo = repository.NewCartSnapshotRepository(db)
}

func (c *Container) initServices() {
	cartCfg := c.Config.Cart
	c.CatalogService = service.NewCatalogService(
		c.ProductRepo,
		c.CouponRepo,
		c.ServiceZoneRepo,
		cartCfg.CouponCacheTTL(),
		cartCfg.DefaultDeliveryTime,
	)
	c.CatalogAdminService = service.NewCatalogAdminService(c.ProductRepo, c.CouponRepo, c.ServiceZoneRepo)
	c.CartStorage = c.buildCartStorage()
	c.SnapshotPersister = service.NewSnapshotPersister(c.CartStorage, cartCfg.StorageKey, cartCfg.PersistTimeout(), c.CartMetrics)
	c.CartStore = service.NewCartStore(service.NewPricingConfig(cartCfg), c.CartMetrics)
	c.CartService = service.NewCartService(c.CartStore, c.CatalogService, c.CartStorage, c.SnapshotPersister, service.CartServiceOptions{
		StorageKey:          cartCfg.StorageKey,
		LookupTimeout:       cartCfg.LookupTimeout(),
		DefaultDeliveryTime: cartCfg.DefaultDeliveryTime,
		RecommendedLimit:    cartCfg.RecommendedLimit,
		Metrics:             c.CartMetrics,
	})
}

// buildCartStorage 按配置选择快照存储：数据库或 Redis，直接写入或经队列写入
func (c *Container) buildCartStorage() service.CartStorage {
	cartCfg := c.Config.Cart
	var storage service.CartStorage = c.CartSnapshotRepo
	if cartCfg.Storage == constants.CartStorageRedis {
		if cache.Enabled() {
			storage = cache.NewRedisCartStorage()
		} else {
			logger.Warnw("provider_cart_storage_fallback", "storage", cartCfg.Storage, "fallback", constants.CartStorageDatabase)
		}
	}

	if cartCfg.PersistMode != constants.CartPersistModeQueue {
		return storage
	}
	if !c.QueueClient.Enabled() {
		logger.Warnw("provider_cart_persist_mode_fallback", "persist_mode", cartCfg.PersistMode, "fallback", constants.CartPersistModeLocal)
		return storage
	}
	// worker 统一写数据库，读取也必须走数据库
	if cartCfg.Storage == constants.CartStorageRedis {
		logger.Warnw("provider_cart_storage_override", "storage", cartCfg.Storage, "persist_mode", cartCfg.PersistMode, "effective", constants.CartStorageDatabase)
	}
	return service.NewQueuedCartStorage(c.QueueClient, c.CartSnapshotRepo)
}
