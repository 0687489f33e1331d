package container

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"wms-core/internal/config"
	"wms-core/internal/infrastructure/broadcast"
	infraCache "wms-core/internal/infrastructure/cache"
	"wms-core/internal/infrastructure/database"
	"wms-core/internal/infrastructure/labelstore"
	"wms-core/pkg/cache"
	"wms-core/pkg/logger"

	catalogRepo "wms-core/internal/domains/catalog/repository"
	catalogService "wms-core/internal/domains/catalog/service"
	cyclecountRepo "wms-core/internal/domains/cyclecount/repository"
	cyclecountService "wms-core/internal/domains/cyclecount/service"
	inventoryRepo "wms-core/internal/domains/inventory/repository"
	inventoryService "wms-core/internal/domains/inventory/service"
	journalRepo "wms-core/internal/domains/journal/repository"
	locationRepo "wms-core/internal/domains/location/repository"
	locationService "wms-core/internal/domains/location/service"
	orderRepo "wms-core/internal/domains/order/repository"
	orderService "wms-core/internal/domains/order/service"
	purchaseorderRepo "wms-core/internal/domains/purchaseorder/repository"
	purchaseorderService "wms-core/internal/domains/purchaseorder/service"
	replenishmentRepo "wms-core/internal/domains/replenishment/repository"
	replenishmentService "wms-core/internal/domains/replenishment/service"
	rmaRepo "wms-core/internal/domains/rma/repository"
	rmaService "wms-core/internal/domains/rma/service"
	waveService "wms-core/internal/domains/wave/service"
)

// Container wires every domain's repository and service against one
// shared Postgres pool and the cross-cutting infrastructure (cache, queue
// client, label sink, broadcast publisher). There is no HTTP layer here —
// cmd/wmsctl and cmd/worker are the two processes that consume it.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	AsynqClient *asynq.Client
	Labels      labelstore.Sink
	Broadcast   broadcast.Publisher

	// Repositories
	CatalogRepo       catalogRepo.RepositoryInterface
	LocationRepo      locationRepo.RepositoryInterface
	InventoryRepo     inventoryRepo.RepositoryInterface
	JournalRepo       journalRepo.Repository
	OrderRepo         orderRepo.RepositoryInterface
	CycleCountRepo    cyclecountRepo.RepositoryInterface
	PurchaseOrderRepo purchaseorderRepo.RepositoryInterface
	RMARepo           rmaRepo.RepositoryInterface
	ReplenishmentRepo replenishmentRepo.RepositoryInterface

	// Services
	CatalogService       catalogService.ServiceInterface
	LocationService      locationService.ServiceInterface
	InventoryService     inventoryService.ServiceInterface
	OrderService         orderService.ServiceInterface
	CycleCountService    cyclecountService.ServiceInterface
	PurchaseOrderService purchaseorderService.ServiceInterface
	RMAService           rmaService.ServiceInterface
	ReplenishmentService replenishmentService.ServiceInterface
	WaveService          waveService.ServiceInterface
}

// NewContainer builds the full dependency graph: infrastructure, then
// repositories, then services in teacher-style dependency order (plain
// domains first, cross-domain collaborators last).
func NewContainer() (*Container, error) {
	c := &Container{}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to init infrastructure: %w", err)
	}
	if err := c.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	if err := c.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	log.Println("container initialized")
	return c, nil
}

// ========================================
// INFRASTRUCTURE
// ========================================
func (c *Container) initInfrastructure() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("config loaded", map[string]interface{}{"env": cfg.App.Environment})

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", nil)

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			logger.Error("redis connection failed (non-critical)", err)
		}
	}
	c.Cache = redisCache

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Queue.RedisAddr})
	logger.Info("asynq client initialized", nil)

	labelSink, err := labelstore.NewMinIOSink(context.Background(), cfg.ObjectStore)
	if err != nil {
		logger.Error("label sink init failed (non-critical)", err)
		c.Labels = labelstore.NoopSink{}
	} else {
		c.Labels = labelSink
	}

	c.Broadcast = broadcast.NewWebhookPublisher(envOr("BROADCAST_WEBHOOK_URL", ""))

	return nil
}

// ========================================
// REPOSITORIES
// ========================================
func (c *Container) initRepositories() error {
	pool := c.DB.Pool

	c.CatalogRepo = catalogRepo.NewRepository(pool)
	c.LocationRepo = locationRepo.NewRepository(pool)
	c.InventoryRepo = inventoryRepo.NewRepository(pool)
	c.JournalRepo = journalRepo.NewRepository(pool)
	c.OrderRepo = orderRepo.NewRepository(pool)
	c.CycleCountRepo = cyclecountRepo.NewRepository(pool)
	c.PurchaseOrderRepo = purchaseorderRepo.NewRepository(pool)
	c.RMARepo = rmaRepo.NewRepository(pool)
	c.ReplenishmentRepo = replenishmentRepo.NewRepository(pool)

	logger.Info("repositories initialized", nil)
	return nil
}

// ========================================
// SERVICES
// ========================================
func (c *Container) initServices() error {
	pool := c.DB.Pool

	c.LocationService = locationService.NewService(c.LocationRepo)
	c.CatalogService = catalogService.NewService(c.CatalogRepo, c.JournalRepo)

	c.InventoryService = inventoryService.NewService(pool, c.InventoryRepo, c.JournalRepo, c.LocationRepo, c.CatalogRepo)

	c.CycleCountService = cyclecountService.NewService(pool, c.CycleCountRepo, c.InventoryService)
	c.PurchaseOrderService = purchaseorderService.NewService(pool, c.PurchaseOrderRepo, c.InventoryService)
	c.RMAService = rmaService.NewService(pool, c.RMARepo, c.InventoryService)

	// OrderService's pick/ship/short_pick pipeline locks and mutates
	// inventory rows inside its own transaction, so it takes the
	// repository directly rather than the service (which owns its own
	// transaction boundary).
	c.OrderService = orderService.NewService(pool, c.OrderRepo, c.InventoryRepo, c.JournalRepo, c.CycleCountService, c.Broadcast, c.Labels)

	c.ReplenishmentService = replenishmentService.NewService(pool, c.ReplenishmentRepo, c.LocationService, c.InventoryService, c.Cache)

	// WaveService resolves FEFO candidate bins directly off the
	// repository, the same scan pick_order_item draws from.
	c.WaveService = waveService.NewService(pool, c.OrderRepo, c.InventoryRepo, c.LocationService, c.OrderService)

	logger.Info("services initialized", nil)
	return nil
}

// ========================================
// CLEANUP
// ========================================
func (c *Container) Cleanup() {
	log.Println("cleaning up container resources")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("asynq client close failed", err)
		}
	}
	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				logger.Error("redis close failed", err)
			}
		}
	}

	log.Println("container cleanup complete")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
