package cmd

import (
	"eshop/internal/adapters/out/postgres"
	"eshop/internal/adapters/out/postgres/productrepo"
	"eshop/internal/adapters/out/redis"
	"eshop/internal/core/application/usecases/commands"
	"eshop/internal/core/application/usecases/queries"
	"eshop/internal/core/ports"
	"eshop/internal/jobs"
	"eshop/internal/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the connections opened by the entry point. CacheClient
// and Publisher are optional.
type Dependencies struct {
	DB          *gorm.DB
	CacheClient redis.Client
	Publisher   ports.EventPublisher
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	logger     *zap.Logger
	metrics    *metrics.Metrics

	// catalog always reads the database; cartCatalog may be served from Redis.
	catalog     ports.Catalog
	cartCatalog ports.Catalog
	ledger      ports.StockLedger
}

func NewCompositionRoot(cfg Config, deps Dependencies) CompositionRoot {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog := productrepo.NewGormCatalog(deps.DB)
	var cartCatalog ports.Catalog = catalog
	if deps.CacheClient != nil {
		cartCatalog = redis.NewCachedCatalog(catalog, deps.CacheClient, cfg.CatalogCacheTTL,
			logger.With(zap.String("component", "catalog_cache")))
	}

	return CompositionRoot{
		cfg:         cfg,
		gormDB:      deps.DB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(deps.DB),
		publisher:   deps.Publisher,
		logger:      logger,
		metrics:     deps.Metrics,
		catalog:     catalog,
		cartCatalog: cartCatalog,
		ledger:      productrepo.NewGormStockLedger(deps.DB),
	}
}

func (c *CompositionRoot) cartUoWFactory() commands.CartUoWFactory {
	return FuncCartUoWFactory(func() commands.CartUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) CreateAddToCartCommandHandler() commands.AddToCartCommandHandler {
	return commands.NewAddToCartCommandHandler(c.cartUoWFactory(), c.cartCatalog)
}

func (c *CompositionRoot) CreateUpdateCartQuantityCommandHandler() commands.UpdateCartQuantityCommandHandler {
	return commands.NewUpdateCartQuantityCommandHandler(c.cartUoWFactory())
}

func (c *CompositionRoot) CreateRemoveFromCartCommandHandler() commands.RemoveFromCartCommandHandler {
	return commands.NewRemoveFromCartCommandHandler(c.cartUoWFactory())
}

func (c *CompositionRoot) CreateClearCartCommandHandler() commands.ClearCartCommandHandler {
	return commands.NewClearCartCommandHandler(c.cartUoWFactory())
}

// CreateCheckoutCommandHandler prices orders from the database and reserves
// stock on the connection-level ledger, outside any unit of work.
func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	return commands.NewCheckoutCommandHandler(
		c.cartUoWFactory(),
		c.orderUoWFactory(),
		c.ledger,
		c.catalog,
		c.logger,
		c.metrics,
	)
}

func (c *CompositionRoot) CreatePayOrderCommandHandler() commands.PayOrderCommandHandler {
	return commands.NewPayOrderCommandHandler(c.orderUoWFactory(), c.logger, c.metrics)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.logger, c.metrics)
}

func (c *CompositionRoot) CreatePublishOutboxEventsCommandHandler() commands.PublishOutboxEventsCommandHandler {
	return commands.NewPublishOutboxEventsCommandHandler(c.outboxUoWFactory(), c.publisher, c.metrics)
}

func (c *CompositionRoot) CreateReconcileStaleCartsCommandHandler() commands.ReconcileStaleCartsCommandHandler {
	return commands.NewReconcileStaleCartsCommandHandler(c.cartUoWFactory(), c.logger, c.metrics)
}

// Query handlers read through repositories that never begin a transaction.

func (c *CompositionRoot) CreateGetCartQueryHandler() queries.GetCartQueryHandler {
	return queries.NewGetCartQueryHandler(c.uowFactory.Create().CartRepository())
}

func (c *CompositionRoot) CreateGetCartTotalQueryHandler() queries.GetCartTotalQueryHandler {
	return queries.NewGetCartTotalQueryHandler(c.uowFactory.Create().CartRepository())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateGetAllOrdersQueryHandler() queries.GetAllOrdersQueryHandler {
	return queries.NewGetAllOrdersQueryHandler(c.gormDB)
}

// CreateJobManager schedules cart reconciliation, and the outbox relay when
// a publisher is configured.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	reconcileCmd, err := commands.NewReconcileStaleCartsCommand(c.cfg.ReconcileLookback)
	if err != nil {
		return nil, err
	}
	scheduled := []jobs.Job{
		jobs.NewCartReconciliationJob(c.CreateReconcileStaleCartsCommandHandler(), reconcileCmd, c.logger),
	}

	if c.publisher != nil {
		relayCmd, err := commands.NewPublishOutboxEventsCommand(c.cfg.OutboxBatchSize)
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled,
			jobs.NewOutboxRelayJob(c.CreatePublishOutboxEventsCommandHandler(), relayCmd, c.logger))
	}

	return jobs.NewJobManager(scheduled...), nil
}

type FuncCartUoWFactory func() commands.CartUoW

func (f FuncCartUoWFactory) Create() commands.CartUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
