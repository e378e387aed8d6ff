package cmd

import (
	"errors"
	"log/slog"
	"strings"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redis"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived collaborators of the service. Build it
// once per process; Close releases the broker and cache connections.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
	metrics    *metrics.Dispatch

	events ports.OrderEventPublisher
	lock   ports.PassLock

	// one handler per process so that the job and the API share its
	// single-flight group
	dispatchHandler *commands.RunDispatchPassCommandHandler

	closers []func() error
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		metrics:    metrics.NewDispatch(),
	}

	if cfg.KafkaHost != "" {
		writer := kafka.NewWriter(strings.Split(cfg.KafkaHost, ","))
		c.events = kafka.NewOrderChangedPublisher(writer, cfg.KafkaOrderChangedTopic)
		c.closers = append(c.closers, writer.Close)
	}

	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		c.lock = redis.NewPassLock(rdb, redis.DefaultPassLockKey, cfg.LockTTL)
		c.closers = append(c.closers, rdb.Close)
	}

	c.dispatchHandler = commands.NewRunDispatchPassCommandHandler(commands.DispatchPassDeps{
		UoWFactory:   c.unitOfWorkFactory(),
		Events:       c.events,
		Lock:         c.lock,
		Metrics:      c.metrics,
		StoreTimeout: cfg.StoreTimeout,
		Logger:       logger,
		Eligibility: services.NewEligibilityFilter(
			cfg.Dispatch.GracePeriod,
			kernel.NewCapacityClassifier(cfg.Dispatch.CapacityThresholdKg),
		),
		Clusterer: services.NewClusterer(cfg.Dispatch.RadiusKm, cfg.Dispatch.BatchWindow),
		Policy:    services.NewAssignmentPolicy(cfg.Dispatch.RadiusKm, cfg.Dispatch.GracePeriod),
	})

	return c
}

func (c *CompositionRoot) unitOfWorkFactory() commands.UoWFactory {
	return commands.UoWFactoryFunc(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) lifecycleDeps() commands.LifecycleDeps {
	return commands.LifecycleDeps{
		UoWFactory:   c.unitOfWorkFactory(),
		Events:       c.events,
		StoreTimeout: c.cfg.StoreTimeout,
		Logger:       c.logger,
	}
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.lifecycleDeps())
}

func (c *CompositionRoot) CreateRegisterAgentCommandHandler() commands.RegisterAgentCommandHandler {
	return commands.NewRegisterAgentCommandHandler(c.lifecycleDeps())
}

func (c *CompositionRoot) CreateUpdateAgentCommandHandler() commands.UpdateAgentCommandHandler {
	return commands.NewUpdateAgentCommandHandler(c.lifecycleDeps())
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.lifecycleDeps())
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	return commands.NewMarkPickedUpCommandHandler(c.lifecycleDeps(), nil)
}

func (c *CompositionRoot) CreateMarkOutForDeliveryCommandHandler() commands.MarkOutForDeliveryCommandHandler {
	return commands.NewMarkOutForDeliveryCommandHandler(c.lifecycleDeps())
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.lifecycleDeps())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.lifecycleDeps())
}

func (c *CompositionRoot) DispatchPassHandler() *commands.RunDispatchPassCommandHandler {
	return c.dispatchHandler
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersByStatusQueryHandler() queries.GetOrdersByStatusQueryHandler {
	return queries.NewGetOrdersByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAgentQueryHandler() queries.GetAgentQueryHandler {
	return queries.NewGetAgentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAgentsByStatusQueryHandler() queries.GetAgentsByStatusQueryHandler {
	return queries.NewGetAgentsByStatusQueryHandler(c.gormDB)
}

// CreateEcho builds the HTTP API with all handlers wired.
func (c *CompositionRoot) CreateEcho() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		PlaceOrder:     c.CreatePlaceOrderCommandHandler(),
		RegisterAgent:  c.CreateRegisterAgentCommandHandler(),
		UpdateAgent:    c.CreateUpdateAgentCommandHandler(),
		Assign:         c.CreateAssignAgentCommandHandler(),
		PickUp:         c.CreateMarkPickedUpCommandHandler(),
		OutForDelivery: c.CreateMarkOutForDeliveryCommandHandler(),
		Deliver:        c.CreateDeliverOrderCommandHandler(),
		Cancel:         c.CreateCancelOrderCommandHandler(),
		Dispatch:       c.DispatchPassHandler(),
		GetOrder:       c.CreateGetOrderQueryHandler(),
		ListOrders:     c.CreateGetOrdersByStatusQueryHandler(),
		CustomerOrders: c.CreateGetCustomerOrdersQueryHandler(),
		GetAgent:       c.CreateGetAgentQueryHandler(),
		GetAgents:      c.CreateGetAgentsByStatusQueryHandler(),
	})
	return httpin.NewEcho(server, c.metrics.Handler(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	dispatchJob := jobs.NewDispatchJob(c.dispatchHandler, c.cfg.Dispatch.Interval, 0, c.logger)
	return jobs.NewJobManager(c.logger, dispatchJob)
}

func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	c.closers = nil
	return errors.Join(errList...)
}
