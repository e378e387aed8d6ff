package commands_test

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindInFlightByAgent(ctx context.Context, agentID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAgentRepository struct{ mock.Mock }

func (m *MockAgentRepository) Add(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByStatus(ctx context.Context, status agent.Status) ([]*agent.Agent, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*agent.Agent), args.Error(1)
}

type MockWarehouseRepository struct{ mock.Mock }

func (m *MockWarehouseRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*catalog.Warehouse, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Warehouse), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

func (m *MockUoW) WarehouseRepository() ports.WarehouseRepository {
	args := m.Called()
	return args.Get(0).(ports.WarehouseRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockUoW) ChangedOrders() []*order.Order {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*order.Order)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderChanged(ctx context.Context, orders ...*order.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

type MockPassLock struct{ mock.Mock }

func (m *MockPassLock) TryAcquire(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockPassLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPassMetrics struct{ mock.Mock }

func (m *MockPassMetrics) ObservePass(outcome string, duration time.Duration, eligible int) {
	m.Called(outcome, duration, eligible)
}

func (m *MockPassMetrics) ObserveCluster(result, mode string, orders int) {
	m.Called(result, mode, orders)
}

func (m *MockPassMetrics) ObserveExclusion(reason string) {
	m.Called(reason)
}

// lifecycleUoW wires a MockUoW to the two aggregate repositories with the
// standard transaction expectations. Callers add Commit and ChangedOrders.
func lifecycleUoW(orders *MockOrderRepository, agents *MockAgentRepository) (*MockUoW, *MockUoWFactory) {
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Maybe()
	uow.On("AgentRepository").Return(agents).Maybe()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	return uow, factory
}

var (
	testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Warehouse in Bangalore.
	testWarehouseLoc = kernel.MustNewLocation(12.9716, 77.5946)
)

const kmInLatDegrees = 1 / 111.195

func north(from kernel.Location, km float64) kernel.Location {
	return kernel.MustNewLocation(from.Latitude()+km*kmInLatDegrees, from.Longitude())
}

func fixedClock(t time.Time) commands.Clock {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T {
	return &v
}

var _ ports.OrderEventPublisher = (*MockEventPublisher)(nil)
var _ ports.PassLock = (*MockPassLock)(nil)
var _ commands.PassMetrics = (*MockPassMetrics)(nil)
