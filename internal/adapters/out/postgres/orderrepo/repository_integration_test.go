package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the order repository against a
// real PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	base       time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
	suite.base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTripsAllFields() {
	ctx := context.Background()
	created := suite.newOrder(suite.base)

	suite.Require().NoError(suite.repository.Add(ctx, created))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", created.ID(), created)

	got, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)

	suite.Equal(created.ID(), got.ID())
	suite.Equal(order.PendingAssignment, got.Status())
	suite.Equal(created.Details().CustomerID, got.Details().CustomerID)
	suite.Equal(created.Details().DeliveryAddress, got.Details().DeliveryAddress)
	suite.Equal(created.Details().Quantity, got.Details().Quantity)
	suite.Equal(created.Details().TotalAmountCents, got.Details().TotalAmountCents)
	suite.Require().NotNil(got.WarehouseID())
	suite.Equal(*created.WarehouseID(), *got.WarehouseID())
	suite.Require().NotNil(got.Destination())
	suite.InDelta(created.Destination().Latitude(), got.Destination().Latitude(), 1e-9)
	suite.InDelta(created.Destination().Longitude(), got.Destination().Longitude(), 1e-9)
	suite.True(created.CreatedAt().Equal(got.CreatedAt()))
	suite.Nil(got.AgentID())
	suite.Empty(got.ConfirmationCode())
	suite.Zero(got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_WithoutGeoData_PersistsNulls() {
	ctx := context.Background()

	details := suite.details()
	details.WarehouseID = nil
	details.Destination = nil
	created, err := order.NewOrder(kernel.NewUUID(), details, suite.base)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, created))

	got, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Nil(got.WarehouseID())
	suite.Nil(got.Destination())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	got, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(got)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AdvancesVersionAndPersistsLifecycle() {
	ctx := context.Background()
	stored := suite.newOrder(suite.base)
	suite.Require().NoError(suite.repository.Add(ctx, stored))

	loaded, err := suite.repository.Get(ctx, stored.ID())
	suite.Require().NoError(err)

	agentID := kernel.NewUUID()
	suite.Require().NoError(loaded.Assign(agentID, suite.base.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))
	suite.Equal(int64(1), loaded.Version())

	code, err := order.ParseConfirmationCode("004217")
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.PickUp(code, suite.base.Add(2*time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))
	suite.Equal(int64(2), loaded.Version())

	got, err := suite.repository.Get(ctx, stored.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PickedUp, got.Status())
	suite.Require().NotNil(got.AgentID())
	suite.Equal(agentID, *got.AgentID())
	suite.Equal("004217", got.ConfirmationCode().String())
	suite.True(got.UpdatedAt().Equal(suite.base.Add(2 * time.Minute)))
	suite.True(got.CreatedAt().Equal(suite.base))
	suite.Equal(int64(2), got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConcurrentModification() {
	ctx := context.Background()
	stored := suite.newOrder(suite.base)
	suite.Require().NoError(suite.repository.Add(ctx, stored))

	first, err := suite.repository.Get(ctx, stored.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, stored.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Assign(kernel.NewUUID(), suite.base.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Cancel(suite.base.Add(time.Minute)))
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)
	suite.Zero(second.Version())

	got, err := suite.repository.Get(ctx, stored.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, got.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFound() {
	missing := suite.newOrder(suite.base)

	err := suite.repository.Update(context.Background(), missing)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindByStatus_OrdersByCreationThenID() {
	ctx := context.Background()

	newest := suite.newOrder(suite.base.Add(2 * time.Minute))
	oldest := suite.newOrder(suite.base)
	middle := suite.newOrder(suite.base.Add(time.Minute))
	assigned := suite.newOrder(suite.base)
	suite.Require().NoError(assigned.Assign(kernel.NewUUID(), suite.base))

	for _, o := range []*order.Order{newest, oldest, middle, assigned} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	pending, err := suite.repository.FindByStatus(ctx, order.PendingAssignment)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 3)
	suite.Equal(oldest.ID(), pending[0].ID())
	suite.Equal(middle.ID(), pending[1].ID())
	suite.Equal(newest.ID(), pending[2].ID())

	delivered, err := suite.repository.FindByStatus(ctx, order.Delivered)
	suite.Require().NoError(err)
	suite.Empty(delivered)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindInFlightByAgent_SkipsTerminalAndForeignOrders() {
	ctx := context.Background()
	agentID := kernel.NewUUID()

	assigned := suite.newOrder(suite.base.Add(time.Minute))
	suite.Require().NoError(assigned.Assign(agentID, suite.base.Add(time.Minute)))

	pickedUp := suite.newOrder(suite.base)
	suite.Require().NoError(pickedUp.Assign(agentID, suite.base))
	suite.Require().NoError(pickedUp.PickUp(order.ConfirmationCode("123456"), suite.base))

	cancelled := suite.newOrder(suite.base)
	suite.Require().NoError(cancelled.Assign(agentID, suite.base))
	suite.Require().NoError(cancelled.Cancel(suite.base))

	foreign := suite.newOrder(suite.base)
	suite.Require().NoError(foreign.Assign(kernel.NewUUID(), suite.base))

	for _, o := range []*order.Order{assigned, pickedUp, cancelled, foreign} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	inFlight, err := suite.repository.FindInFlightByAgent(ctx, agentID)
	suite.Require().NoError(err)
	suite.Require().Len(inFlight, 2)
	suite.Equal(pickedUp.ID(), inFlight[0].ID())
	suite.Equal(assigned.ID(), inFlight[1].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) details() order.Details {
	warehouseID := kernel.NewUUID()
	destination := kernel.MustNewLocation(12.9716, 77.5946)

	return order.Details{
		CustomerID:       "cust-1",
		CustomerName:     "Asha",
		DeliveryAddress:  "12 MG Road",
		ProductID:        kernel.NewUUID(),
		Quantity:         2,
		TotalAmountCents: 45000,
		WarehouseID:      &warehouseID,
		Destination:      &destination,
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(createdAt time.Time) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), suite.details(), createdAt)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
