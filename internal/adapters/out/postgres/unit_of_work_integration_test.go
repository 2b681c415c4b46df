package postgres_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/permissions"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/historyrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/clock"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// uowFactoryFunc adapts the GORM factory to the command-side factory interface.
type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW { return f() }

// UnitOfWorkIntegrationTestSuite verifies transactional atomicity of the unit
// of work and runs the full lifecycle through the real command handlers.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &historyrepo.HistoryEntryDTO{}))
	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_history").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderAndHistoryTogether() {
	ctx := context.Background()
	staff := suite.staffActor()
	now := time.Now().UTC()

	testOrder, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)
	seed, err := order.NewSeedHistoryEntry(kernel.NewUUID(), testOrder.ID(), testOrder.TenantID(), staff, now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.HistoryRepository().Append(ctx, seed))
	suite.Require().NoError(uow.Commit(ctx))

	suite.assertCount("orders", 1)
	suite.assertCount("order_history", 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndHistoryTogether() {
	ctx := context.Background()
	staff := suite.staffActor()
	now := time.Now().UTC()

	testOrder, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)
	seed, err := order.NewSeedHistoryEntry(kernel.NewUUID(), testOrder.ID(), testOrder.TenantID(), staff, now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.HistoryRepository().Append(ctx, seed))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.assertCount("orders", 0)
	suite.assertCount("order_history", 0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_ReturnsError() {
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFullLifecycle_BackAndForthPreservesEvidence() {
	ctx := context.Background()
	manager, err := actor.NewActor(kernel.NewUUID(), "Morgan", actor.RoleManager)
	suite.Require().NoError(err)

	createHandler, transitionHandler := suite.handlers()

	orderID := kernel.NewUUID()
	tenantID := kernel.NewUUID()
	createCmd, err := commands.NewCreateOrderCommand(orderID, tenantID, manager)
	suite.Require().NoError(err)
	suite.Require().NoError(createHandler.Handle(ctx, createCmd))

	transition := func(target order.Status, observation string) commands.TransitionResult {
		cmd, cmdErr := commands.NewTransitionOrderCommand(orderID, tenantID, manager, target, observation, "")
		suite.Require().NoError(cmdErr)
		result, handleErr := transitionHandler.Handle(ctx, cmd)
		suite.Require().NoError(handleErr)
		return result
	}

	// pending -> accepted -> cancelled -> pending -> accepted ->
	// preparing -> ready -> out_for_delivery -> completed
	transition(order.Accepted, "")
	transition(order.Cancelled, "customer asked to cancel")
	transition(order.Pending, "customer called back")
	transition(order.Accepted, "")
	transition(order.Preparing, "")
	transition(order.Ready, "")
	transition(order.OutForDelivery, "")
	result := transition(order.Completed, "")
	suite.Equal(order.Completed, result.NewStatus)

	// 9 versions: 1 at creation plus 8 transitions.
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	final, err := uow.OrderRepository().Get(ctx, tenantID, orderID)
	suite.Require().NoError(err)
	suite.Equal(order.Completed, final.Status())
	suite.Equal(9, final.Version())

	// Cancellation evidence survives the reactivation; accepted_at belongs
	// to the second acceptance.
	stamps := final.StageTimestamps()
	suite.Require().NotNil(stamps.CancelledAt)
	suite.Require().NotNil(final.CancellationReason())
	suite.Equal("customer asked to cancel", *final.CancellationReason())
	suite.Require().NotNil(stamps.AcceptedAt)
	suite.True(stamps.AcceptedAt.After(*stamps.CancelledAt))
	suite.Require().NotNil(stamps.CompletedAt)

	// The trail replays the whole journey: seed plus 8 transitions.
	trail, err := uow.HistoryRepository().GetByOrder(ctx, tenantID, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(trail, 9)
	suite.Nil(trail[0].PrevStatus())
	suite.Equal(order.Pending, trail[0].NewStatus())
	expected := []order.Status{
		order.Pending, order.Accepted, order.Cancelled, order.Pending,
		order.Accepted, order.Preparing, order.Ready, order.OutForDelivery,
		order.Completed,
	}
	for i, entry := range trail {
		suite.Equal(expected[i], entry.NewStatus(), "entry %d", i)
	}

	// Completed is terminal: any further attempt must be rejected whole.
	cmd, err := commands.NewTransitionOrderCommand(orderID, tenantID, manager, order.Pending, "reopen it", "")
	suite.Require().NoError(err)
	_, err = transitionHandler.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, order.ErrInvalidTransition)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransition_SameIdempotencyKey_AppliedOnce() {
	ctx := context.Background()
	staff := suite.staffActor()

	createHandler, transitionHandler := suite.handlers()

	orderID := kernel.NewUUID()
	tenantID := kernel.NewUUID()
	createCmd, err := commands.NewCreateOrderCommand(orderID, tenantID, staff)
	suite.Require().NoError(err)
	suite.Require().NoError(createHandler.Handle(ctx, createCmd))

	cmd, err := commands.NewTransitionOrderCommand(orderID, tenantID, staff, order.Accepted, "", "req-42")
	suite.Require().NoError(err)

	first, err := transitionHandler.Handle(ctx, cmd)
	suite.Require().NoError(err)
	replayed, err := transitionHandler.Handle(ctx, cmd)
	suite.Require().NoError(err)

	// The retry observes the recorded outcome; nothing is written twice.
	suite.Equal(first.PreviousStatus, replayed.PreviousStatus)
	suite.Equal(first.NewStatus, replayed.NewStatus)
	suite.True(first.HistoryEntryID.IsEqual(replayed.HistoryEntryID))

	suite.assertCount("order_history", 2) // seed + one transition

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	final, err := uow.OrderRepository().Get(ctx, tenantID, orderID)
	suite.Require().NoError(err)
	suite.Equal(order.Accepted, final.Status())
	suite.Equal(2, final.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransition_CustomerPastWindow_RejectedWhole() {
	ctx := context.Background()
	staff := suite.staffActor()
	customer, err := actor.NewActor(kernel.NewUUID(), "Sam", actor.RoleCustomer)
	suite.Require().NoError(err)

	createHandler, transitionHandler := suite.handlers()

	orderID := kernel.NewUUID()
	tenantID := kernel.NewUUID()
	createCmd, err := commands.NewCreateOrderCommand(orderID, tenantID, staff)
	suite.Require().NoError(err)
	suite.Require().NoError(createHandler.Handle(ctx, createCmd))

	for _, target := range []order.Status{order.Accepted, order.Preparing} {
		cmd, cmdErr := commands.NewTransitionOrderCommand(orderID, tenantID, staff, target, "", "")
		suite.Require().NoError(cmdErr)
		_, handleErr := transitionHandler.Handle(ctx, cmd)
		suite.Require().NoError(handleErr)
	}

	cancelCmd, err := commands.NewTransitionOrderCommand(orderID, tenantID, customer, order.Cancelled, "", "")
	suite.Require().NoError(err)
	_, err = transitionHandler.Handle(ctx, cancelCmd)

	suite.Require().ErrorIs(err, commands.ErrPermissionDenied)
	suite.assertCount("order_history", 3) // nothing extra recorded
}

func (suite *UnitOfWorkIntegrationTestSuite) handlers() (commands.CreateOrderCommandHandler, commands.TransitionOrderCommandHandler) {
	factory := uowFactoryFunc(func() commands.UoW { return suite.factory.Create() })
	systemClock := clock.NewSystem()
	gate := permissions.NewRoleGate()

	return commands.NewCreateOrderCommandHandler(factory, systemClock),
		commands.NewTransitionOrderCommandHandler(factory, gate, systemClock)
}

func (suite *UnitOfWorkIntegrationTestSuite) staffActor() actor.Actor {
	staff, err := actor.NewActor(kernel.NewUUID(), "Dana", actor.RoleStaff)
	suite.Require().NoError(err)
	return staff
}

func (suite *UnitOfWorkIntegrationTestSuite) assertCount(table string, expected int) {
	var count int64
	err := suite.db.Table(table).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
