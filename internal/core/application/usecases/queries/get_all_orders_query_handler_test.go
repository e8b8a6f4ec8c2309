package queries_test

import (
	"context"
	"testing"
	"time"

	"eshop/internal/adapters/out/postgres/orderrepo"
	"eshop/internal/adapters/out/postgres/pgtest"
	"eshop/internal/core/application/usecases/queries"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (t *noopTracker) TrackAggregate(kernel.UUID, any) {}

type GetAllOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orders    *orderrepo.GormOrderRepository
	handler   queries.GetAllOrdersQueryHandler
}

func (suite *GetAllOrdersQueryHandlerTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.orders = orderrepo.NewGormOrderRepository(db, &noopTracker{})
	suite.handler = queries.NewGetAllOrdersQueryHandler(db)
}

func (suite *GetAllOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetAllOrdersQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *GetAllOrdersQueryHandlerTestSuite) storeOrder(lines int, createdAt time.Time) *order.Order {
	items := make([]order.LineItem, 0, lines)
	for range lines {
		item, err := order.NewLineItem(kernel.NewUUID(), 2, kernel.MustMoney("1.25"))
		suite.Require().NoError(err)
		items = append(items, item)
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), items, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(suite.T().Context(), o))
	return o
}

func (suite *GetAllOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(suite.T().Context(), queries.NewGetAllOrdersQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetAllOrdersQueryHandlerTestSuite) TestHandle_SummarizesNewestFirst() {
	base := time.Now().UTC().Add(-time.Hour)
	older := suite.storeOrder(1, base)
	newer := suite.storeOrder(3, base.Add(time.Minute))

	result, err := suite.handler.Handle(suite.T().Context(), queries.NewGetAllOrdersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	suite.True(result[0].ID.IsEqual(newer.ID()))
	suite.True(result[0].CustomerID.IsEqual(newer.CustomerID()))
	suite.Equal("pending_payment", result[0].Status)
	suite.Equal("7.50", result[0].TotalAmount.String())
	suite.Equal(3, result[0].ItemCount)

	suite.True(result[1].ID.IsEqual(older.ID()))
	suite.Equal(1, result[1].ItemCount)
	suite.Equal("2.50", result[1].TotalAmount.String())
}

func (suite *GetAllOrdersQueryHandlerTestSuite) TestHandle_ReflectsStatusChanges() {
	o := suite.storeOrder(1, time.Now().UTC())
	suite.Require().NoError(o.Cancel())
	suite.Require().NoError(suite.orders.Update(suite.T().Context(), o))

	result, err := suite.handler.Handle(suite.T().Context(), queries.NewGetAllOrdersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("cancelled", result[0].Status)
}

func (suite *GetAllOrdersQueryHandlerTestSuite) TestHandle_RejectsUnconstructedQuery() {
	_, err := suite.handler.Handle(suite.T().Context(), queries.GetAllOrdersQuery{})

	suite.ErrorIs(err, queries.ErrGetAllOrdersQueryIsNotConstructed)
}

func TestGetAllOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAllOrdersQueryHandlerTestSuite))
}
