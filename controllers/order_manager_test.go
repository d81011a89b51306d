package controllers_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
)

type mockOrderService struct {
	mock.Mock
}

func orderOrNil(args mock.Arguments) *models.Order {
	if o, ok := args.Get(0).(*models.Order); ok {
		return o
	}
	return nil
}

func ordersOrNil(args mock.Arguments) []models.Order {
	if o, ok := args.Get(0).([]models.Order); ok {
		return o
	}
	return nil
}

func (m *mockOrderService) Create(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	args := m.Called(ctx, payload)
	return orderOrNil(args), args.Error(1)
}
func (m *mockOrderService) ListMine(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return ordersOrNil(args), args.Error(1)
}
func (m *mockOrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args), args.Error(1)
}
func (m *mockOrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return ordersOrNil(args), args.Error(1)
}
func (m *mockOrderService) Search(ctx context.Context, q models.OrderSearch) ([]models.Order, error) {
	args := m.Called(ctx, q)
	return ordersOrNil(args), args.Error(1)
}
func (m *mockOrderService) MarkPaid(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args), args.Error(1)
}
func (m *mockOrderService) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args), args.Error(1)
}
func (m *mockOrderService) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "o1", OrderCode: "ORD-1", User: &models.OrderUser{Name: "Lan"}, TotalPrice: decimal.NewFromInt(10)},
		{ID: "o2", OrderCode: "ORD-2", User: &models.OrderUser{Name: "Minh"}, TotalPrice: decimal.NewFromInt(20), IsPaid: true},
		{ID: "o3", OrderCode: "ORD-3", TotalPrice: decimal.NewFromInt(30)},
	}
}

func loadedManager(t *testing.T) (*controllers.OrderManager, *mockOrderService) {
	t.Helper()
	svc := new(mockOrderService)
	svc.On("ListAll", mock.Anything).Return(sampleOrders(), nil).Once()
	m := controllers.NewOrderManager(svc)
	require.NoError(t, m.Load(context.Background()))
	return m, svc
}

func TestOrderManager_MarkPaidPatchesOnlyThatOrder(t *testing.T) {
	m, svc := loadedManager(t)
	// the server's echo is ignored; only the flag is patched
	svc.On("MarkPaid", mock.Anything, "o1").Return(&models.Order{ID: "o1", OrderCode: "CHANGED", IsPaid: true}, nil)

	require.NoError(t, m.MarkPaid(context.Background(), "o1"))

	want := sampleOrders()
	want[0].IsPaid = true
	assert.Equal(t, want, m.Orders())
	svc.AssertExpectations(t)
}

func TestOrderManager_MarkDelivered(t *testing.T) {
	m, svc := loadedManager(t)
	svc.On("MarkDelivered", mock.Anything, "o2").Return(&models.Order{ID: "o2"}, nil)

	require.NoError(t, m.MarkDelivered(context.Background(), "o2"))

	want := sampleOrders()
	want[1].IsDelivered = true
	assert.Equal(t, want, m.Orders())
}

func TestOrderManager_CancelRemovesExactlyTarget(t *testing.T) {
	m, svc := loadedManager(t)
	svc.On("Cancel", mock.Anything, "o2").Return(nil)

	require.NoError(t, m.Cancel(context.Background(), "o2"))

	want := sampleOrders()
	assert.Equal(t, []models.Order{want[0], want[2]}, m.Orders())
}

func TestOrderManager_FailedActionLeavesListUntouched(t *testing.T) {
	m, svc := loadedManager(t)
	svc.On("Cancel", mock.Anything, "o1").Return(apperrors.FromStatus(404, "Order not found"))
	svc.On("MarkPaid", mock.Anything, "o3").Return(nil, apperrors.FromStatus(500, "boom"))

	assert.Error(t, m.Cancel(context.Background(), "o1"))
	assert.Error(t, m.MarkPaid(context.Background(), "o3"))
	assert.Equal(t, sampleOrders(), m.Orders())
}

func TestOrderManager_SearchIssuedAfterLoadWins(t *testing.T) {
	svc := new(mockOrderService)
	started := make(chan struct{})
	release := make(chan struct{})
	svc.On("ListAll", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(sampleOrders(), nil).Once()
	svc.On("Search", mock.Anything, models.OrderSearch{UserName: "lan"}).Return(sampleOrders()[:1], nil)

	m := controllers.NewOrderManager(svc)
	loadDone := make(chan error, 1)
	go func() { loadDone <- m.Load(context.Background()) }()
	<-started

	res, err := m.Search(context.Background(), "lan")
	require.NoError(t, err)
	require.Len(t, res, 1)

	close(release)
	require.NoError(t, <-loadDone)
	assert.Equal(t, sampleOrders()[:1], m.Orders())
}

func TestOrderManager_SearchAndDetails(t *testing.T) {
	m, svc := loadedManager(t)
	svc.On("Search", mock.Anything, models.OrderSearch{UserName: "lan"}).Return(sampleOrders()[:1], nil)
	svc.On("Get", mock.Anything, "o1").Return(&sampleOrders()[0], nil)

	res, err := m.Search(context.Background(), " lan ")
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Len(t, m.Orders(), 1)

	o, err := m.Details(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "Lan", o.Customer())
}
