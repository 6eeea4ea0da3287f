package console

import (
	"context"
	"errors"
	"testing"

	"admin-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func openOrder(t *testing.T, orders *MockOrdersAPI, order *models.Order) *OrderDetails {
	t.Helper()
	d := NewOrderDetails(orders, nil, nil, nil)
	require.NoError(t, d.Open(context.Background(), order.ID))
	return d
}

func TestOrderDetails_AdvanceWritesNextStatusAndRefetches(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(7)).Return(&models.Order{ID: 7, Status: models.OrderPending}, nil).Once()
	orders.On("UpdateStatus", mock.Anything, int64(7), models.OrderProcessing).Return(nil).Once()
	orders.On("Get", mock.Anything, int64(7)).Return(&models.Order{ID: 7, Status: models.OrderProcessing}, nil).Once()

	d := openOrder(t, orders, &models.Order{ID: 7})
	changed := 0
	d.OnChanged = func(context.Context) { changed++ }

	assert.Equal(t, models.OrderProcessing, d.Actions().NextStatus)
	require.NoError(t, d.Advance(context.Background(), 7))

	assert.Equal(t, models.OrderProcessing, d.Order().Status)
	assert.Equal(t, 1, changed)
	assert.Equal(t, "warning", d.State().Badge)
	orders.AssertExpectations(t)
}

func TestOrderDetails_CancelDeclinedSendsNothing(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(3)).Return(&models.Order{ID: 3, Status: models.OrderShipped}, nil)

	d := openOrder(t, orders, &models.Order{ID: 3})
	assert.ErrorIs(t, d.Cancel(no(context.Background()), 3), ErrDeclined)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderDetails_TerminalOrders(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(9)).Return(&models.Order{ID: 9, Status: models.OrderDelivered}, nil)

	d := openOrder(t, orders, &models.Order{ID: 9})
	actions := d.Actions()
	assert.False(t, actions.Advance)
	assert.False(t, actions.Cancel)
	assert.False(t, actions.Complete)

	var verr *ValidationError
	assert.True(t, errors.As(d.Advance(context.Background(), 9), &verr))
	assert.True(t, errors.As(d.Cancel(yes(context.Background()), 9), &verr))
	assert.True(t, errors.As(d.MarkCompleted(context.Background(), 9), &verr))

	assert.NoError(t, d.SetStatus(context.Background(), 9, "completed", false), "same canonical status is a no-op")
	assert.True(t, errors.As(d.SetStatus(context.Background(), 9, models.OrderPending, false), &verr))
	assert.True(t, errors.As(d.SetStatus(context.Background(), 9, "OnHold", true), &verr))
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderDetails_ForceReopen(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(9)).Return(&models.Order{ID: 9, Status: models.OrderCancelled}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(9), models.OrderPending).Return(nil)

	d := openOrder(t, orders, &models.Order{ID: 9})
	require.NoError(t, d.SetStatus(context.Background(), 9, "pending", true))
	orders.AssertCalled(t, "UpdateStatus", mock.Anything, int64(9), models.OrderPending)
}

func TestOrderDetails_FailedWriteRaisesBanner(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(4)).Return(&models.Order{ID: 4, Status: models.OrderPending}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(4), models.OrderCompleted).Return(badRequest("Payment pending"))

	d := openOrder(t, orders, &models.Order{ID: 4})
	require.Error(t, d.MarkCompleted(context.Background(), 4))

	state := d.State()
	assert.Equal(t, "Payment pending", state.Status.Message)
	assert.Equal(t, models.OrderPending, state.Order.Status)
	orders.AssertNumberOfCalls(t, "Get", 1)
}

func TestOrderDetails_PackingSlip(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(5)).Return(&models.Order{
		ID: 5, UserEmail: "buyer@example.com", Status: models.OrderShipped, TotalAmount: 20,
		Items: []models.OrderItem{{ProductName: "Mug", Quantity: 2, UnitPrice: 10, Subtotal: 20}},
	}, nil)

	d := openOrder(t, orders, &models.Order{ID: 5})
	d.StoreName = "Test Store"
	pdf, err := d.PackingSlip(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4 && string(pdf[:4]) == "%PDF")

	_, err = NewOrderDetails(orders, nil, nil, nil).PackingSlip(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderDetails_WriteTargetsRequestedOrder(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(5)).Return(&models.Order{ID: 5, Status: models.OrderPending}, nil)
	orders.On("Get", mock.Anything, int64(7)).Return(&models.Order{ID: 7, Status: models.OrderShipped}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(5), models.OrderProcessing).Return(nil).Once()

	d := NewOrderDetails(orders, nil, nil, nil)
	require.NoError(t, d.Open(context.Background(), 5))
	require.NoError(t, d.Open(context.Background(), 7))

	require.NoError(t, d.Advance(context.Background(), 5))

	orders.AssertExpectations(t)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, int64(7), mock.Anything)
	assert.Equal(t, int64(5), d.Order().ID)
}

func TestOrderDetails_StateForOtherOrder(t *testing.T) {
	orders := new(MockOrdersAPI)
	orders.On("Get", mock.Anything, int64(5)).Return(&models.Order{ID: 5, Status: models.OrderPending}, nil)
	orders.On("Get", mock.Anything, int64(7)).Return(&models.Order{ID: 7, Status: models.OrderCancelled}, nil)

	d := openOrder(t, orders, &models.Order{ID: 7})
	state, err := d.StateFor(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), state.Order.ID)
	assert.Equal(t, "secondary", state.Badge)
	assert.True(t, state.Actions.Advance)
	assert.Equal(t, int64(7), d.Order().ID, "view stays on the order it shows")
}
