package orders_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/azcart/storefront-client/api"
	"github.com/azcart/storefront-client/orders"
	"github.com/azcart/storefront-client/orders/gatewayfakes"
)

func setupFlow(t *testing.T) (*orders.Flow, *orders.List, *gatewayfakes.FakeGateway) {
	t.Helper()

	gateway := gatewayfakes.NewFakeGateway()
	gateway.Orders = []api.Order{
		{OrderID: 42, ProductID: 100, OrderStatus: api.StatusNotDelivered},
		{OrderID: 43, ProductID: 200, OrderStatus: api.StatusDelivered},
		{OrderID: 44, ProductID: 300, OrderStatus: api.StatusCancelled},
	}
	gateway.Products[100] = api.Product{ID: 100, Name: "Keyboard", Price: 100}
	gateway.Products[200] = api.Product{ID: 200, Name: "Mouse", Price: 50}
	gateway.Products[300] = api.Product{ID: 300, Name: "Monitor", Price: 300}

	list, err := orders.NewList(gateway, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, list.Load(context.Background()))

	flow, err := orders.NewFlow(list, zerolog.Nop())
	require.NoError(t, err)
	return flow, list, gateway
}

func TestCancelActionOnlyForNotDelivered(t *testing.T) {
	flow, list, _ := setupFlow(t)

	order, ok := list.Get(42)
	require.True(t, ok)
	require.True(t, order.Cancellable())

	for _, orderID := range []int64{43, 44} {
		err := flow.Request(orderID)
		require.ErrorIs(t, err, orders.ErrNotCancellable)
		require.Equal(t, orders.StateIdle, flow.State())
	}

	require.ErrorIs(t, flow.Request(999), orders.ErrOrderNotFound)
}

func TestDeclineReturnsToIdleWithoutServerCall(t *testing.T) {
	flow, _, gateway := setupFlow(t)

	require.NoError(t, flow.Request(42))
	require.Equal(t, orders.StateConfirmPending, flow.State())

	require.NoError(t, flow.Decline())
	require.Equal(t, orders.StateIdle, flow.State())
	require.Empty(t, gateway.CancelCalls)
}

func TestConfirmIsPessimistic(t *testing.T) {
	flow, list, gateway := setupFlow(t)

	require.NoError(t, flow.Request(42))

	// Status must not change before the backend acknowledges.
	order, _ := list.Get(42)
	require.Equal(t, api.StatusNotDelivered, order.OrderStatus)

	require.NoError(t, flow.Confirm(context.Background()))
	require.Equal(t, orders.StateResolved, flow.State())
	require.Equal(t, []int64{42}, gateway.CancelCalls)

	order, _ = list.Get(42)
	require.Equal(t, api.StatusCancelled, order.OrderStatus)
	require.False(t, order.Cancellable())
}

func TestFailedCancellationLeavesStatusUntouched(t *testing.T) {
	flow, list, gateway := setupFlow(t)
	gateway.CancelErr = errors.New("boom")

	require.NoError(t, flow.Request(42))
	require.Error(t, flow.Confirm(context.Background()))
	require.Equal(t, orders.StateFailed, flow.State())
	require.Error(t, flow.Err())

	order, _ := list.Get(42)
	require.Equal(t, api.StatusNotDelivered, order.OrderStatus)

	// Acknowledge, then retry successfully.
	require.NoError(t, flow.Acknowledge())
	require.Equal(t, orders.StateIdle, flow.State())

	gateway.CancelErr = nil
	require.NoError(t, flow.Request(42))
	require.NoError(t, flow.Confirm(context.Background()))

	order, _ = list.Get(42)
	require.Equal(t, api.StatusCancelled, order.OrderStatus)
}

func TestFlowRejectsOutOfOrderTransitions(t *testing.T) {
	flow, _, _ := setupFlow(t)

	require.ErrorIs(t, flow.Decline(), orders.ErrInvalidTransition)
	require.ErrorIs(t, flow.Confirm(context.Background()), orders.ErrInvalidTransition)
	require.ErrorIs(t, flow.Acknowledge(), orders.ErrInvalidTransition)

	require.NoError(t, flow.Request(42))
	require.ErrorIs(t, flow.Request(42), orders.ErrInvalidTransition)
}

func TestListJoinsProducts(t *testing.T) {
	_, list, _ := setupFlow(t)

	entries := list.Entries()
	require.Len(t, entries, 3)
	require.NotNil(t, entries[0].Product)
	require.Equal(t, "Keyboard", entries[0].Product.Name)
	require.Contains(t, entries[0].ImageURL, "/api/products/image/100")
}
