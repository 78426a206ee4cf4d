package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/azcart/storefront-client/api"
	"github.com/azcart/storefront-client/cart"
	"github.com/azcart/storefront-client/cart/gatewayfakes"
)

func setupLoadedCart(t *testing.T) (*cart.Synchronizer, *gatewayfakes.FakeGateway) {
	t.Helper()

	gateway := gatewayfakes.NewFakeGateway()
	gateway.Items = []api.CartItem{
		{ID: 7, ProductID: 100, UserID: 1, Quantity: 2},
		{ID: 8, ProductID: 200, UserID: 1, Quantity: 1},
	}
	gateway.Products[100] = api.Product{ID: 100, Name: "Keyboard", Price: 100}
	gateway.Products[200] = api.Product{ID: 200, Name: "Mouse", Price: 50}

	sync, err := cart.NewSynchronizer(gateway, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, sync.Load(context.Background()))
	return sync, gateway
}

func TestLoadJoinsProductsByID(t *testing.T) {
	sync, _ := setupLoadedCart(t)

	lines := sync.Lines()
	require.Len(t, lines, 2)
	require.True(t, lines[0].Resolved())
	require.Equal(t, "Keyboard", lines[0].Product.Name)
	require.Equal(t, float64(200), lines[0].Subtotal())
	require.Equal(t, float64(250), sync.Total())
}

func TestLoadTotalIsOrderIndependent(t *testing.T) {
	gateway := gatewayfakes.NewFakeGateway()
	gateway.Items = []api.CartItem{
		{ID: 1, ProductID: 100, Quantity: 1},
		{ID: 2, ProductID: 200, Quantity: 1},
		{ID: 3, ProductID: 300, Quantity: 1},
	}
	gateway.Products[100] = api.Product{ID: 100, Price: 10}
	gateway.Products[200] = api.Product{ID: 200, Price: 20}
	gateway.Products[300] = api.Product{ID: 300, Price: 30}

	// Stall the first product so its fetch resolves last.
	gateway.DetailHook = func(productID int64) {
		if productID == 100 {
			time.Sleep(20 * time.Millisecond)
		}
	}

	sync, err := cart.NewSynchronizer(gateway, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, sync.Load(context.Background()))
	require.Equal(t, float64(60), sync.Total())
}

func TestLoadSurvivesFailedDetailFetch(t *testing.T) {
	gateway := gatewayfakes.NewFakeGateway()
	gateway.Items = []api.CartItem{
		{ID: 1, ProductID: 100, Quantity: 2},
		{ID: 2, ProductID: 200, Quantity: 1},
	}
	gateway.Products[100] = api.Product{ID: 100, Price: 10}
	gateway.DetailErr[200] = errors.New("boom")

	sync, err := cart.NewSynchronizer(gateway, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, sync.Load(context.Background()))

	lines := sync.Lines()
	require.Len(t, lines, 2)
	require.True(t, lines[0].Resolved())
	require.False(t, lines[1].Resolved())

	// The unresolved line contributes 0 until its snapshot lands.
	require.Equal(t, float64(20), sync.Total())
}

func TestUpdateQuantityBelowOneIsLocalNoOp(t *testing.T) {
	sync, gateway := setupLoadedCart(t)

	require.NoError(t, sync.UpdateQuantity(context.Background(), 7, 0))
	require.Empty(t, gateway.UpdateCalls)

	lines := sync.Lines()
	require.Equal(t, 2, lines[0].Item.Quantity)
}

func TestUpdateQuantityIsOptimistic(t *testing.T) {
	sync, gateway := setupLoadedCart(t)

	require.NoError(t, sync.UpdateQuantity(context.Background(), 7, 1))

	lines := sync.Lines()
	require.Equal(t, 1, lines[0].Item.Quantity)
	require.Equal(t, float64(150), sync.Total())

	require.Len(t, gateway.UpdateCalls, 1)
	require.Equal(t, int64(7), gateway.UpdateCalls[0].ID)
	require.Equal(t, 1, gateway.UpdateCalls[0].Quantity)
}

func TestUpdateQuantityRollsBackOnRejection(t *testing.T) {
	sync, gateway := setupLoadedCart(t)
	gateway.UpdateErr = errors.New("rejected")

	err := sync.UpdateQuantity(context.Background(), 7, 5)
	require.Error(t, err)

	lines := sync.Lines()
	require.Equal(t, 2, lines[0].Item.Quantity)
	require.Equal(t, float64(250), sync.Total())
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	sync, _ := setupLoadedCart(t)
	err := sync.UpdateQuantity(context.Background(), 99, 2)
	require.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestDeleteIsOptimistic(t *testing.T) {
	sync, gateway := setupLoadedCart(t)

	require.NoError(t, sync.Delete(context.Background(), 7))
	require.Equal(t, 1, sync.Len())
	require.Equal(t, float64(50), sync.Total())
	require.Equal(t, []int64{7}, gateway.DeleteCalls)
}

func TestDeleteReinstatesOnRejection(t *testing.T) {
	sync, gateway := setupLoadedCart(t)
	gateway.DeleteErr = errors.New("rejected")

	err := sync.Delete(context.Background(), 7)
	require.Error(t, err)

	lines := sync.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, int64(7), lines[0].Item.ID)
	require.Equal(t, float64(250), sync.Total())
}

func TestAddReloadsForServerAssignedID(t *testing.T) {
	sync, gateway := setupLoadedCart(t)
	gateway.Products[300] = api.Product{ID: 300, Price: 30}

	msg, err := sync.Add(context.Background(), 300, 1)
	require.NoError(t, err)
	require.Equal(t, "Added to cart", msg)
	require.Equal(t, 3, sync.Len())
	require.Equal(t, float64(280), sync.Total())
}

func TestCancelledContextNeverWritesState(t *testing.T) {
	gateway := gatewayfakes.NewFakeGateway()
	gateway.Items = []api.CartItem{{ID: 1, ProductID: 100, Quantity: 1}}
	gateway.Products[100] = api.Product{ID: 100, Price: 10}

	ctx, cancel := context.WithCancel(context.Background())
	gateway.DetailHook = func(int64) {
		// The view tears down while the fetch is in flight.
		cancel()
	}

	sync, err := cart.NewSynchronizer(gateway, zerolog.Nop())
	require.NoError(t, err)
	require.Error(t, sync.Load(ctx))

	// The late-resolving snapshot was dropped.
	require.Equal(t, float64(0), sync.Total())
	lines := sync.Lines()
	require.Len(t, lines, 1)
	require.False(t, lines[0].Resolved())
}
