package gatewayfakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/azcart/storefront-client/api"
	"github.com/azcart/storefront-client/orders"
)

var _ orders.Gateway = (*FakeGateway)(nil)

// FakeGateway is an in-memory order backend for tests.
type FakeGateway struct {
	lock sync.Mutex

	Orders   []api.Order
	Products map[int64]api.Product

	FetchErr  error
	DetailErr map[int64]error
	CancelErr error

	CancelCalls []int64
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Products:  make(map[int64]api.Product),
		DetailErr: make(map[int64]error),
	}
}

func (g *FakeGateway) FetchOrders(ctx context.Context) ([]api.Order, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.FetchErr != nil {
		return nil, g.FetchErr
	}
	out := make([]api.Order, len(g.Orders))
	copy(out, g.Orders)
	return out, nil
}

func (g *FakeGateway) ProductDetails(ctx context.Context, productID int64) (api.Product, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if err := g.DetailErr[productID]; err != nil {
		return api.Product{}, err
	}
	product, ok := g.Products[productID]
	if !ok {
		return api.Product{}, fmt.Errorf("no product %d", productID)
	}
	return product, nil
}

func (g *FakeGateway) CancelOrder(ctx context.Context, orderID int64) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.CancelCalls = append(g.CancelCalls, orderID)
	if g.CancelErr != nil {
		return g.CancelErr
	}
	for i := range g.Orders {
		if g.Orders[i].OrderID == orderID {
			g.Orders[i].OrderStatus = api.StatusCancelled
		}
	}
	return nil
}

func (g *FakeGateway) ProductImageURL(productID int64) string {
	return fmt.Sprintf("http://backend/api/products/image/%d", productID)
}
