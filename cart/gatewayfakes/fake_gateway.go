package gatewayfakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/azcart/storefront-client/api"
	"github.com/azcart/storefront-client/cart"
)

var _ cart.Gateway = (*FakeGateway)(nil)

// FakeGateway is an in-memory cart backend for tests. Errors can be
// scripted per operation, and DetailHook lets a test scramble the
// completion order of the product-detail fan-out.
type FakeGateway struct {
	lock sync.Mutex

	Items    []api.CartItem
	Products map[int64]api.Product

	ItemsErr  error
	DetailErr map[int64]error
	AddErr    error
	UpdateErr error
	DeleteErr error

	// DetailHook runs inside each ProductDetails call, before the
	// result is returned.
	DetailHook func(productID int64)

	UpdateCalls []api.CartItem
	DeleteCalls []int64
	AddCalls    []int64
	DetailCalls []int64
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Products:  make(map[int64]api.Product),
		DetailErr: make(map[int64]error),
	}
}

func (g *FakeGateway) CartItems(ctx context.Context) ([]api.CartItem, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.ItemsErr != nil {
		return nil, g.ItemsErr
	}
	items := make([]api.CartItem, len(g.Items))
	copy(items, g.Items)
	return items, nil
}

func (g *FakeGateway) ProductDetails(ctx context.Context, productID int64) (api.Product, error) {
	g.lock.Lock()
	hook := g.DetailHook
	g.DetailCalls = append(g.DetailCalls, productID)
	err := g.DetailErr[productID]
	product, ok := g.Products[productID]
	g.lock.Unlock()

	if hook != nil {
		hook(productID)
	}
	if err != nil {
		return api.Product{}, err
	}
	if !ok {
		return api.Product{}, fmt.Errorf("no product %d", productID)
	}
	return product, nil
}

func (g *FakeGateway) AddToCart(ctx context.Context, productID int64, quantity int) (string, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.AddCalls = append(g.AddCalls, productID)
	if g.AddErr != nil {
		return "", g.AddErr
	}
	var nextID int64 = 1
	for _, item := range g.Items {
		if item.ID >= nextID {
			nextID = item.ID + 1
		}
	}
	g.Items = append(g.Items, api.CartItem{ID: nextID, ProductID: productID, Quantity: quantity})
	return "Added to cart", nil
}

func (g *FakeGateway) UpdateQuantity(ctx context.Context, item api.CartItem) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.UpdateCalls = append(g.UpdateCalls, item)
	if g.UpdateErr != nil {
		return g.UpdateErr
	}
	for i := range g.Items {
		if g.Items[i].ID == item.ID {
			g.Items[i].Quantity = item.Quantity
		}
	}
	return nil
}

func (g *FakeGateway) DeleteCartItem(ctx context.Context, lineID int64) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.DeleteCalls = append(g.DeleteCalls, lineID)
	if g.DeleteErr != nil {
		return g.DeleteErr
	}
	for i := range g.Items {
		if g.Items[i].ID == lineID {
			g.Items = append(g.Items[:i], g.Items[i+1:]...)
			break
		}
	}
	return nil
}

func (g *FakeGateway) ProductImageURL(productID int64) string {
	return fmt.Sprintf("http://backend/api/products/image/%d", productID)
}
