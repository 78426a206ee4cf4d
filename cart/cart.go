package cart

import (
	"context"

	"github.com/pkg/errors"

	"github.com/azcart/storefront-client/api"
)

var (
	ErrLineNotFound = errors.New("cart line not found")
)

// Gateway is the synchronizer's view of the backend. *api.Client satisfies
// it; tests plug in a fake.
type Gateway interface {
	CartItems(ctx context.Context) ([]api.CartItem, error)
	ProductDetails(ctx context.Context, productID int64) (api.Product, error)
	AddToCart(ctx context.Context, productID int64, quantity int) (string, error)
	UpdateQuantity(ctx context.Context, item api.CartItem) error
	DeleteCartItem(ctx context.Context, lineID int64) error
	ProductImageURL(productID int64) string
}

var _ Gateway = (*api.Client)(nil)

// Line is one cart row joined with its product snapshot. Product stays nil
// until the detail fetch for its product id has resolved.
type Line struct {
	Item     api.CartItem
	Product  *api.Product
	ImageURL string
}

// Resolved reports whether the product join has landed for this line.
func (l Line) Resolved() bool {
	return l.Product != nil
}

// Subtotal is quantity times price, or 0 while the snapshot is loading.
func (l Line) Subtotal() float64 {
	if l.Product == nil {
		return 0
	}
	return float64(l.Item.Quantity) * l.Product.Price
}
