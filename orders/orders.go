package orders

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/azcart/storefront-client/api"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotCancellable    = errors.New("order cannot be cancelled in its current state")
	ErrInvalidTransition = errors.New("invalid cancellation flow transition")
)

// Gateway is the order view's slice of the backend. *api.Client satisfies
// it; tests plug in a fake.
type Gateway interface {
	FetchOrders(ctx context.Context) ([]api.Order, error)
	ProductDetails(ctx context.Context, productID int64) (api.Product, error)
	CancelOrder(ctx context.Context, orderID int64) error
	ProductImageURL(productID int64) string
}

var _ Gateway = (*api.Client)(nil)

// Entry is one order joined with its product snapshot.
type Entry struct {
	Order    api.Order
	Product  *api.Product
	ImageURL string
}

// List holds the shopper's orders joined with product snapshots, the same
// keyed fan-out merge the cart uses. It is scoped to one view's lifetime.
type List struct {
	gateway Gateway
	log     zerolog.Logger

	mu       sync.Mutex
	orders   []api.Order
	products map[int64]api.Product
}

// NewList builds an empty order view over gateway.
func NewList(gateway Gateway, log zerolog.Logger) (*List, error) {
	if gateway == nil {
		return nil, errors.New("[NewList] gateway is required")
	}
	return &List{
		gateway:  gateway,
		log:      log,
		products: make(map[int64]api.Product),
	}, nil
}

// Load fetches the orders, then fans out product-detail fetches per
// distinct product id. Merge order does not matter; a failed fetch leaves
// its entries unresolved and is logged.
func (l *List) Load(ctx context.Context) error {
	orders, err := l.gateway.FetchOrders(ctx)
	if err != nil {
		return errors.Wrap(err, "[List.Load] fetch orders")
	}

	l.mu.Lock()
	if err := ctx.Err(); err != nil {
		l.mu.Unlock()
		return err
	}
	l.orders = orders
	distinct := make(map[int64]struct{}, len(orders))
	for _, o := range orders {
		distinct[o.ProductID] = struct{}{}
	}
	l.mu.Unlock()

	var wg sync.WaitGroup
	for productID := range distinct {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			product, err := l.gateway.ProductDetails(ctx, id)
			if err != nil {
				l.log.Warn().Err(err).Int64("product_id", id).Msg("product detail fetch failed")
				return
			}
			l.mu.Lock()
			if ctx.Err() == nil {
				l.products[id] = product
			}
			l.mu.Unlock()
		}(productID)
	}
	wg.Wait()

	return ctx.Err()
}

// Entries returns the joined view in server order.
func (l *List) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Entry, 0, len(l.orders))
	for _, o := range l.orders {
		entry := Entry{Order: o, ImageURL: l.gateway.ProductImageURL(o.ProductID)}
		if product, ok := l.products[o.ProductID]; ok {
			p := product
			entry.Product = &p
		}
		entries = append(entries, entry)
	}
	return entries
}

// Get returns one order by id.
func (l *List) Get(orderID int64) (api.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.orders {
		if o.OrderID == orderID {
			return o, true
		}
	}
	return api.Order{}, false
}

// markCancelled flips the local status once the backend has acknowledged.
func (l *List) markCancelled(orderID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.orders {
		if l.orders[i].OrderID == orderID {
			l.orders[i].OrderStatus = api.StatusCancelled
		}
	}
}
