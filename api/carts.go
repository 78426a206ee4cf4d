package api

import (
	"context"
	"net/http"
	"strings"
)

// CartItem is one cart line as the backend stores it. Product details are
// not embedded; they are joined client-side by product id.
type CartItem struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"productId"`
	UserID    int64 `json:"userId"`
	Quantity  int   `json:"quantity"`
}

// CartItems lists the signed-in shopper's cart lines.
func (c *Client) CartItems(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	if err := c.getJSON(ctx, EndpointCartItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart puts quantity of a product into the cart. The backend assigns
// the line id and answers with a confirmation message.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (string, error) {
	payload := struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	body, err := c.do(ctx, http.MethodPost, EndpointAddToCart, payload, contentTypeJSON)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// UpdateQuantity sets a line's quantity. The backend expects the full line
// back, not just the delta.
func (c *Client) UpdateQuantity(ctx context.Context, item CartItem) error {
	_, err := c.do(ctx, http.MethodPut, EndpointUpdateQuantity, item, contentTypeJSON)
	return err
}

// DeleteCartItem removes a line. The backend takes the bare line id as the
// request body rather than a path segment.
func (c *Client) DeleteCartItem(ctx context.Context, lineID int64) error {
	_, err := c.do(ctx, http.MethodDelete, EndpointDeleteCartItem, lineID, contentTypeJSON)
	return err
}
