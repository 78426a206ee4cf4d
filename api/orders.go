package api

import (
	"context"
	"fmt"
	"net/http"
)

// OrderStatus is the server-authoritative delivery state of an order.
type OrderStatus string

const (
	StatusNotDelivered OrderStatus = "NOT DELIVERED"
	StatusDelivered    OrderStatus = "DELIVERED"
	StatusCancelled    OrderStatus = "CANCELLED"
)

// Order is one placed order as the backend reports it. Only the backend
// may move OrderStatus; the client requests transitions and waits.
type Order struct {
	OrderID       int64       `json:"orderid"`
	ProductID     int64       `json:"productid"`
	UserID        int64       `json:"userid"`
	PaymentStatus string      `json:"payment_Status"`
	OrderStatus   OrderStatus `json:"order_status"`
	OrderDate     string      `json:"orderdate"`
	OrderTime     string      `json:"ordertime"`
}

// Cancellable reports whether the cancel action may be offered for this
// order. Delivered and already-cancelled orders never expose it.
func (o Order) Cancellable() bool {
	return o.OrderStatus == StatusNotDelivered
}

// FetchOrders lists the signed-in shopper's orders.
func (c *Client) FetchOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.getJSON(ctx, EndpointFetchOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder asks the backend to cancel the order. The caller must not
// mark the order cancelled until this returns without error.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", EndpointCancelOrder, orderID), nil, "")
	return err
}
