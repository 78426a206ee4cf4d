package api

import (
	"context"
	"fmt"
)

// Product is the catalog snapshot joined onto cart lines and orders.
// Name and price are authoritative on the server at fetch time.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// ProductDetails fetches the catalog snapshot for one product.
func (c *Client) ProductDetails(ctx context.Context, productID int64) (Product, error) {
	var p Product
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%d", EndpointProductDetails, productID), &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ProductImageURL returns the direct image location for a product. Images
// are fetched by URL reference outside the authorized client.
func (c *Client) ProductImageURL(productID int64) string {
	return fmt.Sprintf("%s%s/%d", c.baseURL, EndpointProductImage, productID)
}
