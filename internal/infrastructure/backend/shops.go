package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
)

type shopsResponse struct {
	Shops []domain.Shop `json:"shops"`
}

type shopResponse struct {
	Shop domain.Shop `json:"shop"`
}

// ListShops fetches public shop listings, optionally filtered by a free-text
// search and a city.
func (c *Client) ListShops(ctx context.Context, search, city string) ([]domain.Shop, error) {
	path := "/shops"
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if city != "" {
		q.Set("city", city)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp shopsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Shops, nil
}

// CreateShop registers the authenticated barber's shop.
func (c *Client) CreateShop(ctx context.Context, input ports.ShopInput) (domain.Shop, error) {
	var resp shopResponse
	if err := c.do(ctx, http.MethodPost, "/shops", input, &resp); err != nil {
		return domain.Shop{}, err
	}
	return resp.Shop, nil
}

// UpdateShop replaces the editable fields of an existing shop.
func (c *Client) UpdateShop(ctx context.Context, shopID string, input ports.ShopInput) (domain.Shop, error) {
	var resp shopResponse
	if err := c.do(ctx, http.MethodPut, "/shops/"+url.PathEscape(shopID), input, &resp); err != nil {
		return domain.Shop{}, err
	}
	return resp.Shop, nil
}

// AddShopService appends a service offering to an existing shop and returns
// the updated shop.
func (c *Client) AddShopService(ctx context.Context, shopID string, input ports.ShopServiceInput) (domain.Shop, error) {
	path := fmt.Sprintf("/shops/%s/services", url.PathEscape(shopID))
	var resp shopResponse
	if err := c.do(ctx, http.MethodPost, path, input, &resp); err != nil {
		return domain.Shop{}, err
	}
	return resp.Shop, nil
}

// MyShop returns the authenticated barber's own shop. domain.ErrShopNotFound
// signals that no shop has been created yet.
func (c *Client) MyShop(ctx context.Context) (domain.Shop, error) {
	var resp shopResponse
	if err := c.do(ctx, http.MethodGet, "/barber/shop", nil, &resp); err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return domain.Shop{}, domain.ErrShopNotFound
		}
		return domain.Shop{}, err
	}
	return resp.Shop, nil
}
