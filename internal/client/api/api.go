// Package api maps each shopfront REST resource onto calls through the
// shared httpclient pipeline.
package api

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"shopfront/internal/client/httpclient"
)

type Doer interface {
	Do(ctx context.Context, req httpclient.Request, out any) error
	Upload(ctx context.Context, path, field, filename, contentType string, file io.Reader, out any) error
}

type API struct {
	Auth       AuthAPI
	Products   ProductsAPI
	Categories CategoriesAPI
	Stock      StockAPI
	Reviews    ReviewsAPI
	Cart       CartAPI
	Orders     OrdersAPI
	Returns    ReturnsAPI
	Wishlist   WishlistAPI
	Addresses  AddressesAPI
	Rewards    RewardsAPI
	Customers  CustomersAPI
	Purchase   PurchaseAPI
	Admin      AdminAPI
}

func New(c Doer) *API {
	return &API{
		Auth:       AuthAPI{c: c},
		Products:   ProductsAPI{c: c},
		Categories: CategoriesAPI{c: c},
		Stock:      StockAPI{c: c},
		Reviews:    ReviewsAPI{c: c},
		Cart:       CartAPI{c: c},
		Orders:     OrdersAPI{c: c},
		Returns:    ReturnsAPI{c: c},
		Wishlist:   WishlistAPI{c: c},
		Addresses:  AddressesAPI{c: c},
		Rewards:    RewardsAPI{c: c},
		Customers:  CustomersAPI{c: c},
		Purchase:   PurchaseAPI{c: c},
		Admin:      AdminAPI{c: c},
	}
}

// Page selects a 1-based page; zero values leave the server defaults.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(p.PerPage))
	}
	return v
}

func path(parts ...string) string {
	out := ""
	for _, p := range parts {
		out += "/" + url.PathEscape(p)
	}
	return out
}

func get(ctx context.Context, c Doer, p string, q url.Values, out any) error {
	return c.Do(ctx, httpclient.Request{Method: "GET", Path: p, Query: q}, out)
}

func send(ctx context.Context, c Doer, method, p string, body, out any) error {
	return c.Do(ctx, httpclient.Request{Method: method, Path: p, Body: body}, out)
}
