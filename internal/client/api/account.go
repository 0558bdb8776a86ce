package api

import (
	"context"
	"net/http"

	"shopfront/internal/client/httpclient"
	"shopfront/internal/models"
)

type CartAPI struct{ c Doer }

func (a CartAPI) do(ctx context.Context, method, p string, body any) (models.Cart, error) {
	var out models.Cart
	err := a.c.Do(ctx, httpclient.Request{Method: method, Path: p, Body: body, Cart: true}, &out)
	return out, err
}

func (a CartAPI) Get(ctx context.Context) (models.Cart, error) {
	return a.do(ctx, http.MethodGet, "/cart", nil)
}

func (a CartAPI) Add(ctx context.Context, productID string, quantity int) (models.Cart, error) {
	return a.do(ctx, http.MethodPost, "/cart/items", map[string]any{"productId": productID, "quantity": quantity})
}

// SetQuantity with zero removes the line.
func (a CartAPI) SetQuantity(ctx context.Context, productID string, quantity int) (models.Cart, error) {
	return a.do(ctx, http.MethodPut, "/cart/items"+path(productID), map[string]int{"quantity": quantity})
}

func (a CartAPI) Remove(ctx context.Context, productID string) (models.Cart, error) {
	return a.do(ctx, http.MethodDelete, "/cart/items"+path(productID), nil)
}

func (a CartAPI) Clear(ctx context.Context) error {
	return a.c.Do(ctx, httpclient.Request{Method: http.MethodDelete, Path: "/cart", Cart: true}, nil)
}

type OrdersAPI struct{ c Doer }

func (a OrdersAPI) Checkout(ctx context.Context, shippingAddressID *string) (models.Order, error) {
	var out models.Order
	err := send(ctx, a.c, http.MethodPost, "/orders", map[string]*string{"shippingAddressId": shippingAddressID}, &out)
	return out, err
}

func (a OrdersAPI) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := get(ctx, a.c, "/orders", nil, &out)
	return out, err
}

func (a OrdersAPI) Get(ctx context.Context, id string) (models.Order, error) {
	var out models.Order
	err := get(ctx, a.c, "/orders"+path(id), nil, &out)
	return out, err
}

// Return mirrors the server view, which includes the formatted refund.
type Return struct {
	models.Return
	RefundAmount string `json:"refundAmount"`
}

type ReturnsAPI struct{ c Doer }

func (a ReturnsAPI) Request(ctx context.Context, orderID, reason string) (Return, error) {
	var out Return
	err := send(ctx, a.c, http.MethodPost, "/returns", map[string]string{"orderId": orderID, "reason": reason}, &out)
	return out, err
}

func (a ReturnsAPI) List(ctx context.Context) ([]Return, error) {
	var out []Return
	err := get(ctx, a.c, "/returns", nil, &out)
	return out, err
}

type WishlistAPI struct{ c Doer }

func (a WishlistAPI) List(ctx context.Context) ([]models.WishlistEntry, error) {
	var out []models.WishlistEntry
	err := get(ctx, a.c, "/wishlist", nil, &out)
	return out, err
}

func (a WishlistAPI) Add(ctx context.Context, productID string) error {
	return send(ctx, a.c, http.MethodPost, "/wishlist", map[string]string{"productId": productID}, nil)
}

func (a WishlistAPI) Remove(ctx context.Context, productID string) error {
	return send(ctx, a.c, http.MethodDelete, "/wishlist"+path(productID), nil, nil)
}

type AddressRequest struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	IsDefault  bool    `json:"isDefault"`
}

type AddressesAPI struct{ c Doer }

func (a AddressesAPI) List(ctx context.Context) ([]models.Address, error) {
	var out []models.Address
	err := get(ctx, a.c, "/account/addresses", nil, &out)
	return out, err
}

func (a AddressesAPI) Create(ctx context.Context, req AddressRequest) (models.Address, error) {
	var out models.Address
	err := send(ctx, a.c, http.MethodPost, "/account/addresses", req, &out)
	return out, err
}

func (a AddressesAPI) Update(ctx context.Context, id string, req AddressRequest) (models.Address, error) {
	var out models.Address
	err := send(ctx, a.c, http.MethodPut, "/account/addresses"+path(id), req, &out)
	return out, err
}

func (a AddressesAPI) Delete(ctx context.Context, id string) error {
	return send(ctx, a.c, http.MethodDelete, "/account/addresses"+path(id), nil, nil)
}

type Rewards struct {
	Balance int                  `json:"balance"`
	Entries []models.RewardEntry `json:"entries"`
}

type RewardsAPI struct{ c Doer }

func (a RewardsAPI) Get(ctx context.Context) (Rewards, error) {
	var out Rewards
	err := get(ctx, a.c, "/rewards", nil, &out)
	return out, err
}
