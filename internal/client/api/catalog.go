package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"shopfront/internal/models"
)

type CategoryRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CategoriesAPI struct{ c Doer }

func (a CategoriesAPI) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := get(ctx, a.c, "/categories", nil, &out)
	return out, err
}

func (a CategoriesAPI) Create(ctx context.Context, req CategoryRequest) (models.Category, error) {
	var out models.Category
	err := send(ctx, a.c, http.MethodPost, "/categories", req, &out)
	return out, err
}

func (a CategoriesAPI) Update(ctx context.Context, id string, req CategoryRequest) (models.Category, error) {
	var out models.Category
	err := send(ctx, a.c, http.MethodPut, "/categories"+path(id), req, &out)
	return out, err
}

func (a CategoriesAPI) Delete(ctx context.Context, id string) error {
	return send(ctx, a.c, http.MethodDelete, "/categories"+path(id), nil, nil)
}

type ProductQuery struct {
	Category string
	Search   string
	All      bool
	Page
}

func (q ProductQuery) values() url.Values {
	v := q.Page.values()
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.All {
		v.Set("all", "true")
	}
	return v
}

type ProductRequest struct {
	CategoryID  *string `json:"categoryId,omitempty"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug,omitempty"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	Stock       int     `json:"stock"`
	Active      *bool   `json:"active,omitempty"`
}

type ProductsAPI struct{ c Doer }

func (a ProductsAPI) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	var out []models.Product
	err := get(ctx, a.c, "/products", q.values(), &out)
	return out, err
}

func (a ProductsAPI) Get(ctx context.Context, id string) (models.Product, error) {
	var out models.Product
	err := get(ctx, a.c, "/products"+path(id), nil, &out)
	return out, err
}

func (a ProductsAPI) Create(ctx context.Context, req ProductRequest) (models.Product, error) {
	var out models.Product
	err := send(ctx, a.c, http.MethodPost, "/products", req, &out)
	return out, err
}

func (a ProductsAPI) Update(ctx context.Context, id string, req ProductRequest) (models.Product, error) {
	var out models.Product
	err := send(ctx, a.c, http.MethodPut, "/products"+path(id), req, &out)
	return out, err
}

func (a ProductsAPI) Delete(ctx context.Context, id string) error {
	return send(ctx, a.c, http.MethodDelete, "/products"+path(id), nil, nil)
}

// UploadImage returns the public URL of the stored image.
func (a ProductsAPI) UploadImage(ctx context.Context, id, filename, contentType string, file io.Reader) (string, error) {
	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	err := a.c.Upload(ctx, "/products"+path(id, "image"), "file", filename, contentType, file, &out)
	return out.ImageURL, err
}

type StockAPI struct{ c Doer }

func (a StockAPI) Low(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := get(ctx, a.c, "/stock/low", nil, &out)
	return out, err
}

func (a StockAPI) Set(ctx context.Context, productID string, stock int) (models.Product, error) {
	var out models.Product
	err := send(ctx, a.c, http.MethodPut, "/stock"+path(productID), map[string]int{"stock": stock}, &out)
	return out, err
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewsAPI struct{ c Doer }

func (a ReviewsAPI) List(ctx context.Context, productID string) ([]models.Review, error) {
	var out []models.Review
	err := get(ctx, a.c, "/products"+path(productID, "reviews"), nil, &out)
	return out, err
}

func (a ReviewsAPI) Create(ctx context.Context, productID string, req ReviewRequest) (models.Review, error) {
	var out models.Review
	err := send(ctx, a.c, http.MethodPost, "/products"+path(productID, "reviews"), req, &out)
	return out, err
}

func (a ReviewsAPI) Delete(ctx context.Context, id string) error {
	return send(ctx, a.c, http.MethodDelete, "/reviews"+path(id), nil, nil)
}
