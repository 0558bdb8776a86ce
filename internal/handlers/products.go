package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/middleware"
	"shopfront/internal/models"
	"shopfront/internal/service"
)

type productRequest struct {
	CategoryID  *string `json:"categoryId"`
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"priceCents" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Active      *bool   `json:"active"`
}

func (r productRequest) input() service.ProductInput {
	return service.ProductInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Stock:       r.Stock,
		Active:      r.Active,
	}
}

func (h HandlerSet) ListProducts(c *gin.Context) {
	limit, offset := pagination(c, 20)
	user, authed := middleware.CurrentUser(c)

	filter := models.ProductFilter{
		CategorySlug: c.Query("category"),
		Query:        c.Query("q"),
		ActiveOnly:   !authed || !user.Role.BackOffice() || c.Query("all") != "true",
		Limit:        limit,
		Offset:       offset,
	}

	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "Failed to fetch products")
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (h HandlerSet) GetProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch product")
		return
	}
	respond(c, http.StatusOK, "", product)
}

func (h HandlerSet) CreateProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err, "Failed to create product")
		return
	}
	respond(c, http.StatusCreated, "Product created successfully", product)
}

func (h HandlerSet) UpdateProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err, "Failed to update product")
		return
	}
	respond(c, http.StatusOK, "Product updated successfully", product)
}

func (h HandlerSet) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete product")
		return
	}
	respond(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h HandlerSet) UploadProductImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, err, "Failed to read upload")
		return
	}
	defer file.Close()

	url, err := h.media.UploadProductImage(c.Request.Context(), service.ImageUpload{
		ProductID: c.Param("id"),
		File:      file,
		Header:    fileHeader.Header,
	})
	if err != nil {
		h.fail(c, err, "Failed to upload image")
		return
	}
	respond(c, http.StatusOK, "Image uploaded successfully", gin.H{"imageUrl": url})
}

type stockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

func (h HandlerSet) SetStock(c *gin.Context) {
	var req stockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.products.SetStock(c.Request.Context(), c.Param("productId"), *req.Stock)
	if err != nil {
		h.fail(c, err, "Failed to update stock")
		return
	}
	respond(c, http.StatusOK, "Stock updated successfully", product)
}

func (h HandlerSet) LowStock(c *gin.Context) {
	products, err := h.products.LowStock(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch low stock products")
		return
	}
	respond(c, http.StatusOK, "", products)
}
