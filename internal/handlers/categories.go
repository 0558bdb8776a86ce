package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/service"
)

type categoryRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

func (r categoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: r.Name, Slug: r.Slug, Description: r.Description}
}

func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch categories")
		return
	}
	respond(c, http.StatusOK, "", categories)
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err, "Failed to create category")
		return
	}
	respond(c, http.StatusCreated, "Category created successfully", category)
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categories.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err, "Failed to update category")
		return
	}
	respond(c, http.StatusOK, "Category updated successfully", category)
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete category")
		return
	}
	respond(c, http.StatusOK, "Category deleted successfully", nil)
}
