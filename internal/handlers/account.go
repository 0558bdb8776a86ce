package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopfront/internal/ids"
	"shopfront/internal/models"
	"shopfront/internal/repository"
)

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h HandlerSet) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.ListByProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch reviews")
		return
	}
	respond(c, http.StatusOK, "", reviews)
}

func (h HandlerSet) CreateReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	user := currentUser(c)
	review, err := h.reviews.Create(c.Request.Context(), models.Review{
		ID:        ids.New(),
		ProductID: c.Param("id"),
		UserID:    user.ID,
		Author:    strings.TrimSpace(user.FirstName + " " + user.LastName),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	})
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to create review")
		return
	}
	respond(c, http.StatusCreated, "Review added successfully", review)
}

// DeleteReview is open to the author and to back-office roles.
func (h HandlerSet) DeleteReview(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	review, err := h.reviews.GetByID(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrReviewNotFound) {
		respondError(c, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to delete review")
		return
	}
	if review.UserID != user.ID && !user.Role.BackOffice() {
		respondError(c, http.StatusForbidden, "Insufficient permissions")
		return
	}

	if err := h.reviews.Delete(ctx, review.ID); err != nil && !errors.Is(err, repository.ErrReviewNotFound) {
		h.fail(c, err, "Failed to delete review")
		return
	}
	respond(c, http.StatusOK, "Review deleted successfully", nil)
}

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h HandlerSet) ListWishlist(c *gin.Context) {
	entries, err := h.wishlist.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "Failed to fetch wishlist")
		return
	}
	respond(c, http.StatusOK, "", entries)
}

func (h HandlerSet) AddToWishlist(c *gin.Context) {
	var req wishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.wishlist.Add(c.Request.Context(), currentUser(c).ID, req.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to update wishlist")
		return
	}
	respond(c, http.StatusCreated, "Added to wishlist", nil)
}

func (h HandlerSet) RemoveFromWishlist(c *gin.Context) {
	err := h.wishlist.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Product not in wishlist")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to update wishlist")
		return
	}
	respond(c, http.StatusOK, "Removed from wishlist", nil)
}

type addressRequest struct {
	Line1      string  `json:"line1" binding:"required"`
	Line2      *string `json:"line2"`
	City       string  `json:"city" binding:"required"`
	PostalCode string  `json:"postalCode" binding:"required"`
	Country    string  `json:"country" binding:"required,len=2"`
	IsDefault  bool    `json:"isDefault"`
}

func (r addressRequest) address(id, userID string) models.Address {
	return models.Address{
		ID:         id,
		UserID:     userID,
		Line1:      strings.TrimSpace(r.Line1),
		Line2:      r.Line2,
		City:       strings.TrimSpace(r.City),
		PostalCode: strings.TrimSpace(r.PostalCode),
		Country:    strings.ToUpper(r.Country),
		IsDefault:  r.IsDefault,
	}
}

func (h HandlerSet) ListAddresses(c *gin.Context) {
	addresses, err := h.addresses.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "Failed to fetch addresses")
		return
	}
	respond(c, http.StatusOK, "", addresses)
}

func (h HandlerSet) CreateAddress(c *gin.Context) {
	var req addressRequest
	if !bindJSON(c, &req) {
		return
	}

	address, err := h.addresses.Save(c.Request.Context(), req.address(ids.New(), currentUser(c).ID))
	if err != nil {
		h.fail(c, err, "Failed to save address")
		return
	}
	respond(c, http.StatusCreated, "Address saved successfully", address)
}

func (h HandlerSet) UpdateAddress(c *gin.Context) {
	var req addressRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	userID := currentUser(c).ID
	if _, err := h.addresses.Get(ctx, userID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(c, http.StatusNotFound, "Address not found")
			return
		}
		h.fail(c, err, "Failed to save address")
		return
	}

	address, err := h.addresses.Save(ctx, req.address(c.Param("id"), userID))
	if err != nil {
		h.fail(c, err, "Failed to save address")
		return
	}
	respond(c, http.StatusOK, "Address updated successfully", address)
}

func (h HandlerSet) DeleteAddress(c *gin.Context) {
	err := h.addresses.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if errors.Is(err, repository.ErrAddressNotFound) {
		respondError(c, http.StatusNotFound, "Address not found")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to delete address")
		return
	}
	respond(c, http.StatusOK, "Address deleted successfully", nil)
}

func (h HandlerSet) Rewards(c *gin.Context) {
	entries, balance, err := h.rewards.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "Failed to fetch rewards")
		return
	}
	respond(c, http.StatusOK, "", gin.H{"balance": balance, "entries": entries})
}
