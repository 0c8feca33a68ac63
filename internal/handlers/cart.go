package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"noirstore/internal/middleware"
	"noirstore/internal/models"
	"noirstore/internal/repository"
)

func GetCart(carts *repository.CartRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := carts.Get(ctx, user.ID)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, cart, "")
	}
}

func AddToCart(carts *repository.CartRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/items"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		var line models.CartLine
		if err := c.ShouldBindJSON(&line); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := carts.Add(ctx, user.ID, line)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, cart, "Added to cart")
	}
}

func UpdateCartItem(carts *repository.CartRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/items"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		var line models.CartLine
		if err := c.ShouldBindJSON(&line); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := carts.UpdateQuantity(ctx, user.ID, line)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, cart, "")
	}
}

// RemoveCartItem drops the line named by the productId and size query parameters.
func RemoveCartItem(carts *repository.CartRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/items"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
		if err != nil || productID < 1 {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := carts.Remove(ctx, user.ID, productID, c.Query("size"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, cart, "")
	}
}

func ClearCart(carts *repository.CartRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := carts.Clear(ctx, user.ID); err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, models.Cart{Items: []models.CartItem{}}, "Cart cleared")
	}
}
