package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/middleware"
	"noirstore/internal/models"
	"noirstore/internal/repository"
)

// CreateOrder checks out the signed-in user. Items in the body take precedence
// over the stored cart.
func CreateOrder(carts *repository.CartRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var input models.CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondValidationError(c, err)
			return
		}
		if input.Name == "" {
			input.Name = user.Name
		}
		if input.Email == "" {
			input.Email = user.Email
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := carts.Checkout(ctx, user.ID, input)
		if err != nil && order.ID == "" {
			respondError(c, route, err)
			return
		}
		if err != nil {
			httpLog.WithError(err).WithField("order", order.ID).Warn("order placed with follow-up failure")
		}
		respondOK(c, http.StatusCreated, order, "Order placed")
	}
}
