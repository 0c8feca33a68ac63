package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/models"
	"noirstore/internal/repository"
)

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type paymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required"`
}

func AdminGetOrders(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		dateFrom, err := parseDateParam(c.Query("dateFrom"), false)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid dateFrom")
			return
		}
		dateTo, err := parseDateParam(c.Query("dateTo"), true)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid dateTo")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := orders.List(ctx, models.OrderFilters{
			Search:        c.Query("search"),
			Status:        c.Query("status"),
			PaymentStatus: c.Query("paymentStatus"),
			DateFrom:      dateFrom,
			DateTo:        dateTo,
			SortBy:        c.Query("sortBy"),
			SortOrder:     c.Query("sortOrder"),
			Page:          page,
			Limit:         limit,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondPage(c, result)
	}
}

func AdminGetOrder(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orders.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, order, "")
	}
}

func AdminOrderStats(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/stats"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := orders.Stats(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, stats, "")
	}
}

func AdminUpdateOrderStatus(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		var body orderStatusRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orders.UpdateStatus(ctx, c.Param("id"), body.Status)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, order, "Order status updated")
	}
}

func AdminUpdatePaymentStatus(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/payment"
		defer handlePanic(c, route)

		var body paymentStatusRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orders.UpdatePaymentStatus(ctx, c.Param("id"), body.PaymentStatus)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, order, "Payment status updated")
	}
}

func AdminDeleteOrder(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := orders.Delete(ctx, c.Param("id")); err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, nil, "Order deleted")
	}
}
