package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/models"
	"noirstore/internal/repository"
)

func AdminGetCustomers(customers *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/customers"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := customers.List(ctx, models.CustomerFilters{
			Search:    c.Query("search"),
			Status:    c.Query("status"),
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
			Page:      page,
			Limit:     limit,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondPage(c, result)
	}
}

func AdminGetCustomer(customers *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/customers/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid customer id")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		customer, err := customers.Get(ctx, id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		setETag(c, customer.Version)
		respondOK(c, http.StatusOK, customer, "")
	}
}

func AdminCustomerStats(customers *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/customers/stats"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := customers.Stats(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, stats, "")
	}
}

func AdminCreateCustomer(customers *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/customers"
		defer handlePanic(c, route)

		var input models.CustomerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		customer, err := customers.Create(ctx, input)
		if err != nil {
			respondError(c, route, err)
			return
		}
		setETag(c, customer.Version)
		respondOK(c, http.StatusCreated, customer, "Customer created")
	}
}

func AdminUpdateCustomer(customers *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/customers/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid customer id")
			return
		}
		ifVersion, err := ifMatchVersion(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		var patch models.CustomerPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		customer, err := customers.Update(ctx, id, patch, ifVersion)
		if err != nil {
			respondError(c, route, err)
			return
		}
		setETag(c, customer.Version)
		respondOK(c, http.StatusOK, customer, "Customer updated")
	}
}

func AdminDeleteCustomer(customers *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/customers/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid customer id")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := customers.Delete(ctx, id); err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, nil, "Customer deleted")
	}
}
