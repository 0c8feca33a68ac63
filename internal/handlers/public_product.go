package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/models"
	"noirstore/internal/repository"
)

// productFilters reads the shared catalogue query parameters.
func productFilters(c *gin.Context) (models.ProductFilters, error) {
	page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
	if err != nil {
		return models.ProductFilters{}, err
	}
	minPrice, err := parseFloatParam(c.Query("minPrice"))
	if err != nil {
		return models.ProductFilters{}, err
	}
	maxPrice, err := parseFloatParam(c.Query("maxPrice"))
	if err != nil {
		return models.ProductFilters{}, err
	}

	return models.ProductFilters{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	}, nil
}

// GetPublicProducts lists the storefront catalogue. Only active products are visible.
func GetPublicProducts(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		filters, err := productFilters(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		filters.Status = string(models.ProductActive)

		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := products.List(ctx, filters)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondPage(c, page)
	}
}

func GetPublicProduct(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.Get(ctx, id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if product.Status != models.ProductActive {
			respondError(c, route, repository.NotFound("Product"))
			return
		}
		respondOK(c, http.StatusOK, product, "")
	}
}
