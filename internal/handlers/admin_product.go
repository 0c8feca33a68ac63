package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/models"
	"noirstore/internal/repository"
)

type stockAdjustment struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func AdminGetProducts(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		filters, err := productFilters(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

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

func AdminGetProduct(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products/:id"
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
		setETag(c, product.Version)
		respondOK(c, http.StatusOK, product, "")
	}
}

func AdminCreateProduct(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		var input models.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.Create(ctx, input)
		if err != nil {
			respondError(c, route, err)
			return
		}
		setETag(c, product.Version)
		respondOK(c, http.StatusCreated, product, "Product created")
	}
}

func AdminUpdateProduct(products *repository.ProductRepository, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}
		ifVersion, err := ifMatchVersion(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		var patch models.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var previousImage string
		if patch.Image != nil {
			if current, err := products.Get(ctx, id); err == nil {
				previousImage = current.Image
			}
		}

		product, err := products.Update(ctx, id, patch, ifVersion)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if patch.Image != nil {
			dropReplacedUpload(uploadDir, previousImage, product.Image)
		}
		setETag(c, product.Version)
		respondOK(c, http.StatusOK, product, "Product updated")
	}
}

func AdminDeleteProduct(products *repository.ProductRepository, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
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
		if err := products.Delete(ctx, id); err != nil {
			respondError(c, route, err)
			return
		}
		dropReplacedUpload(uploadDir, product.Image, "")
		respondOK(c, http.StatusOK, nil, "Product deleted")
	}
}

// AdminUpdateStock applies a signed stock delta.
func AdminUpdateStock(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/products/:id/stock"
		defer handlePanic(c, route)

		id, ok := parseIDParam(c)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var body stockAdjustment
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.UpdateStock(ctx, id, *body.Quantity)
		if err != nil {
			respondError(c, route, err)
			return
		}
		setETag(c, product.Version)
		respondOK(c, http.StatusOK, product, "Stock updated")
	}
}
