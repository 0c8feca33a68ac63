package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"noirstore/internal/logger"
	"noirstore/internal/models"
	"noirstore/internal/repository"
	"noirstore/internal/storage"
)

const requestTimeout = 5 * time.Second

var httpLog = logger.Get("http")

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		httpLog.WithField("route", route).Errorf("panic recovered: %v", r)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func ensureStorage(ctx context.Context, store *storage.Store) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return store.Ping(checkCtx)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	httpLog.WithField("route", route).Warnf("returning error %d: %s", status, message)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "status": status, "error": message})
}

// respondError maps repository and storage failures onto HTTP responses.
func respondError(c *gin.Context, route string, err error) {
	var apiErr *repository.APIError
	if errors.As(err, &apiErr) {
		respondWithError(c, apiErr.Status, route, apiErr.Message)
		return
	}
	var stockErr repository.OutOfStockError
	if errors.As(err, &stockErr) {
		httpLog.WithField("route", route).Warnf("insufficient stock for product %d", stockErr.ProductID)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"status":    http.StatusBadRequest,
			"error":     "Insufficient stock",
			"productId": stockErr.ProductID,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		respondWithError(c, http.StatusGatewayTimeout, route, "request timed out")
		return
	}
	httpLog.WithField("route", route).WithError(err).Error("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"status":  http.StatusInternalServerError,
		"error":   "internal error",
	})
}

func respondOK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, models.Envelope{Success: true, Data: data, Message: message})
}

func respondPage[T any](c *gin.Context, page models.Page[T]) {
	c.JSON(http.StatusOK, models.Envelope{Success: true, Data: page.Data, Pagination: &page.Pagination})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  http.StatusBadRequest,
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"status":  http.StatusBadRequest,
		"error":   "invalid body",
		"details": err.Error(),
	})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func setETag(c *gin.Context, version int64) {
	if version > 0 {
		c.Header("ETag", strconv.Quote(strconv.FormatInt(version, 10)))
	}
}

// ifMatchVersion reads If-Match. Absent or "*" yields 0, meaning unconditional.
func ifMatchVersion(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" || raw == "*" {
		return 0, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid If-Match header")
	}
	return v, nil
}
