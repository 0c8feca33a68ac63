package repository

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a business failure carrying the HTTP status it maps to.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NotFound(what string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: what + " not found"}
}

func Unauthorized(msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: msg}
}

func BadRequest(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

func Conflict(msg string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: msg}
}

// OutOfStockError reports a line that could not be reserved at checkout.
type OutOfStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e OutOfStockError) Error() string {
	return "product out of stock"
}

// StatusOf returns the HTTP status for err, or 500 when err is not a business error.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var stockErr OutOfStockError
	if errors.As(err, &stockErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
