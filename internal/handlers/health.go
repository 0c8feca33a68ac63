package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/storage"
)

// Health reports whether the storage backend answers.
func Health(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"
		defer handlePanic(c, route)

		if err := ensureStorage(c.Request.Context(), store); err != nil {
			httpLog.WithError(err).Warn("storage ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	}
}
