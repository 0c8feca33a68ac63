package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"noirstore/internal/realtime"
	"noirstore/internal/repository"
)

// dashboardQuery adapts one DashboardRepository read to a handler.
func dashboardQuery[T any](route string, read func(ctx context.Context) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		data, err := read(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, data, "")
	}
}

func AdminDashboardStats(dashboard *repository.DashboardRepository) gin.HandlerFunc {
	return dashboardQuery("GET /admin/api/dashboard/stats", dashboard.Stats)
}

func AdminDashboardRevenue(dashboard *repository.DashboardRepository) gin.HandlerFunc {
	return dashboardQuery("GET /admin/api/dashboard/revenue", dashboard.Revenue)
}

func AdminDashboardCategories(dashboard *repository.DashboardRepository) gin.HandlerFunc {
	return dashboardQuery("GET /admin/api/dashboard/categories", dashboard.Categories)
}

func AdminDashboardTopProducts(dashboard *repository.DashboardRepository) gin.HandlerFunc {
	return dashboardQuery("GET /admin/api/dashboard/top-products", dashboard.TopProducts)
}

func AdminRecentActivities(activities *repository.ActivityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/activities"
		defer handlePanic(c, route)

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				respondWithError(c, http.StatusBadRequest, route, "invalid limit")
				return
			}
			limit = n
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := activities.Recent(ctx, limit)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, items, "")
	}
}

// AdminActivityStream upgrades to a websocket that receives every new activity.
func AdminActivityStream(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /admin/api/activities/stream")
		hub.ServeWS(c.Writer, c.Request)
	}
}
