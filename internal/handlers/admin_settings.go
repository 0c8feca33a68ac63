package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/models"
	"noirstore/internal/repository"
)

func AdminGetSettings(settings *repository.SettingsRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/settings"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		s, err := settings.Get(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, s, "")
	}
}

func AdminUpdateSettings(settings *repository.SettingsRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/settings"
		defer handlePanic(c, route)

		var patch models.SettingsPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		s, err := settings.Update(ctx, patch)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, s, "Settings saved")
	}
}

func AdminGetSiteContent(content *repository.SiteContentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/site-content"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		s, err := content.Get(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, s, "")
	}
}

func AdminUpdateSiteContent(content *repository.SiteContentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/site-content"
		defer handlePanic(c, route)

		var patch models.SiteContentPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		s, err := content.Update(ctx, patch)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, s, "Site content saved")
	}
}
