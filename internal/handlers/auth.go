package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noirstore/internal/middleware"
	"noirstore/internal/models"
	"noirstore/internal/repository"
)

/* =======================
   SESSION
======================= */

func Login(auth *repository.AuthRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, route)

		var creds models.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := auth.Login(ctx, creds)
		if err != nil && result.Token == "" {
			respondError(c, route, err)
			return
		}
		if err != nil {
			httpLog.WithError(err).Warn("login activity not recorded")
		}
		respondOK(c, http.StatusOK, result, "Login successful")
	}
}

func Logout(auth *repository.AuthRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/logout"
		defer handlePanic(c, route)

		token, _ := middleware.BearerToken(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := auth.Logout(ctx, token); err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, nil, "Logged out")
	}
}

/* =======================
   PROFILE
======================= */

func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/auth/me"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		respondOK(c, http.StatusOK, user, "")
	}
}

func UpdateMe(auth *repository.AuthRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/auth/me"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var patch models.ProfilePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := auth.UpdateProfile(ctx, user.Email, patch)
		if err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, updated, "Profile updated")
	}
}

func ChangePassword(auth *repository.AuthRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/password"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var body models.PasswordChange
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := auth.ChangePassword(ctx, user.Email, body); err != nil {
			respondError(c, route, err)
			return
		}
		respondOK(c, http.StatusOK, nil, "Password updated")
	}
}
