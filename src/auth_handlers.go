package main

import (
	"net/http"

	"preludio/src/config"
	"preludio/src/controllers"
	"preludio/src/db"
	"preludio/src/middlewares"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/gin-gonic/gin"
)

const refreshMaxAge = 7 * 24 * 3600

func setRefreshCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(config.REFRESH_COOKIE_NAME, value, maxAge, "/", "", utils.IsProd(), true)
}

func authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/register", func(ctx *gin.Context) {
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, err := controllers.AuthRegister(db.Get(), &body)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, user)
		}).
		POST("/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, token, refresh, err := controllers.AuthLogin(db.Get(), &body)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			setRefreshCookie(ctx, refresh, refreshMaxAge)
			ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
		}).
		POST("/refresh", func(ctx *gin.Context) {
			token, err := controllers.AuthRefresh(db.Get(), ctx)
			if err != nil {
				middlewares.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		}).
		POST("/logout", func(ctx *gin.Context) {
			setRefreshCookie(ctx, "", -1)
			ctx.JSON(http.StatusOK, gin.H{"message": "Sesion cerrada"})
		})
	return g
}
