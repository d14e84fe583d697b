package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"slices"

	"preludio/src/boot"
	"preludio/src/db"
	"preludio/src/middlewares"
	"preludio/src/types"
	"preludio/src/utils"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

func horaDiaValidatorFunc(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return utils.ValidHora(value)
}

func categoriaValidatorFunc(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return slices.Contains(types.Categorias, value)
}

// corsMiddleware must be attached before any route is registered: gin bakes
// the handler chain per route at registration time, so a later Use never
// reaches existing routes.
func corsMiddleware() gin.HandlerFunc {
	if os.Getenv("API_ENV") == "local" {
		return cors.Default()
	}
	appHost := os.Getenv("APP_HOST")
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString(appHost, origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/api/v1/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true, "service": "preludio-api"})
	})

	// Catalogue and other public reads. OptionalAuth lets an admin token
	// widen event visibility without making the routes private.
	public := router.Group("/api/v1")
	public.Use(middlewares.OptionalAuth)
	{
		publicEventHandlers(public)
		publicReviewHandlers(public)
		publicUserHandlers(public)
	}

	guest := router.Group("/api/v1/auth")
	{
		authHandlers(guest)
	}

	authorized := router.Group("/api/v1")
	authorized.Use(middlewares.AuthMiddleware)
	{
		eventHandlers(authorized)
		ticketHandlers(authorized)
		pagoHandlers(authorized)
		reviewHandlers(authorized)
		userHandlers(authorized)
	}

	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	if err := boot.InitDb(); err != nil {
		log.Fatalf("Error initializing database: %s\n", err.Error())
	}
	defer db.Close()
	if err := boot.InitScheduler(); err != nil {
		log.Printf("Error initializing scheduler: %s\n", err.Error())
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("horadia", horaDiaValidatorFunc)
		v.RegisterValidation("categoria", categoriaValidatorFunc)
	}

	router := setupRouter()

	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}
