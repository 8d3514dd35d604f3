// Package routes defines HTTP routes for the expense service.
package routes

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafaelmolinari2019/expensaflow-app/docs"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/config"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/handlers"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/middleware"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/models"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/service"
	"github.com/rafaelmolinari2019/expensaflow-app/web"
)

// Setup configures all HTTP routes for the application.
func Setup(
	router *gin.Engine,
	cfg *config.Config,
	jwtService service.JWTService,
	authHandler *handlers.AuthHandler,
	expenseHandler *handlers.ExpenseHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	// Health and metrics
	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded receipts, served read-only by filename.
	router.Static("/uploads", cfg.UploadDir)

	// Embedded browser frontend.
	if staticFS, err := fs.Sub(web.StaticFS, "static"); err == nil {
		httpFS := http.FS(staticFS)
		router.GET("/", func(c *gin.Context) {
			c.FileFromFS("/", httpFS)
		})
		router.GET("/app.js", func(c *gin.Context) {
			c.FileFromFS("app.js", httpFS)
		})
		router.GET("/style.css", func(c *gin.Context) {
			c.FileFromFS("style.css", httpFS)
		})
	}

	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		authed := api.Group("", middleware.RequireAuth(jwtService))
		{
			authed.GET("/expenses", expenseHandler.List)
			authed.GET("/expenses/:id", expenseHandler.Get)
			authed.POST("/expenses", expenseHandler.Create)
			authed.DELETE("/expenses/:id", expenseHandler.Delete)
			authed.GET("/stats", expenseHandler.Stats)

			authed.PUT("/expenses/:id/status",
				middleware.RequireOperation(models.OpExpenseSetStatus),
				expenseHandler.SetStatus)
			authed.GET("/users",
				middleware.RequireOperation(models.OpUserList),
				userHandler.List)
		}
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
