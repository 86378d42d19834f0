package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/permission"
	"blog-backend/pkg/container"
)

func SetupRouter(c *container.Container) (*gin.Engine, error) {
	router := gin.New()

	// Forwarding headers count only when they come from a configured proxy.
	if err := router.SetTrustedProxies(c.Config.App.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.ClientIP(),
		middleware.Logger(),
	)

	router.GET("/health", healthCheckHandler(c))

	api := router.Group("/api")
	api.Use(middleware.Authenticate(c.JWTManager))
	{
		setupAuthRoutes(api, c)
		setupUserRoutes(api, c)
		setupPostRoutes(api, c)
		setupCategoryRoutes(api, c)
	}

	return router, nil
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	limits := c.Config.RateLimit

	auth := api.Group("/auth")
	{
		auth.POST("/register/",
			middleware.RateLimit(c.Limiter, "register", limits.Register, limits.Window),
			c.UserHandler.Register,
		)
		auth.POST("/token/", c.UserHandler.Login)
		auth.POST("/token/refresh/", c.UserHandler.Refresh)
		auth.POST("/token/verify/", c.UserHandler.Verify)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	self := middleware.Authorize(permission.RequireAuthenticated)

	users := api.Group("/users")
	{
		users.GET("/", c.UserHandler.List)
		users.PATCH("/me/", self, c.UserHandler.UpdateMe)
		users.PATCH("/me/avatar/", self, c.UserHandler.UpdateAvatar)
		users.GET("/:id/", c.UserHandler.GetByID)
	}
}

// ========================================
// POST AND COMMENT ROUTES
// ========================================
func setupPostRoutes(api *gin.RouterGroup, c *container.Container) {
	limits := c.Config.RateLimit
	authenticated := middleware.Authorize(permission.RequireAuthenticated)

	posts := api.Group("/posts")
	{
		posts.GET("/", c.PostHandler.List)
		posts.POST("/",
			authenticated,
			middleware.RateLimit(c.Limiter, "post_create", limits.PostCreate, limits.Window),
			c.PostHandler.Create,
		)
		posts.GET("/:slug/", c.PostHandler.Get)
		posts.PATCH("/:slug/", authenticated, c.PostHandler.Update)
		posts.DELETE("/:slug/", authenticated, c.PostHandler.Delete)

		posts.GET("/:slug/comments/", c.CommentHandler.List)
		posts.POST("/:slug/comments/", authenticated, c.CommentHandler.Create)
		posts.PATCH("/:slug/comments/:id/", authenticated, c.CommentHandler.Update)
		posts.DELETE("/:slug/comments/:id/", authenticated, c.CommentHandler.Delete)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(api *gin.RouterGroup, c *container.Container) {
	staff := middleware.Authorize(permission.RequireStaff)

	categories := api.Group("/categories")
	{
		categories.GET("/", c.CategoryHandler.List)
		categories.POST("/", staff, c.CategoryHandler.Create)
		categories.GET("/:slug/", c.CategoryHandler.Get)
		categories.PATCH("/:slug/", staff, c.CategoryHandler.Update)
		categories.DELETE("/:slug/", staff, c.CategoryHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================

// healthCheckHandler reports 503 when the database is down. Components the
// container was built without are left out of the report.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services := gin.H{}
		statusCode := http.StatusOK

		if appCtx.DB != nil {
			services["database"] = "ok"
			if err := appCtx.DB.Ping(ctx); err != nil {
				services["database"] = "error: " + err.Error()
				statusCode = http.StatusServiceUnavailable
			}
			if stats, err := appCtx.DB.Stats(); err == nil {
				services["database_pool"] = stats
			}
		}

		if appCtx.Cache != nil {
			services["cache"] = "ok"
			if err := appCtx.Cache.Ping(ctx); err != nil {
				services["cache"] = "error: " + err.Error()
			}
		}

		status := "ok"
		if statusCode != http.StatusOK {
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
