package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/handlers"
	"github.com/taskforge-dev/taskforge/internal/middleware"
)

// Dependencies carries the explicitly constructed handlers and services the
// router wires together. Nothing here is a package-level singleton.
type Dependencies struct {
	Auth           *handlers.AuthHandler
	Users          *handlers.UserHandler
	Projects       *handlers.ProjectHandler
	Tasks          *handlers.TaskHandler
	Tokens         *auth.TokenService
	AllowedOrigins []string
	Logger         *slog.Logger
}

func New(deps Dependencies) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": fmt.Sprintf("Route %s not found", ctx.Request.URL.Path),
		})
	})

	authenticated := middleware.AuthMiddleware(deps.Tokens, deps.Logger)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", deps.Auth.Register)
			authGroup.POST("/login", deps.Auth.Login)
			authGroup.POST("/refresh", deps.Auth.Refresh)
			authGroup.POST("/logout", deps.Auth.Logout)
		}

		users := api.Group("/users", authenticated)
		{
			users.GET("/me", deps.Users.Me)
			users.PATCH("/me", deps.Users.UpdateMe)
			users.GET("", deps.Users.List)
		}

		projects := api.Group("/projects", authenticated)
		{
			projects.POST("", deps.Projects.Create)
			projects.GET("", deps.Projects.List)
			projects.GET("/:id", deps.Projects.Get)
			projects.PUT("/:id", deps.Projects.Update)
			projects.DELETE("/:id", deps.Projects.Delete)
		}

		tasks := api.Group("/tasks", authenticated)
		{
			tasks.POST("", deps.Tasks.Create)
			tasks.GET("", deps.Tasks.List)
			tasks.GET("/:id", deps.Tasks.Get)
			tasks.PUT("/:id", deps.Tasks.Update)
			tasks.DELETE("/:id", deps.Tasks.Delete)
		}
	}

	return r
}
