package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inkle/inkle-api/internal/handlers"
	"github.com/inkle/inkle-api/internal/middleware"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	DB        *repository.Database
	Accounts  *services.AccountService
	Graph     *services.GraphService
	Posts     *services.PostService
	Activity  *services.ActivityService
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *logger.Logger
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(d.Logger))
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", middleware.KeyRequestID},
		ExposeHeaders:   []string{middleware.KeyRequestID},
		MaxAge:          12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(d.Accounts, d.JWTSecret, d.TokenTTL, d.Logger)
	userHandler := handlers.NewUserHandler(d.Accounts, d.Graph, d.Logger)
	postHandler := handlers.NewPostHandler(d.Posts, d.Logger)
	activityHandler := handlers.NewActivityHandler(d.Activity, d.Logger)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Inkle backend running"})
	})

	router.GET("/health", func(c *gin.Context) {
		if err := d.DB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"time":   time.Now().Unix(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.GET("/ping", authHandler.Ping)
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
		}

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(&middleware.JWTConfig{Secret: d.JWTSecret}))
		{
			users := protected.Group("/users")
			{
				users.GET("/me", userHandler.Me)
				users.GET("", userHandler.List)
				users.POST("/follow/:id", userHandler.Follow)
				users.POST("/unfollow/:id", userHandler.Unfollow)
				users.POST("/block/:id", userHandler.Block)
				users.POST("/unblock/:id", userHandler.Unblock)
				users.DELETE("/:id", userHandler.Delete)
				users.POST("/make-admin/:id", userHandler.MakeAdmin)
				users.POST("/remove-admin/:id", userHandler.RemoveAdmin)
			}

			posts := protected.Group("/posts")
			{
				posts.POST("", postHandler.Create)
				posts.GET("", postHandler.List)
				posts.DELETE("/:id", postHandler.Delete)
				posts.POST("/:id/like", postHandler.Like)
				posts.POST("/:id/unlike", postHandler.Unlike)
			}

			protected.GET("/activity", activityHandler.Feed)
		}
	}

	return router
}
