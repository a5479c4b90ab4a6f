package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/handlers"
	"github.com/harentsoaR/rental-store-api/internal/middleware"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"github.com/harentsoaR/rental-store-api/internal/utils"
	"github.com/rs/zerolog"
)

type Options struct {
	Logger       zerolog.Logger
	CORSOrigins  []string
	ExposeErrors bool
}

// New builds the gin engine with global middleware and every API route.
func New(h *handlers.Handler, tokens *utils.TokenService, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Recovery(opts.ExposeErrors))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	protect := middleware.Protect(tokens)

	api := r.Group("/api")
	api.GET("", h.Health)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
		authRoutes.GET("/me", protect, h.GetCurrentUser)
	}

	listingRoutes := api.Group("/listings")
	{
		listingRoutes.GET("", h.GetListings)
		listingRoutes.GET("/:id", h.GetListing)

		listingRoutes.POST("", protect, h.CreateListing)
		listingRoutes.GET("/user/my-listings", protect, h.GetMyListings)
		listingRoutes.PUT("/:id", protect, h.UpdateListing)
		listingRoutes.DELETE("/:id", protect, h.DeleteListing)

		listingRoutes.DELETE("/admin/:id", protect, middleware.Authorize(models.RoleAdmin), h.DeleteListingAdmin)
	}

	r.NoRoute(func(c *gin.Context) {
		common.RespondWithError(c, http.StatusNotFound, "Route not found")
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
