// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/config"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/handlers"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/middleware"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/services"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db)
	paymentService := services.NewPaymentService(cfg)
	orderService := services.NewOrderService(db, cfg, paymentService, notificationService)
	productService := services.NewProductService(db)
	storeService := services.NewStoreService(db)
	categoryService := services.NewCategoryService(db)
	ratingService := services.NewRatingService(services.NewReviewStore(db))
	reviewService := services.NewReviewService(db, cfg, ratingService, notificationService)

	// The summary cache is optional; a nil cache means every summary is
	// computed from the database.
	var cartCache *services.CartCache
	if cfg.Redis.Enabled {
		cartCache = services.NewCartCache(cfg.Redis, time.Duration(cfg.Cart.SummaryCacheTTL)*time.Second)
	}
	cartService := services.NewCartService(services.NewCartStore(db), productService, orderService, cartCache)

	// Initialize handlers
	cartHandler := handlers.NewCartHandler(cartService)
	productHandler := handlers.NewProductHandler(productService)
	storeHandler := handlers.NewStoreHandler(storeService, productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Store routes (public)
		stores := v1.Group("/stores")
		{
			stores.GET("", storeHandler.ListStores)
			stores.GET("/:id", storeHandler.GetStore)
			stores.GET("/:id/products", storeHandler.ListStoreProducts)
			stores.GET("/:id/reviews", reviewHandler.ListStoreReviews)
		}

		// Category routes (public)
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
		}

		// Product routes (public)
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Public review listings
		users := v1.Group("/users")
		{
			users.GET("/:id/reviews", reviewHandler.ListUserReviews)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.GET("/summary", cartHandler.GetCartSummary)
			cart.POST("/items", cartHandler.AddToCart)
			cart.PUT("/items/:id", cartHandler.UpdateCartItem)
			cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/validate", cartHandler.ValidateCart)
			cart.POST("/checkout", middleware.CheckoutRateLimit(cfg.RateLimit), cartHandler.Checkout)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		reviews.Use(middleware.AuthRequired())
		{
			reviews.POST("", reviewHandler.CreateReview)
			reviews.PUT("/:id", reviewHandler.UpdateReview)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)
			reviews.POST("/:id/helpful", reviewHandler.VoteHelpful)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}
