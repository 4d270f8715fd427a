package routes

import (
	"time"

	"kota-backend/cart"
	"kota-backend/catalog"
	"kota-backend/checkout"
	"kota-backend/handlers"
	"kota-backend/identity"
	"kota-backend/middleware"
	"kota-backend/session"
	"kota-backend/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cat *catalog.Client, id *identity.Client) {
	// Wire the engine: explicit injected state, no package-level singletons.
	slots := store.NewSlotStore(db)
	controller := cart.NewController(store.NewCartStore(slots))
	gate := session.NewGate(id, controller, store.NewSessionStore(slots), store.NewPendingActionStore(slots))
	orchestrator := checkout.NewOrchestrator(cat, controller)

	// Initialize handlers
	authHandler := &handlers.AuthHandler{Gate: gate}
	productHandler := &handlers.ProductHandler{Catalog: cat}
	cartHandler := &handlers.CartHandler{Gate: gate, Orch: orchestrator}
	checkoutHandler := &handlers.CheckoutHandler{Orch: orchestrator}

	// Brute-force guard on credential endpoints only.
	loginLimiter := middleware.NewLoginLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/login", loginLimiter.Limit(), authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// Public catalog proxy routes
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/categories", productHandler.GetCategories)

		// Cart reads are public: the local cart exists before any login.
		api.GET("/cart", cartHandler.GetCart)
		api.GET("/cart/estimates", cartHandler.GetEstimates)

		// Cart mutations pass through the session gate, which defers them
		// for anonymous callers instead of rejecting outright.
		api.POST("/cart", cartHandler.AddToCart)
		api.PUT("/cart/:productId", cartHandler.UpdateCartItem)
		api.DELETE("/cart/:productId", cartHandler.RemoveFromCart)
		api.DELETE("/cart", cartHandler.ClearCart)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.POST("/checkout", checkoutHandler.Checkout)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
