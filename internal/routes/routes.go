package routes

import (
	"os"
	"strings"
	"time"

	"freshbasket_back_end/internal/handlers/admin"
	"freshbasket_back_end/internal/handlers/catalog"
	"freshbasket_back_end/internal/handlers/checkout"
	"freshbasket_back_end/internal/handlers/user"
	"freshbasket_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	api := r.Group("/api")

	// ===== Authentification =====
	auth := api.Group("/auth")
	{
		auth.POST("/otp/request", middleware.OTPRateLimit(), user.RequestOTP)
		auth.POST("/otp/verify", user.VerifyOTP)
		auth.POST("/register", user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.POST("/google/mobile", user.GoogleMobileLogin)
		auth.GET("/:provider", user.BeginAuth)
		auth.GET("/:provider/callback", user.CallbackAuth)
	}

	// ===== Catalogue public =====
	api.GET("/products", catalog.GetAllProducts)
	api.GET("/products/search", catalog.SearchProducts)
	api.GET("/products/:id", catalog.GetProduct)
	api.GET("/categories", catalog.GetAllCategories)
	api.GET("/categories/:id/products", catalog.GetProductsByCategory)

	// ===== Webhook Stripe (signature vérifiée dans le handler) =====
	api.POST("/webhook/stripe", checkout.StripeWebhook)

	// ===== Espace client =====
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/me", user.Me)
		authed.PUT("/me", user.UpdateProfile)
		authed.POST("/me/loyalty/redeem", user.RedeemLoyaltyPoints)

		authed.GET("/addresses", user.GetAddresses)
		authed.POST("/addresses", user.AddAddress)
		authed.PUT("/addresses/:id", user.UpdateAddress)
		authed.DELETE("/addresses/:id", user.DeleteAddress)

		authed.GET("/cart", user.GetCart)
		authed.POST("/cart/add", user.AddToCart)
		authed.PUT("/cart/:productId", user.UpdateCartItem)
		authed.DELETE("/cart/clear", user.ClearCart)
		authed.DELETE("/cart/:productId", user.RemoveFromCart)
		authed.GET("/cart/ws", user.CartWebSocket)

		authed.GET("/favorites", user.GetFavorites)
		authed.POST("/favorites/:productId", user.AddFavorite)
		authed.DELETE("/favorites/:productId", user.RemoveFavorite)

		authed.GET("/checkout/quote", checkout.GetQuote)
		authed.POST("/checkout", checkout.PlaceOrder)
		authed.GET("/coupons/validate", checkout.ValidateCoupon)

		authed.GET("/orders", user.GetMyOrders)
		authed.GET("/orders/ws", user.OrderStatusWebSocket)
		authed.GET("/orders/:id", user.GetOrderByID)
		authed.POST("/orders/:id/cancel", user.CancelOrder)
		authed.POST("/orders/:id/pay", checkout.RetryPayment)
		authed.GET("/orders/:id/invoice", user.GetOrderInvoice)
		authed.GET("/orders/:id/qr", user.GetOrderQR)
	}

	// ===== Console admin =====
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin())
	{
		adminGroup.GET("/dashboard", admin.GetDashboardStats)

		adminGroup.GET("/orders", admin.GetAllOrders)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)

		adminGroup.GET("/customers", admin.GetAllCustomers)
		adminGroup.GET("/customers/:id/orders", admin.GetCustomerOrders)

		adminGroup.POST("/products", catalog.CreateProduct)
		adminGroup.GET("/products/low-stock", catalog.GetLowStockProducts)
		adminGroup.PUT("/products/:id", catalog.UpdateProduct)
		adminGroup.DELETE("/products/:id", catalog.DeactivateProduct)
		adminGroup.POST("/products/:id/image", catalog.UploadProductImage)
		adminGroup.PUT("/products/:id/stock", catalog.UpdateStock)
		adminGroup.GET("/products/:id/stock-movements", catalog.GetStockMovements)

		adminGroup.POST("/categories", catalog.CreateCategory)
		adminGroup.PUT("/categories/:id", catalog.UpdateCategory)
		adminGroup.DELETE("/categories/:id", catalog.DeleteCategory)

		adminGroup.POST("/coupons", checkout.CreateCoupon)
		adminGroup.GET("/coupons", checkout.GetAllCoupons)
		adminGroup.PUT("/coupons/:id", checkout.UpdateCoupon)
		adminGroup.DELETE("/coupons/:id", checkout.DeleteCoupon)
	}
}

func corsMiddleware() gin.HandlerFunc {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
