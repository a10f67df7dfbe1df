package routes

import (
	"net/http"
	"strings"
	"time"

	"glowbook/config"
	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAuthRoutes registers registration, login and the current-user lookup.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
		api.GET("/me", middleware.JWTAuthMiddleware(hb.UserRepo), hb.Auth.MeHandler)
	}
}

// RegisterUserRoutes registers user endpoints. All require authentication.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", middleware.AdminOnly(), hb.Users.GetAllUsersHandler)
		api.GET("/:id", hb.Users.GetUserByIDHandler)
		api.PUT("/:id", hb.Users.UpdateUserHandler)
	}
}

// RegisterBookingRoutes sets up the booking endpoints. Creation and the
// Stripe webhook are public.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	{
		api.POST("", hb.Booking.CreateBookingHandler)
		api.POST("/webhook/stripe", hb.Booking.StripeWebhookHandler)
		api.GET("/availability/:serviceId", hb.Booking.ServiceAvailabilityHandler)

		auth := api.Group("")
		auth.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		auth.PUT("/cancelBooking/:bookingId", hb.Booking.CancelBookingHandler)
		auth.GET("/user/:userId", hb.Booking.UserBookingsHandler)
		auth.GET("/:id", hb.Booking.GetBookingHandler)

		admin := auth.Group("")
		admin.Use(middleware.AdminOnly())
		admin.GET("", hb.Booking.ListBookingsHandler)
		admin.GET("/getByStatus", hb.Booking.ListBookingsHandler)
		admin.PUT("/checkout/:id", hb.Booking.CheckoutHandler)
		admin.PUT("/:id", hb.Booking.UpdateBookingHandler)
		admin.DELETE("/:id", hb.Booking.DeleteBookingHandler)
	}
}

// RegisterCatalogRoutes registers the service catalog and the carousel. Reads
// are public; writes are admin only and accept multipart images.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminChain := []gin.HandlerFunc{middleware.JWTAuthMiddleware(hb.UserRepo), middleware.AdminOnly()}

	services := r.Group("/api/services")
	{
		services.GET("", hb.Catalog.ListServicesHandler)
		services.GET("/:id", hb.Catalog.GetServiceHandler)

		admin := services.Group("", adminChain...)
		admin.POST("", hb.Catalog.CreateServiceHandler)
		admin.PUT("/:id", hb.Catalog.UpdateServiceHandler)
		admin.DELETE("/:id", hb.Catalog.DeleteServiceHandler)
	}

	carousel := r.Group("/api/carousel")
	{
		carousel.GET("", hb.Catalog.ListCarouselsHandler)
		carousel.GET("/:id", hb.Catalog.GetCarouselHandler)

		admin := carousel.Group("", adminChain...)
		admin.POST("", hb.Catalog.CreateCarouselHandler)
		admin.PUT("/:id", hb.Catalog.UpdateCarouselHandler)
		admin.DELETE("/:id", hb.Catalog.DeleteCarouselHandler)
	}
}

func RegisterPrepRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/preps")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("", hb.Preps.CreatePrepHandler)
		api.GET("", hb.Preps.ListPrepsHandler)
		api.GET("/:id", hb.Preps.GetPrepHandler)
		api.PUT("/:id", hb.Preps.UpdatePrepHandler)
		api.DELETE("/:id", hb.Preps.DeletePrepHandler)
	}
}

func RegisterInvoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/invoice")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("", hb.Invoices.CreateInvoiceHandler)
		api.GET("/:id", hb.Invoices.GetInvoiceHandler)

		admin := api.Group("", middleware.AdminOnly())
		admin.GET("", hb.Invoices.ListInvoicesHandler)
		admin.PUT("/:id", hb.Invoices.UpdateInvoiceHandler)
		admin.DELETE("/:id", hb.Invoices.DeleteInvoiceHandler)
	}
}

func RegisterInquiryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/inquiry")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("", hb.Inquiries.CreateInquiryHandler)
		api.GET("", hb.Inquiries.ListInquiriesHandler)
		api.GET("/:id", hb.Inquiries.GetInquiryHandler)
		api.POST("/:id/messages", hb.Inquiries.AddMessageHandler)
		api.PUT("/:id/status", hb.Inquiries.UpdateStatusHandler)

		admin := api.Group("", middleware.AdminOnly())
		admin.POST("/:id/communications", hb.Inquiries.AddCommunicationHandler)
		admin.DELETE("/:id", hb.Inquiries.DeleteInquiryHandler)
	}
}

func RegisterNewsletterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/mailchimp")
	{
		api.POST("/subscribe", hb.Newsletter.SubscribeHandler)

		admin := api.Group("", middleware.JWTAuthMiddleware(hb.UserRepo), middleware.AdminOnly())
		admin.GET("/stats", hb.Newsletter.StatsHandler)
		admin.POST("/tags", hb.Newsletter.TagsHandler)
		admin.POST("/batch-subscribe", hb.Newsletter.BatchSubscribeHandler)
	}
}

// RegisterOpsRoutes registers the health check, Prometheus scrape endpoint and
// the realtime socket.
func RegisterOpsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "glowbook is running", "dependencies": utils.GetHealthStatus()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if hb.Hub != nil {
		r.GET("/ws", hb.Hub.ServeWS)
	}
}

func allowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(config.AppConfig.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

// RegisterRoutes centralizes registration of all endpoints and global middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterPrepRoutes(r, hb)
	RegisterInvoiceRoutes(r, hb)
	RegisterInquiryRoutes(r, hb)
	RegisterNewsletterRoutes(r, hb)
	RegisterOpsRoutes(r, hb)
}

// AllowedOrigins exposes the CORS origin list so the websocket upgrader can
// apply the same policy.
func AllowedOrigins() []string {
	return allowedOrigins()
}
