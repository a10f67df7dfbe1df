package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowbook/config"
	"glowbook/cron"
	"glowbook/database"
	availabilityRepo "glowbook/database/repository/availability"
	bookingRepo "glowbook/database/repository/booking"
	contentRepo "glowbook/database/repository/content"
	inquiryRepo "glowbook/database/repository/inquiry"
	invoiceRepo "glowbook/database/repository/invoice"
	serviceRepo "glowbook/database/repository/service"
	userRepo "glowbook/database/repository/user"
	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/models"
	"glowbook/routes"
	"glowbook/services/booking"
	"glowbook/services/catalog"
	"glowbook/services/events"
	"glowbook/services/inquiry"
	"glowbook/services/invoice"
	"glowbook/services/newsletter"
	"glowbook/services/payment"
	"glowbook/services/prep"
	"glowbook/services/presence"
	"glowbook/services/realtime"
	"glowbook/services/storage"
	"glowbook/services/tasks"
	"glowbook/services/user"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	db := database.DB()
	stripe.Key = cfg.StripeKey

	rootCtx, stopMonitors := context.WithCancel(context.Background())
	defer stopMonitors()
	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient)

	// repositories.
	users := userRepo.NewMongoUserRepo(db)
	services := serviceRepo.NewMongoServiceRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	availability := availabilityRepo.NewMongoAvailabilityRepo(db)
	invoices := invoiceRepo.NewMongoInvoiceRepo(db)
	inquiries := inquiryRepo.NewMongoInquiryRepo(db)
	carousels := contentRepo.NewMongoCarouselRepo(db)
	preps := contentRepo.NewMongoPrepRepo(db)

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer func() { _ = publisher.Close() }()

	var presenceStore presence.Store = presence.NewMemoryStore()
	if cfg.PresenceBackend == "redis" {
		presenceStore = presence.NewRedisStore(utils.GetCacheClient())
	}
	hub := realtime.NewHub(presenceStore, logger, routes.AllowedOrigins())
	defer hub.Close()

	queue := asynq.NewClient(utils.QueueRedisOpt())
	defer queue.Close()

	// services.
	userService := &user.DefaultUserService{Repo: users, Logger: logger, TokenTTL: cfg.JWTTTL}

	invoiceService := &invoice.DefaultInvoiceService{
		Repo:     invoices,
		Bookings: bookings,
		Users:    users,
		Services: services,
		Events:   publisher,
		Logger:   logger,
		Settings: invoice.Settings{
			From: models.InvoiceParty{
				Name:        cfg.BusinessName,
				FullAddress: cfg.BusinessAddress,
				PhoneNumber: cfg.BusinessPhone,
			},
			DueDays: cfg.InvoiceDueDays,
		},
	}

	bookingService := &booking.DefaultBookingService{
		Users:        users,
		Services:     services,
		Bookings:     bookings,
		Availability: availability,
		Tx:           database.NewMongoTxRunner(database.MongoClient),
		Payments:     payment.NewStripeGateway(cfg.StripeCurrency, cfg.FrontendURL),
		Invoices:     invoiceService,
		Scheduler:    tasks.NewAsynqHoldScheduler(queue),
		Events:       publisher,
		Logger:       logger,
		Settings: booking.Settings{
			HoldTTL:      cfg.HoldTTL,
			CheckInHour:  cfg.CheckInHour,
			CheckOutHour: cfg.CheckOutHour,
			Location:     config.Location(),
		},
	}

	var imageStore storage.StorageService = storage.Unconfigured{}
	if cld, err := utils.Cloudinary(); err != nil {
		logger.Warn("Image uploads disabled", zap.Error(err))
	} else {
		imageStore = cld
	}
	catalogService := &catalog.DefaultCatalogService{
		Services:     services,
		Carousels:    carousels,
		Availability: availability,
		Storage:      imageStore,
		Logger:       logger,
	}

	inquiryService := &inquiry.DefaultInquiryService{
		Repo:     inquiries,
		Users:    users,
		Presence: presenceStore,
		Notifier: hub,
		Events:   publisher,
		Logger:   logger,
	}

	newsletterService := &newsletter.DefaultNewsletterService{Logger: logger}
	if cfg.MailchimpAPIKey != "" && cfg.MailchimpListID != "" {
		newsletterService.Audience = newsletter.NewMailchimpClient(cfg.MailchimpAPIKey, cfg.MailchimpServer, cfg.MailchimpListID)
	} else {
		logger.Info("Mailchimp not configured, newsletter endpoints will fail")
	}

	worker, err := cron.NewWorker(utils.QueueRedisOpt(), bookingService, cfg.SweepInterval, logger)
	if err != nil {
		logger.Fatal("main: failed to build background worker", zap.Error(err))
	}
	if err := worker.Start(); err != nil {
		// Holds still lapse through the Stripe expired webhook.
		logger.Error("main: background worker not running", zap.Error(err))
	} else {
		defer worker.Shutdown()
	}

	handlerBundle := &handlers.HandlerBundle{
		UserRepo:   users,
		Hub:        hub,
		Auth:       handlers.NewAuthHandler(userService, config.IsProduction()),
		Users:      handlers.NewUserHandler(userService),
		Booking:    handlers.NewBookingHandler(bookingService, cfg.StripeWebhookSecret),
		Catalog:    handlers.NewCatalogHandler(catalogService),
		Preps:      handlers.NewPrepHandler(&prep.DefaultPrepService{Repo: preps, Bookings: bookings, Logger: logger}),
		Invoices:   handlers.NewInvoiceHandler(invoiceService),
		Inquiries:  handlers.NewInquiryHandler(inquiryService),
		Newsletter: handlers.NewNewsletterHandler(newsletterService),
	}

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.NewRateLimiter(cfg.MaxRequestsPerMin).Middleware())
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}
