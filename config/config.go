package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	Env               string        `mapstructure:"ENV"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	FrontendURL       string        `mapstructure:"FRONTEND_URL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stripe hosted checkout.
	StripeKey           string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string `mapstructure:"STRIPE_CURRENCY"`

	// Reservation rules.
	HoldTTL          time.Duration `mapstructure:"HOLD_TTL"`
	CheckInHour      int           `mapstructure:"CHECKIN_HOUR"`
	CheckOutHour     int           `mapstructure:"CHECKOUT_HOUR"`
	BusinessTimezone string        `mapstructure:"BUSINESS_TIMEZONE"`
	SweepInterval    string        `mapstructure:"SWEEP_INTERVAL"`

	// Invoice sender.
	BusinessName    string `mapstructure:"BUSINESS_NAME"`
	BusinessAddress string `mapstructure:"BUSINESS_ADDRESS"`
	BusinessPhone   string `mapstructure:"BUSINESS_PHONE"`
	InvoiceDueDays  int    `mapstructure:"INVOICE_DUE_DAYS"`

	// Cloudinary image storage.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`

	// Mailchimp newsletter.
	MailchimpAPIKey string `mapstructure:"MAILCHIMP_API_KEY"`
	MailchimpServer string `mapstructure:"MAILCHIMP_SERVER_PREFIX"`
	MailchimpListID string `mapstructure:"MAILCHIMP_LIST_ID"`

	// Domain events. An empty URL disables publishing.
	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`

	// "memory" or "redis".
	PresenceBackend string `mapstructure:"PRESENCE_BACKEND"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("DATABASE_NAME", "glowbook")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL", "48h")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("STRIPE_CURRENCY", "eur")
	viper.SetDefault("HOLD_TTL", "30m")
	viper.SetDefault("CHECKIN_HOUR", 14)
	viper.SetDefault("CHECKOUT_HOUR", 12)
	viper.SetDefault("BUSINESS_TIMEZONE", "UTC")
	viper.SetDefault("SWEEP_INTERVAL", "@every 5m")
	viper.SetDefault("BUSINESS_NAME", "Make-up Company")
	viper.SetDefault("BUSINESS_ADDRESS", "201 John Street")
	viper.SetDefault("BUSINESS_PHONE", "12345596")
	viper.SetDefault("INVOICE_DUE_DAYS", 0)
	viper.SetDefault("CLOUDINARY_FOLDER", "glowbook")
	viper.SetDefault("MAILCHIMP_SERVER_PREFIX", "us1")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "glowbook.events")
	viper.SetDefault("PRESENCE_BACKEND", "memory")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the business time zone, falling back to UTC.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BusinessTimezone)
	if err != nil || AppConfig.BusinessTimezone == "" {
		return time.UTC
	}
	return loc
}
