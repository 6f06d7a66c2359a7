package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCatalogDB int    `mapstructure:"REDIS_CATALOG_DB"`

	// Remote collaborator base URLs.
	CatalogAPIBase     string `mapstructure:"CATALOG_API_BASE"`
	IdentityAPIBase    string `mapstructure:"IDENTITY_API_BASE"`
	ReservationAPIBase string `mapstructure:"RESERVATION_API_BASE"`
	GeocodeAPIBase     string `mapstructure:"GEOCODE_API_BASE"`

	// Catalog fetch bound; expiry is reported as a network failure.
	CatalogTimeoutSecs int `mapstructure:"CATALOG_TIMEOUT_SECS"`

	// Catalog defaults used to build the canonical filter criteria.
	DefaultCityID     string  `mapstructure:"DEFAULT_CITY_ID"`
	DefaultDistanceKm int     `mapstructure:"DEFAULT_DISTANCE_KM"`
	DefaultPriceMin   float64 `mapstructure:"DEFAULT_PRICE_MIN"`
	DefaultPriceMax   float64 `mapstructure:"DEFAULT_PRICE_MAX"`

	// Service operating window, "15:04" wall-clock bounds.
	OperatingOpen  string `mapstructure:"OPERATING_OPEN"`
	OperatingClose string `mapstructure:"OPERATING_CLOSE"`

	// Payment gateway.
	StripeKey         string `mapstructure:"STRIPE_KEY"`
	Currency          string `mapstructure:"CURRENCY"`
	GatewaySuccessURL string `mapstructure:"GATEWAY_SUCCESS_URL"`
	GatewayCancelURL  string `mapstructure:"GATEWAY_CANCEL_URL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Per-IP request throttle on the HTTP facade.
	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int `mapstructure:"RATE_LIMIT_BURST"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CATALOG_DB", 1)
	viper.SetDefault("CATALOG_TIMEOUT_SECS", 10)
	viper.SetDefault("DEFAULT_CITY_ID", "1")
	viper.SetDefault("DEFAULT_DISTANCE_KM", 50)
	viper.SetDefault("DEFAULT_PRICE_MIN", 100)
	viper.SetDefault("DEFAULT_PRICE_MAX", 10000)
	viper.SetDefault("OPERATING_OPEN", "09:00")
	viper.SetDefault("OPERATING_CLOSE", "19:00")
	viper.SetDefault("CURRENCY", "inr")
	viper.SetDefault("GATEWAY_SUCCESS_URL", "garagio://payment/success")
	viper.SetDefault("GATEWAY_CANCEL_URL", "garagio://payment/cancel")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 200)
	viper.SetDefault("RATE_LIMIT_BURST", 50)

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
