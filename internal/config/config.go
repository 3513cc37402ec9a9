package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	AdminPasswordHash string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
	OrdersFile  string

	SessionTTLSeconds int

	GeoIPDatabasePath string
	GeoIPAPIBaseURL   string

	GatewayURL      string
	GatewayAPIKey   string
	GatewayClientID string

	NotifyURL string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8000"),

		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		OrdersFile:  getenv("ORDERS_FILE", "orders.json"),

		SessionTTLSeconds: getenvInt("SESSION_TTL_SECONDS", 300),

		GeoIPDatabasePath: os.Getenv("GEOIP_DB"),
		GeoIPAPIBaseURL:   getenv("GEOIP_API_URL", "http://ip-api.com/json"),

		GatewayURL:      os.Getenv("GATEWAY_URL"),
		GatewayAPIKey:   os.Getenv("GATEWAY_API_KEY"),
		GatewayClientID: os.Getenv("GATEWAY_CLIENT_ID"),

		NotifyURL: os.Getenv("NOTIFY_URL"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
