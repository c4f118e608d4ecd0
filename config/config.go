package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Stripe     StripeConfig
	Webhook    WebhookConfig
	Redis      RedisConfig
	Firebase   FirebaseConfig
	Services   ServicesConfig
	AdNetworks AdNetworksConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string // mysql | postgres
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// WebhookConfig holds the shared secret ad-network moderation callbacks sign with.
type WebhookConfig struct {
	AdStatusSecret string
}

type RedisConfig struct {
	URL     string // empty disables cross-instance fan-out
	Channel string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

// ServicesConfig holds the minimum purchase amount (minor units) per ad service.
type ServicesConfig struct {
	MinAmount map[string]int64
}

type AdNetworksConfig struct {
	Facebook FacebookConfig
	TikTok   TikTokConfig
	Snapchat SnapchatConfig
	Google   GoogleAdsConfig
}

type FacebookConfig struct {
	BaseURL     string
	AccessToken string
	AdAccountID string
	PageID      string
}

type TikTokConfig struct {
	BaseURL      string
	AccessToken  string
	AdvertiserID string
	IdentityID   string
}

type SnapchatConfig struct {
	BaseURL     string
	AccessToken string
	AdAccountID string
	ProfileID   string
}

type GoogleAdsConfig struct {
	BaseURL         string
	DeveloperToken  string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	CustomerID      string
	LoginCustomerID string
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate refuses a production config that would accept unsigned or
// self-signed webhooks. Development runs may leave the secrets empty.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	var missing []string
	if c.Stripe.SecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.Stripe.WebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if c.Webhook.AdStatusSecret == "" {
		missing = append(missing, "AD_STATUS_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("production config missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load reads configuration from the environment, loading a .env file first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8099"),
			Env:          getEnv("SERVER_ENV", "development"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			DSN:             getEnv("DB_DSN", "adhub:adhub@tcp(localhost:3306)/adhub?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "adhub"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("STRIPE_CURRENCY", "usd"),
		},
		Webhook: WebhookConfig{
			AdStatusSecret: getEnv("AD_STATUS_WEBHOOK_SECRET", ""),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			Channel: getEnv("REDIS_ORDER_CHANNEL", "adhub:order_status"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		},
		Services: ServicesConfig{
			MinAmount: getEnvAsAmounts("SERVICE_MIN_AMOUNTS", map[string]int64{
				"facebook":   500,
				"tiktok":     2000,
				"snapchat":   500,
				"google_ads": 1000,
			}),
		},
		AdNetworks: AdNetworksConfig{
			Facebook: FacebookConfig{
				BaseURL:     getEnv("FACEBOOK_BASE_URL", "https://graph.facebook.com/v19.0"),
				AccessToken: getEnv("FACEBOOK_ACCESS_TOKEN", ""),
				AdAccountID: getEnv("FACEBOOK_AD_ACCOUNT_ID", ""),
				PageID:      getEnv("FACEBOOK_PAGE_ID", ""),
			},
			TikTok: TikTokConfig{
				BaseURL:      getEnv("TIKTOK_BASE_URL", "https://business-api.tiktok.com/open_api/v1.3"),
				AccessToken:  getEnv("TIKTOK_ACCESS_TOKEN", ""),
				AdvertiserID: getEnv("TIKTOK_ADVERTISER_ID", ""),
				IdentityID:   getEnv("TIKTOK_IDENTITY_ID", ""),
			},
			Snapchat: SnapchatConfig{
				BaseURL:     getEnv("SNAPCHAT_BASE_URL", "https://adsapi.snapchat.com/v1"),
				AccessToken: getEnv("SNAPCHAT_ACCESS_TOKEN", ""),
				AdAccountID: getEnv("SNAPCHAT_AD_ACCOUNT_ID", ""),
				ProfileID:   getEnv("SNAPCHAT_PROFILE_ID", ""),
			},
			Google: GoogleAdsConfig{
				BaseURL:         getEnv("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com/v17"),
				DeveloperToken:  getEnv("GOOGLE_ADS_DEVELOPER_TOKEN", ""),
				ClientID:        getEnv("GOOGLE_ADS_CLIENT_ID", ""),
				ClientSecret:    getEnv("GOOGLE_ADS_CLIENT_SECRET", ""),
				RefreshToken:    getEnv("GOOGLE_ADS_REFRESH_TOKEN", ""),
				CustomerID:      getEnv("GOOGLE_ADS_CUSTOMER_ID", ""),
				LoginCustomerID: getEnv("GOOGLE_ADS_LOGIN_CUSTOMER_ID", ""),
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsAmounts parses "facebook=500,tiktok=2000" and overlays it on the defaults.
func getEnvAsAmounts(key string, defaults map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	raw, exists := os.LookupEnv(key)
	if !exists {
		return out
	}
	for _, pair := range strings.Split(raw, ",") {
		name, amount, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(amount, 10, 64); err == nil {
			out[strings.TrimSpace(name)] = n
		}
	}
	return out
}
