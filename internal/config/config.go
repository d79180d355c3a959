package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Telegram TelegramConfig
	API      APIConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"

	// BaseURL is the public address callbacks are computed from,
	// e.g. "https://shop.example.com".
	BaseURL string

	// StoreName appears as the payment subject on the gateway side.
	StoreName string
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type GatewayConfig struct {
	// URL overrides the gateway endpoint; empty means production AliPay.
	URL string

	// EchoTimeout bounds the notify_verify confirmation call.
	EchoTimeout time.Duration

	// Seed values for the gateway_setting row on first boot. After that the
	// database row is authoritative and managed through the settings API.
	Partner       string
	Key           string
	SellerEmail   string
	AdditionalFee float64
}

type TelegramConfig struct {
	Token         string
	ReportChannel string
}

type APIConfig struct {
	Key string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("APP_STORE_NAME", "Shop")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ALIPAY_ECHO_TIMEOUT", "120s")

	echoTimeout, err := time.ParseDuration(viper.GetString("ALIPAY_ECHO_TIMEOUT"))
	if err != nil {
		echoTimeout = 2 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetInt("APP_PORT"),
			Env:       viper.GetString("APP_ENV"),
			BaseURL:   viper.GetString("APP_BASE_URL"),
			StoreName: viper.GetString("APP_STORE_NAME"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Gateway: GatewayConfig{
			URL:           viper.GetString("ALIPAY_GATEWAY_URL"),
			EchoTimeout:   echoTimeout,
			Partner:       viper.GetString("ALIPAY_PARTNER"),
			Key:           viper.GetString("ALIPAY_KEY"),
			SellerEmail:   viper.GetString("ALIPAY_SELLER_EMAIL"),
			AdditionalFee: viper.GetFloat64("ALIPAY_ADDITIONAL_FEE"),
		},
		Telegram: TelegramConfig{
			Token:         viper.GetString("TELEGRAM_TOKEN"),
			ReportChannel: viper.GetString("TELEGRAM_REPORT_CHANNEL"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Server.BaseURL == "" {
		log.Println("WARNING: APP_BASE_URL is not set; callback URLs will be relative")
	}

	return cfg, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
