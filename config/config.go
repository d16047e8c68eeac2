package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Amazon AmazonConfig
	Ebay   EbayConfig
	Etsy   EtsyConfig
	Trends TrendsConfig

	LogLevel string
}

type ServerConfig struct {
	Host string
	Port int
}

type AmazonConfig struct {
	AccessKey  string
	SecretKey  string
	PartnerTag string
	Region     string
}

type EbayConfig struct {
	AppID  string
	Domain string
}

type EtsyConfig struct {
	APIKey    string
	APISecret string
}

type TrendsConfig struct {
	HostLanguage string
}

// Load reads the configuration from the environment (with an optional
// .env file) and validates it
func Load() (Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("AMAZON_REGION", "US")
	viper.SetDefault("EBAY_DOMAIN", "svcs.ebay.com")
	viper.SetDefault("TRENDS_HL", "en-US")

	// A missing .env file is fine; the environment still applies
	_ = viper.ReadInConfig()

	cfg := Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetInt("SERVER_PORT"),
		},
		Amazon: AmazonConfig{
			AccessKey:  viper.GetString("AMAZON_ACCESS_KEY"),
			SecretKey:  viper.GetString("AMAZON_SECRET_KEY"),
			PartnerTag: viper.GetString("AMAZON_PARTNER_TAG"),
			Region:     viper.GetString("AMAZON_REGION"),
		},
		Ebay: EbayConfig{
			AppID:  viper.GetString("EBAY_APP_ID"),
			Domain: viper.GetString("EBAY_DOMAIN"),
		},
		Etsy: EtsyConfig{
			APIKey:    viper.GetString("ETSY_API_KEY"),
			APISecret: viper.GetString("ETSY_API_SECRET"),
		},
		Trends: TrendsConfig{
			HostLanguage: viper.GetString("TRENDS_HL"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate config: %w", err)
	}

	return cfg, nil
}

// GetServerAddress returns the host:port the HTTP server listens on
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
