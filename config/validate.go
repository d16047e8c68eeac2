package config

import "fmt"

// Validate validates the entire configuration
func (c *Config) Validate() error {
	checks := []func(*Config) error{
		validateServerConfig,
		validateAmazonConfig,
		validateEbayConfig,
		validateEtsyConfig,
	}

	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}

	return nil
}

func validateServerConfig(cfg *Config) error {
	if cfg.Server.Host == "" {
		return fmt.Errorf("server host is empty")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port, must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	return nil
}

func validateAmazonConfig(cfg *Config) error {
	if cfg.Amazon.AccessKey == "" || cfg.Amazon.SecretKey == "" {
		return fmt.Errorf("amazon access key and secret key are required")
	}

	if cfg.Amazon.PartnerTag == "" {
		return fmt.Errorf("amazon partner tag is required")
	}

	return nil
}

func validateEbayConfig(cfg *Config) error {
	if cfg.Ebay.AppID == "" {
		return fmt.Errorf("ebay app id is required")
	}

	if cfg.Ebay.Domain == "" {
		return fmt.Errorf("ebay domain is empty")
	}

	return nil
}

func validateEtsyConfig(cfg *Config) error {
	if cfg.Etsy.APIKey == "" {
		return fmt.Errorf("etsy api key is required")
	}

	return nil
}
