package stripekit

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds everything needed to build a Client and a webhook Verifier
// from a config file.
type Config struct {
	Stripe  StripeConfig  `mapstructure:"stripe"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

type StripeConfig struct {
	SecretKey   string        `mapstructure:"secret_key"`
	Account     string        `mapstructure:"account"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type WebhookConfig struct {
	Addr        string        `mapstructure:"addr"`
	Secret      string        `mapstructure:"secret"`
	SecretsFile string        `mapstructure:"secrets_file"`
	Tolerance   time.Duration `mapstructure:"tolerance"`
}

// LoadConfig reads the config file at the given path. Values can be
// overridden via the environment with the STRIPEKIT prefix, for example
// STRIPEKIT_STRIPE_SECRET_KEY.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("stripekit")
	v.AutomaticEnv()

	v.SetDefault("webhook.addr", ":8080")
	v.SetDefault("webhook.tolerance", DefaultTolerance)
	v.SetDefault("stripe.timeout", DefaultTimeout)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Client builds a Client from the config.
func (c *Config) Client(log *zap.Logger) *Client {
	opts := []ClientOption{
		WithLogger(log),
	}

	if c.Stripe.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.Stripe.BaseURL))
	}
	if c.Stripe.Account != "" {
		opts = append(opts, WithStripeAccount(c.Stripe.Account))
	}
	if c.Stripe.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Stripe.Timeout))
	}
	if c.Stripe.MaxAttempts > 0 {
		retry := DefaultRetryPolicy()
		retry.MaxAttempts = c.Stripe.MaxAttempts
		opts = append(opts, WithRetryPolicy(retry))
	}
	return NewClient(c.Stripe.SecretKey, opts...)
}

// Verifier builds a webhook Verifier from the config. When SecretsFile is
// set the secrets are read from it, one per line, otherwise Secret is used.
func (c *Config) Verifier() (*Verifier, error) {
	opts := []VerifierOption{}

	if c.Webhook.Tolerance > 0 {
		opts = append(opts, WithTolerance(c.Webhook.Tolerance))
	}

	if c.Webhook.SecretsFile != "" {
		f, err := os.Open(c.Webhook.SecretsFile)

		if err != nil {
			return nil, err
		}

		defer f.Close()
		return NewVerifierFromReader(f, opts...)
	}

	if c.Webhook.Secret == "" {
		return nil, fmt.Errorf("no webhook secret configured")
	}
	return NewVerifier(c.Webhook.Secret, opts...), nil
}

// NewLogger returns a production zap logger.
func NewLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}
