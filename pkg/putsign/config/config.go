// Package config loads putsign configuration from the process environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// S3Config carries the S3 signer settings. Credentials are optional: when
// absent the SDK default chain resolves them from the ambient environment.
type S3Config struct {
	Region          string `env:"PUTSIGN_S3_REGION" env-default:"us-east-1"`
	Endpoint        string `env:"PUTSIGN_S3_ENDPOINT"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	SessionToken    string `env:"AWS_SESSION_TOKEN"`
	UsePathStyle    bool   `env:"PUTSIGN_S3_USE_PATH_STYLE" env-default:"false"`
}

// ServerConfig carries the putsign-server settings
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Backend     string `env:"PUTSIGN_BACKEND" env-default:"s3"`
	JWTSecret   string `env:"PUTSIGN_JWT_SECRET"`
	DatabaseURL string `env:"DATABASE_URL"`
	S3          S3Config
}

// LoadS3 reads the S3 signer configuration from the environment
func LoadS3() (S3Config, error) {
	var cfg S3Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return S3Config{}, fmt.Errorf("failed to read s3 configuration: %w", err)
	}
	return cfg, nil
}

// LoadServer reads the server configuration from the environment
func LoadServer() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read server configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Backend != "s3" && c.Backend != "memory" {
		return fmt.Errorf("backend must be 's3' or 'memory', got %q", c.Backend)
	}
	return nil
}
