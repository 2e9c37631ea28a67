package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"nfsync"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"nfsync"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	PlugNotas struct {
		BaseURL string        `envconfig:"PLUGNOTAS_BASE_URL" default:"https://api.plugnotas.com.br"`
		APIKey  string        `envconfig:"PLUGNOTAS_API_KEY"`
		Timeout time.Duration `envconfig:"PLUGNOTAS_TIMEOUT" default:"30s"`
	}

	Bucket struct {
		BaseURL    string `envconfig:"BUCKET_BASE_URL"`
		Name       string `envconfig:"BUCKET_NAME" default:"service-notes"`
		ServiceKey string `envconfig:"BUCKET_SERVICE_KEY"`
	}

	Archive struct {
		Bucket          string        `envconfig:"ARCHIVE_BUCKET"`
		CredentialsJSON string        `envconfig:"ARCHIVE_CREDENTIALS_JSON"`
		URLExpiry       time.Duration `envconfig:"ARCHIVE_URL_EXPIRY" default:"24h"`
	}

	Sync struct {
		LookbackMonths int    `envconfig:"SYNC_LOOKBACK_MONTHS" default:"6"`
		CompanyWorkers int    `envconfig:"SYNC_COMPANY_WORKERS" default:"1"`
		TriggerSecret  string `envconfig:"SYNC_TRIGGER_SECRET"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
