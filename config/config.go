package config

import (
	"github.com/caarlos0/env/v6"
)

type Config struct {
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	JWTSecret          string `env:"JWT_SECRET"`

	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	RabbitMQEnabled  bool   `env:"RABBITMQ_ENABLED"`
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"inspecciones.notifications"`

	UserCacheSize int `env:"USER_CACHE_SIZE" envDefault:"512"`

	// Outreach scan defaults
	DueHorizonDays int `env:"INSPECTION_DUE_HORIZON_DAYS" envDefault:"180"`
	StaleYears     int `env:"STALE_INSPECTION_YEARS" envDefault:"4"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
