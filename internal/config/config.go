package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	DataDir       string   `mapstructure:"DATA_DIR"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	ClinicianID   string   `mapstructure:"CLINICIAN_ID"`
	ClinicianName string   `mapstructure:"CLINICIAN_NAME"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CLINICIAN_ID", "STH-001")
	v.SetDefault("CLINICIAN_NAME", "Stacey Thompson, RN")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("CLINICIAN_ID")
	v.BindEnv("CLINICIAN_NAME")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
