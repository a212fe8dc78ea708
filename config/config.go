package config

import (
	"errors"
	"os"
)

// Config holds everything the service needs at startup. It is built once in main
// and handed to the pieces that need it; nothing reads the environment after Load.
type Config struct {
	DatabaseURI   string
	JWTSecret     string
	AdminPassword string
	Port          string
	Env           string
}

func Load() (Config, error) {
	cfg := Config{
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("APP_ENV"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable not set")
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	return cfg, nil
}
