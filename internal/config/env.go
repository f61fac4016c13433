package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr    string
	GinMode    string
	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string
	JWTSecret  string
}

func LoadEnv() Env {
	// A missing .env is fine; deployments set variables directly.
	_ = godotenv.Load()

	env := Env{
		AppAddr:    strings.TrimSpace(os.Getenv("APP_ADDR")),
		GinMode:    strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:     strings.TrimSpace(os.Getenv("DB_USER")),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     strings.TrimSpace(os.Getenv("DB_HOST")),
		DBName:     strings.TrimSpace(os.Getenv("DB_NAME")),
		JWTSecret:  strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}

	if env.AppAddr == "" {
		env.AppAddr = ":8080"
	}
	if env.DBUser == "" {
		env.DBUser = "root"
	}
	if env.DBHost == "" {
		env.DBHost = "127.0.0.1:3306"
	}
	if env.DBName == "" {
		env.DBName = "car_booking"
	}
	if env.JWTSecret == "" {
		env.JWTSecret = "super-secret-key-change-me"
	}

	return env
}
