package config

import (
	"os"
	"time"
)

var (
	JWTSecret     []byte
	JWTExpiration = 24 * time.Hour
)

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "bothub-dev-secret-do-not-use-in-production"
	}
	JWTSecret = []byte(secret)
}
