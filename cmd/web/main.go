package main

import (
	"github.com/joho/godotenv"

	"schoolhub_backend/internal/app"
)

func main() {
	// Missing .env is fine, the environment may be set by the deployment.
	_ = godotenv.Load()

	app.Run()
}
