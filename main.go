package main

import (
	"log"

	"github.com/joho/godotenv"

	"comparador/adapters/ckan"
	"comparador/internal"
	"comparador/internal/config"
	"comparador/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger
	client := ckan.NewClient(appConfig.Catalog, logger)

	app, err := ui.NewApp(appConfig, client, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
