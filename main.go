package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gonomo/internal/config"
	"gonomo/internal/container"
)

func main() {
	// Load application configuration (.env, environment, optional gonomo.yaml)
	appConfig, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := appContainer.UI(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
