package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"wbsearch_api/config"
	wbapp "wbsearch_api/internal/wildberries/app"
	"wbsearch_api/pkg/dbconnect/postgres"
)

func main() {
	_ = godotenv.Load()

	appConfig := loadAppConfig()
	connector := postgres.NewPgConnector(config.GetConfig())
	server := wbapp.NewWbServer(connector, appConfig, os.Stdout)

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		if err := server.Run(); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}

	case "search":
		if len(os.Args) < 4 {
			log.Fatalf("Usage: %s search <quantity> <query terms...>", os.Args[0])
		}
		quantity, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("Invalid quantity %q: %v", os.Args[2], err)
		}
		query := strings.Join(os.Args[3:], " ")

		result, err := server.RunSearchJob(context.Background(), query, quantity)
		if err != nil {
			log.Fatalf("Search job failed: %v", err)
		}
		log.Printf("Added to DB: %d products (%d failed)", result.Upserted, result.Failed)

	case "clear_db":
		removed, err := server.ClearProducts(context.Background())
		if err != nil {
			log.Fatalf("Error while clearing database: %v", err)
		}
		if removed {
			log.Println("Product table cleared successfully!")
		} else {
			log.Println("Product table was already empty.")
		}

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func loadAppConfig() *config.AppConfig {
	path := os.Getenv("WB_CONFIG")
	if path == "" {
		return config.DefaultConfig()
	}
	appConfig, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", path, err)
	}
	return appConfig
}
