package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"wbsearch_api/config"
	"wbsearch_api/internal/wildberries/app/web"
	"wbsearch_api/internal/wildberries/app/web/handlers"
	"wbsearch_api/internal/wildberries/business/services/ingest"
	"wbsearch_api/internal/wildberries/pkg/clients"
	"wbsearch_api/internal/wildberries/storage"
	"wbsearch_api/migrations/infrastructure"
	"wbsearch_api/migrations/marketplaces/wb"
	"wbsearch_api/pkg/business/service"
	"wbsearch_api/pkg/dbconnect"
	"wbsearch_api/pkg/dbconnect/migration"
	"wbsearch_api/pkg/logger"
)

// WildberriesServer ties the search client, the ingest service and the
// product repository together behind the HTTP API and the CLI jobs.
type WildberriesServer struct {
	dbconnect.Database
	appConfig *config.AppConfig
	log       logger.Logger
	writer    io.Writer
}

func NewWbServer(connector dbconnect.Database, appConfig *config.AppConfig, writer io.Writer) *WildberriesServer {
	return &WildberriesServer{
		Database:  connector,
		appConfig: appConfig,
		log:       logger.NewLogger(writer, "[WildberriesServer]"),
		writer:    writer,
	}
}

// Run migrates the schema and serves the product API until the listener
// fails.
func (s *WildberriesServer) Run() error {
	db, err := s.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := s.applyMigrations(db); err != nil {
		return err
	}

	repo := storage.NewProductRepository(db, s.writer)
	searchClient := clients.NewSearchClient(s.appConfig.Wildberries, s.writer)
	ingestService := ingest.NewService(searchClient, repo, service.NewTextService(), s.writer)

	productHandler := handlers.NewProductHandler(repo, ingestService, s.writer)
	routes := web.SetupRoutes(productHandler)

	s.log.Log("Serving product API on %s", s.appConfig.ServerAddr)
	return http.ListenAndServe(s.appConfig.ServerAddr, routes)
}

// RunSearchJob is the one-shot CLI entry: fetch listings for the query and
// store them.
func (s *WildberriesServer) RunSearchJob(ctx context.Context, query string, quantity int) (ingest.Result, error) {
	db, err := s.Connect()
	if err != nil {
		return ingest.Result{}, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := s.applyMigrations(db); err != nil {
		return ingest.Result{}, err
	}

	repo := storage.NewProductRepository(db, s.writer)
	searchClient := clients.NewSearchClient(s.appConfig.Wildberries, s.writer)
	ingestService := ingest.NewService(searchClient, repo, service.NewTextService(), s.writer)

	return ingestService.RunSearch(ctx, query, quantity)
}

// ClearProducts wipes the products table. Reports whether any rows were
// removed.
func (s *WildberriesServer) ClearProducts(ctx context.Context) (bool, error) {
	db, err := s.Connect()
	if err != nil {
		return false, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := s.applyMigrations(db); err != nil {
		return false, err
	}

	repo := storage.NewProductRepository(db, s.writer)
	return repo.ClearAll(ctx)
}

func (s *WildberriesServer) applyMigrations(db *sql.DB) error {
	migrationApply := []migration.MigrationInterface{
		&infrastructure.MigrationsSchema{},
		&wb.CreateWBSchema{},
		&wb.CreateWBProductsTable{},
	}

	for _, m := range migrationApply {
		if err := m.UpMigration(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	s.log.Log("WB migrations applied successfully!")
	return nil
}
