package main

import (
	"log"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/config"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/server"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/storage"
	billingadapter "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/billing/adapters"
	dashboardhandler "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/dashboard/handler"
	dashboardservice "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/dashboard/service"
	exporthandler "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/exports/handler"
	exportservice "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/exports/service"
	registryadapter "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/registry/adapters"
	registryhandler "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/registry/handler"
	registryservice "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/registry/service"
	shipmentadapter "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/adapters"
	shipmenthandler "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/handler"
	shipmentservice "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/service"

	"go.uber.org/zap"
)

// @title Shipment Dashboard API
// @version 1.0
// @description Role-aware gateway over the order backend: filtering, bulk operations, hidden orders, spreadsheet import/export, and bill-of-lading printing.
// @contact.name API Support
// @contact.email support@circlecode.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Backend Adapter and run Health Check
	backend := shipmentadapter.NewBackendAdapter(cfg.Backend)
	if err := backend.HealthCheck(); err != nil {
		l.Fatal("Order backend Health Check Failed", zap.Error(err))
	}
	l.Info("Order backend connection verified")

	// Initialize hidden-orders storage
	store, err := storage.NewRedisStore(cfg.Storage.RedisURL)
	if err != nil {
		l.Fatal("Failed to connect to storage", zap.Error(err))
	}
	defer store.Close()

	hiddenRepo := registryadapter.NewHiddenOrderRepository(store)
	renderer := billingadapter.NewRodRenderer()

	// Initialize Services
	collection := shipmentservice.NewCollectionService(backend, hiddenRepo)
	forms := shipmentservice.NewFormService(backend, collection)
	bulk := shipmentservice.NewBulkCoordinator(backend, collection, renderer)
	registry := registryservice.NewRegistryService(hiddenRepo)
	exports := exportservice.NewExportService()
	dashboard := dashboardservice.NewDashboardService(backend, hiddenRepo)

	// Initialize Handlers
	orderHdl := shipmenthandler.NewOrderHandler(collection, forms, bulk)
	registryHdl := registryhandler.NewRegistryHandler(registry, collection, backend)
	exportHdl := exporthandler.NewExportHandler(exports, collection, forms)
	dashboardHdl := dashboardhandler.NewDashboardHandler(dashboard)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/dashboard", dashboardHdl.GetDashboard)
	srv.App.Get("/agents/:id/summary", dashboardHdl.GetAgentSummary)

	srv.App.Get("/orders", orderHdl.ListOrders)
	srv.App.Post("/orders", orderHdl.CreateOrder)
	srv.App.Post("/orders/refresh", orderHdl.RefreshOrders)
	srv.App.Post("/orders/bulk/status", orderHdl.BulkStatus)
	srv.App.Post("/orders/bulk/agent", orderHdl.BulkAgent)
	srv.App.Post("/orders/bulk/print", orderHdl.BulkPrint)
	srv.App.Get("/orders/export", exportHdl.ExportOrders)
	srv.App.Post("/orders/import", exportHdl.ImportOrders)
	srv.App.Post("/orders/restore-all", registryHdl.RestoreAll)
	srv.App.Get("/orders/hidden", registryHdl.HiddenOrders)
	srv.App.Get("/orders/:id", orderHdl.GetOrder)
	srv.App.Put("/orders/:id", orderHdl.UpdateOrder)
	srv.App.Post("/orders/:id/hide", registryHdl.HideOrder)
	srv.App.Post("/orders/:id/restore", registryHdl.RestoreOrder)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
