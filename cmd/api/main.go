package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-scrapyard-ws/internal/config"
	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/handler"
	"go-scrapyard-ws/internal/middleware"
	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/reconcile"
	"go-scrapyard-ws/internal/repository"
	"go-scrapyard-ws/internal/service"
	"go-scrapyard-ws/internal/ws"
	"go-scrapyard-ws/pkg/database"
	"go-scrapyard-ws/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()
	appLog := logger.Get()

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Transaction{}, &model.InventoryItem{})

	// 3. Setup WebSocket Hub and local fallback store
	wsHub := ws.NewHub()
	go wsHub.Run()
	local := fallback.NewStore()

	// 4. Dependency Injection (Wiring Layers)
	txRepo := repository.NewTransactionRepo(db)
	invRepo := repository.NewInventoryRepo(db)

	bc := service.NewBroadcaster(txRepo, invRepo, local, wsHub, appLog)
	policy := reconcile.ParsePolicy(cfg.NegativeStockPolicy)

	ledgerService := service.NewLedgerService(txRepo, invRepo, db, local, bc, policy, appLog)
	invService := service.NewInventoryService(invRepo, db, local, bc, appLog)
	reportService := service.NewReportService(txRepo, local, appLog)
	exportService := service.NewExportService(txRepo, local, cfg.CSVDelimiter, appLog)
	dashService := service.NewDashboardService(txRepo, invRepo)
	syncService := service.NewSyncService(txRepo, invRepo, local, bc, ledgerService, appLog)
	authService, err := service.NewAuthService(cfg)
	if err != nil {
		log.Fatal("Failed to initialise auth service: ", err)
	}

	txHandler := handler.NewTransactionHandler(ledgerService)
	invHandler := handler.NewInventoryHandler(invService)
	reportHandler := handler.NewReportHandler(reportService)
	exportHandler := handler.NewExportHandler(exportService)
	dashHandler := handler.NewDashboardHandler(dashService)
	syncHandler := handler.NewSyncHandler(syncService)
	authHandler := handler.NewAuthHandler(authService)

	// 5. Seed default materials price table and prime the mirror
	if cfg.SeedDefaults {
		if err := invService.SeedDefaults(); err != nil {
			log.Printf("Warning: Failed to seed default materials: %v", err)
		}
	}
	if _, err := syncService.Refresh(); err != nil {
		appLog.WithError(err).Warn("initial snapshot pull failed, starting degraded")
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Scrapyard Ledger v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Request logging
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	// Ledger
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Post("/transactions", txHandler.CreateTransaction)
	protected.Put("/transactions/:id", txHandler.UpdateTransaction)
	protected.Delete("/transactions/:id", txHandler.DeleteTransaction)

	// Inventory
	protected.Get("/inventory", invHandler.GetInventory)
	protected.Put("/inventory/:material", invHandler.UpdateMaterial)

	// Reports
	protected.Get("/reports/summary", reportHandler.GetSummary)
	protected.Get("/reports/materials", reportHandler.GetMaterials)
	protected.Get("/reports/daily", reportHandler.GetDaily)
	protected.Get("/reports/period", reportHandler.GetPeriod)

	// Exports
	protected.Get("/exports/transactions.csv", exportHandler.ExportCSV)
	protected.Get("/exports/transactions.xlsx", exportHandler.ExportXLSX)

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/movement", dashHandler.GetMovement)

	// Sync
	protected.Post("/sync/refresh", syncHandler.Refresh)
	protected.Get("/sync/status", syncHandler.Status)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
