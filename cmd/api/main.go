package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-storepos/internal/handler"
	"go-storepos/internal/middleware"
	"go-storepos/internal/model"
	"go-storepos/internal/repository"
	"go-storepos/internal/service"
	"go-storepos/internal/ws"
	"go-storepos/pkg/database"
	"go-storepos/pkg/jwt"
	applogger "go-storepos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zlog := applogger.New()
	defer zlog.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	// AutoMigrate is fine for a single-binary deployment; swap for a
	// migration tool if the schema starts needing versioned changes.
	db.AutoMigrate(
		&model.User{}, &model.Store{}, &model.Product{}, &model.Supplier{},
		&model.Customer{}, &model.Stock{}, &model.Purchase{}, &model.Sale{},
	)

	// 3. Seed default owner and demo store
	seedOwnerAndStore(db, zlog)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	storeRepo := repository.NewStoreRepo(db)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	stockRepo := repository.NewStockRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	allocator := service.NewAllocator(stockRepo)
	purchaseService := service.NewPurchaseService(purchaseRepo, stockRepo, productRepo, supplierRepo, db, wsHub, zlog)
	saleService := service.NewSaleService(saleRepo, stockRepo, productRepo, customerRepo, allocator, db, wsHub, zlog)
	ledgerService := service.NewLedgerService(saleRepo, purchaseRepo, stockRepo, zlog)
	reportService := service.NewReportService(storeRepo, stockRepo, saleRepo, purchaseRepo, zlog)

	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	saleHandler := handler.NewSaleHandler(saleService)
	stockHandler := handler.NewStockHandler(stockRepo, ledgerService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	reportHandler := handler.NewReportHandler(reportService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "StorePOS Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// All ledger routes are store-scoped; the token resolves the store.
	protected := api.Group("", middleware.RequireStore(storeRepo))

	// Purchase Routes
	protected.Post("/purchases", purchaseHandler.RecordPurchase)
	protected.Get("/purchases", purchaseHandler.GetPurchases)
	protected.Get("/purchases/:id", purchaseHandler.GetPurchase)

	// Sale Routes
	protected.Post("/sales", saleHandler.RecordSale)
	protected.Get("/sales", saleHandler.GetSales)
	protected.Get("/sales/receipt/:code", saleHandler.GetReceipt)
	protected.Get("/sales/:id", saleHandler.GetSale)

	// Stock Routes
	protected.Get("/stocks", stockHandler.GetStocks)
	protected.Get("/stocks/total", stockHandler.GetTotalStock)
	protected.Get("/stocks/shortages", stockHandler.GetShortages)
	protected.Put("/stocks/threshold", middleware.RequirePrivilege(middleware.PrivilegeManageStock), stockHandler.UpdateThreshold)

	// Ledger Routes (read-side aggregations)
	protected.Get("/ledger/summary", ledgerHandler.GetSummary)
	protected.Get("/ledger/series/days", ledgerHandler.GetDaySeries)
	protected.Get("/ledger/series/week", ledgerHandler.GetWeekSeries)
	protected.Get("/ledger/series/week/profit", ledgerHandler.GetProfitWeekSeries)
	protected.Get("/ledger/series/months", ledgerHandler.GetMonthSeries)
	protected.Get("/ledger/series/years", ledgerHandler.GetYearSeries)
	protected.Get("/ledger/top/products", ledgerHandler.GetTopProducts)
	protected.Get("/ledger/top/customers", ledgerHandler.GetTopCustomers)

	// Report Routes
	protected.Get("/reports/daily", reportHandler.GetDailyReport)

	// Catalog Routes (lookup data referenced by the ledger)
	protected.Get("/products", func(c *fiber.Ctx) error {
		products, err := productRepo.FindAll(c.Locals("store_id").(uuid.UUID))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(products)
	})
	protected.Get("/suppliers", func(c *fiber.Ctx) error {
		suppliers, err := supplierRepo.FindAll(c.Locals("store_id").(uuid.UUID))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch suppliers"})
		}
		return c.JSON(suppliers)
	})
	protected.Get("/customers", func(c *fiber.Ctx) error {
		customers, err := customerRepo.FindAll(c.Locals("store_id").(uuid.UUID))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch customers"})
		}
		return c.JSON(customers)
	})

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
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedOwnerAndStore creates a default owner and a demo store so a fresh
// install can be exercised immediately. In development a ready-to-use token
// is logged for the demo store.
func seedOwnerAndStore(db *gorm.DB, zlog *zap.Logger) {
	userRepo := repository.NewUserRepo(db)
	storeRepo := repository.NewStoreRepo(db)

	email := os.Getenv("SEED_OWNER_EMAIL")
	if email == "" {
		email = "owner@example.com"
	}

	owner, err := userRepo.FindByEmail(email)
	if err != nil {
		owner = &model.User{
			Email:    email,
			FullName: "Store Owner",
			Locale:   "en",
			IsActive: true,
		}
		owner.CreatedBy = "system"
		owner.UpdatedBy = "system"

		password := os.Getenv("SEED_OWNER_PASSWORD")
		if password == "" {
			password = "owner123"
		}
		if err := owner.SetPassword(password); err != nil {
			zlog.Warn("failed to hash seed owner password", zap.Error(err))
			return
		}
		if err := userRepo.Create(owner); err != nil {
			zlog.Warn("failed to create seed owner", zap.Error(err))
			return
		}
		zlog.Info("seed owner created", zap.String("email", email))
	}

	var store model.Store
	if err := db.Where("owner_id = ?", owner.ID).First(&store).Error; err != nil {
		ownerID := owner.ID
		store = model.Store{
			Name:         "Demo Store",
			Category:     "general",
			Location:     "Kampala",
			ClosingTime:  "19:00",
			DailySummary: true,
			IsActive:     true,
			OwnerID:      &ownerID,
			OwnerLocale:  owner.Locale,
		}
		store.CreatedBy = "system"
		store.UpdatedBy = "system"
		if err := storeRepo.Create(&store); err != nil {
			zlog.Warn("failed to create seed store", zap.Error(err))
			return
		}
		zlog.Info("seed store created", zap.String("store_id", store.ID.String()))
	}

	if os.Getenv("APP_ENV") == "development" {
		token, err := jwt.GenerateToken(owner.ID, owner.Email, owner.FullName, store.ID,
			[]string{middleware.PrivilegeManageStock})
		if err == nil {
			zlog.Info("development token for demo store", zap.String("token", token))
		}
	}
}
