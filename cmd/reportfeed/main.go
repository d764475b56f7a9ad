package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"go-storepos/internal/repository"
	"go-storepos/internal/service"
	"go-storepos/pkg/database"
	applogger "go-storepos/pkg/logger"
	"go-storepos/pkg/period"

	"github.com/joho/godotenv"
)

// reportfeed prints the daily report for every opted-in store as one JSON
// document per line, for the external dispatcher to pick up after closing
// time. It reports on yesterday unless -date is given.
func main() {
	dateFlag := flag.String("date", "", "report date as YYYY-MM-DD (default: yesterday)")
	topFlag := flag.Int("top", 0, "also print the top N stores by units sold for the day")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	zlog := applogger.New()
	defer zlog.Sync()

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Resolve report date
	date := time.Now().AddDate(0, 0, -1)
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("❌ Invalid -date %q: %v", *dateFlag, err)
		}
		date = parsed
	}

	// 4. Wire the report service
	storeRepo := repository.NewStoreRepo(db)
	stockRepo := repository.NewStockRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	reportService := service.NewReportService(storeRepo, stockRepo, saleRepo, purchaseRepo, zlog)

	stores, err := reportService.ListReportableStores()
	if err != nil {
		log.Fatalf("❌ Failed to list reportable stores: %v", err)
	}
	if len(stores) == 0 {
		log.Println("No stores opted into the daily summary")
		return
	}

	// 5. Emit one JSON line per store
	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, store := range stores {
		report, err := reportService.GetDailyReport(store.ID, date, "")
		if err != nil {
			log.Printf("❌ Report for store %s failed: %v", store.Name, err)
			failed++
			continue
		}
		if err := enc.Encode(report); err != nil {
			log.Fatalf("❌ Failed to encode report: %v", err)
		}
	}

	log.Printf("✅ Generated %d report(s), %d failed", len(stores)-failed, failed)

	if *topFlag > 0 {
		ledger := service.NewLedgerService(saleRepo, purchaseRepo, stockRepo, zlog)
		ranked, err := ledger.TopStores(period.Selector{Start: &date, End: &date}, repository.RankByQuantity, *topFlag)
		if err != nil {
			log.Fatalf("❌ Failed to rank stores: %v", err)
		}
		for i, row := range ranked {
			log.Printf("#%d %s: %d units sold", i+1, row.Name, row.Total)
		}
	}
}
