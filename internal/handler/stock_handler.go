package handler

import (
	"strconv"
	"time"

	"go-storepos/internal/repository"
	"go-storepos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	stockRepo repository.StockRepository
	ledger    service.LedgerService
}

func NewStockHandler(stockRepo repository.StockRepository, ledger service.LedgerService) *StockHandler {
	return &StockHandler{stockRepo: stockRepo, ledger: ledger}
}

func (h *StockHandler) GetStocks(c *fiber.Ctx) error {
	stocks, err := h.stockRepo.ListByStore(storeID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stocks)
}

// GetTotalStock reports the store-wide quantity sum, optionally bounded by a
// batch-creation cutoff date (as_of=YYYY-MM-DD).
func (h *StockHandler) GetTotalStock(c *fiber.Ctx) error {
	asOfParam := c.Query("as_of")

	var total int64
	var err error
	if asOfParam != "" {
		asOf, perr := time.Parse("2006-01-02", asOfParam)
		if perr != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid as_of date, expected YYYY-MM-DD"})
		}
		total, err = h.ledger.TotalStockLevelAsOf(storeID(c), asOf.AddDate(0, 0, 1))
	} else {
		total, err = h.ledger.TotalStockLevel(storeID(c))
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"total_stock": total})
}

func (h *StockHandler) GetShortages(c *fiber.Ctx) error {
	shortages, err := h.stockRepo.ListShortages(storeID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"shortage": shortages})
}

// UpdateThreshold sets the low-stock alert level for every batch of the store.
func (h *StockHandler) UpdateThreshold(c *fiber.Ctx) error {
	var body struct {
		ThresholdQuantity *int `json:"threshold_quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if body.ThresholdQuantity == nil || *body.ThresholdQuantity < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "threshold_quantity must be a non-negative integer"})
	}

	updated, err := h.stockRepo.UpdateThreshold(storeID(c), *body.ThresholdQuantity, getUserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update stock threshold"})
	}

	return c.JSON(fiber.Map{
		"message": "Stock threshold updated for " + strconv.FormatInt(updated, 10) + " batches",
	})
}
