package handler

import (
	"strconv"
	"time"

	"go-storepos/internal/repository"
	"go-storepos/internal/service"
	"go-storepos/pkg/period"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(s service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// parseSelector reads the period query params. Precedence between them is
// resolved by period.Selector, not here.
func parseSelector(c *fiber.Ctx) (period.Selector, error) {
	var sel period.Selector

	if v := c.Query("week"); v != "" {
		week, err := strconv.Atoi(v)
		if err != nil || week < 1 || week > 53 {
			return sel, fiber.NewError(400, "week must be 1-53")
		}
		sel.Week = &week
	}
	if v := c.Query("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return sel, fiber.NewError(400, "month must be 1-12")
		}
		sel.Month = &month
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return sel, fiber.NewError(400, "invalid year")
		}
		sel.Year = &year
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return sel, fiber.NewError(400, "invalid start_date, expected YYYY-MM-DD")
		}
		sel.Start = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return sel, fiber.NewError(400, "invalid end_date, expected YYYY-MM-DD")
		}
		sel.End = &t
	}

	return sel, nil
}

func parseKind(c *fiber.Ctx) (service.TransactionKind, error) {
	switch c.Query("kind", "sale") {
	case "sale":
		return service.KindSale, nil
	case "purchase":
		return service.KindPurchase, nil
	default:
		return "", fiber.NewError(400, "kind must be 'sale' or 'purchase'")
	}
}

func parseMetric(c *fiber.Ctx) (repository.RankMetric, error) {
	switch c.Query("metric", "quantity") {
	case "quantity":
		return repository.RankByQuantity, nil
	case "count":
		return repository.RankByCount, nil
	default:
		return "", fiber.NewError(400, "metric must be 'quantity' or 'count'")
	}
}

func (h *LedgerHandler) GetSummary(c *fiber.Ctx) error {
	sel, err := parseSelector(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(storeID(c), sel)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute ledger summary"})
	}
	return c.JSON(summary)
}

// GetDaySeries returns last-N-days buckets. Query params: kind, days (default 7).
func (h *LedgerHandler) GetDaySeries(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	points, err := h.service.SeriesByDay(storeID(c), kind, days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch series"})
	}
	return c.JSON(fiber.Map{"period": days, "data": points})
}

func (h *LedgerHandler) GetWeekSeries(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}

	points, err := h.service.WeekSeries(storeID(c), kind)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch series"})
	}
	return c.JSON(seriesResponse(points))
}

func (h *LedgerHandler) GetProfitWeekSeries(c *fiber.Ctx) error {
	points, err := h.service.ProfitWeekSeries(storeID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch series"})
	}
	return c.JSON(seriesResponse(points))
}

func (h *LedgerHandler) GetMonthSeries(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		return fiber.NewError(400, "invalid year")
	}

	points, err := h.service.MonthSeries(storeID(c), kind, year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch series"})
	}
	return c.JSON(seriesResponse(points))
}

func (h *LedgerHandler) GetYearSeries(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	now := time.Now().Year()
	from, err := strconv.Atoi(c.Query("from", strconv.Itoa(now-4)))
	if err != nil {
		return fiber.NewError(400, "invalid from year")
	}
	to, err := strconv.Atoi(c.Query("to", strconv.Itoa(now)))
	if err != nil || to < from {
		return fiber.NewError(400, "invalid to year")
	}

	points, err := h.service.YearSeries(storeID(c), kind, from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch series"})
	}
	return c.JSON(seriesResponse(points))
}

func (h *LedgerHandler) GetTopProducts(c *fiber.Ctx) error {
	return h.topN(c, h.service.TopProducts)
}

func (h *LedgerHandler) GetTopCustomers(c *fiber.Ctx) error {
	return h.topN(c, h.service.TopCustomers)
}

func (h *LedgerHandler) topN(c *fiber.Ctx, query func(storeID uuid.UUID, sel period.Selector, metric repository.RankMetric, n int) ([]repository.RankedRow, error)) error {
	sel, err := parseSelector(c)
	if err != nil {
		return err
	}
	metric, err := parseMetric(c)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(c.Query("n", "4"))
	if err != nil || n <= 0 {
		n = 4
	}

	rows, err := query(storeID(c), sel, metric, n)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch ranking"})
	}
	return c.JSON(fiber.Map{"data": rows})
}

// seriesResponse matches the chart contract: parallel label/data arrays.
func seriesResponse(points []service.SeriesPoint) fiber.Map {
	labels := make([]string, len(points))
	data := make([]int64, len(points))
	for i, p := range points {
		labels[i] = p.Label
		data[i] = p.Total
	}
	return fiber.Map{"labels": labels, "data": data}
}
