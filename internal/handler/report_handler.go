package handler

import (
	"time"

	"go-storepos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDailyReport serves one store's daily feed. `date` defaults to yesterday,
// matching the scheduled dispatcher's cadence.
func (h *ReportHandler) GetDailyReport(c *fiber.Ctx) error {
	date := time.Now().AddDate(0, 0, -1)
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fiber.NewError(400, "invalid date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	report, err := h.service.GetDailyReport(storeID(c), date, c.Query("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
