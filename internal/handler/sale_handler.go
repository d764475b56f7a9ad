package handler

import (
	"go-storepos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

func (h *SaleHandler) RecordSale(c *fiber.Ctx) error {
	var input service.RecordSaleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.RecordSale(storeID(c), &input, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message":            "Sale recorded and stock deducted",
		"sale":               result.Sale,
		"stock":              result.Stock,
		"customer":           result.Customer,
		"quantity_remaining": result.Stock.Quantity,
	})
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(storeID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(storeID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// GetReceipt returns all line-sales of one checkout.
func (h *SaleHandler) GetReceipt(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing receipt code"})
	}

	sales, err := h.service.ListByReceipt(storeID(c), code)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"receipt_code": code, "sales": sales})
}
