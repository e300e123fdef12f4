package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bobo844/Api-inventor-management/internal/application/dto"
	"github.com/Bobo844/Api-inventor-management/internal/application/stock"
)

// StockMovementHandler maneja el libro de movimientos de stock (protegido).
type StockMovementHandler struct {
	uc *stock.MovementUseCase
}

// NewStockMovementHandler construye el handler.
func NewStockMovementHandler(uc *stock.MovementUseCase) *StockMovementHandler {
	return &StockMovementHandler{uc: uc}
}

// Register registra un movimiento manual y ajusta el stock del producto
// en la misma transacción.
func (h *StockMovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un movimiento por ID.
func (h *StockMovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// List lista movimientos con filtros y paginación.
func (h *StockMovementHandler) List(c *fiber.Ctx) error {
	in := dto.MovementFilterRequest{
		ProductID: c.Query("product_id"),
		Type:      c.Query("type"),
		Reason:    c.Query("reason"),
		UserID:    c.Query("user_id"),
		StartDate: parseDate(c.Query("start_date")),
		EndDate:   parseDate(c.Query("end_date")),
	}
	in.Limit = c.QueryInt("limit")
	in.Offset = c.QueryInt("offset")
	out, err := h.uc.List(in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ProductHistory lista el historial de movimientos de un producto.
func (h *StockMovementHandler) ProductHistory(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	out, err := h.uc.ProductHistory(c.Params("productId"), page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Stats agrega movimientos por tipo y razón en un rango de fechas.
func (h *StockMovementHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(parseDate(c.Query("start_date")), parseDate(c.Query("end_date")))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
