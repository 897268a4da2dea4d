package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
)

type BillingHandler struct {
	billing ports.BillingDirectory
}

func NewBillingHandler(billing ports.BillingDirectory) *BillingHandler {
	return &BillingHandler{billing: billing}
}

type createInvoiceRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=Pendiente Pagado Vencido"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pagado Vencido"`
}

type listInvoicesResponse struct {
	Invoices []domain.Invoice `json:"invoices"`
}

// Create emits a new invoice for an account. Admin only.
//
// @Summary      Create invoice
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInvoiceRequest  true  "New invoice"
// @Success      201   {object}  domain.Invoice
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /facturas [post]
func (h *BillingHandler) Create(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invoice, err := h.billing.Create(c.Request().Context(), actor, req.UserID, req.Status, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

// Get returns one invoice by id. Clients only see their own.
//
// @Summary      Get invoice
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Invoice id"
// @Success      200  {object}  domain.Invoice
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /facturas/{id} [get]
func (h *BillingHandler) Get(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	invoice, err := h.billing.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// List returns invoices. Clients are pinned to their own scope; admins may
// filter any account with user_id.
//
// @Summary      List invoices
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query  string  false  "Filter by owner (admin only)"
// @Param        status   query  string  false  "Filter by status"
// @Success      200  {object}  listInvoicesResponse
// @Failure      403  {object}  map[string]string
// @Router       /facturas [get]
func (h *BillingHandler) List(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	invoices, err := h.billing.List(c.Request().Context(), actor, domain.InvoiceFilter{
		AccountID: c.QueryParam("user_id"),
		Status:    c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listInvoicesResponse{Invoices: invoices})
}

// UpdateStatus transitions an invoice to Pagado or Vencido. Admin only.
//
// @Summary      Update invoice status
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "Invoice id"
// @Param        body  body  updateInvoiceStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Invoice
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /facturas/{id} [patch]
func (h *BillingHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateInvoiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invoice, err := h.billing.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// Delete soft-deletes an invoice. Paid invoices cannot be deleted.
//
// @Summary      Delete invoice
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Invoice id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /facturas/{id} [delete]
func (h *BillingHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.billing.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Factura eliminada correctamente."})
}
