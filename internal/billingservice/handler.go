package billingservice

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamflow/platform/internal/clients/billing"
	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/service"
	"github.com/streamflow/platform/internal/rpc"
)

// Handler translates the internal invoice wire contract into core service
// calls. Identity comes only from the out-of-band headers.
type Handler struct {
	svc *service.BillingService
}

func NewHandler(svc *service.BillingService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(c echo.Context) error {
	var req billing.CreateRequest
	if err := c.Bind(&req); err != nil {
		return rpc.Errorf(rpc.CodeInvalidArgument, "invalid payload")
	}

	actor := rpc.IdentityFromContext(c.Request().Context())
	invoice, err := h.svc.Create(c.Request().Context(), actor, req.AccountID, req.Status, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

func (h *Handler) Get(c echo.Context) error {
	actor := rpc.IdentityFromContext(c.Request().Context())
	invoice, err := h.svc.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

func (h *Handler) List(c echo.Context) error {
	filter := domain.InvoiceFilter{
		AccountID: c.QueryParam("user_id"),
		Status:    c.QueryParam("status"),
	}

	actor := rpc.IdentityFromContext(c.Request().Context())
	invoices, err := h.svc.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, billing.ListResponse{Invoices: invoices})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req billing.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return rpc.Errorf(rpc.CodeInvalidArgument, "invalid payload")
	}

	actor := rpc.IdentityFromContext(c.Request().Context())
	invoice, err := h.svc.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

func (h *Handler) Delete(c echo.Context) error {
	actor := rpc.IdentityFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Factura eliminada correctamente."})
}
