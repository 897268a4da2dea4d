package userservice

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/streamflow/platform/internal/clients/users"
	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/core/service"
	"github.com/streamflow/platform/internal/rpc"
)

// Handler translates the internal wire contract (defined next to the client
// in clients/users) into core service calls. The actor identity comes from
// the out-of-band headers via the request context; payload identity fields
// do not exist on this surface.
type Handler struct {
	svc *service.UserService
}

func NewHandler(svc *service.UserService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(c echo.Context) error {
	var req users.CreateRequest
	if err := c.Bind(&req); err != nil {
		return rpc.Errorf(rpc.CodeInvalidArgument, "invalid payload")
	}

	actor := rpc.IdentityFromContext(c.Request().Context())
	account, err := h.svc.Create(c.Request().Context(), actor, ports.CreateAccountInput{
		Name:            req.Name,
		Lastname:        req.Lastname,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

func (h *Handler) Get(c echo.Context) error {
	actor := rpc.IdentityFromContext(c.Request().Context())
	account, err := h.svc.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// GetCredentials is the hash-bearing lookup behind login. It serializes the
// one payload in the platform that carries a password hash; the type lives in
// the client package so the contract has a single definition.
func (h *Handler) GetCredentials(c echo.Context) error {
	account, err := h.svc.GetCredentials(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users.Credentials{
		ID:           account.ID,
		Name:         account.Name,
		Lastname:     account.Lastname,
		Email:        account.Email,
		Role:         account.Role,
		PasswordHash: account.PasswordHash,
	})
}

func (h *Handler) List(c echo.Context) error {
	filter := domain.AccountFilter{
		Role: c.QueryParam("role"),
		Name: c.QueryParam("name"),
	}
	filter.Page, _ = strconv.ParseInt(c.QueryParam("page"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	actor := rpc.IdentityFromContext(c.Request().Context())
	accounts, total, err := h.svc.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users.ListResponse{
		Users: accounts,
		Total: total,
		Page:  max64(filter.Page, 1),
		Limit: filter.Limit,
	})
}

func (h *Handler) Update(c echo.Context) error {
	var req users.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return rpc.Errorf(rpc.CodeInvalidArgument, "invalid payload")
	}

	actor := rpc.IdentityFromContext(c.Request().Context())
	account, err := h.svc.Update(c.Request().Context(), actor, c.Param("id"), domain.AccountUpdate{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

func (h *Handler) Delete(c echo.Context) error {
	actor := rpc.IdentityFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Usuario eliminado correctamente."})
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req users.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return rpc.Errorf(rpc.CodeInvalidArgument, "invalid payload")
	}

	actor := rpc.IdentityFromContext(c.Request().Context())
	if err := h.svc.ChangePassword(c.Request().Context(), actor, c.Param("id"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Contraseña actualizada."})
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
