package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/gateway/middleware"
)

type UserHandler struct {
	users ports.UserDirectory
}

func NewUserHandler(users ports.UserDirectory) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Nombre               string `json:"nombre" validate:"required"`
	Apellido             string `json:"apellido" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	ConfirmacionPassword string `json:"confirmacion_password" validate:"required,eqfield=Password"`
	Rol                  string `json:"rol" validate:"omitempty,oneof=admin client"`
}

type updateUserRequest struct {
	Nombre   *string `json:"nombre"`
	Apellido *string `json:"apellido"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Rol      *string `json:"rol" validate:"omitempty,oneof=admin client"`
}

type listUsersResponse struct {
	Users []domain.Account `json:"users"`
	Total int64            `json:"total"`
	Page  int64            `json:"page"`
	Limit int64            `json:"limit"`
}

// Create registers a new account. Anonymous callers can only register
// clients; an authenticated admin may assign any role.
//
// @Summary      Register user
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New account"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /usuarios [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := middleware.Identity(c)
	user, err := h.users.Create(c.Request().Context(), actor, ports.CreateAccountInput{
		Name:            req.Nombre,
		Lastname:        req.Apellido,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmacionPassword,
		Role:            req.Rol,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Get returns one account by id.
//
// @Summary      Get user
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  domain.Account
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /usuarios/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List returns a page of accounts. Admin only.
//
// @Summary      List users
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        rol     query  string  false  "Filter by role"
// @Param        nombre  query  string  false  "Filter by name"
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  map[string]string
// @Router       /usuarios [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	filter := domain.AccountFilter{
		Role:  c.QueryParam("rol"),
		Name:  c.QueryParam("nombre"),
		Page:  queryInt64(c, "page"),
		Limit: queryInt64(c, "limit"),
	}

	users, total, err := h.users.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Users: users,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Update modifies an account. Owners can edit their own data; only
// admins can reassign roles.
//
// @Summary      Update user
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "User id"
// @Param        body  body  updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.Account
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /usuarios/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Update(c.Request().Context(), actor, c.Param("id"), domain.AccountUpdate{
		Name:     req.Nombre,
		Lastname: req.Apellido,
		Email:    req.Email,
		Role:     req.Rol,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete soft-deletes an account. Admin only.
//
// @Summary      Delete user
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /usuarios/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Usuario eliminado correctamente."})
}

func queryInt64(c echo.Context, name string) int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
