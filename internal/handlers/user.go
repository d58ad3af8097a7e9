package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Grzafnan/nest-server/internal/apperror"
	"github.com/Grzafnan/nest-server/internal/logging"
	"github.com/Grzafnan/nest-server/internal/repo"
	"github.com/Grzafnan/nest-server/internal/service"
)

type UserHTTP struct {
	Svc *service.UserService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func userIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid user id!")
	}
	return id, nil
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_create")

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return apperror.BadRequest("invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return err
	}

	user, err := h.Svc.Create(ctx, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return sendResponse(c, http.StatusCreated, "User created successfully!", user.Public())
}

func (h *UserHTTP) FindAll(c echo.Context) error {
	ctx := c.Request().Context()

	params := repo.ListParams{
		SearchTerm: c.QueryParam("searchTerm"),
		Name:       c.QueryParam("name"),
		Email:      c.QueryParam("email"),
		Role:       c.QueryParam("role"),
		Page:       parseIntDefault(c.QueryParam("page"), 1),
		Limit:      parseIntDefault(c.QueryParam("limit"), 10),
		SortBy:     c.QueryParam("sortBy"),
		SortOrder:  c.QueryParam("sortOrder"),
	}

	users, meta, err := h.Svc.FindAll(ctx, params)
	if err != nil {
		return err
	}

	return sendResponse(c, http.StatusOK, "Users retrieved successfully!", echo.Map{
		"meta": meta,
		"data": users,
	})
}

func (h *UserHTTP) FindOne(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return sendResponse(c, http.StatusOK, "User retrieved successfully!", user.Public())
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_update")

	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_error", "status", 400, "error", err)
		return apperror.BadRequest("invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("update_error", "status", 400, "error", err)
		return err
	}

	user, err := h.Svc.Update(ctx, id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return sendResponse(c, http.StatusOK, "User updated successfully!", user.Public())
}

func (h *UserHTTP) Delete(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.Remove(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return sendResponse(c, http.StatusOK, "User deleted successfully!", user.Public())
}
