package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tharsan/event-booking-api/internal/repository"
)

// CategoryHandler implements the admin-gated category CRUD endpoints.
// Categories always belong to a service, so writes validate the reference
// and report 400 when it does not resolve.
type CategoryHandler struct {
	Categories CategoryStore
	Services   ServiceStore
}

func NewCategoryHandler(categories CategoryStore, services ServiceStore) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Services: services}
}

type categoryReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ServiceID   uint64  `json:"service_id"`
}

// List returns all categories.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	categories, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, categories)
}

// Create inserts a category under an existing service. The store runs the
// reference check and the insert in one transaction, so an invalid
// service_id leaves nothing behind.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category name and service_id are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cat, err := h.Categories.Create(ctx, req.ServiceID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "service does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	s, err := h.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"service": s, "category": cat})
}

// Update replaces the editable fields of a category; the category must exist
// (404) and the new service reference must resolve (400).
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category name and service_id are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cat, err := h.Categories.Update(ctx, id, req.ServiceID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case errors.Is(err, repository.ErrServiceNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "service does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete removes a category by id; 404 when it does not exist.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted successfully"})
}
