package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tharsan/event-booking-api/internal/queue"
	"github.com/tharsan/event-booking-api/internal/repository"
)

// BookingHandler implements booking CRUD. Creation is open to any
// authenticated user; listing, editing and deletion sit behind the admin
// gate (wired by the router).
type BookingHandler struct {
	Bookings BookingStore
	Events   EventPublisher
	Logger   zerolog.Logger
}

func NewBookingHandler(bookings BookingStore, events EventPublisher, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Events: events, Logger: logger}
}

type bookingReq struct {
	Username        string `json:"username"`
	TelephoneNumber string `json:"telephone_number"`
	ServiceID       uint64 `json:"service_id"`
	CategoryID      uint64 `json:"category_id"`
	EventDate       string `json:"event_date"`
}

// parseEventDate accepts RFC 3339 timestamps or bare dates.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *BookingHandler) bindValid(c echo.Context) (bookingReq, time.Time, bool) {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return req, time.Time{}, false
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.TelephoneNumber) == "" ||
		req.ServiceID == 0 || req.CategoryID == 0 || strings.TrimSpace(req.EventDate) == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
		return req, time.Time{}, false
	}
	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_date"})
		return req, time.Time{}, false
	}
	return req, eventDate, true
}

// Create inserts a booking and publishes a booking.created event. The event
// is best-effort: a broker failure is logged, never surfaced to the client.
func (h *BookingHandler) Create(c echo.Context) error {
	req, eventDate, ok := h.bindValid(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Bookings.Create(ctx, req.Username, req.TelephoneNumber, req.ServiceID, req.CategoryID, eventDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	if h.Events != nil {
		ev := queue.BookingCreatedEvent{
			BookingID:       b.ID,
			Username:        b.Username,
			TelephoneNumber: b.TelephoneNumber,
			ServiceID:       b.ServiceID,
			CategoryID:      b.CategoryID,
			EventDate:       b.EventDate.Format(time.RFC3339),
			CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		}
		if err := h.Events.PublishBookingCreated(ctx, ev); err != nil {
			h.Logger.Warn().Err(err).Uint64("booking_id", b.ID).Msg("booking event publish failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "booking created successfully", "booking": b})
}

// List returns every booking with denormalized service and category names.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	bookings, err := h.Bookings.ListDetailed(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// GetByID returns one booking or 404.
func (h *BookingHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Update fully replaces the editable fields of a booking; 404 when absent.
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	req, eventDate, ok := h.bindValid(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Bookings.Update(ctx, id, req.Username, req.TelephoneNumber, req.ServiceID, req.CategoryID, eventDate)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking updated successfully", "booking": b})
}

// Delete removes a booking by id; 404 when it does not exist.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted successfully"})
}
