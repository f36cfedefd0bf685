// Package handler implements the HTTP surface. Handlers depend on narrow
// store interfaces rather than concrete repositories so tests can substitute
// in-memory fakes; the repository types satisfy them directly.
package handler

import (
	"context"
	"time"

	"github.com/tharsan/event-booking-api/internal/googleauth"
	"github.com/tharsan/event-booking-api/internal/model"
	"github.com/tharsan/event-booking-api/internal/queue"
)

// UserStore is the slice of UserRepo the auth and password-reset handlers use.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash, role string) (model.User, error)
	CreateFederated(ctx context.Context, username, email string, profileImage *string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint64) error
	SetResetCode(ctx context.Context, userID uint64, code string, expiresAt time.Time) error
	ClearResetCode(ctx context.Context, userID uint64) error
	GetByResetCode(ctx context.Context, code string) (model.User, error)
	ResetPassword(ctx context.Context, userID uint64, code, passwordHash string) error
}

// ServiceStore is the slice of ServiceRepo the service handler uses.
type ServiceStore interface {
	Create(ctx context.Context, name string, description *string) (model.Service, error)
	GetByID(ctx context.Context, id uint64) (model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
	Update(ctx context.Context, id uint64, name string, description *string) (model.Service, error)
	Delete(ctx context.Context, id uint64) error
}

// CategoryStore is the slice of CategoryRepo the category handler uses.
type CategoryStore interface {
	Create(ctx context.Context, serviceID uint64, name string, description *string) (model.Category, error)
	GetByID(ctx context.Context, id uint64) (model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	ListByService(ctx context.Context, serviceID uint64) ([]model.Category, error)
	Update(ctx context.Context, id, serviceID uint64, name string, description *string) (model.Category, error)
	Delete(ctx context.Context, id uint64) error
}

// BookingStore is the slice of BookingRepo the booking handler uses.
type BookingStore interface {
	Create(ctx context.Context, username, telephone string, serviceID, categoryID uint64, eventDate time.Time) (model.Booking, error)
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListDetailed(ctx context.Context) ([]model.BookingDetail, error)
	Update(ctx context.Context, id uint64, username, telephone string, serviceID, categoryID uint64, eventDate time.Time) (model.Booking, error)
	Delete(ctx context.Context, id uint64) error
}

// Mailer dispatches password-reset codes.
type Mailer interface {
	SendPasswordReset(to, code string) error
}

// GoogleVerifier validates a Google ID token and extracts the profile.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (googleauth.Profile, error)
}

// EventPublisher emits booking domain events.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}
