package model

import "time"

// Service is a bookable line of work (e.g. corporate, family, television).
type Service struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category is a package offered under a service. Creating or editing one
// requires the referenced service to exist.
type Category struct {
	ID          uint64    `json:"id"`
	ServiceID   uint64    `json:"service_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
