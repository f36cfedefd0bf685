package model

import "time"

// Booking records a customer's request for a service/category on a date.
type Booking struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username"`
	TelephoneNumber string    `json:"telephone_number"`
	ServiceID       uint64    `json:"service_id"`
	CategoryID      uint64    `json:"category_id"`
	EventDate       time.Time `json:"event_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookingDetail is the denormalized listing row: the booking joined with the
// names of its category and the category's service.
type BookingDetail struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username"`
	TelephoneNumber string    `json:"telephone_number"`
	EventDate       time.Time `json:"event_date"`
	ServiceName     *string   `json:"service_name"`
	CategoryName    *string   `json:"category_name"`
}
