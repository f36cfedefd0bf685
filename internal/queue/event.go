// Package queue publishes and consumes booking domain events over RabbitMQ.
package queue

// BookingQueueName is the durable queue carrying booking.created events.
const BookingQueueName = "booking.created"

// BookingCreatedEvent is published when a booking is successfully created.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	Username        string `json:"username"`
	TelephoneNumber string `json:"telephone_number"`
	ServiceID       uint64 `json:"service_id"`
	CategoryID      uint64 `json:"category_id"`
	EventDate       string `json:"event_date"`
	CreatedAt       string `json:"created_at"`
}
