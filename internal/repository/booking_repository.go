package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tharsan/event-booking-api/internal/model"
)

const bookingColumns = "id, username, telephone_number, service_id, category_id, event_date, created_at, updated_at"

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

func scanBooking(row *sql.Row) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.Username, &b.TelephoneNumber, &b.ServiceID,
		&b.CategoryID, &b.EventDate, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Create inserts a booking and returns the stored row.
func (r *BookingRepo) Create(ctx context.Context, username, telephone string, serviceID, categoryID uint64, eventDate time.Time) (model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bookings (username, telephone_number, service_id, category_id, event_date) VALUES (?,?,?,?,?)",
		username, telephone, serviceID, categoryID, eventDate.UTC())
	if err != nil {
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a booking by id; ErrBookingNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListDetailed returns every booking joined with its category and service
// names for display. LEFT JOINs keep bookings visible even when the
// referenced category or service has since been deleted.
func (r *BookingRepo) ListDetailed(ctx context.Context) ([]model.BookingDetail, error) {
	const q = `SELECT b.id, b.username, b.telephone_number, b.event_date,
	                  s.name AS service_name, c.name AS category_name
	           FROM bookings b
	           LEFT JOIN categories c ON b.category_id = c.id
	           LEFT JOIN services s ON c.service_id = s.id
	           ORDER BY b.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingDetail
	for rows.Next() {
		var d model.BookingDetail
		if err := rows.Scan(&d.ID, &d.Username, &d.TelephoneNumber, &d.EventDate,
			&d.ServiceName, &d.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update replaces the editable fields of a booking. ErrBookingNotFound when
// the row is absent.
func (r *BookingRepo) Update(ctx context.Context, id uint64, username, telephone string, serviceID, categoryID uint64, eventDate time.Time) (model.Booking, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Booking{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET username=?, telephone_number=?, service_id=?, category_id=?, event_date=? WHERE id=?",
		username, telephone, serviceID, categoryID, eventDate.UTC(), id); err != nil {
		return model.Booking{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a booking; ErrBookingNotFound when no row matched.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
