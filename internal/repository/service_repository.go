package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tharsan/event-booking-api/internal/model"
)

const serviceColumns = "id, name, description, created_at, updated_at"

// ServiceRepo encapsulates all database queries related to services.
type ServiceRepo struct{ db *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

func scanService(row *sql.Row) (model.Service, error) {
	var s model.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a service and returns the stored row with its generated id
// and timestamps.
func (r *ServiceRepo) Create(ctx context.Context, name string, description *string) (model.Service, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO services (name, description) VALUES (?,?)", name, description)
	if err != nil {
		return model.Service{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Service{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a service by id; ErrServiceNotFound when absent.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	s, err := scanService(r.db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Service{}, ErrServiceNotFound
	}
	return s, err
}

// List returns all services ordered by id.
func (r *ServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+serviceColumns+" FROM services ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update replaces the editable fields of a service. ErrServiceNotFound when
// no row matched.
func (r *ServiceRepo) Update(ctx context.Context, id uint64, name string, description *string) (model.Service, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE services SET name=?, description=? WHERE id=?", name, description, id)
	if err != nil {
		return model.Service{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also 0 when the update was a no-op, so re-check.
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Service{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a service; ErrServiceNotFound when no row matched.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrServiceNotFound
	}
	return nil
}
