package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tharsan/event-booking-api/internal/model"
)

const categoryColumns = "id, service_id, name, description, created_at, updated_at"

// CategoryRepo encapsulates all database queries related to categories. A
// category always references an existing service; the reference is enforced
// here before any write so an invalid service_id never reaches the table.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func scanCategory(row *sql.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.ServiceID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a category inside a transaction. The referenced service is
// checked first and ErrServiceNotFound rolls the whole unit back, so a failed
// check never leaves a partial insert behind.
func (r *CategoryRepo) Create(ctx context.Context, serviceID uint64, name string, description *string) (model.Category, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Category{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var svcID uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM services WHERE id=?", serviceID).Scan(&svcID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrServiceNotFound
		}
		return model.Category{}, err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO categories (service_id, name, description) VALUES (?,?,?)",
		serviceID, name, description)
	if err != nil {
		return model.Category{}, err
	}
	id, err2 := res.LastInsertId()
	if err2 != nil {
		err = err2
		return model.Category{}, err
	}

	var c model.Category
	c, err = scanCategory(tx.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id=?", id))
	if err != nil {
		return model.Category{}, err
	}
	if err = tx.Commit(); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// GetByID fetches a category by id; ErrCategoryNotFound when absent.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrCategoryNotFound
	}
	return c, err
}

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	return r.list(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY id")
}

// ListByService returns the categories belonging to one service.
func (r *CategoryRepo) ListByService(ctx context.Context, serviceID uint64) ([]model.Category, error) {
	return r.list(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE service_id=? ORDER BY id", serviceID)
}

func (r *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.ServiceID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update replaces the editable fields of a category. The category must exist
// (ErrCategoryNotFound) and the new service reference must resolve
// (ErrServiceNotFound).
func (r *CategoryRepo) Update(ctx context.Context, id, serviceID uint64, name string, description *string) (model.Category, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Category{}, err
	}
	var svcID uint64
	if err := r.db.QueryRowContext(ctx,
		"SELECT id FROM services WHERE id=?", serviceID).Scan(&svcID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, ErrServiceNotFound
		}
		return model.Category{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name=?, description=?, service_id=? WHERE id=?",
		name, description, serviceID, id); err != nil {
		return model.Category{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a category; ErrCategoryNotFound when no row matched.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
