package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tharsan/event-booking-api/internal/model"
)

const userColumns = "id, username, email, password_hash, role, profile_image, reset_code, reset_code_expires_at, created_at, updated_at"

// UserRepo encapsulates all database queries related to users, including the
// password-reset code lifecycle.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.ProfileImage, &u.ResetCode, &u.ResetCodeExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with a local password and returns the stored row.
// Duplicate username/email violations surface as ErrUsernameExists or
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, role string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, passwordHash, role)
	if err != nil {
		return model.User{}, dupUserErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// CreateFederated inserts a user coming from Google sign-in: no password
// hash, role "user", optional profile image from the identity token.
func (r *UserRepo) CreateFederated(ctx context.Context, username, email string, profileImage *string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, role, profile_image) VALUES (?,?,?,?)",
		username, email, model.RoleUser, profileImage)
	if err != nil {
		return model.User{}, dupUserErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// dupUserErr maps a MySQL duplicate-key error (1062) onto the matching
// sentinel, using the key name to tell username and email apart.
func dupUserErr(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return err
	}
	if strings.Contains(msg, "username") {
		return ErrUsernameExists
	}
	return ErrEmailExists
}

// GetByUsername fetches a user by username; ErrUserNotFound when absent.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email; ErrUserNotFound when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id; ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users ordered by newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.ProfileImage, &u.ResetCode, &u.ResetCodeExpiresAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes a user; ErrUserNotFound when no row matched.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetResetCode stores a pending password-reset code and its expiry on the
// user row, overwriting any earlier pending code.
func (r *UserRepo) SetResetCode(ctx context.Context, userID uint64, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET reset_code=?, reset_code_expires_at=? WHERE id=?",
		code, expiresAt.UTC(), userID)
	return err
}

// ClearResetCode removes any pending reset code from the user row. Used as
// compensation when mail dispatch fails after the code was stored.
func (r *UserRepo) ClearResetCode(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET reset_code=NULL, reset_code_expires_at=NULL WHERE id=?", userID)
	return err
}

// GetByResetCode fetches the user holding a pending code. Expiry is checked
// by the caller; this is a plain lookup. ErrResetCodeInvalid when no match.
func (r *UserRepo) GetByResetCode(ctx context.Context, code string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_code=? LIMIT 1", code))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrResetCodeInvalid
	}
	return u, err
}

// ResetPassword sets the new password hash and clears the reset code in one
// statement. The WHERE clause re-checks the code so that two concurrent
// resets with the same code can only succeed once; a no-op update reports
// ErrResetCodeInvalid.
func (r *UserRepo) ResetPassword(ctx context.Context, userID uint64, code, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_code=NULL, reset_code_expires_at=NULL WHERE id=? AND reset_code=?",
		passwordHash, userID, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrResetCodeInvalid
	}
	return nil
}
