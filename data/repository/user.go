package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/structs"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *structs.User) error
	FindByID(ctx context.Context, id string) (*structs.User, error)
	FindByEmail(ctx context.Context, email string) (*structs.User, error)
	FindByUsername(ctx context.Context, username string) (*structs.User, error)
	Update(ctx context.Context, user *structs.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string) error
}

type userRepository struct {
	d *data.Data
}

// NewUserRepository creates a user repository.
func NewUserRepository(d *data.Data) UserRepository {
	return &userRepository{d: d}
}

const userColumns = `id, email, username, full_name, password_hash, is_active, is_admin, created_at, updated_at, last_login`

func (r *userRepository) Create(ctx context.Context, user *structs.User) error {
	_, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		INSERT INTO users (id, email, username, full_name, password_hash, is_active, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		user.ID,
		user.Email,
		nullString(user.Username),
		nullString(user.FullName),
		user.PasswordHash,
		boolToInt(user.IsActive),
		boolToInt(user.IsAdmin),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*structs.User, error) {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		SELECT `+userColumns+` FROM users WHERE id = ?
	`), id)
	return scanUser(row)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*structs.User, error) {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		SELECT `+userColumns+` FROM users WHERE email = ?
	`), email)
	return scanUser(row)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*structs.User, error) {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		SELECT `+userColumns+` FROM users WHERE username = ?
	`), username)
	return scanUser(row)
}

func (r *userRepository) Update(ctx context.Context, user *structs.User) error {
	res, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		UPDATE users SET username = ?, full_name = ?, updated_at = ? WHERE id = ?
	`),
		nullString(user.Username),
		nullString(user.FullName),
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
	`), passwordHash, formatTime(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRow(res)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		UPDATE users SET last_login = ? WHERE id = ?
	`), formatTime(nowUTC()), id)
	return err
}

func scanUser(row *sql.Row) (*structs.User, error) {
	var (
		user      structs.User
		username  sql.NullString
		fullName  sql.NullString
		isActive  int
		isAdmin   int
		createdAt string
		updatedAt string
		lastLogin sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&username,
		&fullName,
		&user.PasswordHash,
		&isActive,
		&isAdmin,
		&createdAt,
		&updatedAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}

	user.Username = username.String
	user.FullName = fullName.String
	user.IsActive = isActive != 0
	user.IsAdmin = isAdmin != 0
	user.CreatedAt = parseTime(createdAt)
	user.UpdatedAt = parseTime(updatedAt)
	user.LastLogin = parseNullTime(lastLogin)
	return &user, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
