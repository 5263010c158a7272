package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tablebook/restaurant-reservation/internal/model"
)

// UserRepo provides persistence for application users.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, first_name, last_name, email, phone, password_hash, role, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID.  Email and password hash
// may be nil for phone-only guest accounts.  Duplicate phone or email
// values map to ErrPhoneExists / ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, firstName *string, lastName string, email *string, phone string, passwordHash *string, role string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, phone, password_hash, role) VALUES (?,?,?,?,?,?)`,
		firstName, lastName, email, phone, passwordHash, role)
	if err != nil {
		// MySQL 1062 = duplicate entry; the index name tells which column.
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "phone") {
				return 0, ErrPhoneExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email))
}

// GetByID fetches a user by primary key.  Returns ErrUserNotFound when
// the id does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// ListAll returns every user, for the admin overview.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
			&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SelectableUser is the minimal shape used by the admin booking form
// to pick a guest.
type SelectableUser struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ListSelectable returns id and display name for every guest account.
// The display name is "first last" trimmed, falling back to the last
// name alone when no first name is set.
func (r *UserRepo) ListSelectable(ctx context.Context) ([]SelectableUser, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, first_name, last_name FROM users WHERE role = ? ORDER BY id`, model.RoleGuest)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SelectableUser, 0)
	for rows.Next() {
		var (
			id    uint64
			first sql.NullString
			last  string
		)
		if err := rows.Scan(&id, &first, &last); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(strings.TrimSpace(first.String) + " " + last)
		if name == "" {
			name = last
		}
		out = append(out, SelectableUser{ID: id, Name: name})
	}
	return out, rows.Err()
}

// Update persists the mutable profile fields of a user.  Callers load
// the row first, merge the requested changes and pass the result here.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, email = ?, password_hash = ?, role = ? WHERE id = ?`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.ID)
	return err
}
