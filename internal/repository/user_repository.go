package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/library-service/internal/model"
	"github.com/library-service/internal/utils"
)

// UserRepo provides access to the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The password is hashed
// here and the library card number is generated; staff/superuser
// flags are only ever set by the bootstrap seeding.
func (r *UserRepo) Create(ctx context.Context, fullName, email, password string, staff, super bool) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password)
	if err != nil {
		return 0, err
	}
	card, err := model.NewCardNumber()
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, password, card_number, is_active, is_staff, is_superuser) VALUES (?,?,?,?,?,?,?)",
		fullName, email, hash, card, true, staff, super)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicateUser
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email. sql.ErrNoRows is
// passed through so callers can decide how a missing account surfaces.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,full_name,email,password,card_number,is_active,is_staff,is_superuser,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.CardNumber,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
