package model

import "time"

// User represents a borrower or staff account as stored in the
// `users` table.  The password is kept only as an argon2id hash.
// Staff and superuser flags are never set through sign-up; they are
// granted by the bootstrap seeding.
//
// Fields:
//  ID           – primary key identifier.
//  FullName     – display name of the account holder.
//  Email        – unique email address, the token subject.
//  PasswordHash – argon2id encoded password hash.
//  CardNumber   – unique generated library card number (LB-XX-NNNNNNNN).
//  IsActive     – whether the account may use the API.
//  IsStaff      – whether the account may perform staff operations.
//  IsSuperuser  – whether the account is the seeded administrator.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FullName     string    // users.full_name
	Email        string    // users.email
	PasswordHash string    // users.password
	CardNumber   string    // users.card_number
	IsActive     bool      // users.is_active
	IsStaff      bool      // users.is_staff
	IsSuperuser  bool      // users.is_superuser
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
