// Package bootstrap contains startup tasks that run once before the
// server accepts traffic.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"

	"github.com/library-service/internal/config"
	"github.com/library-service/internal/repository"
)

// EnsureSuperuser seeds the administrator account from ADMIN_EMAIL /
// ADMIN_PASSWORD. The seeded account carries the staff and superuser
// flags, which no API path can grant. The call is idempotent: an
// existing account is left untouched, and a duplicate-key race with a
// concurrently booting instance counts as success.
func EnsureSuperuser(ctx context.Context, cfg config.Config, users *repository.UserRepo) error {
	_, err := users.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = users.Create(ctx, "Library Administrator", cfg.AdminEmail, cfg.AdminPassword, true, true)
	if errors.Is(err, repository.ErrDuplicateUser) {
		return nil
	}
	return err
}
