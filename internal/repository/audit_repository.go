package repository

import (
	"context"
	"database/sql"
)

// AuditRepo writes rows into the audit table. Entries arrive via the
// audit queue consumer rather than inline from request handlers, so a
// slow audit write never sits inside a lending transaction.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Insert records one audit entry. details must be a JSON document.
func (r *AuditRepo) Insert(ctx context.Context, actorID, event, details string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit (actor_id, event, details) VALUES (?,?,?)",
		actorID, event, details)
	return err
}
