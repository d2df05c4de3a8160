package model

import "time"

// Audit event kinds recorded in the `audit` table.
const (
	EventCreateBook = "create_book"
	EventCheckout   = "checkout"
	EventReturn     = "return"
)

// AuditEntry is one row of the `audit` table.  Entries are not
// written inline by handlers; they arrive through the audit queue
// and are persisted by the background consumer.
//
// Fields:
//  ID        – primary key identifier.
//  ActorID   – identifier of the acting user (card number or email).
//  Event     – one of the Event* constants.
//  Details   – JSON blob describing the action.
//  AuditedAt – when the entry was recorded.
type AuditEntry struct {
	ID        uint64    // audit.id
	ActorID   string    // audit.actor_id
	Event     string    // audit.event
	Details   string    // audit.details (JSON)
	AuditedAt time.Time // audit.audited_at
}
