// Package queue defines message payloads exchanged over the message broker.
package queue

import "encoding/json"

// AuditQueueName is the durable queue carrying audit events from the
// request handlers to the background consumer.
const AuditQueueName = "library.audit"

// AuditEvent is published whenever a staff member registers a book or
// a borrower checks out or returns a copy. It carries enough context
// for the consumer to persist an audit row without querying the
// primary database.
type AuditEvent struct {
	EventID    string          `json:"event_id"`
	ActorID    string          `json:"actor_id"`
	Event      string          `json:"event"`
	Details    json.RawMessage `json:"details"`
	OccurredAt string          `json:"occurred_at"`
}
