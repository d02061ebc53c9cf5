package domain

import "time"

// Audit actions recorded for staff mutations performed through the console.
const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionBulkDelete = "bulk_delete"
)

// AuditEntry records a single staff mutation: who did what to which rows of
// which collection. Entries are append-only.
type AuditEntry struct {
	ID         string    `json:"id" bson:"_id"`
	ActorID    string    `json:"actor_id" bson:"actor_id"`
	ActorEmail string    `json:"actor_email" bson:"actor_email"`
	Action     string    `json:"action" bson:"action"`
	Collection string    `json:"collection" bson:"collection"`
	RowIDs     []string  `json:"row_ids" bson:"row_ids"`
	Detail     string    `json:"detail,omitempty" bson:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
