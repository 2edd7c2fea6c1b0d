// Package audit records and queries the append-only audit log.
// Writes go through a Queue: callers enqueue without blocking and a single
// worker goroutine persists entries in order.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the domain systems.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionClassify = "classify"
	ActionValidate = "validate"
	ActionSync     = "sync"
	ActionGenerate = "generate"
	ActionEdit     = "edit"
	ActionExport   = "export"
	ActionAssess   = "assess"
)

// Entry is a persisted audit log row.
type Entry struct {
	ID           uuid.UUID       `json:"id"`
	Actor        string          `json:"actor"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id"`
	Details      json.RawMessage `json:"details"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Record is an audit event waiting to be written.
// Details is marshaled to JSON when the entry is persisted.
type Record struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	Details      any
}
