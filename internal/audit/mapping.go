package audit

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_log", "a").
	Project("id", "ID").
	Project("actor", "Actor").
	Project("action", "Action").
	Project("resource_type", "ResourceType").
	Project("resource_id", "ResourceID").
	Project("details", "Details").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional criteria for audit queries. Since is inclusive
// and Until exclusive.
type Filters struct {
	Actor        *string    `json:"actor,omitempty"`
	Action       *string    `json:"action,omitempty"`
	ResourceType *string    `json:"resource_type,omitempty"`
	ResourceID   *string    `json:"resource_id,omitempty"`
	Since        *time.Time `json:"since,omitempty"`
	Until        *time.Time `json:"until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Actor", f.Actor).
		WhereEquals("Action", f.Action).
		WhereEquals("ResourceType", f.ResourceType).
		WhereEquals("ResourceID", f.ResourceID).
		WhereCompare("CreatedAt", ">=", f.Since).
		WhereCompare("CreatedAt", "<", f.Until)
}

// Validate rejects a window that closes before it opens.
func (f Filters) Validate() error {
	if f.Since != nil && f.Until != nil && !f.Until.After(*f.Since) {
		return fmt.Errorf("%w: until must be after since", ErrInvalidRange)
	}
	return nil
}

// FiltersFromQuery extracts filter values from URL query parameters.
// since and until must be RFC 3339 timestamps.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if v := values.Get("actor"); v != "" {
		f.Actor = &v
	}
	if v := values.Get("action"); v != "" {
		f.Action = &v
	}
	if v := values.Get("resource_type"); v != "" {
		f.ResourceType = &v
	}
	if v := values.Get("resource_id"); v != "" {
		f.ResourceID = &v
	}

	var err error
	if f.Since, err = parseTime(values, "since"); err != nil {
		return f, err
	}
	if f.Until, err = parseTime(values, "until"); err != nil {
		return f, err
	}

	return f, f.Validate()
}

func parseTime(values url.Values, key string) (*time.Time, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRange, key, err)
	}
	return &t, nil
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	var details []byte

	err := s.Scan(
		&e.ID,
		&e.Actor,
		&e.Action,
		&e.ResourceType,
		&e.ResourceID,
		&details,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	e.Details = details
	return e, nil
}
