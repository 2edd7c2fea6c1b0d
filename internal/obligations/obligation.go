// Package obligations tracks fulfillment of the compliance obligations that
// apply to each registered system. The obligation set itself comes from the
// risk tables; this package only stores per-system status.
package obligations

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/risk"
)

// Status is a fulfillment label. Labels carry no transition rules.
type Status string

const (
	StatusNotStarted  Status = "NOT_STARTED"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusCompleted   Status = "COMPLETED"
	StatusOverdue     Status = "OVERDUE"
)

// Statuses lists every fulfillment label.
var Statuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusUnderReview,
	StatusCompleted,
	StatusOverdue,
}

// ParseStatus parses a label case-insensitively, accepting "-" and " " for "_".
func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))))
	for _, status := range Statuses {
		if v == status {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

const dateLayout = "2006-01-02"

// SystemObligation is one obligation tracked against one system.
type SystemObligation struct {
	ID           uuid.UUID         `json:"id"`
	SystemID     uuid.UUID         `json:"system_id"`
	ObligationID string            `json:"obligation_id"`
	Title        string            `json:"title"`
	Article      string            `json:"article"`
	Description  string            `json:"description"`
	Priority     risk.Priority     `json:"priority"`
	Jurisdiction risk.Jurisdiction `json:"jurisdiction"`
	Status       Status            `json:"status"`
	Assignee     *string           `json:"assignee"`
	DueDate      *time.Time        `json:"due_date"`
	Notes        string            `json:"notes"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// UpdateCommand changes tracking fields. Nil fields are left unchanged;
// an empty Assignee or DueDate clears it.
type UpdateCommand struct {
	Status   *string `json:"status,omitempty"`
	Assignee *string `json:"assignee,omitempty"`
	DueDate  *string `json:"due_date,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Apply writes the set fields onto o.
func (c *UpdateCommand) Apply(o *SystemObligation) error {
	if c.Status != nil {
		status, err := ParseStatus(*c.Status)
		if err != nil {
			return err
		}
		o.Status = status
	}
	if c.Assignee != nil {
		if a := strings.TrimSpace(*c.Assignee); a != "" {
			o.Assignee = &a
		} else {
			o.Assignee = nil
		}
	}
	if c.DueDate != nil {
		if *c.DueDate == "" {
			o.DueDate = nil
		} else {
			d, err := time.Parse(dateLayout, *c.DueDate)
			if err != nil {
				return fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrInvalidInput)
			}
			o.DueDate = &d
		}
	}
	if c.Notes != nil {
		o.Notes = *c.Notes
	}
	return nil
}

// FromResult returns every obligation a classification imposes:
// the tier's EU obligations followed by any Colorado obligations.
func FromResult(r risk.Result) []risk.Obligation {
	out := make([]risk.Obligation, 0, len(r.Obligations)+len(r.Colorado.Obligations))
	out = append(out, r.Obligations...)
	if r.Colorado.Applicable {
		out = append(out, r.Colorado.Obligations...)
	}
	return out
}

// Progress summarizes fulfillment across a set of tracked obligations.
type Progress struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	Percent  int            `json:"percent"`
}

// Summarize counts obligations by status. Percent is the rounded share of
// COMPLETED obligations; an empty set is 0.
func Summarize(items []SystemObligation) Progress {
	p := Progress{Total: len(items), ByStatus: make(map[Status]int, len(Statuses))}
	for _, s := range Statuses {
		p.ByStatus[s] = 0
	}
	for _, o := range items {
		p.ByStatus[o.Status]++
	}
	if p.Total > 0 {
		p.Percent = (200*p.ByStatus[StatusCompleted] + p.Total) / (2 * p.Total)
	}
	return p
}
