package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Event names recorded in the interview_events journal.
const (
	CandidateApplied = "CANDIDATE_APPLIED"
	StatusChanged    = "STATUS_CHANGED"
)

// CandidateAppliedDetails is the payload for CANDIDATE_APPLIED.
type CandidateAppliedDetails struct {
	Notes string `json:"notes"`
}

// StatusChangedDetails is the payload for STATUS_CHANGED.
type StatusChangedDetails struct {
	Notes     string `json:"notes"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

// Writer appends interview events inside the caller's transaction. The journal
// is append-only; rows are removed only when the owning application is deleted.
type Writer struct {
	Now func() time.Time
}

// Append validates that the details type matches the event name, then inserts
// the event. A mismatched payload is rejected before anything is written.
func (w Writer) Append(ctx context.Context, tx *sql.Tx, applicationID, eventName string, details any) error {
	if err := checkDetails(eventName, details); err != nil {
		return err
	}
	now := w.Now
	if now == nil {
		now = time.Now
	}
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal event details: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO interview_events(candidate_application_id,event_name,details_json,created_at) VALUES (?,?,?,?)`,
		applicationID, eventName, string(data), now().UTC().Format(time.RFC3339))
	return err
}

func checkDetails(eventName string, details any) error {
	switch eventName {
	case CandidateApplied:
		if _, ok := details.(CandidateAppliedDetails); ok {
			return nil
		}
	case StatusChanged:
		if _, ok := details.(StatusChangedDetails); ok {
			return nil
		}
	default:
		return fmt.Errorf("unknown event name %q", eventName)
	}
	return fmt.Errorf("details payload does not match event %s", eventName)
}
