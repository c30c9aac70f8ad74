package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hireline/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	if *v == "" {
		return nil
	}
	return *v
}

// --- candidates ---

func (r Repo) InsertCandidate(ctx context.Context, tx *sql.Tx, c domain.Candidate) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO candidates(id,name,email,resume_link,created_at) VALUES (?,?,?,?,?)`,
		c.ID, c.Name, c.Email, nullableStringPtr(c.ResumeLink), c.CreatedAt)
	return err
}

func scanCandidate(row *sql.Row) (domain.Candidate, error) {
	var c domain.Candidate
	var resume sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Email, &resume, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	if resume.Valid {
		c.ResumeLink = &resume.String
	}
	return c, err
}

func (r Repo) GetCandidate(ctx context.Context, id string) (domain.Candidate, error) {
	return scanCandidate(r.DB.QueryRowContext(ctx,
		`SELECT id,name,email,resume_link,created_at FROM candidates WHERE id=?`, id))
}

func (r Repo) GetCandidateByEmailTx(ctx context.Context, tx *sql.Tx, email string) (domain.Candidate, error) {
	return scanCandidate(tx.QueryRowContext(ctx,
		`SELECT id,name,email,resume_link,created_at FROM candidates WHERE email=?`, email))
}

// --- applications ---

func (r Repo) InsertApplication(ctx context.Context, tx *sql.Tx, a domain.Application) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO candidate_applications(id,candidate_id,position_id,status,status_updated_at,client_notified_at,current_interview_step_id,created_at)
VALUES (?,?,?,?,?,?,?,?)`,
		a.ID, a.CandidateID, a.PositionID, a.Status, a.StatusUpdatedAt,
		nullableStringPtr(a.ClientNotifiedAt), nullableStringPtr(a.CurrentInterviewStepID), a.CreatedAt)
	return err
}

const applicationCols = `id,candidate_id,position_id,status,status_updated_at,client_notified_at,current_interview_step_id,created_at`

func scanApplication(scan func(dest ...any) error) (domain.Application, error) {
	var a domain.Application
	var notified, stepID sql.NullString
	err := scan(&a.ID, &a.CandidateID, &a.PositionID, &a.Status, &a.StatusUpdatedAt, &notified, &stepID, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if err != nil {
		return a, err
	}
	if notified.Valid {
		a.ClientNotifiedAt = &notified.String
	}
	if stepID.Valid {
		a.CurrentInterviewStepID = &stepID.String
	}
	return a, nil
}

func (r Repo) GetApplication(ctx context.Context, id string) (domain.Application, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+applicationCols+` FROM candidate_applications WHERE id=?`, id)
	return scanApplication(row.Scan)
}

func (r Repo) GetApplicationTx(ctx context.Context, tx *sql.Tx, id string) (domain.Application, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+applicationCols+` FROM candidate_applications WHERE id=?`, id)
	return scanApplication(row.Scan)
}

// FindApplicationTx looks up the application for one candidate on one
// position, used for the duplicate check inside the create transaction.
func (r Repo) FindApplicationTx(ctx context.Context, tx *sql.Tx, candidateID, positionID string) (domain.Application, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+applicationCols+` FROM candidate_applications WHERE candidate_id=? AND position_id=?`,
		candidateID, positionID)
	return scanApplication(row.Scan)
}

// ListApplicationsForPosition returns applications newest-created-first with
// their candidates attached.
func (r Repo) ListApplicationsForPosition(ctx context.Context, positionID string) ([]domain.Application, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT a.id,a.candidate_id,a.position_id,a.status,a.status_updated_at,a.client_notified_at,a.current_interview_step_id,a.created_at,
c.id,c.name,c.email,c.resume_link,c.created_at
FROM candidate_applications a JOIN candidates c ON c.id=a.candidate_id
WHERE a.position_id=? ORDER BY a.created_at DESC, a.id DESC`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Application
	for rows.Next() {
		var a domain.Application
		var c domain.Candidate
		var notified, stepID, resume sql.NullString
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.PositionID, &a.Status, &a.StatusUpdatedAt, &notified, &stepID, &a.CreatedAt,
			&c.ID, &c.Name, &c.Email, &resume, &c.CreatedAt); err != nil {
			return nil, err
		}
		if notified.Valid {
			a.ClientNotifiedAt = &notified.String
		}
		if stepID.Valid {
			a.CurrentInterviewStepID = &stepID.String
		}
		if resume.Valid {
			c.ResumeLink = &resume.String
		}
		a.Candidate = &c
		res = append(res, a)
	}
	return res, rows.Err()
}

// ApplicationUpdate carries the partial update applied to an application row.
// A nil field is left untouched; a pointer to "" clears a nullable column.
type ApplicationUpdate struct {
	Status                 string
	StatusUpdatedAt        string
	ClientNotifiedAt       *string
	CurrentInterviewStepID *string
}

func (r Repo) UpdateApplication(ctx context.Context, tx *sql.Tx, id string, u ApplicationUpdate) error {
	var (
		fields []string
		args   []any
	)
	if u.Status != "" {
		fields = append(fields, "status=?")
		args = append(args, u.Status)
	}
	if u.StatusUpdatedAt != "" {
		fields = append(fields, "status_updated_at=?")
		args = append(args, u.StatusUpdatedAt)
	}
	if u.ClientNotifiedAt != nil {
		fields = append(fields, "client_notified_at=?")
		args = append(args, nullable(*u.ClientNotifiedAt))
	}
	if u.CurrentInterviewStepID != nil {
		fields = append(fields, "current_interview_step_id=?")
		args = append(args, nullable(*u.CurrentInterviewStepID))
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE candidate_applications SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApplicationEvents removes the journal rows for an application. Runs
// before the row delete; the caller's transaction makes the pair atomic.
func (r Repo) DeleteApplicationEvents(ctx context.Context, tx *sql.Tx, applicationID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM interview_events WHERE candidate_application_id=?`, applicationID)
	return err
}

func (r Repo) DeleteApplication(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM candidate_applications WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- interview events ---

// ListEventsForApplication returns the journal newest-first.
func (r Repo) ListEventsForApplication(ctx context.Context, applicationID string) ([]domain.InterviewEvent, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,candidate_application_id,event_name,details_json,created_at FROM interview_events
WHERE candidate_application_id=? ORDER BY created_at DESC, id DESC`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.InterviewEvent
	for rows.Next() {
		var e domain.InterviewEvent
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.EventName, &e.DetailsJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// LatestEvents tails the journal across applications, optionally filtered.
func (r Repo) LatestEvents(ctx context.Context, limit int, applicationID, eventName string) ([]domain.InterviewEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	clauses := []string{"1=1"}
	var args []any
	if applicationID != "" {
		clauses = append(clauses, "candidate_application_id=?")
		args = append(args, applicationID)
	}
	if eventName != "" {
		clauses = append(clauses, "event_name=?")
		args = append(args, eventName)
	}
	query := `SELECT id,candidate_application_id,event_name,details_json,created_at FROM interview_events WHERE ` +
		strings.Join(clauses, " AND ") + ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.InterviewEvent
	for rows.Next() {
		var e domain.InterviewEvent
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.EventName, &e.DetailsJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
