package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hireline/internal/domain"
)

// Step types are tenant-scoped: every lookup matches on both id and client_id,
// so a type owned by another client is indistinguishable from a missing one.

func (r Repo) InsertStepType(ctx context.Context, st domain.StepType) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO interview_step_types(id,client_id,name,created_at) VALUES (?,?,?,?)`,
		st.ID, st.ClientID, st.Name, st.CreatedAt)
	return err
}

func (r Repo) GetStepType(ctx context.Context, id, clientID string) (domain.StepType, error) {
	var st domain.StepType
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,client_id,name,created_at FROM interview_step_types WHERE id=? AND client_id=?`, id, clientID).
		Scan(&st.ID, &st.ClientID, &st.Name, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return st, ErrNotFound
	}
	return st, err
}

func (r Repo) ListStepTypes(ctx context.Context, clientID string) ([]domain.StepType, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,client_id,name,created_at FROM interview_step_types WHERE client_id=? ORDER BY created_at ASC, id ASC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.StepType
	for rows.Next() {
		var st domain.StepType
		if err := rows.Scan(&st.ID, &st.ClientID, &st.Name, &st.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// StepTypeUpdate carries the optional step-type fields.
type StepTypeUpdate struct {
	Name     *string
	ClientID *string
}

func (r Repo) UpdateStepType(ctx context.Context, id, clientID string, u StepTypeUpdate) error {
	var (
		fields []string
		args   []any
	)
	if u.Name != nil {
		fields = append(fields, "name=?")
		args = append(args, *u.Name)
	}
	if u.ClientID != nil {
		fields = append(fields, "client_id=?")
		args = append(args, *u.ClientID)
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id, clientID)
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE interview_step_types SET %s WHERE id=? AND client_id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteStepType(ctx context.Context, id, clientID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM interview_step_types WHERE id=? AND client_id=?`, id, clientID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- interview steps ---

func (r Repo) InsertStep(ctx context.Context, s domain.Step) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO interview_steps(id,position_id,sequence_number,name,type_id,original_assignment_id,scheduling_link,email_template,created_at)
VALUES (?,?,?,?,?,?,?,?,?)`,
		s.ID, s.PositionID, s.SequenceNumber, s.Name, s.TypeID,
		nullableStringPtr(s.OriginalAssignmentID), nullableStringPtr(s.SchedulingLink), nullableStringPtr(s.EmailTemplate), s.CreatedAt)
	return err
}

const stepCols = `id,position_id,sequence_number,name,type_id,original_assignment_id,scheduling_link,email_template,created_at`

func scanStep(scan func(dest ...any) error) (domain.Step, error) {
	var s domain.Step
	var assignment, link, tmpl sql.NullString
	err := scan(&s.ID, &s.PositionID, &s.SequenceNumber, &s.Name, &s.TypeID, &assignment, &link, &tmpl, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	if assignment.Valid {
		s.OriginalAssignmentID = &assignment.String
	}
	if link.Valid {
		s.SchedulingLink = &link.String
	}
	if tmpl.Valid {
		s.EmailTemplate = &tmpl.String
	}
	return s, nil
}

func (r Repo) GetStep(ctx context.Context, id string) (domain.Step, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+stepCols+` FROM interview_steps WHERE id=?`, id)
	return scanStep(row.Scan)
}

// ListStepsForPosition returns the pipeline in sequence order. Gaps in the
// numbering are legal; ordering is whatever the caller assigned.
func (r Repo) ListStepsForPosition(ctx context.Context, positionID string) ([]domain.Step, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+stepCols+` FROM interview_steps WHERE position_id=? ORDER BY sequence_number ASC`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Step
	for rows.Next() {
		s, err := scanStep(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// StepUpdate carries the optional step fields. Pointer-to-empty clears a
// nullable column; nil leaves it untouched.
type StepUpdate struct {
	SequenceNumber       *int
	Name                 *string
	TypeID               *string
	OriginalAssignmentID *string
	SchedulingLink       *string
	EmailTemplate        *string
}

func (r Repo) UpdateStep(ctx context.Context, id string, u StepUpdate) error {
	var (
		fields []string
		args   []any
	)
	if u.SequenceNumber != nil {
		fields = append(fields, "sequence_number=?")
		args = append(args, *u.SequenceNumber)
	}
	if u.Name != nil {
		fields = append(fields, "name=?")
		args = append(args, *u.Name)
	}
	if u.TypeID != nil {
		fields = append(fields, "type_id=?")
		args = append(args, *u.TypeID)
	}
	if u.OriginalAssignmentID != nil {
		fields = append(fields, "original_assignment_id=?")
		args = append(args, nullable(*u.OriginalAssignmentID))
	}
	if u.SchedulingLink != nil {
		fields = append(fields, "scheduling_link=?")
		args = append(args, nullable(*u.SchedulingLink))
	}
	if u.EmailTemplate != nil {
		fields = append(fields, "email_template=?")
		args = append(args, nullable(*u.EmailTemplate))
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE interview_steps SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteStep(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM interview_steps WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
