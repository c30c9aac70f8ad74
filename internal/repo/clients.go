package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hireline/internal/domain"
)

// Thin data access for the entities the core references by id. Their full
// lifecycle lives outside this service.

func (r Repo) InsertClient(ctx context.Context, c domain.Client) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO clients(id,name,created_at) VALUES (?,?,?)`,
		c.ID, c.Name, c.CreatedAt)
	return err
}

func (r Repo) GetClient(ctx context.Context, id string) (domain.Client, error) {
	var c domain.Client
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,created_at FROM clients WHERE id=?`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

func (r Repo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name,created_at FROM clients ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// SingleClient returns the only client row, or ErrNotFound when the table
// holds zero or several.
func (r Repo) SingleClient(ctx context.Context) (domain.Client, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name,created_at FROM clients LIMIT 2`)
	if err != nil {
		return domain.Client{}, err
	}
	defer rows.Close()
	var res []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return domain.Client{}, err
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return domain.Client{}, err
	}
	if len(res) != 1 {
		return domain.Client{}, ErrNotFound
	}
	return res[0], nil
}

// --- positions ---

func (r Repo) InsertPositionTx(ctx context.Context, tx *sql.Tx, p domain.Position) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO positions(id,client_id,title,description,status,created_at) VALUES (?,?,?,?,?,?)`,
		p.ID, p.ClientID, p.Title, nullable(p.Description), p.Status, p.CreatedAt)
	return err
}

func scanPosition(scan func(dest ...any) error) (domain.Position, error) {
	var p domain.Position
	var desc sql.NullString
	err := scan(&p.ID, &p.ClientID, &p.Title, &desc, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if desc.Valid {
		p.Description = desc.String
	}
	return p, err
}

func (r Repo) GetPosition(ctx context.Context, id string) (domain.Position, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,client_id,title,description,status,created_at FROM positions WHERE id=?`, id)
	return scanPosition(row.Scan)
}

func (r Repo) GetPositionTx(ctx context.Context, tx *sql.Tx, id string) (domain.Position, error) {
	row := tx.QueryRowContext(ctx, `SELECT id,client_id,title,description,status,created_at FROM positions WHERE id=?`, id)
	return scanPosition(row.Scan)
}

func (r Repo) ListPositions(ctx context.Context, clientID string) ([]domain.Position, error) {
	clauses := []string{"1=1"}
	var args []any
	if clientID != "" {
		clauses = append(clauses, "client_id=?")
		args = append(args, clientID)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,client_id,title,description,status,created_at FROM positions WHERE `+
			strings.Join(clauses, " AND ")+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Position
	for rows.Next() {
		p, err := scanPosition(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// PositionUpdate carries the optional position fields.
type PositionUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

func (r Repo) UpdatePositionTx(ctx context.Context, tx *sql.Tx, id string, u PositionUpdate) error {
	var (
		fields []string
		args   []any
	)
	if u.Title != nil {
		fields = append(fields, "title=?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		fields = append(fields, "description=?")
		args = append(args, nullable(*u.Description))
	}
	if u.Status != nil {
		fields = append(fields, "status=?")
		args = append(args, *u.Status)
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE positions SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeletePositionTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- interviewers ---

func (r Repo) InsertInterviewerTx(ctx context.Context, tx *sql.Tx, iv domain.Interviewer) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO interviewers(id,client_id,name,email,created_at) VALUES (?,?,?,?,?)`,
		iv.ID, nullableStringPtr(iv.ClientID), iv.Name, iv.Email, iv.CreatedAt)
	return err
}

func scanInterviewer(row *sql.Row) (domain.Interviewer, error) {
	var iv domain.Interviewer
	var clientID sql.NullString
	err := row.Scan(&iv.ID, &clientID, &iv.Name, &iv.Email, &iv.CreatedAt)
	if err == sql.ErrNoRows {
		return iv, ErrNotFound
	}
	if clientID.Valid {
		iv.ClientID = &clientID.String
	}
	return iv, err
}

func (r Repo) GetInterviewer(ctx context.Context, id string) (domain.Interviewer, error) {
	iv, err := scanInterviewer(r.DB.QueryRowContext(ctx,
		`SELECT id,client_id,name,email,created_at FROM interviewers WHERE id=?`, id))
	return iv, err
}

func (r Repo) GetInterviewerTx(ctx context.Context, tx *sql.Tx, id string) (domain.Interviewer, error) {
	return scanInterviewer(tx.QueryRowContext(ctx,
		`SELECT id,client_id,name,email,created_at FROM interviewers WHERE id=?`, id))
}

// InterviewerUpdate carries the optional interviewer fields.
type InterviewerUpdate struct {
	Name  *string
	Email *string
}

func (r Repo) UpdateInterviewerTx(ctx context.Context, tx *sql.Tx, id string, u InterviewerUpdate) error {
	var (
		fields []string
		args   []any
	)
	if u.Name != nil {
		fields = append(fields, "name=?")
		args = append(args, *u.Name)
	}
	if u.Email != nil {
		fields = append(fields, "email=?")
		args = append(args, *u.Email)
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE interviewers SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteInterviewerTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM interviewers WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- original assignments ---

func (r Repo) InsertOriginalAssignment(ctx context.Context, oa domain.OriginalAssignment) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO original_assignments(id,name,url,created_at) VALUES (?,?,?,?)`,
		oa.ID, oa.Name, nullable(oa.URL), oa.CreatedAt)
	return err
}

func (r Repo) GetOriginalAssignment(ctx context.Context, id string) (domain.OriginalAssignment, error) {
	var oa domain.OriginalAssignment
	var url sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,url,created_at FROM original_assignments WHERE id=?`, id).
		Scan(&oa.ID, &oa.Name, &url, &oa.CreatedAt)
	if err == sql.ErrNoRows {
		return oa, ErrNotFound
	}
	if url.Valid {
		oa.URL = url.String
	}
	return oa, err
}
