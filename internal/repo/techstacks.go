package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hireline/internal/domain"
)

// OwnerKind selects which junction table links an owner to tech stacks.
type OwnerKind int

const (
	PositionOwner OwnerKind = iota
	InterviewerOwner
)

func (k OwnerKind) junction() (table, column string) {
	switch k {
	case InterviewerOwner:
		return "interviewer_tech_stacks", "interviewer_id"
	default:
		return "position_tech_stacks", "position_id"
	}
}

// LookupTechStacksTx batch-resolves names to ids in one query. Names must
// already be normalized to lower case.
func (r Repo) LookupTechStacksTx(ctx context.Context, tx *sql.Tx, names []string) (map[string]string, error) {
	ids := map[string]string{}
	if len(names) == 0 {
		return ids, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT id,name FROM tech_stacks WHERE name IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

// InsertTechStacksTx bulk-inserts new tech stacks in one statement.
func (r Repo) InsertTechStacksTx(ctx context.Context, tx *sql.Tx, stacks []domain.TechStack) error {
	if len(stacks) == 0 {
		return nil
	}
	values := strings.TrimSuffix(strings.Repeat("(?,?),", len(stacks)), ",")
	args := make([]any, 0, len(stacks)*2)
	for _, s := range stacks {
		args = append(args, s.ID, s.Name)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO tech_stacks(id,name) VALUES `+values, args...)
	return err
}

// LinkTechStacksTx bulk-inserts junction rows for one owner.
func (r Repo) LinkTechStacksTx(ctx context.Context, tx *sql.Tx, kind OwnerKind, ownerID string, stackIDs []string) error {
	if len(stackIDs) == 0 {
		return nil
	}
	table, column := kind.junction()
	values := strings.TrimSuffix(strings.Repeat("(?,?),", len(stackIDs)), ",")
	args := make([]any, 0, len(stackIDs)*2)
	for _, id := range stackIDs {
		args = append(args, ownerID, id)
	}
	_, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s(%s,tech_stack_id) VALUES %s`, table, column, values), args...)
	return err
}

// UnlinkTechStacksTx clears every junction row for the owner, the first half
// of the replace-all semantics on update.
func (r Repo) UnlinkTechStacksTx(ctx context.Context, tx *sql.Tx, kind OwnerKind, ownerID string) error {
	table, column := kind.junction()
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s=?`, table, column), ownerID)
	return err
}

// ListTechStacksForOwner returns the owner's stack names, alphabetical.
func (r Repo) ListTechStacksForOwner(ctx context.Context, kind OwnerKind, ownerID string) ([]string, error) {
	table, column := kind.junction()
	rows, err := r.DB.QueryContext(ctx, fmt.Sprintf(
		`SELECT t.name FROM %s j JOIN tech_stacks t ON t.id=j.tech_stack_id WHERE j.%s=? ORDER BY t.name ASC`,
		table, column), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
