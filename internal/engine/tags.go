package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"hireline/internal/domain"
	"hireline/internal/repo"
	"hireline/internal/validate"
)

// reconcileTechStacks resolves free-text stack names to stable rows and links
// them to the owner. Names are lower-cased before lookup so variants of the
// same label collapse to one row; missing rows and junction rows are each
// written in a single bulk statement.
func (e Engine) reconcileTechStacks(ctx context.Context, tx *sql.Tx, kind repo.OwnerKind, ownerID string, names []string) error {
	normalized := normalizeStackNames(names)
	if len(normalized) == 0 {
		return nil
	}
	existing, err := e.Repo.LookupTechStacksTx(ctx, tx, normalized)
	if err != nil {
		return err
	}
	var missing []domain.TechStack
	ids := make([]string, 0, len(normalized))
	for _, name := range normalized {
		if id, ok := existing[name]; ok {
			ids = append(ids, id)
			continue
		}
		stack := domain.TechStack{ID: uuid.New().String(), Name: name}
		missing = append(missing, stack)
		ids = append(ids, stack.ID)
	}
	if err := e.Repo.InsertTechStacksTx(ctx, tx, missing); err != nil {
		return err
	}
	return e.Repo.LinkTechStacksTx(ctx, tx, kind, ownerID, ids)
}

// normalizeStackNames lower-cases, trims, and dedupes preserving order.
func normalizeStackNames(names []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// --- clients ---

type ClientCreateOptions struct {
	Name string `validate:"required"`
}

func (e Engine) CreateClient(ctx context.Context, opts ClientCreateOptions) (domain.Client, error) {
	if err := validate.Struct(opts); err != nil {
		return domain.Client{}, err
	}
	c := domain.Client{
		ID:        uuid.New().String(),
		Name:      opts.Name,
		CreatedAt: e.nowString(),
	}
	if err := e.Repo.InsertClient(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (e Engine) GetClient(ctx context.Context, id string) (domain.Client, error) {
	c, err := e.Repo.GetClient(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return c, notFound("client not found")
	}
	return c, err
}

func (e Engine) ListClients(ctx context.Context) ([]domain.Client, error) {
	return e.Repo.ListClients(ctx)
}

// --- positions ---

type PositionCreateOptions struct {
	ClientID    string   `validate:"required,uuid4"`
	Title       string   `validate:"required"`
	Description string   `validate:"-"`
	TechStacks  []string `validate:"-"`
}

// CreatePosition inserts the position and reconciles its tech stacks in one
// transaction.
func (e Engine) CreatePosition(ctx context.Context, opts PositionCreateOptions) (domain.Position, error) {
	if err := validate.Struct(opts); err != nil {
		return domain.Position{}, err
	}
	p := domain.Position{
		ID:          uuid.New().String(),
		ClientID:    opts.ClientID,
		Title:       opts.Title,
		Description: opts.Description,
		Status:      "open",
		CreatedAt:   e.nowString(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Position{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertPositionTx(ctx, tx, p); err != nil {
		return domain.Position{}, err
	}
	if len(opts.TechStacks) > 0 {
		if err := e.reconcileTechStacks(ctx, tx, repo.PositionOwner, p.ID, opts.TechStacks); err != nil {
			return domain.Position{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Position{}, err
	}
	return e.GetPosition(ctx, p.ID)
}

func (e Engine) GetPosition(ctx context.Context, id string) (domain.Position, error) {
	p, err := e.Repo.GetPosition(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return p, notFound("position not found")
		}
		return p, err
	}
	p.TechStacks, err = e.Repo.ListTechStacksForOwner(ctx, repo.PositionOwner, id)
	return p, err
}

func (e Engine) ListPositions(ctx context.Context, clientID string) ([]domain.Position, error) {
	items, err := e.Repo.ListPositions(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].TechStacks, err = e.Repo.ListTechStacksForOwner(ctx, repo.PositionOwner, items[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// PositionUpdateOptions is the partial position update. A nil TechStacks
// leaves the tag set untouched; an empty non-nil slice clears it; anything
// else replaces it wholesale.
type PositionUpdateOptions struct {
	Title       *string
	Description *string
	Status      *string
	TechStacks  []string
}

func (e Engine) UpdatePosition(ctx context.Context, id string, opts PositionUpdateOptions) (domain.Position, error) {
	if opts.Title != nil {
		if err := validate.Var("title", *opts.Title, "required"); err != nil {
			return domain.Position{}, err
		}
	}
	if opts.Status != nil {
		if err := validate.Var("status", *opts.Status, "oneof=open closed"); err != nil {
			return domain.Position{}, err
		}
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Position{}, err
	}
	defer tx.Rollback()
	if _, err := e.Repo.GetPositionTx(ctx, tx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Position{}, notFound("position not found")
		}
		return domain.Position{}, err
	}
	update := repo.PositionUpdate{Title: opts.Title, Description: opts.Description, Status: opts.Status}
	if err := e.Repo.UpdatePositionTx(ctx, tx, id, update); err != nil {
		return domain.Position{}, err
	}
	if opts.TechStacks != nil {
		if err := e.Repo.UnlinkTechStacksTx(ctx, tx, repo.PositionOwner, id); err != nil {
			return domain.Position{}, err
		}
		if len(opts.TechStacks) > 0 {
			if err := e.reconcileTechStacks(ctx, tx, repo.PositionOwner, id, opts.TechStacks); err != nil {
				return domain.Position{}, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Position{}, err
	}
	return e.GetPosition(ctx, id)
}

// DeletePosition removes the position's tech-stack links, then the row. The
// cascade is manual and ordered, same contract as application deletion.
func (e Engine) DeletePosition(ctx context.Context, id string) (domain.Position, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Position{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UnlinkTechStacksTx(ctx, tx, repo.PositionOwner, id); err != nil {
		return domain.Position{}, err
	}
	p, err := e.Repo.GetPositionTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Position{}, notFound("position not found")
		}
		return domain.Position{}, err
	}
	if err := e.Repo.DeletePositionTx(ctx, tx, id); err != nil {
		return domain.Position{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Position{}, err
	}
	return p, nil
}

// --- interviewers ---

type InterviewerCreateOptions struct {
	ClientID   *string  `validate:"omitempty,uuid4"`
	Name       string   `validate:"required"`
	Email      string   `validate:"required,email"`
	TechStacks []string `validate:"-"`
}

func (e Engine) CreateInterviewer(ctx context.Context, opts InterviewerCreateOptions) (domain.Interviewer, error) {
	if err := validate.Struct(opts); err != nil {
		return domain.Interviewer{}, err
	}
	iv := domain.Interviewer{
		ID:        uuid.New().String(),
		ClientID:  opts.ClientID,
		Name:      opts.Name,
		Email:     opts.Email,
		CreatedAt: e.nowString(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Interviewer{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertInterviewerTx(ctx, tx, iv); err != nil {
		return domain.Interviewer{}, err
	}
	if len(opts.TechStacks) > 0 {
		if err := e.reconcileTechStacks(ctx, tx, repo.InterviewerOwner, iv.ID, opts.TechStacks); err != nil {
			return domain.Interviewer{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Interviewer{}, err
	}
	iv.TechStacks, err = e.Repo.ListTechStacksForOwner(ctx, repo.InterviewerOwner, iv.ID)
	return iv, err
}

func (e Engine) GetInterviewer(ctx context.Context, id string) (domain.Interviewer, error) {
	iv, err := e.Repo.GetInterviewer(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return iv, notFound("interviewer not found")
		}
		return iv, err
	}
	iv.TechStacks, err = e.Repo.ListTechStacksForOwner(ctx, repo.InterviewerOwner, id)
	return iv, err
}

// InterviewerUpdateOptions is the partial interviewer update. TechStacks
// follows the position rule: nil untouched, empty non-nil clears, anything
// else replaces the whole set.
type InterviewerUpdateOptions struct {
	Name       *string
	Email      *string
	TechStacks []string
}

func (e Engine) UpdateInterviewer(ctx context.Context, id string, opts InterviewerUpdateOptions) (domain.Interviewer, error) {
	if opts.Name != nil {
		if err := validate.Var("name", *opts.Name, "required"); err != nil {
			return domain.Interviewer{}, err
		}
	}
	if opts.Email != nil {
		if err := validate.Var("email", *opts.Email, "required,email"); err != nil {
			return domain.Interviewer{}, err
		}
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Interviewer{}, err
	}
	defer tx.Rollback()
	if _, err := e.Repo.GetInterviewerTx(ctx, tx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Interviewer{}, notFound("interviewer not found")
		}
		return domain.Interviewer{}, err
	}
	if err := e.Repo.UpdateInterviewerTx(ctx, tx, id, repo.InterviewerUpdate{Name: opts.Name, Email: opts.Email}); err != nil {
		return domain.Interviewer{}, err
	}
	if opts.TechStacks != nil {
		if err := e.Repo.UnlinkTechStacksTx(ctx, tx, repo.InterviewerOwner, id); err != nil {
			return domain.Interviewer{}, err
		}
		if len(opts.TechStacks) > 0 {
			if err := e.reconcileTechStacks(ctx, tx, repo.InterviewerOwner, id, opts.TechStacks); err != nil {
				return domain.Interviewer{}, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Interviewer{}, err
	}
	return e.GetInterviewer(ctx, id)
}

// DeleteInterviewer removes the stack links first, then the row, in one
// transaction. Same manual-cascade contract as position deletion.
func (e Engine) DeleteInterviewer(ctx context.Context, id string) (domain.Interviewer, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Interviewer{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UnlinkTechStacksTx(ctx, tx, repo.InterviewerOwner, id); err != nil {
		return domain.Interviewer{}, err
	}
	iv, err := e.Repo.GetInterviewerTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Interviewer{}, notFound("interviewer not found")
		}
		return domain.Interviewer{}, err
	}
	if err := e.Repo.DeleteInterviewerTx(ctx, tx, id); err != nil {
		return domain.Interviewer{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Interviewer{}, err
	}
	return iv, nil
}
