package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"hireline/internal/domain"
	"hireline/internal/repo"
	"hireline/internal/validate"
)

// Interview pipeline configuration: per-client step-type catalogs and the
// ordered steps attached to a position. Step types never cross tenants; a
// lookup with the wrong client behaves as not-found.

type StepTypeCreateOptions struct {
	ClientID string `validate:"required,uuid4"`
	Name     string `validate:"required"`
}

func (e Engine) CreateStepType(ctx context.Context, opts StepTypeCreateOptions) (domain.StepType, error) {
	if err := validate.Struct(opts); err != nil {
		return domain.StepType{}, err
	}
	st := domain.StepType{
		ID:        uuid.New().String(),
		ClientID:  opts.ClientID,
		Name:      opts.Name,
		CreatedAt: e.nowString(),
	}
	if err := e.Repo.InsertStepType(ctx, st); err != nil {
		return domain.StepType{}, err
	}
	return st, nil
}

func (e Engine) GetStepType(ctx context.Context, id, clientID string) (domain.StepType, error) {
	st, err := e.Repo.GetStepType(ctx, id, clientID)
	if errors.Is(err, repo.ErrNotFound) {
		return st, notFound("interview step type not found for this client")
	}
	return st, err
}

func (e Engine) ListStepTypes(ctx context.Context, clientID string) ([]domain.StepType, error) {
	if err := validate.Var("client_id", clientID, "required,uuid4"); err != nil {
		return nil, err
	}
	return e.Repo.ListStepTypes(ctx, clientID)
}

// StepTypeUpdateOptions is the partial step-type update. ClientID here moves
// ownership; the scoping client is passed separately.
type StepTypeUpdateOptions struct {
	Name     *string
	ClientID *string
}

// UpdateStepType applies a partial update scoped to the owning client. An
// update with no fields set is a no-op that still returns the current row,
// proving the caller can see it.
func (e Engine) UpdateStepType(ctx context.Context, id, clientID string, opts StepTypeUpdateOptions) (domain.StepType, error) {
	if opts.Name != nil {
		if err := validate.Var("name", *opts.Name, "required"); err != nil {
			return domain.StepType{}, err
		}
	}
	if opts.ClientID != nil {
		if err := validate.Var("client_id", *opts.ClientID, "required,uuid4"); err != nil {
			return domain.StepType{}, err
		}
	}
	if opts.Name == nil && opts.ClientID == nil {
		return e.GetStepType(ctx, id, clientID)
	}
	err := e.Repo.UpdateStepType(ctx, id, clientID, repo.StepTypeUpdate{Name: opts.Name, ClientID: opts.ClientID})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.StepType{}, notFound("interview step type not found for this client")
		}
		return domain.StepType{}, err
	}
	owner := clientID
	if opts.ClientID != nil {
		owner = *opts.ClientID
	}
	return e.GetStepType(ctx, id, owner)
}

func (e Engine) DeleteStepType(ctx context.Context, id, clientID string) (domain.StepType, error) {
	st, err := e.GetStepType(ctx, id, clientID)
	if err != nil {
		return domain.StepType{}, err
	}
	if err := e.Repo.DeleteStepType(ctx, id, clientID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.StepType{}, notFound("interview step type not found for this client")
		}
		return domain.StepType{}, err
	}
	return st, nil
}

// --- interview steps ---

type StepCreateOptions struct {
	PositionID           string `validate:"required,uuid4"`
	SequenceNumber       int    `validate:"gt=0"`
	Name                 string `validate:"required"`
	TypeID               string `validate:"required,uuid4"`
	OriginalAssignmentID *string
	SchedulingLink       *string `validate:"omitempty,url"`
	EmailTemplate        *string
}

// CreateStep adds a step to a position's pipeline. The step type must belong
// to the position's client; a type owned by another tenant reads as missing.
func (e Engine) CreateStep(ctx context.Context, opts StepCreateOptions) (domain.Step, error) {
	if err := validate.Struct(opts); err != nil {
		return domain.Step{}, err
	}
	pos, err := e.Repo.GetPosition(ctx, opts.PositionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Step{}, notFound("position not found")
		}
		return domain.Step{}, err
	}
	if _, err := e.Repo.GetStepType(ctx, opts.TypeID, pos.ClientID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Step{}, notFound("interview step type not found for this client")
		}
		return domain.Step{}, err
	}
	s := domain.Step{
		ID:                   uuid.New().String(),
		PositionID:           opts.PositionID,
		SequenceNumber:       opts.SequenceNumber,
		Name:                 opts.Name,
		TypeID:               opts.TypeID,
		OriginalAssignmentID: opts.OriginalAssignmentID,
		SchedulingLink:       opts.SchedulingLink,
		EmailTemplate:        opts.EmailTemplate,
		CreatedAt:            e.nowString(),
	}
	if err := e.Repo.InsertStep(ctx, s); err != nil {
		return domain.Step{}, err
	}
	return s, nil
}

func (e Engine) GetStep(ctx context.Context, id string) (domain.Step, error) {
	s, err := e.Repo.GetStep(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return s, notFound("interview step not found")
	}
	return s, err
}

func (e Engine) ListStepsForPosition(ctx context.Context, positionID string) ([]domain.Step, error) {
	if err := validate.Var("position_id", positionID, "required,uuid4"); err != nil {
		return nil, err
	}
	return e.Repo.ListStepsForPosition(ctx, positionID)
}

// StepUpdateOptions is the partial step update. Pointer-to-empty clears a
// nullable field; nil leaves it untouched.
type StepUpdateOptions struct {
	SequenceNumber       *int
	Name                 *string
	TypeID               *string
	OriginalAssignmentID *string
	SchedulingLink       *string
	EmailTemplate        *string
}

// UpdateStep applies a partial update. A new TypeID is re-checked against the
// owning position's client before the write.
func (e Engine) UpdateStep(ctx context.Context, id string, opts StepUpdateOptions) (domain.Step, error) {
	if opts.Name != nil {
		if err := validate.Var("name", *opts.Name, "required"); err != nil {
			return domain.Step{}, err
		}
	}
	if opts.SequenceNumber != nil {
		if err := validate.Var("sequence_number", *opts.SequenceNumber, "gt=0"); err != nil {
			return domain.Step{}, err
		}
	}
	if opts.SchedulingLink != nil && *opts.SchedulingLink != "" {
		if err := validate.Var("scheduling_link", *opts.SchedulingLink, "url"); err != nil {
			return domain.Step{}, err
		}
	}
	current, err := e.GetStep(ctx, id)
	if err != nil {
		return domain.Step{}, err
	}
	if opts.TypeID != nil {
		if err := validate.Var("type_id", *opts.TypeID, "required,uuid4"); err != nil {
			return domain.Step{}, err
		}
		pos, err := e.Repo.GetPosition(ctx, current.PositionID)
		if err != nil {
			return domain.Step{}, err
		}
		if _, err := e.Repo.GetStepType(ctx, *opts.TypeID, pos.ClientID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domain.Step{}, notFound("interview step type not found for this client")
			}
			return domain.Step{}, err
		}
	}
	update := repo.StepUpdate{
		SequenceNumber:       opts.SequenceNumber,
		Name:                 opts.Name,
		TypeID:               opts.TypeID,
		OriginalAssignmentID: opts.OriginalAssignmentID,
		SchedulingLink:       opts.SchedulingLink,
		EmailTemplate:        opts.EmailTemplate,
	}
	if err := e.Repo.UpdateStep(ctx, id, update); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Step{}, notFound("interview step not found")
		}
		return domain.Step{}, err
	}
	return e.GetStep(ctx, id)
}

func (e Engine) DeleteStep(ctx context.Context, id string) (domain.Step, error) {
	s, err := e.GetStep(ctx, id)
	if err != nil {
		return domain.Step{}, err
	}
	if err := e.Repo.DeleteStep(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Step{}, notFound("interview step not found")
		}
		return domain.Step{}, err
	}
	return s, nil
}

// --- original assignments ---

type OriginalAssignmentCreateOptions struct {
	Name string `validate:"required"`
	URL  string `validate:"omitempty,url"`
}

// CreateOriginalAssignment registers a take-home assignment steps can point at.
func (e Engine) CreateOriginalAssignment(ctx context.Context, opts OriginalAssignmentCreateOptions) (domain.OriginalAssignment, error) {
	if err := validate.Struct(opts); err != nil {
		return domain.OriginalAssignment{}, err
	}
	oa := domain.OriginalAssignment{
		ID:        uuid.New().String(),
		Name:      opts.Name,
		URL:       opts.URL,
		CreatedAt: e.nowString(),
	}
	if err := e.Repo.InsertOriginalAssignment(ctx, oa); err != nil {
		return domain.OriginalAssignment{}, err
	}
	return oa, nil
}

func (e Engine) GetOriginalAssignment(ctx context.Context, id string) (domain.OriginalAssignment, error) {
	oa, err := e.Repo.GetOriginalAssignment(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return oa, notFound("original assignment not found")
	}
	return oa, err
}

// LatestEvents tails the journal across all applications, newest first.
func (e Engine) LatestEvents(ctx context.Context, limit int, applicationID, eventName string) ([]domain.InterviewEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return e.Repo.LatestEvents(ctx, limit, applicationID, eventName)
}
