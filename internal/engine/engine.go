package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"hireline/internal/config"
	"hireline/internal/domain"
	"hireline/internal/events"
	"hireline/internal/repo"
	"hireline/internal/validate"
)

// Engine orchestrates the candidate-application lifecycle and the interview
// pipeline configuration. Every mutating operation runs as a single
// transaction: it either commits completely or leaves no trace.
type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Cfg    *config.Config
	Now    func() time.Time
}

func New(db *sql.DB) Engine {
	return Engine{
		DB:   db,
		Repo: repo.Repo{DB: db},
		Now:  time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) nowString() string {
	return e.now().UTC().Format(time.RFC3339)
}

// ErrDuplicateApplication rejects a second application by the same candidate
// for the same position.
var ErrDuplicateApplication = errors.New("this candidate has already applied for this position")

// notFoundError carries an entity-specific message while still matching
// repo.ErrNotFound for callers classifying by errors.Is.
type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return repo.ErrNotFound }

func notFound(msg string) error { return &notFoundError{msg: msg} }

// CandidateInput is the identity payload submitted with a new application.
type CandidateInput struct {
	Name       string  `validate:"required"`
	Email      string  `validate:"required,email"`
	ResumeLink *string `validate:"omitempty,url"`
}

type createApplicationRequest struct {
	PositionID string         `validate:"required,uuid4"`
	Candidate  CandidateInput `validate:"required"`
}

// CreateApplication records a candidate's application for a position. The
// candidate is resolved by email inside the same transaction: an existing
// candidate is reused as-is, a new one is created. A candidate may apply to a
// position at most once.
func (e Engine) CreateApplication(ctx context.Context, positionID string, cand CandidateInput) (domain.Application, error) {
	if err := validate.Struct(createApplicationRequest{PositionID: positionID, Candidate: cand}); err != nil {
		return domain.Application{}, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Application{}, err
	}
	defer tx.Rollback()

	candidate, existed, err := e.resolveCandidate(ctx, tx, cand)
	if err != nil {
		return domain.Application{}, err
	}
	if existed {
		_, err := e.Repo.FindApplicationTx(ctx, tx, candidate.ID, positionID)
		if err == nil {
			return domain.Application{}, ErrDuplicateApplication
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return domain.Application{}, err
		}
	}

	now := e.nowString()
	app := domain.Application{
		ID:              uuid.New().String(),
		CandidateID:     candidate.ID,
		PositionID:      positionID,
		Status:          domain.StatusInitialState,
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}
	if err := e.Repo.InsertApplication(ctx, tx, app); err != nil {
		return domain.Application{}, err
	}
	if err := e.Events.Append(ctx, tx, app.ID, events.CandidateApplied, events.CandidateAppliedDetails{
		Notes: "Application received for position.",
	}); err != nil {
		return domain.Application{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Application{}, err
	}
	app.Candidate = &candidate
	return app, nil
}

// resolveCandidate finds a candidate by exact email or creates one. Identity
// fields are first-write-wins: an existing row is returned unchanged even if
// the incoming name or resume link differ.
//
// Two concurrent calls for the same new email can both miss the lookup; the
// UNIQUE(email) constraint is the backstop and the loser sees a constraint
// violation rather than a partial write.
func (e Engine) resolveCandidate(ctx context.Context, tx *sql.Tx, in CandidateInput) (domain.Candidate, bool, error) {
	existing, err := e.Repo.GetCandidateByEmailTx(ctx, tx, in.Email)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return domain.Candidate{}, false, err
	}
	c := domain.Candidate{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Email:      in.Email,
		ResumeLink: in.ResumeLink,
		CreatedAt:  e.nowString(),
	}
	if err := e.Repo.InsertCandidate(ctx, tx, c); err != nil {
		return domain.Candidate{}, false, err
	}
	return c, false, nil
}

// GetApplication returns the application with its candidate and its journal,
// events newest-first.
func (e Engine) GetApplication(ctx context.Context, id string) (domain.Application, error) {
	app, err := e.Repo.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return app, notFound("candidate application not found")
		}
		return app, err
	}
	candidate, err := e.Repo.GetCandidate(ctx, app.CandidateID)
	if err != nil {
		return app, err
	}
	app.Candidate = &candidate
	app.Events, err = e.Repo.ListEventsForApplication(ctx, id)
	if err != nil {
		return app, err
	}
	return app, nil
}

// ListApplicationsForPosition returns a position's applications, newest
// first. An empty list is a normal outcome.
func (e Engine) ListApplicationsForPosition(ctx context.Context, positionID string) ([]domain.Application, error) {
	if err := validate.Var("position_id", positionID, "required,uuid4"); err != nil {
		return nil, err
	}
	return e.Repo.ListApplicationsForPosition(ctx, positionID)
}

// ApplicationUpdateOptions is the partial update for an application. Zero
// Status means untouched; pointer fields clear their column when set to "".
type ApplicationUpdateOptions struct {
	Status                 string
	ClientNotifiedAt       *string
	CurrentInterviewStepID *string
}

// UpdateApplication applies a partial update. A status change (and only a
// change; re-submitting the current status is silent) restamps
// status_updated_at and appends a STATUS_CHANGED event in the same
// transaction as the row update.
func (e Engine) UpdateApplication(ctx context.Context, id string, opts ApplicationUpdateOptions) (domain.Application, error) {
	if opts.Status != "" && !domain.IsCandidateStatus(opts.Status) {
		return domain.Application{}, &validate.Error{Issues: []validate.Issue{
			{Field: "status", Message: "status must be one of the allowed values"},
		}}
	}
	if opts.ClientNotifiedAt != nil && *opts.ClientNotifiedAt != "" {
		if _, err := time.Parse(time.RFC3339, *opts.ClientNotifiedAt); err != nil {
			return domain.Application{}, &validate.Error{Issues: []validate.Issue{
				{Field: "client_notified_at", Message: "must be an RFC 3339 timestamp"},
			}}
		}
	}
	if opts.CurrentInterviewStepID != nil && *opts.CurrentInterviewStepID != "" {
		if err := validate.Var("current_interview_step_id", *opts.CurrentInterviewStepID, "uuid4"); err != nil {
			return domain.Application{}, err
		}
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Application{}, err
	}
	defer tx.Rollback()

	current, err := e.Repo.GetApplicationTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Application{}, notFound("candidate application not found")
		}
		return domain.Application{}, err
	}

	update := repo.ApplicationUpdate{
		Status:                 opts.Status,
		ClientNotifiedAt:       opts.ClientNotifiedAt,
		CurrentInterviewStepID: opts.CurrentInterviewStepID,
	}
	if opts.Status != "" && opts.Status != current.Status {
		update.StatusUpdatedAt = e.nowString()
		if err := e.Events.Append(ctx, tx, id, events.StatusChanged, events.StatusChangedDetails{
			Notes:     "Status changed from " + current.Status + " to " + opts.Status + ".",
			OldStatus: current.Status,
			NewStatus: opts.Status,
		}); err != nil {
			return domain.Application{}, err
		}
	}
	if err := e.Repo.UpdateApplication(ctx, tx, id, update); err != nil {
		return domain.Application{}, err
	}
	updated, err := e.Repo.GetApplicationTx(ctx, tx, id)
	if err != nil {
		return domain.Application{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Application{}, err
	}
	return updated, nil
}

// DeleteApplication removes an application and its journal. The events are
// deleted first, before the application row is even checked; if the row turns
// out not to exist the transaction rolls back and the journal is untouched.
func (e Engine) DeleteApplication(ctx context.Context, id string) (domain.Application, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Application{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.DeleteApplicationEvents(ctx, tx, id); err != nil {
		return domain.Application{}, err
	}
	app, err := e.Repo.GetApplicationTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Application{}, notFound("candidate application not found")
		}
		return domain.Application{}, err
	}
	if err := e.Repo.DeleteApplication(ctx, tx, id); err != nil {
		return domain.Application{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}
