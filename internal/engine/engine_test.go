package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hireline/internal/db"
	"hireline/internal/domain"
	"hireline/internal/engine"
	"hireline/internal/events"
	"hireline/internal/migrate"
	"hireline/internal/repo"
	"hireline/internal/validate"
)

type testEnv struct {
	Engine   engine.Engine
	Ctx      context.Context
	ClientID string
	Position domain.Position
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	eng := engine.New(conn)
	eng.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()
	client, err := eng.CreateClient(ctx, engine.ClientCreateOptions{Name: "Acme"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	pos, err := eng.CreatePosition(ctx, engine.PositionCreateOptions{
		ClientID: client.ID,
		Title:    "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("create position: %v", err)
	}
	return testEnv{Engine: eng, Ctx: ctx, ClientID: client.ID, Position: pos}
}

func (env testEnv) apply(t *testing.T, email string) domain.Application {
	t.Helper()
	app, err := env.Engine.CreateApplication(env.Ctx, env.Position.ID, engine.CandidateInput{
		Name:  "Jo Doe",
		Email: email,
	})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	return app
}

func TestCreateApplicationJournalsSubmission(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	if app.Status != domain.StatusInitialState {
		t.Fatalf("status = %q, want %q", app.Status, domain.StatusInitialState)
	}
	if app.Candidate == nil || app.Candidate.Email != "jo@example.com" {
		t.Fatalf("candidate not attached: %+v", app.Candidate)
	}
	got, err := env.Engine.GetApplication(env.Ctx, app.ID)
	if err != nil {
		t.Fatalf("get application: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(got.Events))
	}
	ev := got.Events[0]
	if ev.EventName != events.CandidateApplied {
		t.Fatalf("event name = %q", ev.EventName)
	}
	var details events.CandidateAppliedDetails
	if err := json.Unmarshal([]byte(ev.DetailsJSON), &details); err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Notes != "Application received for position." {
		t.Fatalf("notes = %q", details.Notes)
	}
}

func TestCandidateDedupByEmail(t *testing.T) {
	env := newTestEnv(t)
	second, err := env.Engine.CreatePosition(env.Ctx, engine.PositionCreateOptions{
		ClientID: env.ClientID,
		Title:    "Frontend Engineer",
	})
	if err != nil {
		t.Fatal(err)
	}
	first := env.apply(t, "jo@example.com")
	other, err := env.Engine.CreateApplication(env.Ctx, second.ID, engine.CandidateInput{
		Name:  "Different Name",
		Email: "jo@example.com",
	})
	if err != nil {
		t.Fatalf("second application: %v", err)
	}
	if other.CandidateID != first.CandidateID {
		t.Fatalf("candidate ids differ: %s vs %s", other.CandidateID, first.CandidateID)
	}
	// identity is first-write-wins
	if other.Candidate.Name != "Jo Doe" {
		t.Fatalf("candidate name = %q, want original", other.Candidate.Name)
	}
}

func TestDuplicateApplicationRejected(t *testing.T) {
	env := newTestEnv(t)
	env.apply(t, "jo@example.com")
	_, err := env.Engine.CreateApplication(env.Ctx, env.Position.ID, engine.CandidateInput{
		Name:  "Jo Doe",
		Email: "jo@example.com",
	})
	if !errors.Is(err, engine.ErrDuplicateApplication) {
		t.Fatalf("err = %v, want ErrDuplicateApplication", err)
	}
	apps, err := env.Engine.ListApplicationsForPosition(env.Ctx, env.Position.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 {
		t.Fatalf("applications = %d, want 1", len(apps))
	}
}

func TestStatusChangeAppendsEvent(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	updated, err := env.Engine.UpdateApplication(env.Ctx, app.ID, engine.ApplicationUpdateOptions{
		Status: domain.StatusInvitationSent,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusInvitationSent {
		t.Fatalf("status = %q", updated.Status)
	}
	got, err := env.Engine.GetApplication(env.Ctx, app.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(got.Events))
	}
	// newest first
	var details events.StatusChangedDetails
	if got.Events[0].EventName != events.StatusChanged {
		t.Fatalf("event name = %q", got.Events[0].EventName)
	}
	if err := json.Unmarshal([]byte(got.Events[0].DetailsJSON), &details); err != nil {
		t.Fatal(err)
	}
	if details.OldStatus != domain.StatusInitialState || details.NewStatus != domain.StatusInvitationSent {
		t.Fatalf("details = %+v", details)
	}
	if details.Notes != "Status changed from Initial state to Invitation Sent." {
		t.Fatalf("notes = %q", details.Notes)
	}
}

func TestSameStatusUpdateIsSilent(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	updated, err := env.Engine.UpdateApplication(env.Ctx, app.ID, engine.ApplicationUpdateOptions{
		Status: domain.StatusInitialState,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.StatusUpdatedAt != app.StatusUpdatedAt {
		t.Fatalf("status_updated_at restamped on no-op change")
	}
	got, _ := env.Engine.GetApplication(env.Ctx, app.ID)
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want 1 (no STATUS_CHANGED)", len(got.Events))
	}
}

func TestInvalidStatusRejected(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	_, err := env.Engine.UpdateApplication(env.Ctx, app.ID, engine.ApplicationUpdateOptions{
		Status: "Telepathy round",
	})
	var ve *validate.Error
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateApplicationValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.CreateApplication(env.Ctx, env.Position.ID, engine.CandidateInput{
		Name:  "Jo Doe",
		Email: "not-an-email",
	})
	var ve *validate.Error
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(ve.Issues) != 1 || ve.Issues[0].Field != "candidate.email" {
		t.Fatalf("issues = %+v", ve.Issues)
	}
}

func TestTechStackNormalization(t *testing.T) {
	env := newTestEnv(t)
	pos, err := env.Engine.CreatePosition(env.Ctx, engine.PositionCreateOptions{
		ClientID:   env.ClientID,
		Title:      "Platform Engineer",
		TechStacks: []string{"React", "react", " REACT ", "Go"},
	})
	if err != nil {
		t.Fatalf("create position: %v", err)
	}
	if len(pos.TechStacks) != 2 || pos.TechStacks[0] != "go" || pos.TechStacks[1] != "react" {
		t.Fatalf("tech stacks = %v", pos.TechStacks)
	}
	// a second owner reuses the same rows instead of minting new ones
	iv, err := env.Engine.CreateInterviewer(env.Ctx, engine.InterviewerCreateOptions{
		Name:       "Sam Lee",
		Email:      "sam@example.com",
		TechStacks: []string{"REACT"},
	})
	if err != nil {
		t.Fatalf("create interviewer: %v", err)
	}
	if len(iv.TechStacks) != 1 || iv.TechStacks[0] != "react" {
		t.Fatalf("interviewer stacks = %v", iv.TechStacks)
	}
	var count int
	if err := env.Engine.DB.QueryRow(`SELECT COUNT(*) FROM tech_stacks WHERE name='react'`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("react rows = %d, want 1", count)
	}
}

func TestPositionTagReplaceAndClear(t *testing.T) {
	env := newTestEnv(t)
	pos, err := env.Engine.CreatePosition(env.Ctx, engine.PositionCreateOptions{
		ClientID:   env.ClientID,
		Title:      "Data Engineer",
		TechStacks: []string{"python", "spark"},
	})
	if err != nil {
		t.Fatal(err)
	}
	pos, err = env.Engine.UpdatePosition(env.Ctx, pos.ID, engine.PositionUpdateOptions{
		TechStacks: []string{"go"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pos.TechStacks) != 1 || pos.TechStacks[0] != "go" {
		t.Fatalf("after replace: %v", pos.TechStacks)
	}
	pos, err = env.Engine.UpdatePosition(env.Ctx, pos.ID, engine.PositionUpdateOptions{
		TechStacks: []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pos.TechStacks) != 0 {
		t.Fatalf("after clear: %v", pos.TechStacks)
	}
}

func TestInterviewerTagReplaceAndClear(t *testing.T) {
	env := newTestEnv(t)
	iv, err := env.Engine.CreateInterviewer(env.Ctx, engine.InterviewerCreateOptions{
		Name:       "Sam Lee",
		Email:      "sam@example.com",
		TechStacks: []string{"go", "terraform"},
	})
	if err != nil {
		t.Fatal(err)
	}
	// nil stacks on a field-only update leave the set alone
	name := "Sam A. Lee"
	iv, err = env.Engine.UpdateInterviewer(env.Ctx, iv.ID, engine.InterviewerUpdateOptions{
		Name: &name,
	})
	if err != nil {
		t.Fatal(err)
	}
	if iv.Name != "Sam A. Lee" || len(iv.TechStacks) != 2 {
		t.Fatalf("after rename: name=%q stacks=%v", iv.Name, iv.TechStacks)
	}
	iv, err = env.Engine.UpdateInterviewer(env.Ctx, iv.ID, engine.InterviewerUpdateOptions{
		TechStacks: []string{"Python"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(iv.TechStacks) != 1 || iv.TechStacks[0] != "python" {
		t.Fatalf("after replace: %v", iv.TechStacks)
	}
	iv, err = env.Engine.UpdateInterviewer(env.Ctx, iv.ID, engine.InterviewerUpdateOptions{
		TechStacks: []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(iv.TechStacks) != 0 {
		t.Fatalf("after clear: %v", iv.TechStacks)
	}
}

func TestDeleteInterviewerRemovesStackLinks(t *testing.T) {
	env := newTestEnv(t)
	iv, err := env.Engine.CreateInterviewer(env.Ctx, engine.InterviewerCreateOptions{
		Name:       "Sam Lee",
		Email:      "sam@example.com",
		TechStacks: []string{"go"},
	})
	if err != nil {
		t.Fatal(err)
	}
	deleted, err := env.Engine.DeleteInterviewer(env.Ctx, iv.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != iv.ID {
		t.Fatalf("deleted id = %s", deleted.ID)
	}
	if _, err := env.Engine.GetInterviewer(env.Ctx, iv.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	var links int
	if err := env.Engine.DB.QueryRow(`SELECT COUNT(*) FROM interviewer_tech_stacks WHERE interviewer_id=?`, iv.ID).Scan(&links); err != nil {
		t.Fatal(err)
	}
	if links != 0 {
		t.Fatalf("stack links survived delete: %d", links)
	}
}

func TestStepTypeTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	other, err := env.Engine.CreateClient(env.Ctx, engine.ClientCreateOptions{Name: "Globex"})
	if err != nil {
		t.Fatal(err)
	}
	st, err := env.Engine.CreateStepType(env.Ctx, engine.StepTypeCreateOptions{
		ClientID: env.ClientID,
		Name:     "Technical Interview",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.GetStepType(env.Ctx, st.ID, other.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("cross-tenant get: %v, want not found", err)
	}
	name := "Renamed"
	if _, err := env.Engine.UpdateStepType(env.Ctx, st.ID, other.ID, engine.StepTypeUpdateOptions{Name: &name}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("cross-tenant update: %v, want not found", err)
	}
	if _, err := env.Engine.DeleteStepType(env.Ctx, st.ID, other.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("cross-tenant delete: %v, want not found", err)
	}
	// still intact for the owner
	got, err := env.Engine.GetStepType(env.Ctx, st.ID, env.ClientID)
	if err != nil || got.Name != "Technical Interview" {
		t.Fatalf("owner get: %v %+v", err, got)
	}
}

func TestCreateStepRejectsForeignStepType(t *testing.T) {
	env := newTestEnv(t)
	other, err := env.Engine.CreateClient(env.Ctx, engine.ClientCreateOptions{Name: "Globex"})
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := env.Engine.CreateStepType(env.Ctx, engine.StepTypeCreateOptions{
		ClientID: other.ID,
		Name:     "Screening Call",
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = env.Engine.CreateStep(env.Ctx, engine.StepCreateOptions{
		PositionID:     env.Position.ID,
		SequenceNumber: 1,
		Name:           "Screen",
		TypeID:         foreign.ID,
	})
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestStepOrdering(t *testing.T) {
	env := newTestEnv(t)
	st, err := env.Engine.CreateStepType(env.Ctx, engine.StepTypeCreateOptions{
		ClientID: env.ClientID,
		Name:     "Interview",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, seq := range []int{30, 10, 20} {
		if _, err := env.Engine.CreateStep(env.Ctx, engine.StepCreateOptions{
			PositionID:     env.Position.ID,
			SequenceNumber: seq,
			Name:           "Step",
			TypeID:         st.ID,
		}); err != nil {
			t.Fatalf("seq %d: %v", seq, err)
		}
	}
	steps, err := env.Engine.ListStepsForPosition(env.Ctx, env.Position.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 || steps[0].SequenceNumber != 10 || steps[2].SequenceNumber != 30 {
		t.Fatalf("steps out of order: %+v", steps)
	}
}

func TestStepSequenceMustBePositive(t *testing.T) {
	env := newTestEnv(t)
	st, err := env.Engine.CreateStepType(env.Ctx, engine.StepTypeCreateOptions{
		ClientID: env.ClientID,
		Name:     "Interview",
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = env.Engine.CreateStep(env.Ctx, engine.StepCreateOptions{
		PositionID:     env.Position.ID,
		SequenceNumber: 0,
		Name:           "Screen",
		TypeID:         st.ID,
	})
	var ve *validate.Error
	if !errors.As(err, &ve) {
		t.Fatalf("seq 0: err = %v, want validation error", err)
	}
	s, err := env.Engine.CreateStep(env.Ctx, engine.StepCreateOptions{
		PositionID:     env.Position.ID,
		SequenceNumber: 1,
		Name:           "Screen",
		TypeID:         st.ID,
	})
	if err != nil {
		t.Fatalf("seq 1: %v", err)
	}
	zero := 0
	if _, err := env.Engine.UpdateStep(env.Ctx, s.ID, engine.StepUpdateOptions{SequenceNumber: &zero}); !errors.As(err, &ve) {
		t.Fatalf("update to seq 0: err = %v, want validation error", err)
	}
}

func TestDeleteApplicationRemovesJournal(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	if _, err := env.Engine.UpdateApplication(env.Ctx, app.ID, engine.ApplicationUpdateOptions{
		Status: domain.StatusRejected,
	}); err != nil {
		t.Fatal(err)
	}
	deleted, err := env.Engine.DeleteApplication(env.Ctx, app.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != app.ID {
		t.Fatalf("deleted id = %s", deleted.ID)
	}
	if _, err := env.Engine.GetApplication(env.Ctx, app.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	evs, err := env.Engine.LatestEvents(env.Ctx, 10, app.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 0 {
		t.Fatalf("events survived delete: %d", len(evs))
	}
}

func TestDeleteMissingApplicationKeepsJournal(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	_, err := env.Engine.DeleteApplication(env.Ctx, "4c0e3c1e-1111-4222-8333-444455556666")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	got, err := env.Engine.GetApplication(env.Ctx, app.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("journal touched by failed delete: %d events", len(got.Events))
	}
}

func TestCreateApplicationRollsBackOnEventFailure(t *testing.T) {
	env := newTestEnv(t)
	// make the journal insert fail so the whole submission must unwind
	if _, err := env.Engine.DB.Exec(`CREATE TRIGGER fail_events BEFORE INSERT ON interview_events BEGIN SELECT RAISE(ABORT, 'journal unavailable'); END;`); err != nil {
		t.Fatalf("install trigger: %v", err)
	}
	_, err := env.Engine.CreateApplication(env.Ctx, env.Position.ID, engine.CandidateInput{
		Name:  "Jo Doe",
		Email: "jo@example.com",
	})
	if err == nil {
		t.Fatalf("expected failure")
	}
	var apps, cands int
	if err := env.Engine.DB.QueryRow(`SELECT COUNT(*) FROM candidate_applications`).Scan(&apps); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.DB.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&cands); err != nil {
		t.Fatal(err)
	}
	if apps != 0 || cands != 0 {
		t.Fatalf("partial write survived: %d applications, %d candidates", apps, cands)
	}
}

func TestUpdateApplicationPartialFields(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	notified := "2026-01-03T09:00:00Z"
	updated, err := env.Engine.UpdateApplication(env.Ctx, app.ID, engine.ApplicationUpdateOptions{
		ClientNotifiedAt: &notified,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ClientNotifiedAt == nil || *updated.ClientNotifiedAt != notified {
		t.Fatalf("client_notified_at = %v", updated.ClientNotifiedAt)
	}
	if updated.Status != domain.StatusInitialState {
		t.Fatalf("status drifted: %q", updated.Status)
	}
	// empty string clears the column
	empty := ""
	updated, err = env.Engine.UpdateApplication(env.Ctx, app.ID, engine.ApplicationUpdateOptions{
		ClientNotifiedAt: &empty,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ClientNotifiedAt != nil {
		t.Fatalf("clear failed: %v", *updated.ClientNotifiedAt)
	}
}

func TestApplicationLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	app := env.apply(t, "jo@example.com")
	path := []string{
		domain.StatusInvitationSent,
		domain.StatusInterviewScheduled,
		domain.StatusWaitingForEvaluation,
		domain.StatusPassed,
	}
	for _, status := range path {
		if _, err := env.Engine.UpdateApplication(env.Ctx, app.ID, engine.ApplicationUpdateOptions{Status: status}); err != nil {
			t.Fatalf("to %q: %v", status, err)
		}
	}
	got, err := env.Engine.GetApplication(env.Ctx, app.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusPassed {
		t.Fatalf("final status = %q", got.Status)
	}
	if len(got.Events) != len(path)+1 {
		t.Fatalf("events = %d, want %d", len(got.Events), len(path)+1)
	}
	// journal replays the pipeline newest-first
	var replay []string
	for i := len(got.Events) - 2; i >= 0; i-- {
		var d events.StatusChangedDetails
		if err := json.Unmarshal([]byte(got.Events[i].DetailsJSON), &d); err != nil {
			t.Fatal(err)
		}
		replay = append(replay, d.NewStatus)
	}
	for i, status := range path {
		if replay[i] != status {
			t.Fatalf("replay[%d] = %q, want %q", i, replay[i], status)
		}
	}
}
