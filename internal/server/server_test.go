package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hireline/internal/db"
	"hireline/internal/domain"
	"hireline/internal/engine"
	"hireline/internal/migrate"
	"hireline/internal/server"
)

type testAPI struct {
	Server *httptest.Server
	Client string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestAPI(t *testing.T) testAPI {
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
	handler, err := server.New(server.Config{Engine: eng})
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return testAPI{Server: ts}
}

func (a testAPI) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, a.Server.URL+"/api"+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func (a testAPI) mustData(t *testing.T, method, path string, body any, wantStatus int, out any) {
	t.Helper()
	status, env := a.do(t, method, path, body)
	if status != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d (error: %s)", method, path, status, wantStatus, env.Error)
	}
	if !env.Success {
		t.Fatalf("%s %s: success = false: %s", method, path, env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}

func (a testAPI) seedPosition(t *testing.T) (clientID, positionID string) {
	t.Helper()
	var client domain.Client
	a.mustData(t, http.MethodPost, "/clients", map[string]any{"name": "Acme"}, http.StatusCreated, &client)
	var pos domain.Position
	a.mustData(t, http.MethodPost, "/positions", map[string]any{
		"client_id": client.ID,
		"title":     "Backend Engineer",
	}, http.StatusCreated, &pos)
	return client.ID, pos.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	var data map[string]string
	api.mustData(t, http.MethodGet, "/health", nil, http.StatusOK, &data)
	if data["status"] != "ok" {
		t.Fatalf("health = %v", data)
	}
}

func TestApplicationFlow(t *testing.T) {
	api := newTestAPI(t)
	_, positionID := api.seedPosition(t)

	status, env := api.do(t, http.MethodPost, "/applications", map[string]any{
		"position_id": positionID,
		"candidate":   map[string]any{"name": "Jo Doe", "email": "jo@example.com"},
	})
	if status != http.StatusCreated {
		t.Fatalf("status = %d (error: %s)", status, env.Error)
	}
	// the events array is always present, even before it is loaded
	if !bytes.Contains(env.Data, []byte(`"interview_events":[]`)) {
		t.Fatalf("interview_events missing from create body: %s", env.Data)
	}
	var app domain.Application
	if err := json.Unmarshal(env.Data, &app); err != nil {
		t.Fatal(err)
	}
	if app.Status != domain.StatusInitialState {
		t.Fatalf("status = %q", app.Status)
	}

	var fetched domain.Application
	api.mustData(t, http.MethodGet, "/applications/"+app.ID, nil, http.StatusOK, &fetched)
	if fetched.Candidate == nil || fetched.Candidate.Email != "jo@example.com" {
		t.Fatalf("candidate missing: %+v", fetched.Candidate)
	}
	if len(fetched.Events) != 1 {
		t.Fatalf("events = %d", len(fetched.Events))
	}

	api.mustData(t, http.MethodPatch, "/applications/"+app.ID, map[string]any{
		"status": domain.StatusInvitationSent,
	}, http.StatusOK, &fetched)
	if fetched.Status != domain.StatusInvitationSent {
		t.Fatalf("status after patch = %q", fetched.Status)
	}

	var events []domain.InterviewEvent
	api.mustData(t, http.MethodGet, "/events?application_id="+app.ID, nil, http.StatusOK, &events)
	if len(events) != 2 {
		t.Fatalf("journal = %d entries", len(events))
	}

	api.mustData(t, http.MethodDelete, "/applications/"+app.ID, nil, http.StatusOK, nil)
	status, env = api.do(t, http.MethodGet, "/applications/"+app.ID, nil)
	if status != http.StatusNotFound || env.Success {
		t.Fatalf("after delete: status=%d success=%v", status, env.Success)
	}
}

func TestDuplicateApplicationConflict(t *testing.T) {
	api := newTestAPI(t)
	_, positionID := api.seedPosition(t)
	body := map[string]any{
		"position_id": positionID,
		"candidate":   map[string]any{"name": "Jo Doe", "email": "jo@example.com"},
	}
	api.mustData(t, http.MethodPost, "/applications", body, http.StatusCreated, nil)
	status, env := api.do(t, http.MethodPost, "/applications", body)
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
	if env.Success || env.Error != "this candidate has already applied for this position" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestValidationErrorShape(t *testing.T) {
	api := newTestAPI(t)
	_, positionID := api.seedPosition(t)
	status, env := api.do(t, http.MethodPost, "/applications", map[string]any{
		"position_id": positionID,
		"candidate":   map[string]any{"name": "Jo Doe", "email": "not-an-email"},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	// error carries the serialized issue list
	var issues []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(env.Error), &issues); err != nil {
		t.Fatalf("error not an issue list: %q", env.Error)
	}
	if len(issues) != 1 || issues[0].Field != "candidate.email" {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestNotFoundMessages(t *testing.T) {
	api := newTestAPI(t)
	missing := "4c0e3c1e-1111-4222-8333-444455556666"
	status, env := api.do(t, http.MethodGet, "/applications/"+missing, nil)
	if status != http.StatusNotFound || env.Error != "candidate application not found" {
		t.Fatalf("status=%d error=%q", status, env.Error)
	}
	status, env = api.do(t, http.MethodGet, "/positions/"+missing, nil)
	if status != http.StatusNotFound || env.Error != "position not found" {
		t.Fatalf("status=%d error=%q", status, env.Error)
	}
}

func TestPositionTechStacksOverAPI(t *testing.T) {
	api := newTestAPI(t)
	clientID, _ := api.seedPosition(t)

	var pos domain.Position
	api.mustData(t, http.MethodPost, "/positions", map[string]any{
		"client_id":   clientID,
		"title":       "Platform Engineer",
		"tech_stacks": []string{"Go", "go", " GO ", "Terraform"},
	}, http.StatusCreated, &pos)
	if len(pos.TechStacks) != 2 {
		t.Fatalf("stacks = %v", pos.TechStacks)
	}

	// absent key leaves the tag set untouched
	api.mustData(t, http.MethodPatch, "/positions/"+pos.ID, map[string]any{
		"title": "Senior Platform Engineer",
	}, http.StatusOK, &pos)
	if len(pos.TechStacks) != 2 {
		t.Fatalf("stacks after unrelated patch = %v", pos.TechStacks)
	}

	// explicit empty array clears it, and the emptied array stays in the body
	status, env := api.do(t, http.MethodPatch, "/positions/"+pos.ID, map[string]any{
		"tech_stacks": []string{},
	})
	if status != http.StatusOK {
		t.Fatalf("clear: status = %d (error: %s)", status, env.Error)
	}
	if !bytes.Contains(env.Data, []byte(`"tech_stacks":[]`)) {
		t.Fatalf("cleared tag set missing from body: %s", env.Data)
	}
	var cleared domain.Position
	if err := json.Unmarshal(env.Data, &cleared); err != nil {
		t.Fatal(err)
	}
	if len(cleared.TechStacks) != 0 {
		t.Fatalf("stacks after clear = %v", cleared.TechStacks)
	}
}

func TestInterviewerUpdateAndDeleteOverAPI(t *testing.T) {
	api := newTestAPI(t)
	var iv domain.Interviewer
	api.mustData(t, http.MethodPost, "/interviewers", map[string]any{
		"name":        "Sam Lee",
		"email":       "sam@example.com",
		"tech_stacks": []string{"Go", "Terraform"},
	}, http.StatusCreated, &iv)
	if len(iv.TechStacks) != 2 {
		t.Fatalf("stacks = %v", iv.TechStacks)
	}

	api.mustData(t, http.MethodPatch, "/interviewers/"+iv.ID, map[string]any{
		"name": "Sam A. Lee",
	}, http.StatusOK, &iv)
	if iv.Name != "Sam A. Lee" || len(iv.TechStacks) != 2 {
		t.Fatalf("after rename: name=%q stacks=%v", iv.Name, iv.TechStacks)
	}

	status, env := api.do(t, http.MethodPatch, "/interviewers/"+iv.ID, map[string]any{
		"tech_stacks": []string{},
	})
	if status != http.StatusOK {
		t.Fatalf("clear: status = %d (error: %s)", status, env.Error)
	}
	if !bytes.Contains(env.Data, []byte(`"tech_stacks":[]`)) {
		t.Fatalf("cleared tag set missing from body: %s", env.Data)
	}

	api.mustData(t, http.MethodDelete, "/interviewers/"+iv.ID, nil, http.StatusOK, nil)
	status, env = api.do(t, http.MethodGet, "/interviewers/"+iv.ID, nil)
	if status != http.StatusNotFound || env.Error != "interviewer not found" {
		t.Fatalf("after delete: status=%d error=%q", status, env.Error)
	}
}

func TestOpenAPISpecConcurrentFetch(t *testing.T) {
	api := newTestAPI(t)
	var wg sync.WaitGroup
	bodies := make([][]byte, 8)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Get(api.Server.URL + "/api/openapi.json")
			if err != nil {
				t.Errorf("fetch: %v", err)
				return
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Errorf("read: %v", err)
				return
			}
			bodies[i] = body
		}(i)
	}
	wg.Wait()
	for i, body := range bodies {
		if len(body) == 0 || !bytes.Contains(body, []byte(`"openapi"`)) {
			t.Fatalf("body %d = %q", i, body)
		}
		if !bytes.Equal(body, bodies[0]) {
			t.Fatalf("body %d differs from first", i)
		}
	}
}

func TestStepTypeTenantScopingOverAPI(t *testing.T) {
	api := newTestAPI(t)
	clientID, _ := api.seedPosition(t)
	var other domain.Client
	api.mustData(t, http.MethodPost, "/clients", map[string]any{"name": "Globex"}, http.StatusCreated, &other)

	var st domain.StepType
	api.mustData(t, http.MethodPost, fmt.Sprintf("/clients/%s/step-types", clientID), map[string]any{
		"name": "Technical Interview",
	}, http.StatusCreated, &st)

	status, env := api.do(t, http.MethodGet, fmt.Sprintf("/clients/%s/step-types/%s", other.ID, st.ID), nil)
	if status != http.StatusNotFound || env.Error != "interview step type not found for this client" {
		t.Fatalf("cross-tenant get: status=%d error=%q", status, env.Error)
	}
	api.mustData(t, http.MethodGet, fmt.Sprintf("/clients/%s/step-types/%s", clientID, st.ID), nil, http.StatusOK, &st)
}

func TestListEndpointsReturnEmptyArrays(t *testing.T) {
	api := newTestAPI(t)
	_, positionID := api.seedPosition(t)
	status, env := api.do(t, http.MethodGet, fmt.Sprintf("/positions/%s/applications", positionID), nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if string(env.Data) != "[]" {
		t.Fatalf("data = %s, want []", env.Data)
	}
}

func TestDuplicateStepTypeNameConflicts(t *testing.T) {
	api := newTestAPI(t)
	clientID, _ := api.seedPosition(t)
	body := map[string]any{"name": "Screening Call"}
	api.mustData(t, http.MethodPost, fmt.Sprintf("/clients/%s/step-types", clientID), body, http.StatusCreated, nil)
	status, env := api.do(t, http.MethodPost, fmt.Sprintf("/clients/%s/step-types", clientID), body)
	if status != http.StatusConflict {
		t.Fatalf("status = %d error=%q", status, env.Error)
	}
}
