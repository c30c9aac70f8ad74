package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"hireline/internal/domain"
	"hireline/internal/engine"
	"hireline/internal/repo"
	"hireline/internal/validate"
)

// Config for the HTTP API handler.
type Config struct {
	Engine     engine.Engine
	BasePath   string
	EventsTail int
}

// apiError models the error half of the response envelope.
type apiError struct {
	status  int
	Success bool   `json:"success"`
	Message string `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Message }

func newAPIError(status int, message string) huma.StatusError {
	return &apiError{status: status, Success: false, Message: message}
}

// New returns an HTTP handler exposing the Hireline API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if cfg.EventsTail <= 0 {
		cfg.EventsTail = 50
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the response envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, msg)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		return newAPIError(status, msg)
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("Hireline API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerApplications(group, cfg.Engine)
	registerClients(group, cfg.Engine)
	registerPositions(group, cfg.Engine)
	registerStepTypes(group, cfg.Engine)
	registerSteps(group, cfg.Engine)
	registerAssignments(group, cfg.Engine)
	registerInterviewers(group, cfg.Engine)
	registerEvents(group, cfg.Engine, cfg.EventsTail)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

// handleError maps engine errors onto the envelope. Validation issues come
// back as the serialized issue list; constraint violations from the database
// surface as conflicts.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var ve *validate.Error
	if errors.As(err, &ve) {
		return newAPIError(http.StatusBadRequest, ve.Error())
	}
	if errors.Is(err, engine.ErrDuplicateApplication) {
		return newAPIError(http.StatusConflict, err.Error())
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, err.Error())
	}
	if strings.Contains(strings.ToLower(err.Error()), "constraint") {
		return newAPIError(http.StatusConflict, err.Error())
	}
	return newAPIError(http.StatusInternalServerError, "internal error")
}

func nonNilSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*envelopeOut[map[string]string], error) {
		return ok(map[string]string{"status": "ok"}), nil
	})
}

func registerApplications(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-application",
		Method:        http.MethodPost,
		Path:          "/applications",
		Summary:       "Submit candidate application",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateApplicationRequest `json:"body"`
	}) (*envelopeOut[domain.Application], error) {
		app, err := e.CreateApplication(ctx, input.Body.PositionID, engine.CandidateInput{
			Name:       input.Body.Candidate.Name,
			Email:      input.Body.Candidate.Email,
			ResumeLink: input.Body.Candidate.ResumeLink,
		})
		if err != nil {
			return nil, handleError(err)
		}
		app.Events = nonNilSlice(app.Events)
		return ok(app), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-application",
		Method:      http.MethodGet,
		Path:        "/applications/{id}",
		Summary:     "Get application with candidate and events",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Application], error) {
		app, err := e.GetApplication(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		app.Events = nonNilSlice(app.Events)
		return ok(app), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-position-applications",
		Method:      http.MethodGet,
		Path:        "/positions/{position_id}/applications",
		Summary:     "List applications for position",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		PositionID string `path:"position_id"`
	}) (*envelopeOut[[]domain.Application], error) {
		items, err := e.ListApplicationsForPosition(ctx, input.PositionID)
		if err != nil {
			return nil, handleError(err)
		}
		for i := range items {
			items[i].Events = nonNilSlice(items[i].Events)
		}
		return ok(nonNilSlice(items)), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-application",
		Method:      http.MethodPatch,
		Path:        "/applications/{id}",
		Summary:     "Update application",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   string                   `path:"id"`
		Body UpdateApplicationRequest `json:"body"`
	}) (*envelopeOut[domain.Application], error) {
		app, err := e.UpdateApplication(ctx, input.ID, engine.ApplicationUpdateOptions{
			Status:                 input.Body.Status,
			ClientNotifiedAt:       input.Body.ClientNotifiedAt,
			CurrentInterviewStepID: input.Body.CurrentInterviewStepID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		app.Events = nonNilSlice(app.Events)
		return ok(app), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-application",
		Method:      http.MethodDelete,
		Path:        "/applications/{id}",
		Summary:     "Delete application and its events",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Application], error) {
		app, err := e.DeleteApplication(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		app.Events = nonNilSlice(app.Events)
		return ok(app), nil
	})
}

func registerClients(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-client",
		Method:        http.MethodPost,
		Path:          "/clients",
		Summary:       "Create client",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateClientRequest `json:"body"`
	}) (*envelopeOut[domain.Client], error) {
		c, err := e.CreateClient(ctx, engine.ClientCreateOptions{Name: input.Body.Name})
		if err != nil {
			return nil, handleError(err)
		}
		return ok(c), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List clients",
	}, func(ctx context.Context, _ *struct{}) (*envelopeOut[[]domain.Client], error) {
		items, err := e.ListClients(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(nonNilSlice(items)), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/clients/{id}",
		Summary:     "Get client",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Client], error) {
		c, err := e.GetClient(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(c), nil
	})
}

func registerPositions(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-position",
		Method:        http.MethodPost,
		Path:          "/positions",
		Summary:       "Create position",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body CreatePositionRequest `json:"body"`
	}) (*envelopeOut[domain.Position], error) {
		p, err := e.CreatePosition(ctx, engine.PositionCreateOptions{
			ClientID:    input.Body.ClientID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			TechStacks:  input.Body.TechStacks,
		})
		if err != nil {
			return nil, handleError(err)
		}
		p.TechStacks = nonNilSlice(p.TechStacks)
		return ok(p), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-positions",
		Method:      http.MethodGet,
		Path:        "/positions",
		Summary:     "List positions",
	}, func(ctx context.Context, input *struct {
		ClientID string `query:"client_id"`
	}) (*envelopeOut[[]domain.Position], error) {
		items, err := e.ListPositions(ctx, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		for i := range items {
			items[i].TechStacks = nonNilSlice(items[i].TechStacks)
		}
		return ok(nonNilSlice(items)), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-position",
		Method:      http.MethodGet,
		Path:        "/positions/{id}",
		Summary:     "Get position",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Position], error) {
		p, err := e.GetPosition(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		p.TechStacks = nonNilSlice(p.TechStacks)
		return ok(p), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-position",
		Method:      http.MethodPatch,
		Path:        "/positions/{id}",
		Summary:     "Update position",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   string                `path:"id"`
		Body UpdatePositionRequest `json:"body"`
	}) (*envelopeOut[domain.Position], error) {
		opts := engine.PositionUpdateOptions{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      input.Body.Status,
		}
		if input.Body.TechStacks != nil {
			stacks := *input.Body.TechStacks
			if stacks == nil {
				stacks = []string{}
			}
			opts.TechStacks = stacks
		}
		p, err := e.UpdatePosition(ctx, input.ID, opts)
		if err != nil {
			return nil, handleError(err)
		}
		p.TechStacks = nonNilSlice(p.TechStacks)
		return ok(p), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-position",
		Method:      http.MethodDelete,
		Path:        "/positions/{id}",
		Summary:     "Delete position",
		Errors:      []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Position], error) {
		p, err := e.DeletePosition(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		p.TechStacks = nonNilSlice(p.TechStacks)
		return ok(p), nil
	})
}

func registerStepTypes(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-step-type",
		Method:        http.MethodPost,
		Path:          "/clients/{client_id}/step-types",
		Summary:       "Create interview step type",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ClientID string                `path:"client_id"`
		Body     CreateStepTypeRequest `json:"body"`
	}) (*envelopeOut[domain.StepType], error) {
		st, err := e.CreateStepType(ctx, engine.StepTypeCreateOptions{
			ClientID: input.ClientID,
			Name:     input.Body.Name,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return ok(st), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-step-types",
		Method:      http.MethodGet,
		Path:        "/clients/{client_id}/step-types",
		Summary:     "List interview step types for client",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		ClientID string `path:"client_id"`
	}) (*envelopeOut[[]domain.StepType], error) {
		items, err := e.ListStepTypes(ctx, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(nonNilSlice(items)), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-step-type",
		Method:      http.MethodGet,
		Path:        "/clients/{client_id}/step-types/{id}",
		Summary:     "Get interview step type",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ClientID string `path:"client_id"`
		ID       string `path:"id"`
	}) (*envelopeOut[domain.StepType], error) {
		st, err := e.GetStepType(ctx, input.ID, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(st), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-step-type",
		Method:      http.MethodPatch,
		Path:        "/clients/{client_id}/step-types/{id}",
		Summary:     "Update interview step type",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ClientID string                `path:"client_id"`
		ID       string                `path:"id"`
		Body     UpdateStepTypeRequest `json:"body"`
	}) (*envelopeOut[domain.StepType], error) {
		st, err := e.UpdateStepType(ctx, input.ID, input.ClientID, engine.StepTypeUpdateOptions{
			Name:     input.Body.Name,
			ClientID: input.Body.ClientID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return ok(st), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-step-type",
		Method:      http.MethodDelete,
		Path:        "/clients/{client_id}/step-types/{id}",
		Summary:     "Delete interview step type",
		Errors:      []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ClientID string `path:"client_id"`
		ID       string `path:"id"`
	}) (*envelopeOut[domain.StepType], error) {
		st, err := e.DeleteStepType(ctx, input.ID, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(st), nil
	})
}

func registerSteps(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-step",
		Method:        http.MethodPost,
		Path:          "/steps",
		Summary:       "Create interview step",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body CreateStepRequest `json:"body"`
	}) (*envelopeOut[domain.Step], error) {
		s, err := e.CreateStep(ctx, engine.StepCreateOptions{
			PositionID:           input.Body.PositionID,
			SequenceNumber:       input.Body.SequenceNumber,
			Name:                 input.Body.Name,
			TypeID:               input.Body.TypeID,
			OriginalAssignmentID: input.Body.OriginalAssignmentID,
			SchedulingLink:       input.Body.SchedulingLink,
			EmailTemplate:        input.Body.EmailTemplate,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return ok(s), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-position-steps",
		Method:      http.MethodGet,
		Path:        "/positions/{position_id}/steps",
		Summary:     "List interview steps for position",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		PositionID string `path:"position_id"`
	}) (*envelopeOut[[]domain.Step], error) {
		items, err := e.ListStepsForPosition(ctx, input.PositionID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(nonNilSlice(items)), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-step",
		Method:      http.MethodGet,
		Path:        "/steps/{id}",
		Summary:     "Get interview step",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Step], error) {
		s, err := e.GetStep(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(s), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-step",
		Method:      http.MethodPatch,
		Path:        "/steps/{id}",
		Summary:     "Update interview step",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   string            `path:"id"`
		Body UpdateStepRequest `json:"body"`
	}) (*envelopeOut[domain.Step], error) {
		s, err := e.UpdateStep(ctx, input.ID, engine.StepUpdateOptions{
			SequenceNumber:       input.Body.SequenceNumber,
			Name:                 input.Body.Name,
			TypeID:               input.Body.TypeID,
			OriginalAssignmentID: input.Body.OriginalAssignmentID,
			SchedulingLink:       input.Body.SchedulingLink,
			EmailTemplate:        input.Body.EmailTemplate,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return ok(s), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-step",
		Method:      http.MethodDelete,
		Path:        "/steps/{id}",
		Summary:     "Delete interview step",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Step], error) {
		s, err := e.DeleteStep(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(s), nil
	})
}

func registerAssignments(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-assignment",
		Method:        http.MethodPost,
		Path:          "/assignments",
		Summary:       "Register a take-home assignment",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateOriginalAssignmentRequest `json:"body"`
	}) (*envelopeOut[domain.OriginalAssignment], error) {
		oa, err := e.CreateOriginalAssignment(ctx, engine.OriginalAssignmentCreateOptions{
			Name: input.Body.Name,
			URL:  input.Body.URL,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return ok(oa), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-assignment",
		Method:      http.MethodGet,
		Path:        "/assignments/{id}",
		Summary:     "Get a take-home assignment",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.OriginalAssignment], error) {
		oa, err := e.GetOriginalAssignment(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(oa), nil
	})
}

func registerInterviewers(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-interviewer",
		Method:        http.MethodPost,
		Path:          "/interviewers",
		Summary:       "Create interviewer",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body CreateInterviewerRequest `json:"body"`
	}) (*envelopeOut[domain.Interviewer], error) {
		iv, err := e.CreateInterviewer(ctx, engine.InterviewerCreateOptions{
			ClientID:   input.Body.ClientID,
			Name:       input.Body.Name,
			Email:      input.Body.Email,
			TechStacks: input.Body.TechStacks,
		})
		if err != nil {
			return nil, handleError(err)
		}
		iv.TechStacks = nonNilSlice(iv.TechStacks)
		return ok(iv), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-interviewer",
		Method:      http.MethodGet,
		Path:        "/interviewers/{id}",
		Summary:     "Get interviewer",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Interviewer], error) {
		iv, err := e.GetInterviewer(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		iv.TechStacks = nonNilSlice(iv.TechStacks)
		return ok(iv), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-interviewer",
		Method:      http.MethodPatch,
		Path:        "/interviewers/{id}",
		Summary:     "Update interviewer",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   string                   `path:"id"`
		Body UpdateInterviewerRequest `json:"body"`
	}) (*envelopeOut[domain.Interviewer], error) {
		opts := engine.InterviewerUpdateOptions{
			Name:  input.Body.Name,
			Email: input.Body.Email,
		}
		if input.Body.TechStacks != nil {
			stacks := *input.Body.TechStacks
			if stacks == nil {
				stacks = []string{}
			}
			opts.TechStacks = stacks
		}
		iv, err := e.UpdateInterviewer(ctx, input.ID, opts)
		if err != nil {
			return nil, handleError(err)
		}
		iv.TechStacks = nonNilSlice(iv.TechStacks)
		return ok(iv), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-interviewer",
		Method:      http.MethodDelete,
		Path:        "/interviewers/{id}",
		Summary:     "Delete interviewer",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*envelopeOut[domain.Interviewer], error) {
		iv, err := e.DeleteInterviewer(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		iv.TechStacks = nonNilSlice(iv.TechStacks)
		return ok(iv), nil
	})
}

func registerEvents(api huma.API, e engine.Engine, defaultLimit int) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Tail the interview event journal",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Limit         int    `query:"limit"`
		ApplicationID string `query:"application_id"`
		Name          string `query:"name"`
	}) (*envelopeOut[[]domain.InterviewEvent], error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		items, err := e.LatestEvents(ctx, limit, input.ApplicationID, input.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return ok(nonNilSlice(items)), nil
	})
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var (
		once sync.Once
		spec []byte
	)
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			spec, _ = json.Marshal(api.OpenAPI())
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Hireline API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}
