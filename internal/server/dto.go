package server

// Request payloads

type CandidateRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	ResumeLink *string `json:"resume_link,omitempty"`
}

type CreateApplicationRequest struct {
	PositionID string           `json:"position_id"`
	Candidate  CandidateRequest `json:"candidate"`
}

type UpdateApplicationRequest struct {
	Status                 string  `json:"status,omitempty"`
	ClientNotifiedAt       *string `json:"client_notified_at,omitempty"`
	CurrentInterviewStepID *string `json:"current_interview_step_id,omitempty"`
}

type CreateClientRequest struct {
	Name string `json:"name"`
}

type CreatePositionRequest struct {
	ClientID    string   `json:"client_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	TechStacks  []string `json:"tech_stacks,omitempty"`
}

// UpdatePositionRequest distinguishes an absent tech_stacks key (leave the tag
// set alone) from an empty array (clear it) via the pointer-to-slice.
type UpdatePositionRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty" enum:"open,closed"`
	TechStacks  *[]string `json:"tech_stacks,omitempty"`
}

type CreateInterviewerRequest struct {
	ClientID   *string  `json:"client_id,omitempty"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	TechStacks []string `json:"tech_stacks,omitempty"`
}

// UpdateInterviewerRequest uses the same pointer-to-slice trick as
// UpdatePositionRequest for tech_stacks.
type UpdateInterviewerRequest struct {
	Name       *string   `json:"name,omitempty"`
	Email      *string   `json:"email,omitempty"`
	TechStacks *[]string `json:"tech_stacks,omitempty"`
}

type CreateOriginalAssignmentRequest struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type CreateStepTypeRequest struct {
	Name string `json:"name"`
}

type UpdateStepTypeRequest struct {
	Name     *string `json:"name,omitempty"`
	ClientID *string `json:"client_id,omitempty"`
}

type CreateStepRequest struct {
	PositionID           string  `json:"position_id"`
	SequenceNumber       int     `json:"sequence_number"`
	Name                 string  `json:"name"`
	TypeID               string  `json:"type_id"`
	OriginalAssignmentID *string `json:"original_assignment_id,omitempty"`
	SchedulingLink       *string `json:"scheduling_link,omitempty"`
	EmailTemplate        *string `json:"email_template,omitempty"`
}

type UpdateStepRequest struct {
	SequenceNumber       *int    `json:"sequence_number,omitempty"`
	Name                 *string `json:"name,omitempty"`
	TypeID               *string `json:"type_id,omitempty"`
	OriginalAssignmentID *string `json:"original_assignment_id,omitempty"`
	SchedulingLink       *string `json:"scheduling_link,omitempty"`
	EmailTemplate        *string `json:"email_template,omitempty"`
}

// Response envelope

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type envelopeOut[T any] struct {
	Body envelope[T] `json:"body"`
}

func ok[T any](data T) *envelopeOut[T] {
	return &envelopeOut[T]{Body: envelope[T]{Success: true, Data: data}}
}
