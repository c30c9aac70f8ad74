package domain

type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type Position struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status" enum:"open,closed"`
	TechStacks  []string `json:"tech_stacks"`
	CreatedAt   string   `json:"created_at" format:"date-time"`
}

type Candidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	ResumeLink *string `json:"resume_link,omitempty"`
	CreatedAt  string  `json:"created_at" format:"date-time"`
}

type Application struct {
	ID                     string           `json:"id"`
	CandidateID            string           `json:"candidate_id"`
	PositionID             string           `json:"position_id"`
	Status                 string           `json:"status"`
	StatusUpdatedAt        string           `json:"status_updated_at" format:"date-time"`
	ClientNotifiedAt       *string          `json:"client_notified_at,omitempty" format:"date-time"`
	CurrentInterviewStepID *string          `json:"current_interview_step_id,omitempty"`
	CreatedAt              string           `json:"created_at" format:"date-time"`
	Candidate              *Candidate       `json:"candidate,omitempty"`
	Events                 []InterviewEvent `json:"interview_events"`
}

type InterviewEvent struct {
	ID            int64  `json:"id"`
	ApplicationID string `json:"application_id"`
	EventName     string `json:"event_name"`
	DetailsJSON   string `json:"details"`
	CreatedAt     string `json:"created_at" format:"date-time"`
}

type TechStack struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Interviewer struct {
	ID         string   `json:"id"`
	ClientID   *string  `json:"client_id,omitempty"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	TechStacks []string `json:"tech_stacks"`
	CreatedAt  string   `json:"created_at" format:"date-time"`
}

type StepType struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type Step struct {
	ID                   string  `json:"id"`
	PositionID           string  `json:"position_id"`
	SequenceNumber       int     `json:"sequence_number"`
	Name                 string  `json:"name"`
	TypeID               string  `json:"type_id"`
	OriginalAssignmentID *string `json:"original_assignment_id,omitempty"`
	SchedulingLink       *string `json:"scheduling_link,omitempty"`
	EmailTemplate        *string `json:"email_template,omitempty"`
	CreatedAt            string  `json:"created_at" format:"date-time"`
}

type OriginalAssignment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
