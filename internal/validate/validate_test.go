package validate_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireline/internal/validate"
)

type candidateForm struct {
	Name       string  `validate:"required"`
	Email      string  `validate:"required,email"`
	ResumeLink *string `validate:"omitempty,url"`
}

type applicationForm struct {
	PositionID string        `validate:"required,uuid4"`
	Candidate  candidateForm `validate:"required"`
}

func TestStructValid(t *testing.T) {
	err := validate.Struct(candidateForm{Name: "Jo", Email: "jo@example.com"})
	assert.NoError(t, err)
}

func TestStructCollectsEveryIssue(t *testing.T) {
	err := validate.Struct(candidateForm{})
	var ve *validate.Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 2)
	assert.Equal(t, "name", ve.Issues[0].Field)
	assert.Equal(t, "email", ve.Issues[1].Field)
}

func TestNestedFieldsUseSnakeCasePaths(t *testing.T) {
	link := "not a url"
	err := validate.Struct(applicationForm{
		PositionID: "nope",
		Candidate:  candidateForm{Name: "Jo", Email: "jo@example.com", ResumeLink: &link},
	})
	var ve *validate.Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 2)
	assert.Equal(t, "position_id", ve.Issues[0].Field)
	assert.Equal(t, "candidate.resume_link", ve.Issues[1].Field)
	assert.Equal(t, "Must be a valid URL", ve.Issues[1].Message)
}

func TestErrorSerializesAsIssueList(t *testing.T) {
	err := validate.Struct(candidateForm{Name: "Jo", Email: "bad"})
	var ve *validate.Error
	require.ErrorAs(t, err, &ve)
	var issues []validate.Issue
	require.NoError(t, json.Unmarshal([]byte(ve.Error()), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, "email", issues[0].Field)
	assert.Equal(t, "Invalid email address", issues[0].Message)
}

func TestVarReportsUnderGivenName(t *testing.T) {
	err := validate.Var("client_id", "not-a-uuid", "required,uuid4")
	var ve *validate.Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, "client_id", ve.Issues[0].Field)

	assert.NoError(t, validate.Var("client_id", "d2b6f5e0-5b1a-4f0e-9d9e-1a2b3c4d5e6f", "required,uuid4"))
}
