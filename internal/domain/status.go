package domain

// Candidate application statuses. The pipeline is deliberately permissive:
// any status may move to any other status, only the change itself is audited.
const (
	StatusInitialState         = "Initial state"
	StatusInvitationSent       = "Invitation Sent"
	StatusInterviewScheduled   = "Interview Scheduled"
	StatusWaitingForEvaluation = "Waiting for evaluation"
	StatusNeedsReview          = "Needs additional review"
	StatusNeedsFinalReport     = "Needs final report"
	StatusFinalReportSent      = "Final report sent"
	StatusPassed               = "Passed"
	StatusReinterview          = "Needs to be re-interviewed"
	StatusHold                 = "Hold"
	StatusRejected             = "Rejected"
	StatusArchived             = "Archived"
)

// CandidateStatuses is the closed set of legal application statuses, in rough
// pipeline order followed by the side states.
var CandidateStatuses = []string{
	StatusInitialState,
	StatusInvitationSent,
	StatusInterviewScheduled,
	StatusWaitingForEvaluation,
	StatusNeedsReview,
	StatusNeedsFinalReport,
	StatusFinalReportSent,
	StatusPassed,
	StatusReinterview,
	StatusHold,
	StatusRejected,
	StatusArchived,
}

func IsCandidateStatus(s string) bool {
	for _, v := range CandidateStatuses {
		if v == s {
			return true
		}
	}
	return false
}
