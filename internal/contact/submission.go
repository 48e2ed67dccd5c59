package contact

// Status is the lifecycle state of one submit attempt.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSending Status = "sending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Submission is the status plus the message shown alongside it.
type Submission struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

type SubmissionEventKind string

const (
	SubmitRequested SubmissionEventKind = "submit"
	SubmitInvalid   SubmissionEventKind = "invalid"
	RelayAccepted   SubmissionEventKind = "accept"
	RelayRejected   SubmissionEventKind = "reject"
	ResetElapsed    SubmissionEventKind = "timeout"
)

type SubmissionEvent struct {
	Kind    SubmissionEventKind
	Message string
}

// ReduceSubmission is the idle -> sending -> success|error -> idle machine.
// Events that do not apply to the current status leave it unchanged.
func ReduceSubmission(s Submission, ev SubmissionEvent) Submission {
	switch ev.Kind {
	case SubmitRequested:
		if s.Status != StatusSending {
			return Submission{Status: StatusSending}
		}
	case SubmitInvalid:
		if s.Status != StatusSending {
			return Submission{Status: StatusIdle}
		}
	case RelayAccepted:
		if s.Status == StatusSending {
			return Submission{Status: StatusSuccess, Message: ev.Message}
		}
	case RelayRejected:
		if s.Status == StatusSending {
			return Submission{Status: StatusError, Message: ev.Message}
		}
	case ResetElapsed:
		if s.Status == StatusSuccess || s.Status == StatusError {
			return Submission{Status: StatusIdle}
		}
	}
	return s
}

// ButtonKey is the label key of the submit control for status.
func ButtonKey(status Status) string {
	switch status {
	case StatusSending:
		return KeyButtonSending
	case StatusSuccess:
		return KeyButtonSuccess
	case StatusError:
		return KeyButtonError
	}
	return KeyButtonSend
}
