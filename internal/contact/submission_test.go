package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceSubmission(t *testing.T) {
	idle := Submission{Status: StatusIdle}
	sending := Submission{Status: StatusSending}
	success := Submission{Status: StatusSuccess, Message: "ok"}
	failed := Submission{Status: StatusError, Message: "ko"}

	tests := []struct {
		name string
		in   Submission
		ev   SubmissionEvent
		want Submission
	}{
		{"idle submit", idle, SubmissionEvent{Kind: SubmitRequested}, sending},
		{"idle invalid", idle, SubmissionEvent{Kind: SubmitInvalid}, idle},
		{"sending accept", sending, SubmissionEvent{Kind: RelayAccepted, Message: "ok"}, success},
		{"sending reject", sending, SubmissionEvent{Kind: RelayRejected, Message: "ko"}, failed},
		{"sending ignores submit", sending, SubmissionEvent{Kind: SubmitRequested}, sending},
		{"sending ignores invalid", sending, SubmissionEvent{Kind: SubmitInvalid}, sending},
		{"sending ignores timeout", sending, SubmissionEvent{Kind: ResetElapsed}, sending},
		{"success timeout", success, SubmissionEvent{Kind: ResetElapsed}, idle},
		{"error timeout", failed, SubmissionEvent{Kind: ResetElapsed}, idle},
		{"success resubmit", success, SubmissionEvent{Kind: SubmitRequested}, sending},
		{"error resubmit", failed, SubmissionEvent{Kind: SubmitRequested}, sending},
		{"error invalid", failed, SubmissionEvent{Kind: SubmitInvalid}, idle},
		{"idle ignores accept", idle, SubmissionEvent{Kind: RelayAccepted}, idle},
		{"idle ignores timeout", idle, SubmissionEvent{Kind: ResetElapsed}, idle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReduceSubmission(tt.in, tt.ev))
		})
	}
}

func TestButtonKey(t *testing.T) {
	assert.Equal(t, KeyButtonSend, ButtonKey(StatusIdle))
	assert.Equal(t, KeyButtonSending, ButtonKey(StatusSending))
	assert.Equal(t, KeyButtonSuccess, ButtonKey(StatusSuccess))
	assert.Equal(t, KeyButtonError, ButtonKey(StatusError))
}
