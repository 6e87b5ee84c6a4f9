package domain_test

import (
	"testing"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSubmissionState_IsTerminal(t *testing.T) {
	tests := []struct {
		state domain.SubmissionState
		want  bool
	}{
		{domain.SubmissionDraft, false},
		{domain.SubmissionSubmitted, false},
		{domain.SubmissionProcessing, false},
		{domain.SubmissionSuccess, true},
		{domain.SubmissionFailed, true},
		{domain.SubmissionCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.IsTerminal())
		})
	}
}

func TestSubmission_CanRetry(t *testing.T) {
	tests := []struct {
		name string
		sub  domain.Submission
		want bool
	}{
		{
			name: "failed draft with budget remaining",
			sub:  domain.Submission{State: domain.SubmissionDraft, LastError: "timeout", RetryCount: 1, MaxRetries: 3},
			want: true,
		},
		{
			name: "draft that never failed",
			sub:  domain.Submission{State: domain.SubmissionDraft, RetryCount: 0, MaxRetries: 3},
			want: false,
		},
		{
			name: "budget exhausted",
			sub:  domain.Submission{State: domain.SubmissionDraft, LastError: "timeout", RetryCount: 3, MaxRetries: 3},
			want: false,
		},
		{
			name: "processing record stays in the pipeline",
			sub:  domain.Submission{State: domain.SubmissionProcessing, LastError: "timeout", RetryCount: 1, MaxRetries: 3},
			want: false,
		},
		{
			name: "terminally failed",
			sub:  domain.Submission{State: domain.SubmissionFailed, LastError: "timeout", RetryCount: 3, MaxRetries: 3},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.CanRetry())
		})
	}
}

func TestSubmission_RecordFailure(t *testing.T) {
	s := domain.Submission{State: domain.SubmissionSubmitted, MaxRetries: 3}

	s.RecordFailure("timeout contacting bank")
	assert.Equal(t, domain.SubmissionDraft, s.State)
	assert.Equal(t, 1, s.RetryCount)
	assert.Equal(t, "timeout contacting bank", s.LastError)

	s.RecordFailure("HTTP 502 from gateway")
	assert.Equal(t, domain.SubmissionDraft, s.State)
	assert.Equal(t, 2, s.RetryCount)

	// Third failure exhausts the budget and the record becomes terminal.
	s.RecordFailure("connection refused")
	assert.Equal(t, domain.SubmissionFailed, s.State)
	assert.Equal(t, 3, s.RetryCount)
	assert.Equal(t, "connection refused", s.LastError)
	assert.True(t, s.State.IsTerminal())
}
