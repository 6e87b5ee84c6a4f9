package domain

import "time"

// SubmissionState is the lifecycle state of one transmission attempt record.
type SubmissionState string

const (
	SubmissionDraft      SubmissionState = "DRAFT"
	SubmissionSubmitted  SubmissionState = "SUBMITTED"
	SubmissionProcessing SubmissionState = "PROCESSING"
	SubmissionSuccess    SubmissionState = "SUCCESS"
	SubmissionFailed     SubmissionState = "FAILED"
	SubmissionCancelled  SubmissionState = "CANCELLED"
)

// IsTerminal reports whether the submission record can no longer change.
func (s SubmissionState) IsTerminal() bool {
	return s == SubmissionSuccess || s == SubmissionFailed || s == SubmissionCancelled
}

// SubmissionType distinguishes a first filing from corrections and cancellations.
type SubmissionType string

const (
	SubmissionNew          SubmissionType = "NEW"
	SubmissionCorrection   SubmissionType = "CORRECTION"
	SubmissionCancellation SubmissionType = "CANCELLATION"
)

// Submission is one transmission of an encoded batch to a bank connection.
// It references but does not own its batch and connection.
type Submission struct {
	SubmissionID string          `json:"submissionID"`
	Reference    string          `json:"reference"`
	BatchID      string          `json:"batchID"`
	ConnectionID string          `json:"connectionID"`
	Type         SubmissionType  `json:"type"`
	State        SubmissionState `json:"state"`

	// Encoded payload fingerprint for tamper-evidence.
	FileName string `json:"fileName"`
	FileHash string `json:"fileHash"` // SHA-256 hex
	FileSize int    `json:"fileSize"`

	BankReference       string `json:"bankReference,omitempty"`
	BankResponseCode    string `json:"bankResponseCode,omitempty"`
	BankResponseMessage string `json:"bankResponseMessage,omitempty"`

	RetryCount int    `json:"retryCount"`
	MaxRetries int    `json:"maxRetries"`
	LastError  string `json:"lastError,omitempty"` // preserved verbatim for audit

	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
	ProcessingStart   *time.Time `json:"processingStart,omitempty"`
	ProcessingEnd     *time.Time `json:"processingEnd,omitempty"`
	AuditFields
}

// CanRetry reports whether a failed attempt may re-enter the pipeline.
// Only a draft carrying a recorded failure with budget remaining qualifies;
// retry never resets the retry count.
func (s *Submission) CanRetry() bool {
	return s.State == SubmissionDraft && s.LastError != "" && s.RetryCount < s.MaxRetries
}

// RecordFailure applies one failed attempt: the raw error is kept verbatim,
// the retry counter advances, and the record returns to draft while the
// budget lasts, else becomes terminally failed.
func (s *Submission) RecordFailure(rawError string) {
	s.LastError = rawError
	s.RetryCount++
	if s.RetryCount >= s.MaxRetries {
		s.State = SubmissionFailed
	} else {
		s.State = SubmissionDraft
	}
}
