package dto

import "github.com/mtc-jordan/tazweed-wps/internal/core/domain"

// SubmitRequest asks for a batch to be transmitted over a connection.
type SubmitRequest struct {
	ConnectionID string `json:"connectionID" binding:"required"`
	Type         string `json:"type,omitempty" binding:"omitempty,oneof=NEW CORRECTION CANCELLATION"`
}

// SubmissionType returns the requested type, defaulting to a new filing.
func (r SubmitRequest) SubmissionType() domain.SubmissionType {
	if r.Type == "" {
		return domain.SubmissionNew
	}
	return domain.SubmissionType(r.Type)
}

// ReconcileRequest carries a bank acknowledgement file for matching against a
// batch. Content is the raw SIF-format acknowledgement, base64 encoded.
type ReconcileRequest struct {
	AckContent []byte `json:"ackContent" binding:"required"`
}
