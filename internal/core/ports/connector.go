package ports

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// SubmissionPayload is the encoded file handed to a connector, with the
// metadata banks expect alongside it.
type SubmissionPayload struct {
	FileName   string
	Content    []byte
	FileHash   string // SHA-256 hex over Content
	EmployerID string
	Reference  string // our submission reference
}

// TransmitResult is what a connector reports back from one transmission attempt.
// ResponseMessage carries the bank's text verbatim; it is preserved for audit.
type TransmitResult struct {
	Accepted        bool
	BankReference   string
	ResponseCode    string
	ResponseMessage string
}

// StatusResult is the outcome of polling a bank for a prior submission.
type StatusResult struct {
	Settled         bool // final answer reached
	Success         bool // meaningful only when Settled
	ResponseCode    string
	ResponseMessage string
}

// Connector is a protocol-specific adapter that transmits an encoded batch to
// one bank channel. Connectors read connection credentials and must never
// mutate them.
type Connector interface {
	// Transmit sends the payload. A returned error is a transport failure;
	// a rejection by the bank arrives as Accepted=false with the bank's text.
	Transmit(ctx context.Context, payload SubmissionPayload) (TransmitResult, error)

	// CheckStatus polls the bank for the final settlement of a submission.
	// Idempotent; safe to call repeatedly.
	CheckStatus(ctx context.Context, bankReference string) (StatusResult, error)

	// Test verifies the connection is reachable with its configured credentials.
	Test(ctx context.Context) error
}

// ConnectorFactory builds the connector matching a connection's protocol.
type ConnectorFactory interface {
	For(conn domain.BankConnection) (Connector, error)
}
