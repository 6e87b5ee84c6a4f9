package connectors

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
)

// manualConnector records submission intent for channels where an operator
// uploads the file through the bank's portal by hand. It accepts immediately
// and never settles on its own; the operator confirms the outcome later.
type manualConnector struct {
	conn domain.BankConnection
}

func newManualConnector(conn domain.BankConnection) *manualConnector {
	return &manualConnector{conn: conn}
}

var _ ports.Connector = (*manualConnector)(nil)

func (c *manualConnector) Transmit(_ context.Context, payload ports.SubmissionPayload) (ports.TransmitResult, error) {
	return ports.TransmitResult{
		Accepted:        true,
		BankReference:   "MANUAL-" + payload.Reference,
		ResponseMessage: "recorded for manual portal upload",
	}, nil
}

func (c *manualConnector) CheckStatus(_ context.Context, _ string) (ports.StatusResult, error) {
	return ports.StatusResult{}, nil
}

func (c *manualConnector) Test(_ context.Context) error {
	return nil
}
