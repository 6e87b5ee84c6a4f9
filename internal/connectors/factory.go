// Package connectors provides protocol-specific adapters for transmitting
// encoded salary files to bank submission channels.
package connectors

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
)

type factory struct {
	httpClient *http.Client
}

// NewFactory builds the connector factory. All HTTP-based connectors share a
// single client; per-attempt deadlines come from the caller's context.
func NewFactory() ports.ConnectorFactory {
	return &factory{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

var _ ports.ConnectorFactory = (*factory)(nil)

func (f *factory) For(conn domain.BankConnection) (ports.Connector, error) {
	switch conn.Protocol {
	case domain.ProtocolREST:
		return newRESTConnector(conn, f.httpClient), nil
	case domain.ProtocolSOAP:
		return newSOAPConnector(conn, f.httpClient), nil
	case domain.ProtocolSFTP:
		return newSFTPConnector(conn), nil
	case domain.ProtocolManual:
		return newManualConnector(conn), nil
	}
	return nil, fmt.Errorf("%w: unsupported protocol %q", apperrors.ErrValidation, conn.Protocol)
}
