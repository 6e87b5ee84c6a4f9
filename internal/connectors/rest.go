package connectors

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
)

// restConnector speaks the JSON submission API offered by most UAE banks'
// corporate channels.
type restConnector struct {
	conn   domain.BankConnection
	client *http.Client
}

func newRESTConnector(conn domain.BankConnection, client *http.Client) *restConnector {
	return &restConnector{conn: conn, client: client}
}

var _ ports.Connector = (*restConnector)(nil)

type restSubmitRequest struct {
	FileName   string `json:"fileName"`
	FileHash   string `json:"fileHash"`
	EmployerID string `json:"employerId"`
	Reference  string `json:"reference"`
	Content    string `json:"content"` // base64
}

type restSubmitResponse struct {
	Accepted      bool   `json:"accepted"`
	BankReference string `json:"bankReference"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

type restStatusResponse struct {
	Status  string `json:"status"` // PROCESSING, SUCCESS, FAILED
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *restConnector) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.conn.Credentials.APIKey != "" {
		req.Header.Set("X-API-Key", c.conn.Credentials.APIKey)
	}
	if c.conn.Credentials.Username != "" {
		req.SetBasicAuth(c.conn.Credentials.Username, c.conn.Credentials.Password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: bank endpoint returned %s", apperrors.ErrTransmission, resp.Status)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: bank endpoint refused credentials (%s)", apperrors.ErrTransmission, resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: undecodable bank response: %v", apperrors.ErrTransmission, err)
	}
	return nil
}

func (c *restConnector) Transmit(ctx context.Context, payload ports.SubmissionPayload) (ports.TransmitResult, error) {
	body := restSubmitRequest{
		FileName:   payload.FileName,
		FileHash:   payload.FileHash,
		EmployerID: payload.EmployerID,
		Reference:  payload.Reference,
		Content:    base64.StdEncoding.EncodeToString(payload.Content),
	}

	var out restSubmitResponse
	if err := c.do(ctx, http.MethodPost, c.conn.Endpoint+"/wps/submissions", body, &out); err != nil {
		return ports.TransmitResult{}, err
	}
	return ports.TransmitResult{
		Accepted:        out.Accepted,
		BankReference:   out.BankReference,
		ResponseCode:    out.Code,
		ResponseMessage: out.Message,
	}, nil
}

func (c *restConnector) CheckStatus(ctx context.Context, bankReference string) (ports.StatusResult, error) {
	var out restStatusResponse
	url := c.conn.Endpoint + "/wps/submissions/" + bankReference
	if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return ports.StatusResult{}, err
	}

	result := ports.StatusResult{ResponseCode: out.Code, ResponseMessage: out.Message}
	switch out.Status {
	case "SUCCESS":
		result.Settled = true
		result.Success = true
	case "FAILED", "REJECTED":
		result.Settled = true
	}
	return result, nil
}

func (c *restConnector) Test(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.conn.Endpoint+"/health", nil, nil)
}
