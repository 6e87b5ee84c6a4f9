package connectors

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
)

// soapConnector wraps the legacy SOAP channels some exchange houses still run.
type soapConnector struct {
	conn   domain.BankConnection
	client *http.Client
}

func newSOAPConnector(conn domain.BankConnection, client *http.Client) *soapConnector {
	return &soapConnector{conn: conn, client: client}
}

var _ ports.Connector = (*soapConnector)(nil)

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	NS      string   `xml:"xmlns:soap,attr"`
	Body    soapBody `xml:"soap:Body"`
}

type soapBody struct {
	Submit *soapSubmitFile  `xml:"SubmitSalaryFile,omitempty"`
	Status *soapStatusQuery `xml:"QuerySubmission,omitempty"`
	Ping   *soapPing        `xml:"Ping,omitempty"`
}

type soapSubmitFile struct {
	Username   string `xml:"Username"`
	Password   string `xml:"Password"`
	EmployerID string `xml:"EmployerId"`
	Reference  string `xml:"Reference"`
	FileName   string `xml:"FileName"`
	FileHash   string `xml:"FileHash"`
	Content    string `xml:"Content"` // base64
}

type soapStatusQuery struct {
	Username  string `xml:"Username"`
	Password  string `xml:"Password"`
	Reference string `xml:"Reference"`
}

type soapPing struct{}

type soapResponseEnvelope struct {
	XMLName xml.Name         `xml:"Envelope"`
	Body    soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	Result soapResult `xml:"Result"`
}

type soapResult struct {
	Accepted  bool   `xml:"Accepted"`
	Reference string `xml:"Reference"`
	Status    string `xml:"Status"`
	Code      string `xml:"Code"`
	Message   string `xml:"Message"`
}

func (c *soapConnector) call(ctx context.Context, action string, body soapBody) (*soapResult, error) {
	envelope := soapEnvelope{
		NS:   "http://schemas.xmlsoap.org/soap/envelope/",
		Body: body,
	}
	encoded, err := xml.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conn.Endpoint,
		bytes.NewReader(append([]byte(xml.Header), encoded...)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: bank endpoint returned %s", apperrors.ErrTransmission, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransmission, err)
	}
	var out soapResponseEnvelope
	if err := xml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: undecodable SOAP response: %v", apperrors.ErrTransmission, err)
	}
	return &out.Body.Result, nil
}

func (c *soapConnector) Transmit(ctx context.Context, payload ports.SubmissionPayload) (ports.TransmitResult, error) {
	result, err := c.call(ctx, "SubmitSalaryFile", soapBody{
		Submit: &soapSubmitFile{
			Username:   c.conn.Credentials.Username,
			Password:   c.conn.Credentials.Password,
			EmployerID: payload.EmployerID,
			Reference:  payload.Reference,
			FileName:   payload.FileName,
			FileHash:   payload.FileHash,
			Content:    base64.StdEncoding.EncodeToString(payload.Content),
		},
	})
	if err != nil {
		return ports.TransmitResult{}, err
	}
	return ports.TransmitResult{
		Accepted:        result.Accepted,
		BankReference:   result.Reference,
		ResponseCode:    result.Code,
		ResponseMessage: result.Message,
	}, nil
}

func (c *soapConnector) CheckStatus(ctx context.Context, bankReference string) (ports.StatusResult, error) {
	result, err := c.call(ctx, "QuerySubmission", soapBody{
		Status: &soapStatusQuery{
			Username:  c.conn.Credentials.Username,
			Password:  c.conn.Credentials.Password,
			Reference: bankReference,
		},
	})
	if err != nil {
		return ports.StatusResult{}, err
	}

	out := ports.StatusResult{ResponseCode: result.Code, ResponseMessage: result.Message}
	switch result.Status {
	case "SUCCESS":
		out.Settled = true
		out.Success = true
	case "FAILED", "REJECTED":
		out.Settled = true
	}
	return out, nil
}

func (c *soapConnector) Test(ctx context.Context) error {
	_, err := c.call(ctx, "Ping", soapBody{Ping: &soapPing{}})
	return err
}
