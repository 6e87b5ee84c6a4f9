package domain

import "time"

// BankType classifies registered UAE banks and exchange houses.
type BankType string

const (
	BankLocal    BankType = "LOCAL"
	BankForeign  BankType = "FOREIGN"
	BankIslamic  BankType = "ISLAMIC"
	BankExchange BankType = "EXCHANGE"
)

// Bank is an entry in the UAE WPS bank registry.
type Bank struct {
	BankID      string   `json:"bankID"`
	Name        string   `json:"name"`
	Code        string   `json:"code"`        // 3-letter bank code, unique
	RoutingCode string   `json:"routingCode"` // WPS routing code, unique
	SwiftCode   string   `json:"swiftCode,omitempty"`
	ShortName   string   `json:"shortName,omitempty"`
	Type        BankType `json:"type"`
	Active      bool     `json:"active"`
	WPSEnabled  bool     `json:"wpsEnabled"`
	AuditFields
}

// Protocol selects the submission channel for a bank connection.
type Protocol string

const (
	ProtocolREST   Protocol = "REST"
	ProtocolSOAP   Protocol = "SOAP"
	ProtocolSFTP   Protocol = "SFTP"
	ProtocolManual Protocol = "MANUAL" // records intent for human portal submission
)

// ConnectionState is the lifecycle state of a bank connection.
type ConnectionState string

const (
	ConnectionDraft     ConnectionState = "DRAFT"
	ConnectionTesting   ConnectionState = "TESTING"
	ConnectionActive    ConnectionState = "ACTIVE"
	ConnectionSuspended ConnectionState = "SUSPENDED"
)

// ConnectionCredentials holds channel credentials. Connectors read them and
// must never mutate them.
type ConnectionCredentials struct {
	APIKey    string `json:"apiKey,omitempty"`
	APISecret string `json:"apiSecret,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	// SFTP
	SFTPHost       string `json:"sftpHost,omitempty"`
	SFTPPort       int    `json:"sftpPort,omitempty"`
	SFTPPrivateKey string `json:"sftpPrivateKey,omitempty"` // PEM
	SFTPUploadPath string `json:"sftpUploadPath,omitempty"`
}

// BankConnection is the configuration for reaching one bank's submission channel.
type BankConnection struct {
	ConnectionID string          `json:"connectionID"`
	Name         string          `json:"name"`
	BankID       string          `json:"bankID"`
	Protocol     Protocol        `json:"protocol"`
	Endpoint     string          `json:"endpoint,omitempty"` // REST/SOAP base URL
	EmployerID   string          `json:"employerID"`         // MOL employer ID
	RoutingCode  string          `json:"routingCode"`
	Credentials  ConnectionCredentials `json:"credentials"`
	State        ConnectionState `json:"state"`

	LastTestAt      *time.Time `json:"lastTestAt,omitempty"`
	LastTestOK      bool       `json:"lastTestOK"`
	LastTestMessage string     `json:"lastTestMessage,omitempty"`
	AuditFields
}

// CanActivate reports whether the connection carries enough configuration to
// be moved to ACTIVE. Manual connections only record intent and need nothing.
func (c *BankConnection) CanActivate() bool {
	switch c.Protocol {
	case ProtocolREST, ProtocolSOAP:
		return c.Endpoint != "" && (c.Credentials.APIKey != "" || c.Credentials.Username != "")
	case ProtocolSFTP:
		return c.Credentials.SFTPHost != "" && c.Credentials.Username != "" &&
			(c.Credentials.Password != "" || c.Credentials.SFTPPrivateKey != "")
	case ProtocolManual:
		return true
	}
	return false
}
