package dto

import "github.com/mtc-jordan/tazweed-wps/internal/core/domain"

// CreateBankRequest registers a UAE bank or exchange house.
type CreateBankRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required,len=3"`
	RoutingCode string `json:"routingCode" binding:"required"`
	SwiftCode   string `json:"swiftCode,omitempty"`
	ShortName   string `json:"shortName,omitempty"`
	Type        string `json:"type,omitempty"` // defaults to LOCAL
	WPSEnabled  *bool  `json:"wpsEnabled,omitempty"`
}

// CreateConnectionRequest configures a bank submission channel.
type CreateConnectionRequest struct {
	Name        string                       `json:"name" binding:"required"`
	BankID      string                       `json:"bankID" binding:"required"`
	Protocol    string                       `json:"protocol" binding:"required,oneof=REST SOAP SFTP MANUAL"`
	Endpoint    string                       `json:"endpoint,omitempty"`
	EmployerID  string                       `json:"employerID" binding:"required"`
	RoutingCode string                       `json:"routingCode" binding:"required"`
	Credentials domain.ConnectionCredentials `json:"credentials"`
}

// TestConnectionResponse reports a connection test outcome.
type TestConnectionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
