package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/models"
)

// ToModelBank converts a domain Bank to its persisted form.
func ToModelBank(d domain.Bank) models.Bank {
	return models.Bank{
		BankID:      d.BankID,
		Name:        d.Name,
		Code:        d.Code,
		RoutingCode: d.RoutingCode,
		SwiftCode:   d.SwiftCode,
		ShortName:   d.ShortName,
		Type:        string(d.Type),
		Active:      d.Active,
		WPSEnabled:  d.WPSEnabled,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBank converts a persisted bank row back to the domain form.
func ToDomainBank(m models.Bank) domain.Bank {
	return domain.Bank{
		BankID:      m.BankID,
		Name:        m.Name,
		Code:        m.Code,
		RoutingCode: m.RoutingCode,
		SwiftCode:   m.SwiftCode,
		ShortName:   m.ShortName,
		Type:        domain.BankType(m.Type),
		Active:      m.Active,
		WPSEnabled:  m.WPSEnabled,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelConnection converts a domain BankConnection to its persisted form,
// serialising the credential block to JSON.
func ToModelConnection(d domain.BankConnection) (models.BankConnection, error) {
	creds, err := json.Marshal(d.Credentials)
	if err != nil {
		return models.BankConnection{}, fmt.Errorf("marshalling credentials for connection %s: %w", d.ConnectionID, err)
	}
	return models.BankConnection{
		ConnectionID:    d.ConnectionID,
		Name:            d.Name,
		BankID:          d.BankID,
		Protocol:        string(d.Protocol),
		Endpoint:        d.Endpoint,
		EmployerID:      d.EmployerID,
		RoutingCode:     d.RoutingCode,
		Credentials:     creds,
		State:           string(d.State),
		LastTestAt:      d.LastTestAt,
		LastTestOK:      d.LastTestOK,
		LastTestMessage: d.LastTestMessage,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainConnection converts a persisted connection row back to the domain form.
func ToDomainConnection(m models.BankConnection) (domain.BankConnection, error) {
	var creds domain.ConnectionCredentials
	if len(m.Credentials) > 0 {
		if err := json.Unmarshal(m.Credentials, &creds); err != nil {
			return domain.BankConnection{}, fmt.Errorf("unmarshalling credentials for connection %s: %w", m.ConnectionID, err)
		}
	}
	return domain.BankConnection{
		ConnectionID:    m.ConnectionID,
		Name:            m.Name,
		BankID:          m.BankID,
		Protocol:        domain.Protocol(m.Protocol),
		Endpoint:        m.Endpoint,
		EmployerID:      m.EmployerID,
		RoutingCode:     m.RoutingCode,
		Credentials:     creds,
		State:           domain.ConnectionState(m.State),
		LastTestAt:      m.LastTestAt,
		LastTestOK:      m.LastTestOK,
		LastTestMessage: m.LastTestMessage,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}
