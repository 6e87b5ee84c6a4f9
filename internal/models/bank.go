package models

import "time"

// Bank is the persisted form of a UAE bank registry entry.
type Bank struct {
	BankID      string `db:"bank_id"`
	Name        string `db:"name"`
	Code        string `db:"code"`
	RoutingCode string `db:"routing_code"`
	SwiftCode   string `db:"swift_code"` // Nullable
	ShortName   string `db:"short_name"` // Nullable
	Type        string `db:"bank_type"`
	Active      bool   `db:"active"`
	WPSEnabled  bool   `db:"wps_enabled"`
	AuditFields
}

// BankConnection is the persisted form of a bank submission channel.
// Credentials is the JSONB-encoded credential block.
type BankConnection struct {
	ConnectionID string `db:"connection_id"`
	Name         string `db:"name"`
	BankID       string `db:"bank_id"`
	Protocol     string `db:"protocol"`
	Endpoint     string `db:"endpoint"` // Nullable
	EmployerID   string `db:"employer_id"`
	RoutingCode  string `db:"routing_code"`
	Credentials  []byte `db:"credentials"` // JSONB
	State        string `db:"state"`

	LastTestAt      *time.Time `db:"last_test_at"` // Nullable
	LastTestOK      bool       `db:"last_test_ok"`
	LastTestMessage string     `db:"last_test_message"` // Nullable
	AuditFields
}
