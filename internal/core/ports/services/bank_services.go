package services

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
)

// BankSvcFacade manages the UAE bank registry.
type BankSvcFacade interface {
	CreateBank(ctx context.Context, req dto.CreateBankRequest, actor string) (*domain.Bank, error)
	GetBank(ctx context.Context, bankID string) (*domain.Bank, error)
	ListBanks(ctx context.Context, wpsOnly bool) ([]domain.Bank, error)
}

// ConnectionSvcFacade manages bank submission channels.
type ConnectionSvcFacade interface {
	CreateConnection(ctx context.Context, req dto.CreateConnectionRequest, actor string) (*domain.BankConnection, error)
	GetConnection(ctx context.Context, connectionID string) (*domain.BankConnection, error)
	ListConnections(ctx context.Context) ([]domain.BankConnection, error)

	// ActivateConnection moves a connection to active; it must carry endpoint
	// and credentials for its protocol first.
	ActivateConnection(ctx context.Context, connectionID string, actor string) error
	SuspendConnection(ctx context.Context, connectionID string, actor string) error

	// TestConnection exercises the channel and records the outcome on the connection.
	TestConnection(ctx context.Context, connectionID string, actor string) (*dto.TestConnectionResponse, error)
}
