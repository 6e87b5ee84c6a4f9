package repositories

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// BankReader defines read operations for the UAE bank registry.
type BankReader interface {
	FindBankByID(ctx context.Context, bankID string) (*domain.Bank, error)
	FindBankByRoutingCode(ctx context.Context, routingCode string) (*domain.Bank, error)
	ListBanks(ctx context.Context, wpsOnly bool) ([]domain.Bank, error)
}

// BankWriter defines write operations for the bank registry.
type BankWriter interface {
	SaveBank(ctx context.Context, bank domain.Bank) error
	UpdateBank(ctx context.Context, bank domain.Bank) error
}

// BankRepositoryFacade combines bank registry repository interfaces.
type BankRepositoryFacade interface {
	BankReader
	BankWriter
}

// ConnectionReader defines read operations for bank connections.
type ConnectionReader interface {
	FindConnectionByID(ctx context.Context, connectionID string) (*domain.BankConnection, error)
	ListConnections(ctx context.Context) ([]domain.BankConnection, error)
}

// ConnectionWriter defines write operations for bank connections.
type ConnectionWriter interface {
	SaveConnection(ctx context.Context, conn domain.BankConnection) error
	UpdateConnection(ctx context.Context, conn domain.BankConnection) error
	UpdateConnectionState(ctx context.Context, connectionID string, state domain.ConnectionState, actor string) error
}

// ConnectionRepositoryFacade combines bank connection repository interfaces.
type ConnectionRepositoryFacade interface {
	ConnectionReader
	ConnectionWriter
}
