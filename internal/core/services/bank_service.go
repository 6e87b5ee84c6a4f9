package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
)

type bankService struct {
	bankRepo portsrepo.BankRepositoryFacade
	now      func() time.Time
}

// NewBankService creates a new BankService.
func NewBankService(bankRepo portsrepo.BankRepositoryFacade) portssvc.BankSvcFacade {
	return &bankService{bankRepo: bankRepo, now: time.Now}
}

var _ portssvc.BankSvcFacade = (*bankService)(nil)

func (s *bankService) CreateBank(ctx context.Context, req dto.CreateBankRequest, actor string) (*domain.Bank, error) {
	if existing, err := s.bankRepo.FindBankByRoutingCode(ctx, req.RoutingCode); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: routing code %s already registered", apperrors.ErrDuplicate, req.RoutingCode)
	}

	bankType := domain.BankLocal
	if req.Type != "" {
		bankType = domain.BankType(req.Type)
	}
	wpsEnabled := true
	if req.WPSEnabled != nil {
		wpsEnabled = *req.WPSEnabled
	}

	now := s.now().UTC()
	bank := domain.Bank{
		BankID:      uuid.NewString(),
		Name:        req.Name,
		Code:        req.Code,
		RoutingCode: req.RoutingCode,
		SwiftCode:   req.SwiftCode,
		ShortName:   req.ShortName,
		Type:        bankType,
		Active:      true,
		WPSEnabled:  wpsEnabled,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.bankRepo.SaveBank(ctx, bank); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (s *bankService) GetBank(ctx context.Context, bankID string) (*domain.Bank, error) {
	return s.bankRepo.FindBankByID(ctx, bankID)
}

func (s *bankService) ListBanks(ctx context.Context, wpsOnly bool) ([]domain.Bank, error) {
	return s.bankRepo.ListBanks(ctx, wpsOnly)
}

// connectionService manages bank submission channels and their lifecycle.
type connectionService struct {
	connRepo   portsrepo.ConnectionRepositoryFacade
	bankRepo   portsrepo.BankReader
	connectors ports.ConnectorFactory
	now        func() time.Time
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(
	connRepo portsrepo.ConnectionRepositoryFacade,
	bankRepo portsrepo.BankReader,
	connectors ports.ConnectorFactory,
) portssvc.ConnectionSvcFacade {
	return &connectionService{
		connRepo:   connRepo,
		bankRepo:   bankRepo,
		connectors: connectors,
		now:        time.Now,
	}
}

var _ portssvc.ConnectionSvcFacade = (*connectionService)(nil)

func (s *connectionService) CreateConnection(ctx context.Context, req dto.CreateConnectionRequest, actor string) (*domain.BankConnection, error) {
	bank, err := s.bankRepo.FindBankByID(ctx, req.BankID)
	if err != nil {
		return nil, err
	}
	if !bank.WPSEnabled {
		return nil, fmt.Errorf("%w: bank %s is not WPS enabled", apperrors.ErrValidation, bank.Code)
	}

	now := s.now().UTC()
	conn := domain.BankConnection{
		ConnectionID: uuid.NewString(),
		Name:         req.Name,
		BankID:       req.BankID,
		Protocol:     domain.Protocol(req.Protocol),
		Endpoint:     req.Endpoint,
		EmployerID:   req.EmployerID,
		RoutingCode:  req.RoutingCode,
		Credentials:  req.Credentials,
		State:        domain.ConnectionDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.connRepo.SaveConnection(ctx, conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (s *connectionService) GetConnection(ctx context.Context, connectionID string) (*domain.BankConnection, error) {
	return s.connRepo.FindConnectionByID(ctx, connectionID)
}

func (s *connectionService) ListConnections(ctx context.Context) ([]domain.BankConnection, error) {
	return s.connRepo.ListConnections(ctx)
}

func (s *connectionService) ActivateConnection(ctx context.Context, connectionID string, actor string) error {
	conn, err := s.connRepo.FindConnectionByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.State == domain.ConnectionActive {
		return nil
	}
	if !conn.CanActivate() {
		return fmt.Errorf("%w: connection lacks endpoint or credentials for %s",
			apperrors.ErrValidation, conn.Protocol)
	}
	return s.connRepo.UpdateConnectionState(ctx, connectionID, domain.ConnectionActive, actor)
}

func (s *connectionService) SuspendConnection(ctx context.Context, connectionID string, actor string) error {
	conn, err := s.connRepo.FindConnectionByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.State != domain.ConnectionActive {
		return fmt.Errorf("%w: only active connections can be suspended (state %s)",
			apperrors.ErrStateTransition, conn.State)
	}
	return s.connRepo.UpdateConnectionState(ctx, connectionID, domain.ConnectionSuspended, actor)
}

// TestConnection exercises the channel end to end and records the outcome on
// the connection regardless of success.
func (s *connectionService) TestConnection(ctx context.Context, connectionID string, actor string) (*dto.TestConnectionResponse, error) {
	conn, err := s.connRepo.FindConnectionByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	connector, err := s.connectors.For(*conn)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	resp := dto.TestConnectionResponse{OK: true, Message: "connection OK"}
	if testErr := connector.Test(ctx); testErr != nil {
		resp.OK = false
		resp.Message = testErr.Error()
	}

	conn.LastTestAt = &now
	conn.LastTestOK = resp.OK
	conn.LastTestMessage = resp.Message
	conn.LastUpdatedAt = now
	conn.LastUpdatedBy = actor
	if err := s.connRepo.UpdateConnection(ctx, *conn); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Connection tested",
		slog.String("connection_id", connectionID),
		slog.Bool("ok", resp.OK),
	)
	return &resp, nil
}
