package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
	"github.com/dealerhub/backend/internal/domain/shared"
)

// ConnectionService manages the lifecycle of branch-to-marketplace
// connections: establishing them after a successful credential validation,
// listing them for the UI, and tearing them down.
type ConnectionService struct {
	connections marketplace.ConnectionRepository
	platforms   marketplace.PlatformRegistry
	logger      *zap.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	connections marketplace.ConnectionRepository,
	platforms marketplace.PlatformRegistry,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		platforms:   platforms,
		logger:      logger,
	}
}

// Connect validates the supplied credentials against the platform and, only
// on success, stores the connection for the (branch, platform) pair.
// Reconnecting an already-connected pair replaces the stored credentials.
// Nothing is written when validation fails.
func (s *ConnectionService) Connect(ctx context.Context, actor dealership.Actor, input ConnectInput) (*ConnectionDTO, error) {
	if !input.Platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", fmt.Sprintf("Unknown marketplace platform: %s", input.Platform))
	}
	if !actor.CanAccessBranch(input.BranchID) {
		return nil, shared.ErrForbidden
	}
	if len(input.Credentials) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Credentials are required")
	}

	adapter, err := s.platforms.GetPlatform(input.Platform)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PLATFORM", fmt.Sprintf("Unknown marketplace platform: %s", input.Platform))
	}

	result, err := adapter.Validate(ctx, input.Credentials)
	if err != nil {
		s.logger.Warn("marketplace credential validation failed",
			zap.String("branch_id", input.BranchID.String()),
			zap.String("platform", input.Platform.String()),
			zap.Error(err),
		)
		if errors.Is(err, marketplace.ErrMissingCredentials) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", err.Error())
		}
		return nil, shared.NewDomainError("CREDENTIAL_VALIDATION_FAILED", err.Error())
	}

	conn := marketplace.NewConnection(input.BranchID, input.Platform, result)
	if err := s.connections.Upsert(ctx, conn); err != nil {
		return nil, err
	}

	s.logger.Info("marketplace connected",
		zap.String("branch_id", input.BranchID.String()),
		zap.String("platform", input.Platform.String()),
		zap.String("account_id", result.AccountID),
	)

	dto := NewConnectionDTO(conn)
	return &dto, nil
}

// Disconnect removes the connection for the (branch, platform) pair.
// Listings created through the connection are left as they are; the
// platform keeps its copy and the local rows stay for history.
func (s *ConnectionService) Disconnect(ctx context.Context, actor dealership.Actor, branchID uuid.UUID, platform marketplace.PlatformCode) error {
	if !platform.IsValid() {
		return shared.NewDomainError("INVALID_PLATFORM", fmt.Sprintf("Unknown marketplace platform: %s", platform))
	}
	if !actor.CanAccessBranch(branchID) {
		return shared.ErrForbidden
	}

	if err := s.connections.Delete(ctx, branchID, platform); err != nil {
		return err
	}

	s.logger.Info("marketplace disconnected",
		zap.String("branch_id", branchID.String()),
		zap.String("platform", platform.String()),
	)
	return nil
}

// ListConnections returns the branch's connections with credentials redacted
func (s *ConnectionService) ListConnections(ctx context.Context, actor dealership.Actor, branchID uuid.UUID) ([]ConnectionDTO, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, shared.ErrForbidden
	}

	connections, err := s.connections.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ConnectionDTO, len(connections))
	for i := range connections {
		dtos[i] = NewConnectionDTO(&connections[i])
	}
	return dtos, nil
}
