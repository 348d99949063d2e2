/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/wso2/pharma-ledger-api/internal/identity/model"
	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
	"github.com/wso2/pharma-ledger-api/internal/system/log"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
	"github.com/wso2/pharma-ledger-api/internal/system/utils"
)

var (
	errNoPendingRequest = errors.New("no pending role request")
	errRoleAssigned     = errors.New("address already holds a role")
	errNoRole           = errors.New("address holds no role")
)

// IdentityService defines the role registry operations
type IdentityService interface {
	RequestRole(ctx context.Context, caller string, role model.Role) (*model.RoleRequest, *serviceerror.ServiceError)
	ApproveRoleRequest(ctx context.Context, caller, address string) (*model.UserRole, *serviceerror.ServiceError)
	DenyRoleRequest(ctx context.Context, caller, address string) *serviceerror.ServiceError
	GetPendingRequests(ctx context.Context, caller string) ([]model.RoleRequest, *serviceerror.ServiceError)
	GetUserRole(ctx context.Context, address string) (*model.UserRole, *serviceerror.ServiceError)
	RevokeRole(ctx context.Context, caller, address string) *serviceerror.ServiceError
	SeedRegulators(ctx context.Context, addresses []string) *serviceerror.ServiceError
}

type identityService struct {
	stores  *stores.StoreRegistry
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewIdentityService creates the role registry service
func NewIdentityService(registry *stores.StoreRegistry, m *metrics.Metrics) IdentityService {
	return &identityService{
		stores:  registry,
		metrics: m,
		logger:  log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IdentityService")),
	}
}

// RequestRole records a pending request for an unassigned caller
func (s *identityService) RequestRole(ctx context.Context, caller string, role model.Role) (*model.RoleRequest, *serviceerror.ServiceError) {
	if !role.IsRequestable() {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("role %d cannot be requested; allowed roles are 1 (Manufacturer), 2 (Distributor) and 3 (HealthcareProvider)", int(role)))
	}

	callerAddress, svcErr := ParseCaller(caller)
	if svcErr != nil {
		return nil, svcErr
	}

	store := s.stores.Identity.(RoleStore)

	existing, err := store.GetUserRole(ctx, callerAddress)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to read role: %v", err))
	}
	if existing != nil && existing.Role != model.RoleNone {
		return nil, serviceerror.CustomServiceError(serviceerror.StateError,
			fmt.Sprintf("address %s already has role %s", callerAddress, existing.Role))
	}

	pending, err := store.GetRoleRequest(ctx, callerAddress)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to read role request: %v", err))
	}
	if pending != nil {
		return nil, pendingRequestError(callerAddress)
	}

	request := &model.RoleRequest{
		Address:       callerAddress,
		Role:          role,
		RequestedTime: utils.GetCurrentTimeMillis(),
	}

	err = s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			inserted, err := store.CreateRoleRequest(tx, request)
			if err != nil {
				return err
			}
			if !inserted {
				return errRoleAssigned
			}
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, errRoleAssigned) {
			return nil, serviceerror.CustomServiceError(serviceerror.StateError,
				fmt.Sprintf("address %s already has a role", callerAddress))
		}
		// A concurrent request for the same address loses on the primary key.
		if again, readErr := store.GetRoleRequest(ctx, callerAddress); readErr == nil && again != nil {
			return nil, pendingRequestError(callerAddress)
		}
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create role request: %v", err))
	}

	s.metrics.RoleDecision("requested")
	s.logger.Info("Role requested",
		log.String("address", callerAddress),
		log.String("role", role.String()))
	return request, nil
}

// ApproveRoleRequest assigns the requested role and clears the request
func (s *identityService) ApproveRoleRequest(ctx context.Context, caller, address string) (*model.UserRole, *serviceerror.ServiceError) {
	target, callerAddress, svcErr := s.authorizeRegulatorAction(ctx, caller, address)
	if svcErr != nil {
		return nil, svcErr
	}

	store := s.stores.Identity.(RoleStore)
	var assigned *model.UserRole

	err := s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			request, err := store.GetRoleRequestInTx(tx, target)
			if err != nil {
				return err
			}
			if request == nil {
				return errNoPendingRequest
			}
			assigned = &model.UserRole{
				Address:     target,
				Role:        request.Role,
				AssignedBy:  callerAddress,
				UpdatedTime: utils.GetCurrentTimeMillis(),
			}
			return nil
		},
		func(tx dbmodel.TxInterface) error {
			deleted, err := store.DeleteRoleRequest(tx, target)
			if err != nil {
				return err
			}
			if !deleted {
				return errNoPendingRequest
			}
			return nil
		},
		func(tx dbmodel.TxInterface) error {
			return store.UpsertUserRole(tx, assigned)
		},
	})
	if err != nil {
		if errors.Is(err, errNoPendingRequest) {
			return nil, noPendingRequestError(target)
		}
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to approve role request: %v", err))
	}

	s.metrics.RoleDecision("approved")
	s.logger.Info("Role request approved",
		log.String("address", target),
		log.String("role", assigned.Role.String()),
		log.String("approved_by", callerAddress))
	return assigned, nil
}

// DenyRoleRequest clears a pending request without assigning a role
func (s *identityService) DenyRoleRequest(ctx context.Context, caller, address string) *serviceerror.ServiceError {
	target, callerAddress, svcErr := s.authorizeRegulatorAction(ctx, caller, address)
	if svcErr != nil {
		return svcErr
	}

	store := s.stores.Identity.(RoleStore)
	err := s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			deleted, err := store.DeleteRoleRequest(tx, target)
			if err != nil {
				return err
			}
			if !deleted {
				return errNoPendingRequest
			}
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, errNoPendingRequest) {
			return noPendingRequestError(target)
		}
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to deny role request: %v", err))
	}

	s.metrics.RoleDecision("denied")
	s.logger.Info("Role request denied",
		log.String("address", target),
		log.String("denied_by", callerAddress))
	return nil
}

// GetPendingRequests lists open requests for a Regulator
func (s *identityService) GetPendingRequests(ctx context.Context, caller string) ([]model.RoleRequest, *serviceerror.ServiceError) {
	if _, svcErr := s.requireRole(ctx, caller, model.RoleRegulator); svcErr != nil {
		return nil, svcErr
	}

	store := s.stores.Identity.(RoleStore)
	requests, err := store.ListRoleRequests(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list role requests: %v", err))
	}
	return requests, nil
}

// GetUserRole returns the role of any address, defaulting to None
func (s *identityService) GetUserRole(ctx context.Context, address string) (*model.UserRole, *serviceerror.ServiceError) {
	target, err := utils.ParseAddress(address)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	store := s.stores.Identity.(RoleStore)
	userRole, err := store.GetUserRole(ctx, target)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to read role: %v", err))
	}
	if userRole == nil {
		return &model.UserRole{Address: target, Role: model.RoleNone}, nil
	}
	return userRole, nil
}

// RevokeRole returns a non-regulator address to None
func (s *identityService) RevokeRole(ctx context.Context, caller, address string) *serviceerror.ServiceError {
	target, callerAddress, svcErr := s.authorizeRegulatorAction(ctx, caller, address)
	if svcErr != nil {
		return svcErr
	}

	store := s.stores.Identity.(RoleStore)
	current, err := store.GetUserRole(ctx, target)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to read role: %v", err))
	}
	if current == nil || current.Role == model.RoleNone {
		return serviceerror.CustomServiceError(serviceerror.NotFoundError, fmt.Sprintf("address %s has no role", target))
	}
	if current.Role == model.RoleRegulator {
		return serviceerror.CustomServiceError(serviceerror.AuthorizationError, "regulator roles are managed by configuration and cannot be revoked")
	}

	err = s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			deleted, err := store.DeleteUserRole(tx, target)
			if err != nil {
				return err
			}
			if !deleted {
				return errNoRole
			}
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, errNoRole) {
			return serviceerror.CustomServiceError(serviceerror.NotFoundError, fmt.Sprintf("address %s has no role", target))
		}
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to revoke role: %v", err))
	}

	s.metrics.RoleDecision("revoked")
	s.logger.Info("Role revoked",
		log.String("address", target),
		log.String("previous_role", current.Role.String()),
		log.String("revoked_by", callerAddress))
	return nil
}

// SeedRegulators assigns the Regulator role to configured addresses
func (s *identityService) SeedRegulators(ctx context.Context, addresses []string) *serviceerror.ServiceError {
	if len(addresses) == 0 {
		s.logger.Warn("No regulators configured; role requests cannot be approved")
		return nil
	}

	store := s.stores.Identity.(RoleStore)
	now := utils.GetCurrentTimeMillis()
	queries := make([]func(tx dbmodel.TxInterface) error, 0, len(addresses))
	for _, address := range addresses {
		regulator, err := utils.ParseAddress(address)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, fmt.Sprintf("invalid regulator: %v", err))
		}
		userRole := &model.UserRole{
			Address:     regulator,
			Role:        model.RoleRegulator,
			AssignedBy:  regulator,
			UpdatedTime: now,
		}
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			return store.UpsertUserRole(tx, userRole)
		})
	}

	if err := s.stores.ExecuteTransaction(ctx, queries); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to seed regulators: %v", err))
	}

	s.logger.Info("Regulators seeded", log.Int("count", len(queries)))
	return nil
}

// authorizeRegulatorAction validates the target address and requires a Regulator caller
func (s *identityService) authorizeRegulatorAction(ctx context.Context, caller, address string) (string, string, *serviceerror.ServiceError) {
	target, err := utils.ParseAddress(address)
	if err != nil {
		return "", "", serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	callerAddress, svcErr := s.requireRole(ctx, caller, model.RoleRegulator)
	if svcErr != nil {
		return "", "", svcErr
	}
	return target, callerAddress, nil
}

func (s *identityService) requireRole(ctx context.Context, caller string, role model.Role) (string, *serviceerror.ServiceError) {
	callerAddress, svcErr := ParseCaller(caller)
	if svcErr != nil {
		return "", svcErr
	}

	store := s.stores.Identity.(RoleStore)
	userRole, err := store.GetUserRole(ctx, callerAddress)
	if err != nil {
		return "", serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to read caller role: %v", err))
	}
	if userRole == nil || userRole.Role != role {
		return "", serviceerror.CustomServiceError(serviceerror.AuthorizationError,
			fmt.Sprintf("caller %s does not have the %s role", callerAddress, role))
	}
	return callerAddress, nil
}

// ParseCaller validates the caller principal and returns its checksum form.
func ParseCaller(caller string) (string, *serviceerror.ServiceError) {
	if caller == "" {
		return "", serviceerror.CustomServiceError(serviceerror.AuthorizationError, "caller address is required")
	}
	callerAddress, err := utils.ParseAddress(caller)
	if err != nil {
		return "", serviceerror.CustomServiceError(serviceerror.AuthorizationError, fmt.Sprintf("caller %v", err))
	}
	return callerAddress, nil
}

func pendingRequestError(address string) *serviceerror.ServiceError {
	return serviceerror.CustomServiceError(serviceerror.StateError,
		fmt.Sprintf("address %s already has a pending role request", address))
}

func noPendingRequestError(address string) *serviceerror.ServiceError {
	return serviceerror.CustomServiceError(serviceerror.NotFoundError,
		fmt.Sprintf("no pending role request for address %s", address))
}
