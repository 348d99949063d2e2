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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/pharma-ledger-api/internal/identity/mocks"
	"github.com/wso2/pharma-ledger-api/internal/identity/model"
	dbmocks "github.com/wso2/pharma-ledger-api/internal/system/database/provider/mocks"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
)

const (
	regulatorAddr = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	addrA         = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	addrB         = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
)

func newTestService(t *testing.T) (IdentityService, *mocks.MockRoleStore) {
	t.Helper()
	client, _ := dbmocks.NewCommittingClient()
	store := &mocks.MockRoleStore{}
	registry := stores.NewStoreRegistry(client, store, nil)
	t.Cleanup(func() { store.AssertExpectations(t) })
	return NewIdentityService(registry, metrics.New()), store
}

func expectRegulator(store *mocks.MockRoleStore) {
	store.On("GetUserRole", mock.Anything, regulatorAddr).
		Return(&model.UserRole{Address: regulatorAddr, Role: model.RoleRegulator}, nil)
}

func TestRequestRole_RecordsPendingRequest(t *testing.T) {
	svc, store := newTestService(t)
	store.On("GetUserRole", mock.Anything, addrA).Return(nil, nil)
	store.On("GetRoleRequest", mock.Anything, addrA).Return(nil, nil)
	store.On("CreateRoleRequest", mock.Anything, mock.MatchedBy(func(r *model.RoleRequest) bool {
		return r.Address == addrA && r.Role == model.RoleManufacturer && r.RequestedTime > 0
	})).Return(true, nil)

	request, svcErr := svc.RequestRole(context.Background(), strings.ToLower(addrA), model.RoleManufacturer)

	require.Nil(t, svcErr)
	assert.Equal(t, addrA, request.Address)
	assert.Equal(t, model.RoleManufacturer, request.Role)
}

func TestRequestRole_RejectsUnrequestableRoles(t *testing.T) {
	svc, _ := newTestService(t)

	for _, role := range []model.Role{model.RoleNone, model.RoleRegulator, model.Role(9)} {
		_, svcErr := svc.RequestRole(context.Background(), addrA, role)
		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.ValidationError.Code, svcErr.Code)
	}
}

func TestRequestRole_RequiresCaller(t *testing.T) {
	svc, _ := newTestService(t)

	_, svcErr := svc.RequestRole(context.Background(), "", model.RoleDistributor)
	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.AuthorizationError.Code, svcErr.Code)

	_, svcErr = svc.RequestRole(context.Background(), "0x1234", model.RoleDistributor)
	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.AuthorizationError.Code, svcErr.Code)
}

func TestRequestRole_StateErrors(t *testing.T) {
	t.Run("already assigned", func(t *testing.T) {
		svc, store := newTestService(t)
		store.On("GetUserRole", mock.Anything, addrA).
			Return(&model.UserRole{Address: addrA, Role: model.RoleDistributor}, nil)

		_, svcErr := svc.RequestRole(context.Background(), addrA, model.RoleManufacturer)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.StateError.Code, svcErr.Code)
		assert.Contains(t, svcErr.ErrorDescription, "already has role Distributor")
	})

	t.Run("already pending", func(t *testing.T) {
		svc, store := newTestService(t)
		store.On("GetUserRole", mock.Anything, addrA).Return(nil, nil)
		store.On("GetRoleRequest", mock.Anything, addrA).
			Return(&model.RoleRequest{Address: addrA, Role: model.RoleDistributor}, nil)

		_, svcErr := svc.RequestRole(context.Background(), addrA, model.RoleManufacturer)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.StateError.Code, svcErr.Code)
		assert.Contains(t, svcErr.ErrorDescription, "pending")
	})

	t.Run("role assigned concurrently", func(t *testing.T) {
		svc, store := newTestService(t)
		store.On("GetUserRole", mock.Anything, addrA).Return(nil, nil)
		store.On("GetRoleRequest", mock.Anything, addrA).Return(nil, nil)
		store.On("CreateRoleRequest", mock.Anything, mock.Anything).Return(false, nil)

		_, svcErr := svc.RequestRole(context.Background(), addrA, model.RoleManufacturer)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.StateError.Code, svcErr.Code)
	})

	t.Run("concurrent duplicate request", func(t *testing.T) {
		svc, store := newTestService(t)
		store.On("GetUserRole", mock.Anything, addrA).Return(nil, nil)
		store.On("GetRoleRequest", mock.Anything, addrA).Return(nil, nil).Once()
		store.On("CreateRoleRequest", mock.Anything, mock.Anything).Return(false, errors.New("duplicate key"))
		store.On("GetRoleRequest", mock.Anything, addrA).
			Return(&model.RoleRequest{Address: addrA, Role: model.RoleDistributor}, nil).Once()

		_, svcErr := svc.RequestRole(context.Background(), addrA, model.RoleManufacturer)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.StateError.Code, svcErr.Code)
	})
}

func TestApproveRoleRequest_AssignsRoleAndClearsRequest(t *testing.T) {
	svc, store := newTestService(t)
	expectRegulator(store)
	store.On("GetRoleRequestInTx", mock.Anything, addrA).
		Return(&model.RoleRequest{Address: addrA, Role: model.RoleManufacturer}, nil)
	store.On("DeleteRoleRequest", mock.Anything, addrA).Return(true, nil)
	store.On("UpsertUserRole", mock.Anything, mock.MatchedBy(func(r *model.UserRole) bool {
		return r.Address == addrA && r.Role == model.RoleManufacturer && r.AssignedBy == regulatorAddr
	})).Return(nil)

	userRole, svcErr := svc.ApproveRoleRequest(context.Background(), regulatorAddr, addrA)

	require.Nil(t, svcErr)
	assert.Equal(t, model.RoleManufacturer, userRole.Role)
}

func TestApproveRoleRequest_NotFound(t *testing.T) {
	svc, store := newTestService(t)
	expectRegulator(store)
	store.On("GetRoleRequestInTx", mock.Anything, addrA).Return(nil, nil)

	_, svcErr := svc.ApproveRoleRequest(context.Background(), regulatorAddr, addrA)

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.NotFoundError.Code, svcErr.Code)
}

func TestApproveRoleRequest_LosesRaceToConcurrentDecision(t *testing.T) {
	svc, store := newTestService(t)
	expectRegulator(store)
	store.On("GetRoleRequestInTx", mock.Anything, addrA).
		Return(&model.RoleRequest{Address: addrA, Role: model.RoleManufacturer}, nil)
	store.On("DeleteRoleRequest", mock.Anything, addrA).Return(false, nil)

	_, svcErr := svc.ApproveRoleRequest(context.Background(), regulatorAddr, addrA)

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.NotFoundError.Code, svcErr.Code)
	store.AssertNotCalled(t, "UpsertUserRole", mock.Anything, mock.Anything)
}

func TestRegulatorOnlyOperations(t *testing.T) {
	tests := []struct {
		name string
		call func(svc IdentityService) *serviceerror.ServiceError
	}{
		{"approve", func(svc IdentityService) *serviceerror.ServiceError {
			_, err := svc.ApproveRoleRequest(context.Background(), addrB, addrA)
			return err
		}},
		{"deny", func(svc IdentityService) *serviceerror.ServiceError {
			return svc.DenyRoleRequest(context.Background(), addrB, addrA)
		}},
		{"list", func(svc IdentityService) *serviceerror.ServiceError {
			_, err := svc.GetPendingRequests(context.Background(), addrB)
			return err
		}},
		{"revoke", func(svc IdentityService) *serviceerror.ServiceError {
			return svc.RevokeRole(context.Background(), addrB, addrA)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			store.On("GetUserRole", mock.Anything, addrB).
				Return(&model.UserRole{Address: addrB, Role: model.RoleManufacturer}, nil)

			svcErr := tt.call(svc)

			require.NotNil(t, svcErr)
			assert.Equal(t, serviceerror.AuthorizationError.Code, svcErr.Code)
		})
	}
}

func TestDenyRoleRequest(t *testing.T) {
	t.Run("clears request", func(t *testing.T) {
		svc, store := newTestService(t)
		expectRegulator(store)
		store.On("DeleteRoleRequest", mock.Anything, addrA).Return(true, nil)

		assert.Nil(t, svc.DenyRoleRequest(context.Background(), regulatorAddr, addrA))
	})

	t.Run("no pending request", func(t *testing.T) {
		svc, store := newTestService(t)
		expectRegulator(store)
		store.On("DeleteRoleRequest", mock.Anything, addrA).Return(false, nil)

		svcErr := svc.DenyRoleRequest(context.Background(), regulatorAddr, addrA)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.NotFoundError.Code, svcErr.Code)
	})

	t.Run("malformed target", func(t *testing.T) {
		svc, _ := newTestService(t)

		svcErr := svc.DenyRoleRequest(context.Background(), regulatorAddr, "not-an-address")

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.ValidationError.Code, svcErr.Code)
	})
}

func TestGetPendingRequests(t *testing.T) {
	svc, store := newTestService(t)
	expectRegulator(store)
	pending := []model.RoleRequest{
		{Address: addrA, Role: model.RoleManufacturer, RequestedTime: 1},
		{Address: addrB, Role: model.RoleDistributor, RequestedTime: 2},
	}
	store.On("ListRoleRequests", mock.Anything).Return(pending, nil)

	requests, svcErr := svc.GetPendingRequests(context.Background(), regulatorAddr)

	require.Nil(t, svcErr)
	assert.Equal(t, pending, requests)
}

func TestGetUserRole(t *testing.T) {
	t.Run("defaults to none", func(t *testing.T) {
		svc, store := newTestService(t)
		store.On("GetUserRole", mock.Anything, addrA).Return(nil, nil)

		userRole, svcErr := svc.GetUserRole(context.Background(), strings.ToLower(addrA))

		require.Nil(t, svcErr)
		assert.Equal(t, model.RoleNone, userRole.Role)
		assert.Equal(t, addrA, userRole.Address)
	})

	t.Run("database failure", func(t *testing.T) {
		svc, store := newTestService(t)
		store.On("GetUserRole", mock.Anything, addrA).Return(nil, errors.New("connection reset"))

		_, svcErr := svc.GetUserRole(context.Background(), addrA)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.DatabaseError.Code, svcErr.Code)
	})
}

func TestRevokeRole(t *testing.T) {
	t.Run("revokes assigned role", func(t *testing.T) {
		svc, store := newTestService(t)
		expectRegulator(store)
		store.On("GetUserRole", mock.Anything, addrA).
			Return(&model.UserRole{Address: addrA, Role: model.RoleDistributor}, nil)
		store.On("DeleteUserRole", mock.Anything, addrA).Return(true, nil)

		assert.Nil(t, svc.RevokeRole(context.Background(), regulatorAddr, addrA))
	})

	t.Run("no role", func(t *testing.T) {
		svc, store := newTestService(t)
		expectRegulator(store)
		store.On("GetUserRole", mock.Anything, addrA).Return(nil, nil)

		svcErr := svc.RevokeRole(context.Background(), regulatorAddr, addrA)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.NotFoundError.Code, svcErr.Code)
	})

	t.Run("regulator cannot be revoked", func(t *testing.T) {
		svc, store := newTestService(t)
		const otherRegulator = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
		expectRegulator(store)
		store.On("GetUserRole", mock.Anything, otherRegulator).
			Return(&model.UserRole{Address: otherRegulator, Role: model.RoleRegulator}, nil)

		svcErr := svc.RevokeRole(context.Background(), regulatorAddr, otherRegulator)

		require.NotNil(t, svcErr)
		assert.Equal(t, serviceerror.AuthorizationError.Code, svcErr.Code)
	})
}

func TestSeedRegulators(t *testing.T) {
	svc, store := newTestService(t)
	store.On("UpsertUserRole", mock.Anything, mock.MatchedBy(func(r *model.UserRole) bool {
		return r.Address == regulatorAddr && r.Role == model.RoleRegulator
	})).Return(nil).Once()

	assert.Nil(t, svc.SeedRegulators(context.Background(), []string{strings.ToLower(regulatorAddr)}))
	assert.Nil(t, svc.SeedRegulators(context.Background(), nil))

	svcErr := svc.SeedRegulators(context.Background(), []string{"0xbad"})
	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.ValidationError.Code, svcErr.Code)
}
