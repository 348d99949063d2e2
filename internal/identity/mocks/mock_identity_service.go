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

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wso2/pharma-ledger-api/internal/identity/model"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
)

// MockIdentityService is a mock implementation of IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) RequestRole(ctx context.Context, caller string, role model.Role) (*model.RoleRequest, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, role)
	return optRoleRequest(args.Get(0)), optError(args.Get(1))
}

func (m *MockIdentityService) ApproveRoleRequest(ctx context.Context, caller, address string) (*model.UserRole, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, address)
	return optUserRole(args.Get(0)), optError(args.Get(1))
}

func (m *MockIdentityService) DenyRoleRequest(ctx context.Context, caller, address string) *serviceerror.ServiceError {
	args := m.Called(ctx, caller, address)
	return optError(args.Get(0))
}

func (m *MockIdentityService) GetPendingRequests(ctx context.Context, caller string) ([]model.RoleRequest, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller)
	var requests []model.RoleRequest
	if args.Get(0) != nil {
		requests = args.Get(0).([]model.RoleRequest)
	}
	return requests, optError(args.Get(1))
}

func (m *MockIdentityService) GetUserRole(ctx context.Context, address string) (*model.UserRole, *serviceerror.ServiceError) {
	args := m.Called(ctx, address)
	return optUserRole(args.Get(0)), optError(args.Get(1))
}

func (m *MockIdentityService) RevokeRole(ctx context.Context, caller, address string) *serviceerror.ServiceError {
	args := m.Called(ctx, caller, address)
	return optError(args.Get(0))
}

func (m *MockIdentityService) SeedRegulators(ctx context.Context, addresses []string) *serviceerror.ServiceError {
	args := m.Called(ctx, addresses)
	return optError(args.Get(0))
}

func optError(v interface{}) *serviceerror.ServiceError {
	if v == nil {
		return nil
	}
	return v.(*serviceerror.ServiceError)
}

func optUserRole(v interface{}) *model.UserRole {
	if v == nil {
		return nil
	}
	return v.(*model.UserRole)
}

func optRoleRequest(v interface{}) *model.RoleRequest {
	if v == nil {
		return nil
	}
	return v.(*model.RoleRequest)
}
