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
	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
)

// MockRoleStore is a mock implementation of RoleStore
type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) GetUserRole(ctx context.Context, address string) (*model.UserRole, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserRole), args.Error(1)
}

func (m *MockRoleStore) GetRoleRequest(ctx context.Context, address string) (*model.RoleRequest, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleRequest), args.Error(1)
}

func (m *MockRoleStore) ListRoleRequests(ctx context.Context) ([]model.RoleRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoleRequest), args.Error(1)
}

func (m *MockRoleStore) CreateRoleRequest(tx dbmodel.TxInterface, request *model.RoleRequest) (bool, error) {
	args := m.Called(tx, request)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleStore) GetRoleRequestInTx(tx dbmodel.TxInterface, address string) (*model.RoleRequest, error) {
	args := m.Called(tx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleRequest), args.Error(1)
}

func (m *MockRoleStore) DeleteRoleRequest(tx dbmodel.TxInterface, address string) (bool, error) {
	args := m.Called(tx, address)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleStore) UpsertUserRole(tx dbmodel.TxInterface, userRole *model.UserRole) error {
	args := m.Called(tx, userRole)
	return args.Error(0)
}

func (m *MockRoleStore) DeleteUserRole(tx dbmodel.TxInterface, address string) (bool, error) {
	args := m.Called(tx, address)
	return args.Bool(0), args.Error(1)
}
