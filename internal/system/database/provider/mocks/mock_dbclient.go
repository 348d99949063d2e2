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
	"database/sql"

	"github.com/stretchr/testify/mock"

	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
)

// MockDBClient is a mock implementation of DBClientInterface
type MockDBClient struct {
	mock.Mock
}

func (m *MockDBClient) Query(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	callArgs := m.Called(ctx, query, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]map[string]interface{}), callArgs.Error(1)
}

func (m *MockDBClient) Execute(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) (int64, error) {
	callArgs := m.Called(ctx, query, args)
	return callArgs.Get(0).(int64), callArgs.Error(1)
}

func (m *MockDBClient) BeginTx(ctx context.Context) (dbmodel.TxInterface, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dbmodel.TxInterface), args.Error(1)
}

func (m *MockDBClient) GetDBType() string {
	args := m.Called()
	return args.String(0)
}

// MockTx is a mock implementation of TxInterface
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Exec(query dbmodel.DBQuery, args ...interface{}) (sql.Result, error) {
	callArgs := m.Called(query, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).(sql.Result), callArgs.Error(1)
}

func (m *MockTx) Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	callArgs := m.Called(query, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]map[string]interface{}), callArgs.Error(1)
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// NewCommittingClient returns a client whose transactions always begin and commit.
func NewCommittingClient() (*MockDBClient, *MockTx) {
	tx := &MockTx{}
	tx.On("Commit").Return(nil).Maybe()
	tx.On("Rollback").Return(nil).Maybe()

	client := &MockDBClient{}
	client.On("BeginTx", mock.Anything).Return(tx, nil).Maybe()
	client.On("GetDBType").Return("mysql").Maybe()
	return client, tx
}
