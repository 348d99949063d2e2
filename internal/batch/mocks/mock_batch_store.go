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

	"github.com/wso2/pharma-ledger-api/internal/batch/model"
	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
)

// MockBatchStore is a mock implementation of BatchStore
type MockBatchStore struct {
	mock.Mock
}

func (m *MockBatchStore) GetBatch(ctx context.Context, batchID int64) (*model.Batch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Batch), args.Error(1)
}

func (m *MockBatchStore) ListBatches(ctx context.Context, filter model.BatchFilter) ([]model.BatchSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BatchSummary), args.Error(1)
}

func (m *MockBatchStore) ListStatusAudits(ctx context.Context, batchID int64) ([]model.StatusAudit, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatusAudit), args.Error(1)
}

func (m *MockBatchStore) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatusCount), args.Error(1)
}

func (m *MockBatchStore) CreateBatch(tx dbmodel.TxInterface, batch *model.Batch) (int64, error) {
	args := m.Called(tx, batch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBatchStore) AssignDistributor(tx dbmodel.TxInterface, batchID int64, distributor string,
	from, to model.Status, updatedTime int64) (bool, error) {
	args := m.Called(tx, batchID, distributor, from, to, updatedTime)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchStore) AssignHealthcareProvider(tx dbmodel.TxInterface, batchID int64, healthcareProvider string,
	from, to model.Status, updatedTime int64) (bool, error) {
	args := m.Called(tx, batchID, healthcareProvider, from, to, updatedTime)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchStore) CompareAndSetStatus(tx dbmodel.TxInterface, batchID int64, from, to model.Status,
	updatedTime int64) (bool, error) {
	args := m.Called(tx, batchID, from, to, updatedTime)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchStore) CreateStatusAudit(tx dbmodel.TxInterface, audit *model.StatusAudit) error {
	args := m.Called(tx, audit)
	return args.Error(0)
}
