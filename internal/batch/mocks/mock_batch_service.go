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
	"github.com/wso2/pharma-ledger-api/internal/batch/validator"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
)

// MockBatchService is a mock implementation of BatchService
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) CreateBatch(ctx context.Context, caller string, input validator.BatchInput) (*model.Batch, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, input)
	return optBatch(args.Get(0)), optError(args.Get(1))
}

func (m *MockBatchService) TransferToDistributor(ctx context.Context, caller string, batchID int64, distributor string) (*model.Batch, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, batchID, distributor)
	return optBatch(args.Get(0)), optError(args.Get(1))
}

func (m *MockBatchService) TransferToHealthcare(ctx context.Context, caller string, batchID int64, healthcareProvider string) (*model.Batch, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, batchID, healthcareProvider)
	return optBatch(args.Get(0)), optError(args.Get(1))
}

func (m *MockBatchService) VerifyBatch(ctx context.Context, caller string, batchID int64) (*model.Batch, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, batchID)
	return optBatch(args.Get(0)), optError(args.Get(1))
}

func (m *MockBatchService) RecallBatch(ctx context.Context, caller string, batchID int64, reason string) (*model.Batch, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, batchID, reason)
	return optBatch(args.Get(0)), optError(args.Get(1))
}

func (m *MockBatchService) GetBatchDetails(ctx context.Context, batchID int64) (*model.Batch, *serviceerror.ServiceError) {
	args := m.Called(ctx, batchID)
	return optBatch(args.Get(0)), optError(args.Get(1))
}

func (m *MockBatchService) GetAllBatchesWithStatus(ctx context.Context, caller string, status *model.Status) ([]model.BatchSummary, *serviceerror.ServiceError) {
	args := m.Called(ctx, caller, status)
	var summaries []model.BatchSummary
	if args.Get(0) != nil {
		summaries = args.Get(0).([]model.BatchSummary)
	}
	return summaries, optError(args.Get(1))
}

func (m *MockBatchService) GetBatchHistory(ctx context.Context, batchID int64) ([]model.StatusAudit, *serviceerror.ServiceError) {
	args := m.Called(ctx, batchID)
	var audits []model.StatusAudit
	if args.Get(0) != nil {
		audits = args.Get(0).([]model.StatusAudit)
	}
	return audits, optError(args.Get(1))
}

func optError(v interface{}) *serviceerror.ServiceError {
	if v == nil {
		return nil
	}
	return v.(*serviceerror.ServiceError)
}

func optBatch(v interface{}) *model.Batch {
	if v == nil {
		return nil
	}
	return v.(*model.Batch)
}
