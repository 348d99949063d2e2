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

	"github.com/wso2/pharma-ledger-api/internal/notification"
)

// MockRecallNotifier is a mock implementation of RecallNotifier
type MockRecallNotifier struct {
	mock.Mock
}

func (m *MockRecallNotifier) NotifyBatchRecalled(ctx context.Context, event notification.RecallEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
