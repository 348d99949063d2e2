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

package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wso2/pharma-ledger-api/internal/batch/model"
)

func TestLifecycle_OnlyDirectedEdgesAreAllowed(t *testing.T) {
	lifecycle := NewLifecycle(false)

	allowed := map[Operation]map[model.Status]model.Status{
		OperationTransferToDistributor: {model.StatusCreated: model.StatusInTransit},
		OperationTransferToHealthcare:  {model.StatusInTransit: model.StatusDelivered},
		OperationVerify:                {model.StatusDelivered: model.StatusVerified},
		OperationRecall: {
			model.StatusCreated:   model.StatusRecalled,
			model.StatusInTransit: model.StatusRecalled,
			model.StatusDelivered: model.StatusRecalled,
		},
	}

	for op, edges := range allowed {
		for _, current := range model.AllStatuses() {
			next, ok := lifecycle.Next(op, current)
			expected, want := edges[current]
			assert.Equal(t, want, ok, "%s from %s", op, current)
			if want {
				assert.Equal(t, expected, next, "%s from %s", op, current)
			}
		}
	}
}

func TestLifecycle_RecallAfterVerifiedIsConfigurable(t *testing.T) {
	_, ok := NewLifecycle(false).Next(OperationRecall, model.StatusVerified)
	assert.False(t, ok)

	next, ok := NewLifecycle(true).Next(OperationRecall, model.StatusVerified)
	assert.True(t, ok)
	assert.Equal(t, model.StatusRecalled, next)
}

func TestLifecycle_TerminalStatuses(t *testing.T) {
	strict := NewLifecycle(false)
	assert.True(t, strict.IsTerminal(model.StatusRecalled))
	assert.True(t, strict.IsTerminal(model.StatusVerified))
	assert.False(t, strict.IsTerminal(model.StatusCreated))

	lenient := NewLifecycle(true)
	assert.True(t, lenient.IsTerminal(model.StatusRecalled))
	assert.False(t, lenient.IsTerminal(model.StatusVerified))
}

func TestLifecycle_UnknownOperation(t *testing.T) {
	_, ok := NewLifecycle(true).Next(Operation("burn"), model.StatusCreated)
	assert.False(t, ok)
}
