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
	"github.com/wso2/pharma-ledger-api/internal/batch/model"
)

// Operation is a mutating ledger action.
type Operation string

const (
	OperationTransferToDistributor Operation = "transferToDistributor"
	OperationTransferToHealthcare  Operation = "transferToHealthcare"
	OperationVerify                Operation = "verifyBatch"
	OperationRecall                Operation = "recallBatch"
)

// Lifecycle holds the directed status graph of a batch.
type Lifecycle struct {
	edges map[Operation]transition
}

type transition struct {
	from []model.Status
	to   model.Status
}

// NewLifecycle builds the status graph. When allowRecallAfterVerified is set,
// Verified batches can also be recalled.
func NewLifecycle(allowRecallAfterVerified bool) *Lifecycle {
	recallFrom := []model.Status{model.StatusCreated, model.StatusInTransit, model.StatusDelivered}
	if allowRecallAfterVerified {
		recallFrom = append(recallFrom, model.StatusVerified)
	}

	return &Lifecycle{
		edges: map[Operation]transition{
			OperationTransferToDistributor: {from: []model.Status{model.StatusCreated}, to: model.StatusInTransit},
			OperationTransferToHealthcare:  {from: []model.Status{model.StatusInTransit}, to: model.StatusDelivered},
			OperationVerify:                {from: []model.Status{model.StatusDelivered}, to: model.StatusVerified},
			OperationRecall:                {from: recallFrom, to: model.StatusRecalled},
		},
	}
}

// Next returns the status op moves a batch to from current, and false when
// op is not permitted from current.
func (l *Lifecycle) Next(op Operation, current model.Status) (model.Status, bool) {
	edge, ok := l.edges[op]
	if !ok {
		return current, false
	}
	for _, from := range edge.from {
		if from == current {
			return edge.to, true
		}
	}
	return current, false
}

// IsTerminal reports whether no operation leaves status.
func (l *Lifecycle) IsTerminal(status model.Status) bool {
	for op := range l.edges {
		if _, ok := l.Next(op, status); ok {
			return false
		}
	}
	return true
}
