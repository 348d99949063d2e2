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

// Package batchstats derives dashboard counts from the batch ledger.
package batchstats

import (
	"context"
	"fmt"

	"github.com/wso2/pharma-ledger-api/internal/batch/model"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
	"github.com/wso2/pharma-ledger-api/internal/system/log"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
)

// StatusCounter is the part of the batch store the aggregator reads
type StatusCounter interface {
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
}

// StatusCounts is the per-status breakdown of the ledger.
// Active covers Created and Delivered batches, so Active+InTransit+Recalled == Total-Verified.
type StatusCounts struct {
	Active    int64 `json:"active"`
	InTransit int64 `json:"inTransit"`
	Recalled  int64 `json:"recalled"`
	Created   int64 `json:"created"`
	Delivered int64 `json:"delivered"`
	Verified  int64 `json:"verified"`
	Total     int64 `json:"total"`
}

// StatsService defines the status aggregation operations
type StatsService interface {
	GetBatchStatusCounts(ctx context.Context) (*StatusCounts, *serviceerror.ServiceError)
}

type statsService struct {
	stores *stores.StoreRegistry
	logger *log.Logger
}

// NewStatsService creates the status aggregator
func NewStatsService(registry *stores.StoreRegistry) StatsService {
	return &statsService{
		stores: registry,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "StatsService")),
	}
}

// GetBatchStatusCounts recomputes the counts from committed ledger state
func (s *statsService) GetBatchStatusCounts(ctx context.Context) (*StatusCounts, *serviceerror.ServiceError) {
	counter := s.stores.Batch.(StatusCounter)
	rows, err := counter.CountByStatus(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to count batches: %v", err))
	}

	counts := &StatusCounts{}
	for _, row := range rows {
		switch row.Status {
		case model.StatusCreated:
			counts.Created += row.Count
		case model.StatusInTransit:
			counts.InTransit += row.Count
		case model.StatusDelivered:
			counts.Delivered += row.Count
		case model.StatusVerified:
			counts.Verified += row.Count
		case model.StatusRecalled:
			counts.Recalled += row.Count
		default:
			s.logger.Warn("Ignoring batches with unknown status",
				log.Int("status", int(row.Status)),
				log.Int64("count", row.Count))
			continue
		}
		counts.Total += row.Count
	}
	counts.Active = counts.Created + counts.Delivered

	return counts, nil
}
