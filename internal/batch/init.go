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
	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/identity"
	"github.com/wso2/pharma-ledger-api/internal/notification"
	"github.com/wso2/pharma-ledger-api/internal/system/config"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
)

// Initialize sets up the batch ledger module and registers its routes
func Initialize(
	router gin.IRouter,
	registry *stores.StoreRegistry,
	identityService identity.IdentityService,
	ledgerConfig config.LedgerConfig,
	notifier notification.RecallNotifier,
	m *metrics.Metrics,
) BatchService {
	service := NewBatchService(registry, identityService, ledgerConfig, notifier, m)
	handler := newBatchHandler(service)

	registerRoutes(router, handler)

	return service
}

func registerRoutes(router gin.IRouter, handler *batchHandler) {
	batches := router.Group("/batches")

	batches.POST("", handler.createBatch)
	batches.GET("", handler.listBatches)

	batches.GET("/:batchId", handler.getBatch)
	batches.GET("/:batchId/history", handler.getBatchHistory)
	batches.POST("/:batchId/transfer-to-distributor", handler.transferToDistributor)
	batches.POST("/:batchId/transfer-to-healthcare", handler.transferToHealthcare)
	batches.POST("/:batchId/verify", handler.verifyBatch)
	batches.POST("/:batchId/recall", handler.recallBatch)
}
