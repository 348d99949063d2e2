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

package batchstats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/system/stores"
	"github.com/wso2/pharma-ledger-api/internal/system/utils"
)

type statsHandler struct {
	service StatsService
}

// getStatusCounts handles GET /batches/status-counts
func (h *statsHandler) getStatusCounts(c *gin.Context) {
	counts, svcErr := h.service.GetBatchStatusCounts(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// Initialize sets up the status aggregator and registers its route
func Initialize(router gin.IRouter, registry *stores.StoreRegistry) StatsService {
	service := NewStatsService(registry)
	registerRoutes(router, &statsHandler{service: service})
	return service
}

func registerRoutes(router gin.IRouter, handler *statsHandler) {
	router.GET("/batches/status-counts", handler.getStatusCounts)
}
