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

package identity

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
)

// Initialize sets up the role registry module and registers its routes
func Initialize(router gin.IRouter, registry *stores.StoreRegistry, m *metrics.Metrics) IdentityService {
	service := NewIdentityService(registry, m)
	handler := newIdentityHandler(service)

	registerRoutes(router, handler)

	return service
}

func registerRoutes(router gin.IRouter, handler *identityHandler) {
	roles := router.Group("/roles")

	roles.POST("/requests", handler.requestRole)
	roles.GET("/requests", handler.listPendingRequests)
	roles.POST("/requests/:address/approve", handler.approveRoleRequest)
	roles.POST("/requests/:address/deny", handler.denyRoleRequest)

	roles.GET("/:address", handler.getUserRole)
	roles.DELETE("/:address", handler.revokeRole)
}
