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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/identity/model"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
	"github.com/wso2/pharma-ledger-api/internal/system/middleware"
	"github.com/wso2/pharma-ledger-api/internal/system/utils"
)

type identityHandler struct {
	service IdentityService
}

func newIdentityHandler(service IdentityService) *identityHandler {
	return &identityHandler{
		service: service,
	}
}

// requestRole handles POST /roles/requests
func (h *identityHandler) requestRole(c *gin.Context) {
	var req model.RoleRequestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "invalid request body"))
		return
	}
	if req.Role == nil {
		utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.ValidationError, "role is required"))
		return
	}

	request, svcErr := h.service.RequestRole(c.Request.Context(), middleware.GetCaller(c), model.Role(*req.Role))
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.JSON(http.StatusCreated, model.NewRoleRequestResponse(*request))
}

// approveRoleRequest handles POST /roles/requests/:address/approve
func (h *identityHandler) approveRoleRequest(c *gin.Context) {
	userRole, svcErr := h.service.ApproveRoleRequest(c.Request.Context(), middleware.GetCaller(c), c.Param("address"))
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.JSON(http.StatusOK, model.NewUserRoleResponse(*userRole))
}

// denyRoleRequest handles POST /roles/requests/:address/deny
func (h *identityHandler) denyRoleRequest(c *gin.Context) {
	if svcErr := h.service.DenyRoleRequest(c.Request.Context(), middleware.GetCaller(c), c.Param("address")); svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.Status(http.StatusNoContent)
}

// listPendingRequests handles GET /roles/requests
func (h *identityHandler) listPendingRequests(c *gin.Context) {
	requests, svcErr := h.service.GetPendingRequests(c.Request.Context(), middleware.GetCaller(c))
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	response := model.RoleRequestListResponse{Data: make([]model.RoleRequestResponse, 0, len(requests))}
	for _, request := range requests {
		response.Data = append(response.Data, model.NewRoleRequestResponse(request))
	}
	c.JSON(http.StatusOK, response)
}

// getUserRole handles GET /roles/:address
func (h *identityHandler) getUserRole(c *gin.Context) {
	userRole, svcErr := h.service.GetUserRole(c.Request.Context(), c.Param("address"))
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.JSON(http.StatusOK, model.NewUserRoleResponse(*userRole))
}

// revokeRole handles DELETE /roles/:address
func (h *identityHandler) revokeRole(c *gin.Context) {
	if svcErr := h.service.RevokeRole(c.Request.Context(), middleware.GetCaller(c), c.Param("address")); svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.Status(http.StatusNoContent)
}
