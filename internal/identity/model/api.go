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

package model

// RoleRequestCreateRequest is the body of POST /roles/requests
type RoleRequestCreateRequest struct {
	Role *int `json:"role"`
}

// RoleRequestResponse is a pending request as returned by the API
type RoleRequestResponse struct {
	Address       string `json:"address"`
	Role          int    `json:"role"`
	RoleName      string `json:"roleName"`
	RequestedTime int64  `json:"requestedTime"`
}

// RoleRequestListResponse wraps the pending request list
type RoleRequestListResponse struct {
	Data []RoleRequestResponse `json:"data"`
}

// UserRoleResponse is the role held by an address
type UserRoleResponse struct {
	Address  string `json:"address"`
	Role     int    `json:"role"`
	RoleName string `json:"roleName"`
}

// NewRoleRequestResponse converts a RoleRequest to its API form.
func NewRoleRequestResponse(request RoleRequest) RoleRequestResponse {
	return RoleRequestResponse{
		Address:       request.Address,
		Role:          int(request.Role),
		RoleName:      request.Role.String(),
		RequestedTime: request.RequestedTime,
	}
}

// NewUserRoleResponse converts a UserRole to its API form.
func NewUserRoleResponse(userRole UserRole) UserRoleResponse {
	return UserRoleResponse{
		Address:  userRole.Address,
		Role:     int(userRole.Role),
		RoleName: userRole.Role.String(),
	}
}
