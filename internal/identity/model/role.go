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

// Role is the single permission an address holds.
type Role int

const (
	RoleNone Role = iota
	RoleManufacturer
	RoleDistributor
	RoleHealthcareProvider
	RoleRegulator
)

var roleNames = map[Role]string{
	RoleNone:               "None",
	RoleManufacturer:       "Manufacturer",
	RoleDistributor:        "Distributor",
	RoleHealthcareProvider: "HealthcareProvider",
	RoleRegulator:          "Regulator",
}

// String returns the role name, or "Unknown" for out-of-range values.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// IsRequestable reports whether r can be asked for through a role request.
// Regulators are provisioned by configuration only.
func (r Role) IsRequestable() bool {
	return r == RoleManufacturer || r == RoleDistributor || r == RoleHealthcareProvider
}

// UserRole represents the USER_ROLE table
type UserRole struct {
	Address     string `json:"address"`
	Role        Role   `json:"role"`
	AssignedBy  string `json:"assignedBy,omitempty"`
	UpdatedTime int64  `json:"updatedTime,omitempty"`
}

// RoleRequest represents the ROLE_REQUEST table
type RoleRequest struct {
	Address       string `json:"address"`
	Role          Role   `json:"role"`
	RequestedTime int64  `json:"requestedTime"`
}
