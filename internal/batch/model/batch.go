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

// Status is the lifecycle position of a batch.
type Status int

const (
	StatusCreated Status = iota
	StatusInTransit
	StatusDelivered
	StatusVerified
	StatusRecalled
)

var statusNames = map[Status]string{
	StatusCreated:   "Created",
	StatusInTransit: "InTransit",
	StatusDelivered: "Delivered",
	StatusVerified:  "Verified",
	StatusRecalled:  "Recalled",
}

var statusLabels = map[Status]string{
	StatusCreated:   "Created",
	StatusInTransit: "In Transit",
	StatusDelivered: "Delivered",
	StatusVerified:  "Verified",
	StatusRecalled:  "Recalled",
}

// String returns the status name, or "Unknown" for out-of-range values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Label returns the human readable status shown on dashboards.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// AllStatuses lists every status in enum order.
func AllStatuses() []Status {
	return []Status{StatusCreated, StatusInTransit, StatusDelivered, StatusVerified, StatusRecalled}
}

// Batch represents the BATCH table
type Batch struct {
	BatchID            int64  `json:"batchId"`
	DrugName           string `json:"drugName"`
	Quantity           int64  `json:"quantity"`
	ManufacturingDate  int64  `json:"manufacturingDate"`
	ExpiryDate         int64  `json:"expiryDate"`
	Status             Status `json:"status"`
	Manufacturer       string `json:"manufacturer"`
	Distributor        string `json:"distributor,omitempty"`
	HealthcareProvider string `json:"healthcareProvider,omitempty"`
	CreatedTime        int64  `json:"createdTime"`
	UpdatedTime        int64  `json:"updatedTime"`
	// Terminal is derived from the lifecycle, not stored.
	Terminal bool `json:"terminal"`
}

// StatusAudit represents the BATCH_STATUS_AUDIT table
type StatusAudit struct {
	AuditID        string  `json:"auditId"`
	BatchID        int64   `json:"batchId"`
	PreviousStatus *Status `json:"previousStatus,omitempty"`
	CurrentStatus  Status  `json:"currentStatus"`
	ActionBy       string  `json:"actionBy"`
	ActionTime     int64   `json:"actionTime"`
	Reason         *string `json:"reason,omitempty"`
}

// BatchSummary is the batchId/status/expiryDate triple returned by listings
type BatchSummary struct {
	BatchID    int64  `json:"batchId"`
	Status     Status `json:"status"`
	ExpiryDate int64  `json:"expiryDate"`
}

// BatchFilter narrows a batch listing.
// Party restricts results to batches the address created or held custody of.
type BatchFilter struct {
	Status *Status
	Party  string
}

// StatusCount is the number of batches currently in one status
type StatusCount struct {
	Status Status
	Count  int64
}
