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

// BatchCreateRequest is the body of POST /batches
type BatchCreateRequest struct {
	DrugName          string `json:"drugName"`
	Quantity          *int64 `json:"quantity"`
	ManufacturingDate *int64 `json:"manufacturingDate"`
	ExpiryDate        *int64 `json:"expiryDate"`
}

// DistributorTransferRequest is the body of POST /batches/:batchId/transfer-to-distributor
type DistributorTransferRequest struct {
	Distributor string `json:"distributor"`
}

// HealthcareTransferRequest is the body of POST /batches/:batchId/transfer-to-healthcare
type HealthcareTransferRequest struct {
	HealthcareProvider string `json:"healthcareProvider"`
}

// RecallRequest is the optional body of POST /batches/:batchId/recall
type RecallRequest struct {
	Reason string `json:"reason"`
}

// BatchResponse is a full batch record as returned by the API
type BatchResponse struct {
	BatchID            int64  `json:"batchId"`
	DrugName           string `json:"drugName"`
	Quantity           int64  `json:"quantity"`
	ManufacturingDate  int64  `json:"manufacturingDate"`
	ExpiryDate         int64  `json:"expiryDate"`
	Status             int    `json:"status"`
	StatusName         string `json:"statusName"`
	Manufacturer       string `json:"manufacturer"`
	Distributor        string `json:"distributor"`
	HealthcareProvider string `json:"healthcareProvider"`
	CreatedTime        int64  `json:"createdTime"`
	UpdatedTime        int64  `json:"updatedTime"`
	Terminal           bool   `json:"terminal"`
}

// BatchSummaryResponse is one row of a batch listing
type BatchSummaryResponse struct {
	BatchID    int64  `json:"batchId"`
	Status     int    `json:"status"`
	StatusName string `json:"statusName"`
	ExpiryDate int64  `json:"expiryDate"`
}

// BatchListResponse wraps a batch listing
type BatchListResponse struct {
	Data []BatchSummaryResponse `json:"data"`
}

// StatusAuditResponse is one history entry of a batch
type StatusAuditResponse struct {
	AuditID        string  `json:"auditId"`
	PreviousStatus *int    `json:"previousStatus"`
	CurrentStatus  int     `json:"currentStatus"`
	StatusName     string  `json:"statusName"`
	ActionBy       string  `json:"actionBy"`
	ActionTime     int64   `json:"actionTime"`
	Reason         *string `json:"reason,omitempty"`
}

// BatchHistoryResponse wraps the history of a batch
type BatchHistoryResponse struct {
	BatchID int64                 `json:"batchId"`
	Data    []StatusAuditResponse `json:"data"`
}

// NewBatchResponse converts a Batch to its API form.
func NewBatchResponse(batch Batch) BatchResponse {
	return BatchResponse{
		BatchID:            batch.BatchID,
		DrugName:           batch.DrugName,
		Quantity:           batch.Quantity,
		ManufacturingDate:  batch.ManufacturingDate,
		ExpiryDate:         batch.ExpiryDate,
		Status:             int(batch.Status),
		StatusName:         batch.Status.Label(),
		Manufacturer:       batch.Manufacturer,
		Distributor:        batch.Distributor,
		HealthcareProvider: batch.HealthcareProvider,
		CreatedTime:        batch.CreatedTime,
		UpdatedTime:        batch.UpdatedTime,
		Terminal:           batch.Terminal,
	}
}

// NewBatchListResponse converts summaries to their API form, keeping order.
func NewBatchListResponse(summaries []BatchSummary) BatchListResponse {
	response := BatchListResponse{Data: make([]BatchSummaryResponse, 0, len(summaries))}
	for _, summary := range summaries {
		response.Data = append(response.Data, BatchSummaryResponse{
			BatchID:    summary.BatchID,
			Status:     int(summary.Status),
			StatusName: summary.Status.Label(),
			ExpiryDate: summary.ExpiryDate,
		})
	}
	return response
}

// NewBatchHistoryResponse converts audit rows to their API form.
func NewBatchHistoryResponse(batchID int64, audits []StatusAudit) BatchHistoryResponse {
	response := BatchHistoryResponse{BatchID: batchID, Data: make([]StatusAuditResponse, 0, len(audits))}
	for _, audit := range audits {
		entry := StatusAuditResponse{
			AuditID:       audit.AuditID,
			CurrentStatus: int(audit.CurrentStatus),
			StatusName:    audit.CurrentStatus.Label(),
			ActionBy:      audit.ActionBy,
			ActionTime:    audit.ActionTime,
			Reason:        audit.Reason,
		}
		if audit.PreviousStatus != nil {
			previous := int(*audit.PreviousStatus)
			entry.PreviousStatus = &previous
		}
		response.Data = append(response.Data, entry)
	}
	return response
}
