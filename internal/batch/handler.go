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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/batch/model"
	"github.com/wso2/pharma-ledger-api/internal/batch/validator"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
	"github.com/wso2/pharma-ledger-api/internal/system/middleware"
	"github.com/wso2/pharma-ledger-api/internal/system/utils"
)

type batchHandler struct {
	service BatchService
}

func newBatchHandler(service BatchService) *batchHandler {
	return &batchHandler{
		service: service,
	}
}

// createBatch handles POST /batches
func (h *batchHandler) createBatch(c *gin.Context) {
	var req model.BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "invalid request body"))
		return
	}
	required := []struct {
		field string
		value *int64
	}{
		{"quantity", req.Quantity},
		{"manufacturingDate", req.ManufacturingDate},
		{"expiryDate", req.ExpiryDate},
	}
	for _, r := range required {
		if r.value == nil {
			utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.ValidationError, fmt.Sprintf("%s is required", r.field)))
			return
		}
	}

	batch, svcErr := h.service.CreateBatch(c.Request.Context(), middleware.GetCaller(c), validator.BatchInput{
		DrugName:          req.DrugName,
		Quantity:          *req.Quantity,
		ManufacturingDate: *req.ManufacturingDate,
		ExpiryDate:        *req.ExpiryDate,
	})
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.FullPath(), batch.BatchID))
	c.JSON(http.StatusCreated, model.NewBatchResponse(*batch))
}

// transferToDistributor handles POST /batches/:batchId/transfer-to-distributor
func (h *batchHandler) transferToDistributor(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}
	var req model.DistributorTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "invalid request body"))
		return
	}

	batch, svcErr := h.service.TransferToDistributor(c.Request.Context(), middleware.GetCaller(c), batchID, req.Distributor)
	h.respond(c, batch, svcErr)
}

// transferToHealthcare handles POST /batches/:batchId/transfer-to-healthcare
func (h *batchHandler) transferToHealthcare(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}
	var req model.HealthcareTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "invalid request body"))
		return
	}

	batch, svcErr := h.service.TransferToHealthcare(c.Request.Context(), middleware.GetCaller(c), batchID, req.HealthcareProvider)
	h.respond(c, batch, svcErr)
}

// verifyBatch handles POST /batches/:batchId/verify
func (h *batchHandler) verifyBatch(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	batch, svcErr := h.service.VerifyBatch(c.Request.Context(), middleware.GetCaller(c), batchID)
	h.respond(c, batch, svcErr)
}

// recallBatch handles POST /batches/:batchId/recall; the body is optional
func (h *batchHandler) recallBatch(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}
	var req model.RecallRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "invalid request body"))
		return
	}

	batch, svcErr := h.service.RecallBatch(c.Request.Context(), middleware.GetCaller(c), batchID, req.Reason)
	h.respond(c, batch, svcErr)
}

// getBatch handles GET /batches/:batchId
func (h *batchHandler) getBatch(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	batch, svcErr := h.service.GetBatchDetails(c.Request.Context(), batchID)
	h.respond(c, batch, svcErr)
}

// listBatches handles GET /batches?status=<n>
func (h *batchHandler) listBatches(c *gin.Context) {
	var status *model.Status
	if raw, present := c.GetQuery("status"); present {
		value, err := strconv.Atoi(raw)
		if err != nil {
			utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.ValidationError, "status must be an integer"))
			return
		}
		parsed, err := validator.ValidateStatus(value)
		if err != nil {
			utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error()))
			return
		}
		status = &parsed
	}

	summaries, svcErr := h.service.GetAllBatchesWithStatus(c.Request.Context(), middleware.GetCaller(c), status)
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.JSON(http.StatusOK, model.NewBatchListResponse(summaries))
}

// getBatchHistory handles GET /batches/:batchId/history
func (h *batchHandler) getBatchHistory(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	audits, svcErr := h.service.GetBatchHistory(c.Request.Context(), batchID)
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}

	c.JSON(http.StatusOK, model.NewBatchHistoryResponse(batchID, audits))
}

func (h *batchHandler) respond(c *gin.Context, batch *model.Batch, svcErr *serviceerror.ServiceError) {
	if svcErr != nil {
		utils.SendError(c.Writer, svcErr)
		return
	}
	c.JSON(http.StatusOK, model.NewBatchResponse(*batch))
}

func parseBatchID(c *gin.Context) (int64, bool) {
	batchID, err := utils.ParsePositiveID("batchId", c.Param("batchId"))
	if err != nil {
		utils.SendError(c.Writer, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error()))
		return 0, false
	}
	return batchID, true
}
