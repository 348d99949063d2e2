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

// Package validator checks batch input before it reaches the ledger.
package validator

import (
	"fmt"

	"github.com/wso2/pharma-ledger-api/internal/batch/model"
	"github.com/wso2/pharma-ledger-api/internal/system/utils"
)

// BatchInput is the caller supplied part of a new batch
type BatchInput struct {
	DrugName          string
	Quantity          int64
	ManufacturingDate int64
	ExpiryDate        int64
}

// ValidateBatchInput validates and normalizes a new batch, returning the sanitized drug name
func ValidateBatchInput(input BatchInput, maxDrugNameLength int) (string, error) {
	drugName := utils.SanitizeString(input.DrugName)
	if err := utils.ValidateRequired("drugName", drugName); err != nil {
		return "", err
	}
	if err := utils.ValidateMaxLength("drugName", drugName, maxDrugNameLength); err != nil {
		return "", err
	}
	if input.Quantity <= 0 {
		return "", fmt.Errorf("quantity must be positive, got %d", input.Quantity)
	}
	if input.ManufacturingDate <= 0 {
		return "", fmt.Errorf("manufacturingDate must be a positive UNIX timestamp")
	}
	if input.ExpiryDate <= input.ManufacturingDate {
		return "", fmt.Errorf("expiryDate (%d) must be after manufacturingDate (%d)", input.ExpiryDate, input.ManufacturingDate)
	}
	return drugName, nil
}

// ValidateStatus validates a status filter value
func ValidateStatus(value int) (model.Status, error) {
	status := model.Status(value)
	if !status.IsValid() {
		return status, fmt.Errorf("invalid status: %d (valid: 0-4)", value)
	}
	return status, nil
}
