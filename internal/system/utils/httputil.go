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

package utils

import (
	"encoding/json"
	"net/http"

	"github.com/wso2/pharma-ledger-api/internal/system/constants"
	"github.com/wso2/pharma-ledger-api/internal/system/error/apierror"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
)

// JSONResponse writes data as a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set(constants.ContentTypeHeaderName, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// StatusCodeFor maps a ServiceError to its HTTP status code.
func StatusCodeFor(err *serviceerror.ServiceError) int {
	if err.Type != serviceerror.ClientErrorType {
		return http.StatusInternalServerError
	}
	switch err.Code {
	case serviceerror.NotFoundError.Code:
		return http.StatusNotFound
	case serviceerror.StateError.Code:
		return http.StatusConflict
	case serviceerror.AuthorizationError.Code:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// SendError writes a ServiceError as an HTTP response with appropriate status code
func SendError(w http.ResponseWriter, err *serviceerror.ServiceError) {
	errorResponse := apierror.NewErrorResponse(err.Code, err.Error, err.ErrorDescription)
	JSONResponse(w, StatusCodeFor(err), errorResponse)
}
