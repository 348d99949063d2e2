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

package apierror

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Code        string `json:"code"`
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// NewErrorResponse builds an ErrorResponse.
func NewErrorResponse(code, errorName, description string) *ErrorResponse {
	return &ErrorResponse{
		Code:        code,
		Error:       errorName,
		Description: description,
	}
}
