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

// Package serviceerror defines the error type returned by service layers.
package serviceerror

// ServiceErrorType distinguishes client faults from server faults.
type ServiceErrorType string

const (
	// ClientErrorType is the caller's fault.
	ClientErrorType ServiceErrorType = "client_error"
	// ServerErrorType is the server's fault.
	ServerErrorType ServiceErrorType = "server_error"
)

// ServiceError is the error returned by services.
type ServiceError struct {
	Type             ServiceErrorType `json:"type"`
	Code             string           `json:"code"`
	Error            string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
}

var (
	InternalServerError = ServiceError{
		Type:             ServerErrorType,
		Code:             "SSE-5000",
		Error:            "internal_server_error",
		ErrorDescription: "An unexpected error occurred",
	}

	DatabaseError = ServiceError{
		Type:             ServerErrorType,
		Code:             "SSE-5001",
		Error:            "database_error",
		ErrorDescription: "A database error occurred",
	}

	InvalidRequestError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4000",
		Error:            "invalid_request",
		ErrorDescription: "The request is invalid",
	}

	ValidationError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4001",
		Error:            "validation_error",
		ErrorDescription: "Validation failed",
	}

	AuthorizationError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4003",
		Error:            "authorization_error",
		ErrorDescription: "Caller is not permitted to perform this action",
	}

	NotFoundError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4004",
		Error:            "not_found",
		ErrorDescription: "Resource not found",
	}

	StateError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4009",
		Error:            "state_error",
		ErrorDescription: "Request conflicts with current state",
	}
)

// CustomServiceError copies a base error with a specific description.
func CustomServiceError(baseError ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Error:            baseError.Error,
		ErrorDescription: description,
	}
}

// Is reports whether the error has the same code as the base error.
func (e *ServiceError) Is(base ServiceError) bool {
	return e != nil && e.Code == base.Code
}
