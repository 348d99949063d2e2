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

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/system/constants"
)

// CallerMiddleware stores the wallet address forwarded by the gateway.
// The value is an opaque principal; it is validated by the services and never
// carries a role.
func CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyCaller, strings.TrimSpace(c.GetHeader(constants.WalletAddressHeaderName)))
		c.Next()
	}
}

// GetCaller returns the caller address stored by CallerMiddleware, or "".
func GetCaller(c *gin.Context) string {
	if caller := c.GetString(constants.ContextKeyCaller); caller != "" {
		return caller
	}
	return strings.TrimSpace(c.GetHeader(constants.WalletAddressHeaderName))
}

// BasicAuthMiddleware guards the API with the gateway credentials.
func BasicAuthMiddleware(accounts map[string]string) gin.HandlerFunc {
	return gin.BasicAuthForRealm(gin.Accounts(accounts), "pharma-ledger")
}
