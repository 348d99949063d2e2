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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/system/log"
)

// RequestLogger writes one structured log line per request.
func RequestLogger() gin.HandlerFunc {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "HTTP"))

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []log.Field{
			log.String("method", c.Request.Method),
			log.String("path", c.FullPath()),
			log.Int("status", c.Writer.Status()),
			log.Int64("latency_ms", time.Since(start).Milliseconds()),
			log.String(log.LoggerKeyCorrelationID, GetCorrelationID(c)),
		}
		if caller := GetCaller(c); caller != "" {
			fields = append(fields, log.String("caller", caller))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("Request failed", fields...)
			return
		}
		logger.Info("Request completed", fields...)
	}
}
