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

// Package notification publishes batch recall events to an external webhook.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wso2/pharma-ledger-api/internal/system/config"
	"github.com/wso2/pharma-ledger-api/internal/system/constants"
	"github.com/wso2/pharma-ledger-api/internal/system/log"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
)

// EventTypeBatchRecalled identifies recall events.
const EventTypeBatchRecalled = "batch.recalled"

// RecallEvent is the payload posted when a batch is recalled
type RecallEvent struct {
	EventType          string  `json:"eventType"`
	BatchID            int64   `json:"batchId"`
	DrugName           string  `json:"drugName"`
	PreviousStatus     int     `json:"previousStatus"`
	Manufacturer       string  `json:"manufacturer"`
	Distributor        string  `json:"distributor,omitempty"`
	HealthcareProvider string  `json:"healthcareProvider,omitempty"`
	RecalledBy         string  `json:"recalledBy"`
	Reason             *string `json:"reason,omitempty"`
	RecalledAt         int64   `json:"recalledAt"`
}

// RecallNotifier publishes recall events
type RecallNotifier interface {
	NotifyBatchRecalled(ctx context.Context, event RecallEvent) error
}

// Client posts recall events to the configured webhook
type Client struct {
	httpClient *http.Client
	config     *config.NotificationConfig
	metrics    *metrics.Metrics
	logger     *log.Logger
	backoff    time.Duration
}

var _ RecallNotifier = (*Client)(nil)

// NewClient creates a new notification client instance
func NewClient(cfg *config.NotificationConfig, m *metrics.Metrics) *Client {
	timeout := 10 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		config:  cfg,
		metrics: m,
		logger:  log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RecallNotifier")),
		backoff: 200 * time.Millisecond,
	}
}

// IsEnabled reports whether recall notifications are sent.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled && c.config.BaseURL != ""
}

// NotifyBatchRecalled posts the event, retrying server errors and transport failures.
func (c *Client) NotifyBatchRecalled(ctx context.Context, event RecallEvent) error {
	if !c.IsEnabled() {
		c.logger.Debug("Recall notifications disabled, skipping", log.Int64("batch_id", event.BatchID))
		return nil
	}

	event.EventType = EventTypeBatchRecalled
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recall event: %w", err)
	}

	url := c.config.GetNotificationURL(c.config.Endpoints.BatchRecalled)
	attempts := c.config.RetryAttempts + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		retryable, err := c.post(ctx, url, payload)
		if err == nil {
			c.metrics.RecallNotification("sent")
			c.logger.Info("Recall notification sent",
				log.Int64("batch_id", event.BatchID),
				log.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		c.logger.Warn("Recall notification attempt failed",
			log.Int64("batch_id", event.BatchID),
			log.Int("attempt", attempt),
			log.Error(err))

		if !retryable || attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			c.metrics.RecallNotification("failed")
			return ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}

	c.metrics.RecallNotification("failed")
	return fmt.Errorf("recall notification for batch %d failed: %w", event.BatchID, lastErr)
}

// post sends one request and reports whether a failure is worth retrying.
func (c *Client) post(ctx context.Context, url string, payload []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(constants.ContentTypeHeaderName, constants.ContentTypeJSON)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if correlationID := log.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(constants.CorrelationIDHeaderName, correlationID)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		return true, fmt.Errorf("webhook call failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	c.logger.Debug("Recall webhook response received",
		log.String("url", url),
		log.Int("status_code", resp.StatusCode),
		log.Int64("duration_ms", duration.Milliseconds()))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}
	return resp.StatusCode >= 500, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
