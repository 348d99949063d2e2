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

// Package metrics exposes Prometheus counters for ledger activity.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pharma_ledger"

// Metrics holds the ledger counters.
type Metrics struct {
	registry *prometheus.Registry

	batchTransitions *prometheus.CounterVec
	roleDecisions    *prometheus.CounterVec
	recallNotices    *prometheus.CounterVec
}

// New creates the counters on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		batchTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_transitions_total",
			Help:      "Total number of committed batch status transitions",
		}, []string{"status"}),
		roleDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_decisions_total",
			Help:      "Total number of role requests, approvals, denials and revocations",
		}, []string{"decision"}),
		recallNotices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recall_notifications_total",
			Help:      "Total number of recall notifications by delivery result",
		}, []string{"result"}),
	}
}

// BatchTransition counts a committed transition into status.
func (m *Metrics) BatchTransition(status int) {
	if m == nil {
		return
	}
	m.batchTransitions.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RoleDecision counts a registry decision such as "requested" or "approved".
func (m *Metrics) RoleDecision(decision string) {
	if m == nil {
		return
	}
	m.roleDecisions.WithLabelValues(decision).Inc()
}

// RecallNotification counts a recall webhook delivery by result.
func (m *Metrics) RecallNotification(result string) {
	if m == nil {
		return
	}
	m.recallNotices.WithLabelValues(result).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
