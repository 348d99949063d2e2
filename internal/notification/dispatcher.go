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

package notification

import (
	"context"
	"errors"
	"sync"

	"github.com/wso2/pharma-ledger-api/internal/system/log"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
)

const defaultQueueSize = 100

var (
	// ErrDispatcherClosed is returned when an event is published after Close.
	ErrDispatcherClosed = errors.New("recall dispatcher is closed")
	// ErrQueueFull is returned when the pending event queue is at capacity.
	ErrQueueFull = errors.New("recall notification queue is full")
)

type pendingEvent struct {
	ctx   context.Context
	event RecallEvent
}

// Dispatcher delivers recall events on a background worker so callers never
// wait on webhook retries.
type Dispatcher struct {
	notifier RecallNotifier
	queue    chan pendingEvent
	metrics  *metrics.Metrics
	logger   *log.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ RecallNotifier = (*Dispatcher)(nil)

// NewDispatcher starts a dispatcher that hands queued events to notifier.
func NewDispatcher(notifier RecallNotifier, queueSize int, m *metrics.Metrics) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan pendingEvent, queueSize),
		metrics:  m,
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RecallDispatcher")),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// NotifyBatchRecalled queues the event. The caller's cancellation does not
// reach delivery; request scoped values such as the correlation id do.
func (d *Dispatcher) NotifyBatchRecalled(ctx context.Context, event RecallEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- pendingEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		d.metrics.RecallNotification("dropped")
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for pending := range d.queue {
		if err := d.notifier.NotifyBatchRecalled(pending.ctx, pending.event); err != nil {
			d.logger.Error("Recall notification delivery failed",
				log.Int64("batch_id", pending.event.BatchID),
				log.Error(err))
		}
	}
}

// Close stops accepting events and waits for queued ones to be delivered,
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
