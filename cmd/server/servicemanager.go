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

package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/batch"
	"github.com/wso2/pharma-ledger-api/internal/batchstats"
	"github.com/wso2/pharma-ledger-api/internal/identity"
	"github.com/wso2/pharma-ledger-api/internal/notification"
	"github.com/wso2/pharma-ledger-api/internal/system/config"
	"github.com/wso2/pharma-ledger-api/internal/system/database/provider"
	"github.com/wso2/pharma-ledger-api/internal/system/log"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
)

// Package-level service references for cleanup during shutdown
var (
	identityService    identity.IdentityService
	batchService       batch.BatchService
	statsService       batchstats.StatsService
	notificationClient *notification.Client
	recallDispatcher   *notification.Dispatcher
)

// registerServices wires the ledger modules onto the API router.
// Regulators from configuration are seeded before the routes serve traffic.
func registerServices(
	ctx context.Context,
	router gin.IRouter,
	dbClient provider.DBClientInterface,
	cfg *config.Config,
	m *metrics.Metrics,
) error {
	logger := log.GetLogger()

	registry := stores.NewStoreRegistry(
		dbClient,
		identity.NewRoleStore(dbClient),
		batch.NewBatchStore(dbClient),
	)

	identityService = identity.Initialize(router, registry, m)
	logger.Info("Identity module initialized")

	if svcErr := identityService.SeedRegulators(ctx, cfg.Identity.Regulators); svcErr != nil {
		return fmt.Errorf("failed to seed regulators: %s", svcErr.ErrorDescription)
	}

	notificationClient = notification.NewClient(&cfg.Notification, m)
	recallDispatcher = notification.NewDispatcher(notificationClient, cfg.Notification.QueueSize, m)
	logger.Info("Recall notifier initialized", log.Bool("enabled", notificationClient.IsEnabled()))

	statsService = batchstats.Initialize(router, registry)
	logger.Info("Batch stats module initialized")

	batchService = batch.Initialize(router, registry, identityService, cfg.Ledger, recallDispatcher, m)
	logger.Info("Batch module initialized",
		log.String("visibility", cfg.Ledger.Visibility),
		log.Bool("allow_recall_after_verified", cfg.Ledger.AllowRecallAfterVerified))

	return nil
}

// unregisterServices releases resources held by the services during shutdown.
// Queued recall notifications are delivered until ctx expires.
func unregisterServices(ctx context.Context) {
	if recallDispatcher != nil {
		if err := recallDispatcher.Close(ctx); err != nil {
			log.GetLogger().Warn("Pending recall notifications were not delivered", log.Error(err))
		}
	}
	if notificationClient != nil {
		notificationClient.Close()
	}
}
