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

package stores

import (
	"context"

	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
	"github.com/wso2/pharma-ledger-api/internal/system/database/provider"
	"github.com/wso2/pharma-ledger-api/internal/system/log"
)

// StoreRegistry holds references to all stores in the application.
// Each store is held as interface{} to avoid circular dependencies;
// services type-assert to their needed store interfaces.
type StoreRegistry struct {
	dbClient provider.DBClientInterface

	Identity interface{} // identity.roleStore
	Batch    interface{} // batch.batchStore
}

// NewStoreRegistry creates a new store registry with all initialized stores.
func NewStoreRegistry(
	dbClient provider.DBClientInterface,
	identityStore interface{},
	batchStore interface{},
) *StoreRegistry {
	return &StoreRegistry{
		dbClient: dbClient,
		Identity: identityStore,
		Batch:    batchStore,
	}
}

// ExecuteTransaction executes multiple store operations in a single transaction.
// The first failing operation rolls the transaction back and its error is returned unchanged.
func (r *StoreRegistry) ExecuteTransaction(ctx context.Context, queries []func(tx dbmodel.TxInterface) error) error {
	logger := log.GetLogger()
	logger.Debug("Starting transaction", log.Int("query_count", len(queries)))

	tx, err := r.dbClient.BeginTx(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", log.Error(err))
		return err
	}

	for i, query := range queries {
		if err := query(tx); err != nil {
			logger.Debug("Transaction query failed, rolling back",
				log.Error(err),
				log.Int("failed_query_index", i),
			)
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Failed to roll back transaction", log.Error(rbErr))
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", log.Error(err))
		return err
	}

	logger.Debug("Transaction committed successfully", log.Int("query_count", len(queries)))
	return nil
}
