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

package provider

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wso2/pharma-ledger-api/internal/system/database/model"
)

// DBClientInterface defines the operations stores use to reach the database.
type DBClientInterface interface {
	Query(ctx context.Context, query model.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	Execute(ctx context.Context, query model.DBQuery, args ...interface{}) (int64, error)
	BeginTx(ctx context.Context) (model.TxInterface, error)
	GetDBType() string
}

var _ DBClientInterface = (*DBClient)(nil)

// DBClient executes DBQuery values against a sqlx connection pool.
type DBClient struct {
	db     *sqlx.DB
	dbType string
}

// NewDBClient creates a DBClient for the given database type.
func NewDBClient(db *sqlx.DB, dbType string) *DBClient {
	return &DBClient{db: db, dbType: dbType}
}

// Query runs a select and returns its rows as maps keyed by upper-case column name.
func (c *DBClient) Query(ctx context.Context, query model.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := c.db.QueryxContext(ctx, model.Rebind(c.dbType, query.GetQuery(c.dbType)), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.ID, err)
	}
	defer rows.Close()
	return model.ScanRows(rows)
}

// Execute runs a statement and returns the number of affected rows.
func (c *DBClient) Execute(ctx context.Context, query model.DBQuery, args ...interface{}) (int64, error) {
	result, err := c.db.ExecContext(ctx, model.Rebind(c.dbType, query.GetQuery(c.dbType)), args...)
	if err != nil {
		return 0, fmt.Errorf("query %s failed: %w", query.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("query %s: failed to read affected rows: %w", query.ID, err)
	}
	return affected, nil
}

// BeginTx starts a transaction bound to ctx.
func (c *DBClient) BeginTx(ctx context.Context) (model.TxInterface, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return model.NewTx(ctx, tx, c.dbType), nil
}

// GetDBType returns the database type the client was created for.
func (c *DBClient) GetDBType() string {
	return c.dbType
}
