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

package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var _ TxInterface = (*Tx)(nil)

// Tx wraps sqlx.Tx to implement TxInterface for a given database type.
type Tx struct {
	ctx    context.Context
	tx     *sqlx.Tx
	dbType string
}

// NewTx creates a new Tx instance.
func NewTx(ctx context.Context, tx *sqlx.Tx, dbType string) *Tx {
	return &Tx{ctx: ctx, tx: tx, dbType: dbType}
}

// Exec runs a statement inside the transaction.
func (t *Tx) Exec(query DBQuery, args ...interface{}) (sql.Result, error) {
	result, err := t.tx.ExecContext(t.ctx, Rebind(t.dbType, query.GetQuery(t.dbType)), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.ID, err)
	}
	return result, nil
}

// Query runs a select inside the transaction and returns its rows as maps.
func (t *Tx) Query(query DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := t.tx.QueryxContext(t.ctx, Rebind(t.dbType, query.GetQuery(t.dbType)), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.ID, err)
	}
	defer rows.Close()
	return ScanRows(rows)
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Rebind converts "?" placeholders to the bind style of the database type.
func Rebind(dbType, query string) string {
	if dbType == "postgres" || dbType == "postgresql" {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return query
}

// ScanRows reads all rows into maps keyed by upper-case column name.
// Byte slices are converted to strings.
func ScanRows(rows *sqlx.Rows) ([]map[string]interface{}, error) {
	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		normalized := make(map[string]interface{}, len(row))
		for key, value := range row {
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			normalized[strings.ToUpper(key)] = value
		}
		results = append(results, normalized)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return results, nil
}
