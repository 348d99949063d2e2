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
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/pharma-ledger-api/internal/system/database/model"
)

func newMockClient(t *testing.T, dbType string) (*DBClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDBClient(sqlx.NewDb(db, "sqlmock"), dbType), mock
}

var queryRoleByAddress = model.DBQuery{
	ID:    "TEST-ROLE-1",
	Query: "SELECT ADDRESS, ROLE FROM USER_ROLE WHERE ADDRESS = ?",
}

func TestDBClientQueryNormalizesRows(t *testing.T) {
	client, mock := newMockClient(t, "mysql")

	mock.ExpectQuery("SELECT ADDRESS, ROLE FROM USER_ROLE WHERE ADDRESS = ?").
		WithArgs("0xabc").
		WillReturnRows(sqlmock.NewRows([]string{"address", "role"}).AddRow([]byte("0xabc"), int64(1)))

	rows, err := client.Query(context.Background(), queryRoleByAddress, "0xabc")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0xabc", rows[0]["ADDRESS"])
	assert.Equal(t, int64(1), rows[0]["ROLE"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBClientRebindsForPostgres(t *testing.T) {
	client, mock := newMockClient(t, "postgres")

	mock.ExpectQuery("SELECT ADDRESS, ROLE FROM USER_ROLE WHERE ADDRESS = $1").
		WithArgs("0xabc").
		WillReturnRows(sqlmock.NewRows([]string{"address", "role"}))

	rows, err := client.Query(context.Background(), queryRoleByAddress, "0xabc")

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "postgres", client.GetDBType())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBClientExecute(t *testing.T) {
	client, mock := newMockClient(t, "mysql")
	deleteQuery := model.DBQuery{ID: "TEST-DEL", Query: "DELETE FROM ROLE_REQUEST WHERE ADDRESS = ?"}

	mock.ExpectExec("DELETE FROM ROLE_REQUEST WHERE ADDRESS = ?").
		WithArgs("0xabc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := client.Execute(context.Background(), deleteQuery, "0xabc")

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBClientTransaction(t *testing.T) {
	client, mock := newMockClient(t, "sqlite")
	updateQuery := model.DBQuery{
		ID:          "TEST-UPD",
		Query:       "UPDATE BATCH SET STATUS = ? WHERE BATCH_ID = ?",
		SQLiteQuery: "UPDATE BATCH SET STATUS = ? WHERE BATCH_ID = ? AND 1 = 1",
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE BATCH SET STATUS = ? WHERE BATCH_ID = ? AND 1 = 1").
		WithArgs(1, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := client.BeginTx(context.Background())
	require.NoError(t, err)
	_, err = tx.Exec(updateQuery, 1, int64(3))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
