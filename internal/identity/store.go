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

package identity

import (
	"context"
	"fmt"

	"github.com/wso2/pharma-ledger-api/internal/identity/model"
	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
	"github.com/wso2/pharma-ledger-api/internal/system/database/provider"
	dbutils "github.com/wso2/pharma-ledger-api/internal/system/database/utils"
)

var (
	QueryGetUserRole = dbmodel.DBQuery{
		ID:    "GET_USER_ROLE",
		Query: "SELECT ADDRESS, ROLE, ASSIGNED_BY, UPDATED_TIME FROM USER_ROLE WHERE ADDRESS = ?",
	}

	QueryUpsertUserRole = dbmodel.DBQuery{
		ID: "UPSERT_USER_ROLE",
		Query: "INSERT INTO USER_ROLE (ADDRESS, ROLE, ASSIGNED_BY, UPDATED_TIME) VALUES (?, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE ROLE = VALUES(ROLE), ASSIGNED_BY = VALUES(ASSIGNED_BY), UPDATED_TIME = VALUES(UPDATED_TIME)",
		PostgresQuery: "INSERT INTO USER_ROLE (ADDRESS, ROLE, ASSIGNED_BY, UPDATED_TIME) VALUES (?, ?, ?, ?) " +
			"ON CONFLICT (ADDRESS) DO UPDATE SET ROLE = excluded.ROLE, ASSIGNED_BY = excluded.ASSIGNED_BY, UPDATED_TIME = excluded.UPDATED_TIME",
		SQLiteQuery: "INSERT INTO USER_ROLE (ADDRESS, ROLE, ASSIGNED_BY, UPDATED_TIME) VALUES (?, ?, ?, ?) " +
			"ON CONFLICT (ADDRESS) DO UPDATE SET ROLE = excluded.ROLE, ASSIGNED_BY = excluded.ASSIGNED_BY, UPDATED_TIME = excluded.UPDATED_TIME",
	}

	QueryDeleteUserRole = dbmodel.DBQuery{
		ID:    "DELETE_USER_ROLE",
		Query: "DELETE FROM USER_ROLE WHERE ADDRESS = ?",
	}

	QueryGetRoleRequest = dbmodel.DBQuery{
		ID:    "GET_ROLE_REQUEST",
		Query: "SELECT ADDRESS, ROLE, REQUESTED_TIME FROM ROLE_REQUEST WHERE ADDRESS = ?",
	}

	QueryListRoleRequests = dbmodel.DBQuery{
		ID:    "LIST_ROLE_REQUESTS",
		Query: "SELECT ADDRESS, ROLE, REQUESTED_TIME FROM ROLE_REQUEST ORDER BY REQUESTED_TIME ASC, ADDRESS ASC",
	}

	// QueryCreateRoleRequest only inserts when the address holds no role,
	// so the role and pending checks cannot race with an approval.
	QueryCreateRoleRequest = dbmodel.DBQuery{
		ID: "CREATE_ROLE_REQUEST",
		Query: "INSERT INTO ROLE_REQUEST (ADDRESS, ROLE, REQUESTED_TIME) SELECT ?, ?, ? FROM DUAL " +
			"WHERE NOT EXISTS (SELECT 1 FROM USER_ROLE WHERE ADDRESS = ?)",
		PostgresQuery: "INSERT INTO ROLE_REQUEST (ADDRESS, ROLE, REQUESTED_TIME) SELECT ?::VARCHAR, ?::INTEGER, ?::BIGINT " +
			"WHERE NOT EXISTS (SELECT 1 FROM USER_ROLE WHERE ADDRESS = ?)",
		SQLiteQuery: "INSERT INTO ROLE_REQUEST (ADDRESS, ROLE, REQUESTED_TIME) SELECT ?, ?, ? " +
			"WHERE NOT EXISTS (SELECT 1 FROM USER_ROLE WHERE ADDRESS = ?)",
	}

	QueryDeleteRoleRequest = dbmodel.DBQuery{
		ID:    "DELETE_ROLE_REQUEST",
		Query: "DELETE FROM ROLE_REQUEST WHERE ADDRESS = ?",
	}
)

// RoleStore defines the interface for role registry data access operations
type RoleStore interface {
	// Read operations - use dbClient directly
	GetUserRole(ctx context.Context, address string) (*model.UserRole, error)
	GetRoleRequest(ctx context.Context, address string) (*model.RoleRequest, error)
	ListRoleRequests(ctx context.Context) ([]model.RoleRequest, error)

	// Write operations - transactional with tx parameter
	CreateRoleRequest(tx dbmodel.TxInterface, request *model.RoleRequest) (bool, error)
	GetRoleRequestInTx(tx dbmodel.TxInterface, address string) (*model.RoleRequest, error)
	DeleteRoleRequest(tx dbmodel.TxInterface, address string) (bool, error)
	UpsertUserRole(tx dbmodel.TxInterface, userRole *model.UserRole) error
	DeleteUserRole(tx dbmodel.TxInterface, address string) (bool, error)
}

type roleStore struct {
	dbClient provider.DBClientInterface
}

// NewRoleStore creates a new role store
func NewRoleStore(dbClient provider.DBClientInterface) RoleStore {
	return &roleStore{
		dbClient: dbClient,
	}
}

// GetUserRole returns the role row for an address, or nil when none is assigned
func (s *roleStore) GetUserRole(ctx context.Context, address string) (*model.UserRole, error) {
	rows, err := s.dbClient.Query(ctx, QueryGetUserRole, address)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToUserRole(rows[0])
}

// GetRoleRequest returns the pending request of an address, or nil
func (s *roleStore) GetRoleRequest(ctx context.Context, address string) (*model.RoleRequest, error) {
	rows, err := s.dbClient.Query(ctx, QueryGetRoleRequest, address)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToRoleRequest(rows[0])
}

// ListRoleRequests returns all pending requests, oldest first
func (s *roleStore) ListRoleRequests(ctx context.Context) ([]model.RoleRequest, error) {
	rows, err := s.dbClient.Query(ctx, QueryListRoleRequests)
	if err != nil {
		return nil, err
	}

	requests := make([]model.RoleRequest, 0, len(rows))
	for _, row := range rows {
		request, err := mapToRoleRequest(row)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	return requests, nil
}

// CreateRoleRequest inserts a request and reports false when the address already holds a role
func (s *roleStore) CreateRoleRequest(tx dbmodel.TxInterface, request *model.RoleRequest) (bool, error) {
	result, err := tx.Exec(QueryCreateRoleRequest,
		request.Address, int(request.Role), request.RequestedTime, request.Address)
	if err != nil {
		return false, err
	}
	return affectedOne(result.RowsAffected())
}

// GetRoleRequestInTx reads a pending request inside a transaction without a row lock.
// Approval correctness rests on DeleteRoleRequest affecting exactly one row.
func (s *roleStore) GetRoleRequestInTx(tx dbmodel.TxInterface, address string) (*model.RoleRequest, error) {
	rows, err := tx.Query(QueryGetRoleRequest, address)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToRoleRequest(rows[0])
}

// DeleteRoleRequest removes a pending request and reports whether one existed
func (s *roleStore) DeleteRoleRequest(tx dbmodel.TxInterface, address string) (bool, error) {
	result, err := tx.Exec(QueryDeleteRoleRequest, address)
	if err != nil {
		return false, err
	}
	return affectedOne(result.RowsAffected())
}

// UpsertUserRole assigns a role, replacing any previous assignment
func (s *roleStore) UpsertUserRole(tx dbmodel.TxInterface, userRole *model.UserRole) error {
	_, err := tx.Exec(QueryUpsertUserRole,
		userRole.Address, int(userRole.Role), userRole.AssignedBy, userRole.UpdatedTime)
	return err
}

// DeleteUserRole removes a role assignment and reports whether one existed
func (s *roleStore) DeleteUserRole(tx dbmodel.TxInterface, address string) (bool, error) {
	result, err := tx.Exec(QueryDeleteUserRole, address)
	if err != nil {
		return false, err
	}
	return affectedOne(result.RowsAffected())
}

func affectedOne(affected int64, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func mapToUserRole(row map[string]interface{}) (*model.UserRole, error) {
	role, err := dbutils.ToInt64(row["ROLE"])
	if err != nil {
		return nil, fmt.Errorf("invalid ROLE value: %w", err)
	}
	updatedTime, err := dbutils.ToInt64(row["UPDATED_TIME"])
	if err != nil {
		return nil, fmt.Errorf("invalid UPDATED_TIME value: %w", err)
	}
	return &model.UserRole{
		Address:     dbutils.ToString(row["ADDRESS"]),
		Role:        model.Role(role),
		AssignedBy:  dbutils.ToString(row["ASSIGNED_BY"]),
		UpdatedTime: updatedTime,
	}, nil
}

func mapToRoleRequest(row map[string]interface{}) (*model.RoleRequest, error) {
	role, err := dbutils.ToInt64(row["ROLE"])
	if err != nil {
		return nil, fmt.Errorf("invalid ROLE value: %w", err)
	}
	requestedTime, err := dbutils.ToInt64(row["REQUESTED_TIME"])
	if err != nil {
		return nil, fmt.Errorf("invalid REQUESTED_TIME value: %w", err)
	}
	return &model.RoleRequest{
		Address:       dbutils.ToString(row["ADDRESS"]),
		Role:          model.Role(role),
		RequestedTime: requestedTime,
	}, nil
}
