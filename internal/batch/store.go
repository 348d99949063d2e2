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

package batch

import (
	"context"
	"fmt"

	"github.com/wso2/pharma-ledger-api/internal/batch/model"
	"github.com/wso2/pharma-ledger-api/internal/system/config"
	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
	"github.com/wso2/pharma-ledger-api/internal/system/database/provider"
	dbutils "github.com/wso2/pharma-ledger-api/internal/system/database/utils"
)

const batchColumns = "BATCH_ID, DRUG_NAME, QUANTITY, MANUFACTURING_DATE, EXPIRY_DATE, STATUS, " +
	"MANUFACTURER, DISTRIBUTOR, HEALTHCARE_PROVIDER, CREATED_TIME, UPDATED_TIME"

const partyClause = "(MANUFACTURER = ? OR DISTRIBUTOR = ? OR HEALTHCARE_PROVIDER = ?)"

var (
	QueryCreateBatch = dbmodel.DBQuery{
		ID: "CREATE_BATCH",
		Query: "INSERT INTO BATCH (DRUG_NAME, QUANTITY, MANUFACTURING_DATE, EXPIRY_DATE, STATUS, MANUFACTURER, " +
			"CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		PostgresQuery: "INSERT INTO BATCH (DRUG_NAME, QUANTITY, MANUFACTURING_DATE, EXPIRY_DATE, STATUS, MANUFACTURER, " +
			"CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING BATCH_ID",
	}

	QueryGetBatch = dbmodel.DBQuery{
		ID:    "GET_BATCH",
		Query: "SELECT " + batchColumns + " FROM BATCH WHERE BATCH_ID = ?",
	}

	QueryListBatches = dbmodel.DBQuery{
		ID:    "LIST_BATCHES",
		Query: "SELECT BATCH_ID, STATUS, EXPIRY_DATE FROM BATCH ORDER BY BATCH_ID ASC",
	}

	QueryListBatchesByStatus = dbmodel.DBQuery{
		ID:    "LIST_BATCHES_BY_STATUS",
		Query: "SELECT BATCH_ID, STATUS, EXPIRY_DATE FROM BATCH WHERE STATUS = ? ORDER BY BATCH_ID ASC",
	}

	QueryListBatchesByParty = dbmodel.DBQuery{
		ID:    "LIST_BATCHES_BY_PARTY",
		Query: "SELECT BATCH_ID, STATUS, EXPIRY_DATE FROM BATCH WHERE " + partyClause + " ORDER BY BATCH_ID ASC",
	}

	QueryListBatchesByStatusAndParty = dbmodel.DBQuery{
		ID: "LIST_BATCHES_BY_STATUS_AND_PARTY",
		Query: "SELECT BATCH_ID, STATUS, EXPIRY_DATE FROM BATCH WHERE STATUS = ? AND " + partyClause +
			" ORDER BY BATCH_ID ASC",
	}

	QueryCountBatchesByStatus = dbmodel.DBQuery{
		ID:    "COUNT_BATCHES_BY_STATUS",
		Query: "SELECT STATUS, COUNT(*) AS BATCH_COUNT FROM BATCH GROUP BY STATUS",
	}

	// Custody fields are write-once: the update only matches while the field is unset.
	QueryAssignDistributor = dbmodel.DBQuery{
		ID: "ASSIGN_DISTRIBUTOR",
		Query: "UPDATE BATCH SET DISTRIBUTOR = ?, STATUS = ?, UPDATED_TIME = ? " +
			"WHERE BATCH_ID = ? AND STATUS = ? AND DISTRIBUTOR IS NULL",
	}

	QueryAssignHealthcareProvider = dbmodel.DBQuery{
		ID: "ASSIGN_HEALTHCARE_PROVIDER",
		Query: "UPDATE BATCH SET HEALTHCARE_PROVIDER = ?, STATUS = ?, UPDATED_TIME = ? " +
			"WHERE BATCH_ID = ? AND STATUS = ? AND HEALTHCARE_PROVIDER IS NULL",
	}

	QueryCompareAndSetStatus = dbmodel.DBQuery{
		ID:    "COMPARE_AND_SET_STATUS",
		Query: "UPDATE BATCH SET STATUS = ?, UPDATED_TIME = ? WHERE BATCH_ID = ? AND STATUS = ?",
	}

	QueryCreateStatusAudit = dbmodel.DBQuery{
		ID: "CREATE_BATCH_STATUS_AUDIT",
		Query: "INSERT INTO BATCH_STATUS_AUDIT (AUDIT_ID, BATCH_ID, PREVIOUS_STATUS, CURRENT_STATUS, ACTION_BY, " +
			"ACTION_TIME, REASON) VALUES (?, ?, ?, ?, ?, ?, ?)",
	}

	QueryListStatusAudits = dbmodel.DBQuery{
		ID: "LIST_BATCH_STATUS_AUDITS",
		Query: "SELECT AUDIT_ID, BATCH_ID, PREVIOUS_STATUS, CURRENT_STATUS, ACTION_BY, ACTION_TIME, REASON " +
			"FROM BATCH_STATUS_AUDIT WHERE BATCH_ID = ? ORDER BY ACTION_TIME ASC, CURRENT_STATUS ASC",
	}
)

// BatchStore defines the interface for batch ledger data access operations
type BatchStore interface {
	// Read operations - use dbClient directly
	GetBatch(ctx context.Context, batchID int64) (*model.Batch, error)
	ListBatches(ctx context.Context, filter model.BatchFilter) ([]model.BatchSummary, error)
	ListStatusAudits(ctx context.Context, batchID int64) ([]model.StatusAudit, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)

	// Write operations - transactional with tx parameter
	CreateBatch(tx dbmodel.TxInterface, batch *model.Batch) (int64, error)
	AssignDistributor(tx dbmodel.TxInterface, batchID int64, distributor string, from, to model.Status, updatedTime int64) (bool, error)
	AssignHealthcareProvider(tx dbmodel.TxInterface, batchID int64, healthcareProvider string, from, to model.Status, updatedTime int64) (bool, error)
	CompareAndSetStatus(tx dbmodel.TxInterface, batchID int64, from, to model.Status, updatedTime int64) (bool, error)
	CreateStatusAudit(tx dbmodel.TxInterface, audit *model.StatusAudit) error
}

type batchStore struct {
	dbClient provider.DBClientInterface
}

// NewBatchStore creates a new batch store
func NewBatchStore(dbClient provider.DBClientInterface) BatchStore {
	return &batchStore{
		dbClient: dbClient,
	}
}

// GetBatch returns a batch by id, or nil when it does not exist
func (s *batchStore) GetBatch(ctx context.Context, batchID int64) (*model.Batch, error) {
	rows, err := s.dbClient.Query(ctx, QueryGetBatch, batchID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToBatch(rows[0])
}

// ListBatches returns batch summaries in creation order
func (s *batchStore) ListBatches(ctx context.Context, filter model.BatchFilter) ([]model.BatchSummary, error) {
	var (
		rows []map[string]interface{}
		err  error
	)
	switch {
	case filter.Status != nil && filter.Party != "":
		rows, err = s.dbClient.Query(ctx, QueryListBatchesByStatusAndParty,
			int(*filter.Status), filter.Party, filter.Party, filter.Party)
	case filter.Status != nil:
		rows, err = s.dbClient.Query(ctx, QueryListBatchesByStatus, int(*filter.Status))
	case filter.Party != "":
		rows, err = s.dbClient.Query(ctx, QueryListBatchesByParty, filter.Party, filter.Party, filter.Party)
	default:
		rows, err = s.dbClient.Query(ctx, QueryListBatches)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]model.BatchSummary, 0, len(rows))
	for _, row := range rows {
		summary, err := mapToBatchSummary(row)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// ListStatusAudits returns the transitions of a batch, oldest first
func (s *batchStore) ListStatusAudits(ctx context.Context, batchID int64) ([]model.StatusAudit, error) {
	rows, err := s.dbClient.Query(ctx, QueryListStatusAudits, batchID)
	if err != nil {
		return nil, err
	}

	audits := make([]model.StatusAudit, 0, len(rows))
	for _, row := range rows {
		audit, err := mapToStatusAudit(row)
		if err != nil {
			return nil, err
		}
		audits = append(audits, *audit)
	}
	return audits, nil
}

// CountByStatus returns the number of batches per status; absent statuses are omitted
func (s *batchStore) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	rows, err := s.dbClient.Query(ctx, QueryCountBatchesByStatus)
	if err != nil {
		return nil, err
	}

	counts := make([]model.StatusCount, 0, len(rows))
	for _, row := range rows {
		status, err := dbutils.ToInt64(row["STATUS"])
		if err != nil {
			return nil, fmt.Errorf("invalid STATUS value: %w", err)
		}
		count, err := dbutils.ToInt64(row["BATCH_COUNT"])
		if err != nil {
			return nil, fmt.Errorf("invalid BATCH_COUNT value: %w", err)
		}
		counts = append(counts, model.StatusCount{Status: model.Status(status), Count: count})
	}
	return counts, nil
}

// CreateBatch inserts a batch and returns its assigned id
func (s *batchStore) CreateBatch(tx dbmodel.TxInterface, batch *model.Batch) (int64, error) {
	args := []interface{}{
		batch.DrugName, batch.Quantity, batch.ManufacturingDate, batch.ExpiryDate,
		int(batch.Status), batch.Manufacturer, batch.CreatedTime, batch.UpdatedTime,
	}

	if s.dbClient.GetDBType() == config.DBTypePostgres {
		rows, err := tx.Query(QueryCreateBatch, args...)
		if err != nil {
			return 0, err
		}
		if len(rows) == 0 {
			return 0, fmt.Errorf("insert returned no batch id")
		}
		return dbutils.ToInt64(rows[0]["BATCH_ID"])
	}

	result, err := tx.Exec(QueryCreateBatch, args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read batch id: %w", err)
	}
	return id, nil
}

// AssignDistributor sets the distributor and advances the status if the batch is still in from
func (s *batchStore) AssignDistributor(tx dbmodel.TxInterface, batchID int64, distributor string,
	from, to model.Status, updatedTime int64) (bool, error) {
	result, err := tx.Exec(QueryAssignDistributor, distributor, int(to), updatedTime, batchID, int(from))
	if err != nil {
		return false, err
	}
	return affectedOne(result.RowsAffected())
}

// AssignHealthcareProvider sets the healthcare provider and advances the status if the batch is still in from
func (s *batchStore) AssignHealthcareProvider(tx dbmodel.TxInterface, batchID int64, healthcareProvider string,
	from, to model.Status, updatedTime int64) (bool, error) {
	result, err := tx.Exec(QueryAssignHealthcareProvider, healthcareProvider, int(to), updatedTime, batchID, int(from))
	if err != nil {
		return false, err
	}
	return affectedOne(result.RowsAffected())
}

// CompareAndSetStatus moves the batch from one status to another and reports false when it was no longer in from
func (s *batchStore) CompareAndSetStatus(tx dbmodel.TxInterface, batchID int64, from, to model.Status,
	updatedTime int64) (bool, error) {
	result, err := tx.Exec(QueryCompareAndSetStatus, int(to), updatedTime, batchID, int(from))
	if err != nil {
		return false, err
	}
	return affectedOne(result.RowsAffected())
}

// CreateStatusAudit records a committed transition
func (s *batchStore) CreateStatusAudit(tx dbmodel.TxInterface, audit *model.StatusAudit) error {
	var previous interface{}
	if audit.PreviousStatus != nil {
		previous = int(*audit.PreviousStatus)
	}
	var reason interface{}
	if audit.Reason != nil {
		reason = *audit.Reason
	}

	_, err := tx.Exec(QueryCreateStatusAudit,
		audit.AuditID, audit.BatchID, previous, int(audit.CurrentStatus), audit.ActionBy, audit.ActionTime, reason)
	return err
}

func affectedOne(affected int64, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func mapToBatch(row map[string]interface{}) (*model.Batch, error) {
	batch := &model.Batch{
		DrugName:           dbutils.ToString(row["DRUG_NAME"]),
		Manufacturer:       dbutils.ToString(row["MANUFACTURER"]),
		Distributor:        dbutils.ToString(row["DISTRIBUTOR"]),
		HealthcareProvider: dbutils.ToString(row["HEALTHCARE_PROVIDER"]),
	}

	fields := []struct {
		column string
		target *int64
	}{
		{"BATCH_ID", &batch.BatchID},
		{"QUANTITY", &batch.Quantity},
		{"MANUFACTURING_DATE", &batch.ManufacturingDate},
		{"EXPIRY_DATE", &batch.ExpiryDate},
		{"CREATED_TIME", &batch.CreatedTime},
		{"UPDATED_TIME", &batch.UpdatedTime},
	}
	for _, field := range fields {
		value, err := dbutils.ToInt64(row[field.column])
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", field.column, err)
		}
		*field.target = value
	}

	status, err := dbutils.ToInt64(row["STATUS"])
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS value: %w", err)
	}
	batch.Status = model.Status(status)
	return batch, nil
}

func mapToBatchSummary(row map[string]interface{}) (*model.BatchSummary, error) {
	batchID, err := dbutils.ToInt64(row["BATCH_ID"])
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_ID value: %w", err)
	}
	status, err := dbutils.ToInt64(row["STATUS"])
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS value: %w", err)
	}
	expiryDate, err := dbutils.ToInt64(row["EXPIRY_DATE"])
	if err != nil {
		return nil, fmt.Errorf("invalid EXPIRY_DATE value: %w", err)
	}
	return &model.BatchSummary{
		BatchID:    batchID,
		Status:     model.Status(status),
		ExpiryDate: expiryDate,
	}, nil
}

func mapToStatusAudit(row map[string]interface{}) (*model.StatusAudit, error) {
	batchID, err := dbutils.ToInt64(row["BATCH_ID"])
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_ID value: %w", err)
	}
	current, err := dbutils.ToInt64(row["CURRENT_STATUS"])
	if err != nil {
		return nil, fmt.Errorf("invalid CURRENT_STATUS value: %w", err)
	}
	actionTime, err := dbutils.ToInt64(row["ACTION_TIME"])
	if err != nil {
		return nil, fmt.Errorf("invalid ACTION_TIME value: %w", err)
	}
	previousValue, err := dbutils.ToNullableInt64(row["PREVIOUS_STATUS"])
	if err != nil {
		return nil, fmt.Errorf("invalid PREVIOUS_STATUS value: %w", err)
	}

	audit := &model.StatusAudit{
		AuditID:       dbutils.ToString(row["AUDIT_ID"]),
		BatchID:       batchID,
		CurrentStatus: model.Status(current),
		ActionBy:      dbutils.ToString(row["ACTION_BY"]),
		ActionTime:    actionTime,
		Reason:        dbutils.ToNullableString(row["REASON"]),
	}
	if previousValue != nil {
		previous := model.Status(*previousValue)
		audit.PreviousStatus = &previous
	}
	return audit, nil
}
