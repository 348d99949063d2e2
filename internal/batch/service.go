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
	"errors"
	"fmt"

	"github.com/wso2/pharma-ledger-api/internal/batch/model"
	"github.com/wso2/pharma-ledger-api/internal/batch/validator"
	"github.com/wso2/pharma-ledger-api/internal/identity"
	identitymodel "github.com/wso2/pharma-ledger-api/internal/identity/model"
	"github.com/wso2/pharma-ledger-api/internal/notification"
	"github.com/wso2/pharma-ledger-api/internal/system/config"
	dbmodel "github.com/wso2/pharma-ledger-api/internal/system/database/model"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
	"github.com/wso2/pharma-ledger-api/internal/system/log"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
	"github.com/wso2/pharma-ledger-api/internal/system/utils"
)

var errStaleState = errors.New("batch status changed concurrently")

// BatchService defines the batch ledger operations
type BatchService interface {
	CreateBatch(ctx context.Context, caller string, input validator.BatchInput) (*model.Batch, *serviceerror.ServiceError)
	TransferToDistributor(ctx context.Context, caller string, batchID int64, distributor string) (*model.Batch, *serviceerror.ServiceError)
	TransferToHealthcare(ctx context.Context, caller string, batchID int64, healthcareProvider string) (*model.Batch, *serviceerror.ServiceError)
	VerifyBatch(ctx context.Context, caller string, batchID int64) (*model.Batch, *serviceerror.ServiceError)
	RecallBatch(ctx context.Context, caller string, batchID int64, reason string) (*model.Batch, *serviceerror.ServiceError)
	GetBatchDetails(ctx context.Context, batchID int64) (*model.Batch, *serviceerror.ServiceError)
	GetAllBatchesWithStatus(ctx context.Context, caller string, status *model.Status) ([]model.BatchSummary, *serviceerror.ServiceError)
	GetBatchHistory(ctx context.Context, batchID int64) ([]model.StatusAudit, *serviceerror.ServiceError)
}

type batchService struct {
	stores    *stores.StoreRegistry
	identity  identity.IdentityService
	lifecycle *Lifecycle
	config    config.LedgerConfig
	notifier  notification.RecallNotifier
	metrics   *metrics.Metrics
	logger    *log.Logger
}

// NewBatchService creates the batch ledger service
func NewBatchService(
	registry *stores.StoreRegistry,
	identityService identity.IdentityService,
	ledgerConfig config.LedgerConfig,
	notifier notification.RecallNotifier,
	m *metrics.Metrics,
) BatchService {
	return &batchService{
		stores:    registry,
		identity:  identityService,
		lifecycle: NewLifecycle(ledgerConfig.AllowRecallAfterVerified),
		config:    ledgerConfig,
		notifier:  notifier,
		metrics:   m,
		logger:    log.GetLogger().With(log.String(log.LoggerKeyComponentName, "BatchService")),
	}
}

// CreateBatch records a new batch owned by the calling manufacturer
func (s *batchService) CreateBatch(ctx context.Context, caller string, input validator.BatchInput) (*model.Batch, *serviceerror.ServiceError) {
	drugName, err := validator.ValidateBatchInput(input, s.config.MaxDrugNameLength)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	callerAddress, svcErr := identity.ParseCaller(caller)
	if svcErr != nil {
		return nil, svcErr
	}
	callerRole, svcErr := s.roleOf(ctx, callerAddress)
	if svcErr != nil {
		return nil, svcErr
	}
	if callerRole != identitymodel.RoleManufacturer {
		return nil, serviceerror.CustomServiceError(serviceerror.AuthorizationError,
			fmt.Sprintf("caller %s does not have the %s role", callerAddress, identitymodel.RoleManufacturer))
	}

	store := s.stores.Batch.(BatchStore)
	now := utils.GetCurrentTimeMillis()
	batch := &model.Batch{
		DrugName:          drugName,
		Quantity:          input.Quantity,
		ManufacturingDate: input.ManufacturingDate,
		ExpiryDate:        input.ExpiryDate,
		Status:            model.StatusCreated,
		Manufacturer:      callerAddress,
		CreatedTime:       now,
		UpdatedTime:       now,
	}

	err = s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			id, err := store.CreateBatch(tx, batch)
			if err != nil {
				return err
			}
			batch.BatchID = id
			return nil
		},
		func(tx dbmodel.TxInterface) error {
			return store.CreateStatusAudit(tx, &model.StatusAudit{
				AuditID:       utils.GenerateUUID(),
				BatchID:       batch.BatchID,
				CurrentStatus: model.StatusCreated,
				ActionBy:      callerAddress,
				ActionTime:    now,
			})
		},
	})
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create batch: %v", err))
	}

	s.metrics.BatchTransition(int(model.StatusCreated))
	s.logger.Info("Batch created",
		log.Int64("batch_id", batch.BatchID),
		log.String("drug_name", batch.DrugName),
		log.Int64("quantity", batch.Quantity),
		log.String("manufacturer", callerAddress))
	batch.Terminal = s.lifecycle.IsTerminal(batch.Status)
	return batch, nil
}

// TransferToDistributor hands a Created batch from its manufacturer to a distributor
func (s *batchService) TransferToDistributor(ctx context.Context, caller string, batchID int64, distributor string) (*model.Batch, *serviceerror.ServiceError) {
	target, svcErr := parseTarget("distributor", distributor)
	if svcErr != nil {
		return nil, svcErr
	}

	batch, callerAddress, next, svcErr := s.prepareTransition(ctx, caller, batchID, OperationTransferToDistributor)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.requireParty(ctx, callerAddress, batch.Manufacturer, identitymodel.RoleManufacturer, false); svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.requireTargetRole(ctx, target, identitymodel.RoleDistributor); svcErr != nil {
		return nil, svcErr
	}

	store := s.stores.Batch.(BatchStore)
	updated, svcErr := s.commitTransition(ctx, batch, next, callerAddress, nil,
		func(tx dbmodel.TxInterface, now int64) (bool, error) {
			return store.AssignDistributor(tx, batch.BatchID, target, batch.Status, next, now)
		})
	if svcErr != nil {
		return nil, svcErr
	}
	updated.Distributor = target

	s.logger.Info("Batch transferred to distributor",
		log.Int64("batch_id", batchID),
		log.String("distributor", target),
		log.String("manufacturer", callerAddress))
	return updated, nil
}

// TransferToHealthcare hands an InTransit batch from its distributor to a healthcare provider
func (s *batchService) TransferToHealthcare(ctx context.Context, caller string, batchID int64, healthcareProvider string) (*model.Batch, *serviceerror.ServiceError) {
	target, svcErr := parseTarget("healthcareProvider", healthcareProvider)
	if svcErr != nil {
		return nil, svcErr
	}

	batch, callerAddress, next, svcErr := s.prepareTransition(ctx, caller, batchID, OperationTransferToHealthcare)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.requireParty(ctx, callerAddress, batch.Distributor, identitymodel.RoleDistributor, false); svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.requireTargetRole(ctx, target, identitymodel.RoleHealthcareProvider); svcErr != nil {
		return nil, svcErr
	}

	store := s.stores.Batch.(BatchStore)
	updated, svcErr := s.commitTransition(ctx, batch, next, callerAddress, nil,
		func(tx dbmodel.TxInterface, now int64) (bool, error) {
			return store.AssignHealthcareProvider(tx, batch.BatchID, target, batch.Status, next, now)
		})
	if svcErr != nil {
		return nil, svcErr
	}
	updated.HealthcareProvider = target

	s.logger.Info("Batch transferred to healthcare provider",
		log.Int64("batch_id", batchID),
		log.String("healthcare_provider", target),
		log.String("distributor", callerAddress))
	return updated, nil
}

// VerifyBatch confirms receipt of a Delivered batch
func (s *batchService) VerifyBatch(ctx context.Context, caller string, batchID int64) (*model.Batch, *serviceerror.ServiceError) {
	batch, callerAddress, next, svcErr := s.prepareTransition(ctx, caller, batchID, OperationVerify)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.requireParty(ctx, callerAddress, batch.HealthcareProvider, identitymodel.RoleHealthcareProvider, true); svcErr != nil {
		return nil, svcErr
	}

	store := s.stores.Batch.(BatchStore)
	updated, svcErr := s.commitTransition(ctx, batch, next, callerAddress, nil,
		func(tx dbmodel.TxInterface, now int64) (bool, error) {
			return store.CompareAndSetStatus(tx, batch.BatchID, batch.Status, next, now)
		})
	if svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("Batch verified",
		log.Int64("batch_id", batchID),
		log.String("verified_by", callerAddress))
	return updated, nil
}

// RecallBatch moves a batch to the terminal Recalled status and publishes a recall event
func (s *batchService) RecallBatch(ctx context.Context, caller string, batchID int64, reason string) (*model.Batch, *serviceerror.ServiceError) {
	reason = utils.SanitizeString(reason)
	if err := utils.ValidateMaxLength("reason", reason, 1024); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	var reasonValue *string
	if reason != "" {
		reasonValue = &reason
	}

	batch, callerAddress, next, svcErr := s.prepareTransition(ctx, caller, batchID, OperationRecall)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.requireParty(ctx, callerAddress, batch.Manufacturer, identitymodel.RoleManufacturer, true); svcErr != nil {
		return nil, svcErr
	}

	previous := batch.Status
	store := s.stores.Batch.(BatchStore)
	updated, svcErr := s.commitTransition(ctx, batch, next, callerAddress, reasonValue,
		func(tx dbmodel.TxInterface, now int64) (bool, error) {
			return store.CompareAndSetStatus(tx, batch.BatchID, batch.Status, next, now)
		})
	if svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("Batch recalled",
		log.Int64("batch_id", batchID),
		log.String("previous_status", previous.String()),
		log.String("recalled_by", callerAddress))

	s.publishRecall(ctx, updated, previous, callerAddress, reasonValue)
	return updated, nil
}

// GetBatchDetails returns the full record of a batch
func (s *batchService) GetBatchDetails(ctx context.Context, batchID int64) (*model.Batch, *serviceerror.ServiceError) {
	if batchID <= 0 {
		return nil, invalidBatchIDError(batchID)
	}
	batch, svcErr := s.loadBatch(ctx, batchID)
	if svcErr != nil {
		return nil, svcErr
	}
	batch.Terminal = s.lifecycle.IsTerminal(batch.Status)
	return batch, nil
}

// GetAllBatchesWithStatus lists batch summaries visible to the caller, ordered by batch id
func (s *batchService) GetAllBatchesWithStatus(ctx context.Context, caller string, status *model.Status) ([]model.BatchSummary, *serviceerror.ServiceError) {
	if status != nil && !status.IsValid() {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, fmt.Sprintf("invalid status: %d", int(*status)))
	}

	filter := model.BatchFilter{Status: status}
	if s.config.IsCustodyVisibility() {
		callerAddress, svcErr := identity.ParseCaller(caller)
		if svcErr != nil {
			return nil, svcErr
		}
		callerRole, svcErr := s.roleOf(ctx, callerAddress)
		if svcErr != nil {
			return nil, svcErr
		}
		switch callerRole {
		case identitymodel.RoleRegulator:
		case identitymodel.RoleNone:
			return []model.BatchSummary{}, nil
		default:
			filter.Party = callerAddress
		}
	}

	store := s.stores.Batch.(BatchStore)
	summaries, err := store.ListBatches(ctx, filter)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list batches: %v", err))
	}
	return summaries, nil
}

// GetBatchHistory returns the committed transitions of a batch, oldest first
func (s *batchService) GetBatchHistory(ctx context.Context, batchID int64) ([]model.StatusAudit, *serviceerror.ServiceError) {
	if batchID <= 0 {
		return nil, invalidBatchIDError(batchID)
	}
	if _, svcErr := s.loadBatch(ctx, batchID); svcErr != nil {
		return nil, svcErr
	}

	store := s.stores.Batch.(BatchStore)
	audits, err := store.ListStatusAudits(ctx, batchID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to read batch history: %v", err))
	}
	return audits, nil
}

// prepareTransition runs the caller, existence and status checks shared by every mutation.
func (s *batchService) prepareTransition(ctx context.Context, caller string, batchID int64, op Operation) (*model.Batch, string, model.Status, *serviceerror.ServiceError) {
	if batchID <= 0 {
		return nil, "", 0, invalidBatchIDError(batchID)
	}
	callerAddress, svcErr := identity.ParseCaller(caller)
	if svcErr != nil {
		return nil, "", 0, svcErr
	}
	batch, svcErr := s.loadBatch(ctx, batchID)
	if svcErr != nil {
		return nil, "", 0, svcErr
	}
	next, ok := s.lifecycle.Next(op, batch.Status)
	if !ok {
		return nil, "", 0, serviceerror.CustomServiceError(serviceerror.StateError,
			fmt.Sprintf("%s is not allowed for batch %d in status %s", op, batchID, batch.Status))
	}
	return batch, callerAddress, next, nil
}

// requireParty checks the caller is the named party of the batch and still holds role.
// When regulatorAllowed is set any Regulator passes as well.
func (s *batchService) requireParty(ctx context.Context, callerAddress, party string, role identitymodel.Role, regulatorAllowed bool) *serviceerror.ServiceError {
	callerRole, svcErr := s.roleOf(ctx, callerAddress)
	if svcErr != nil {
		return svcErr
	}
	if regulatorAllowed && callerRole == identitymodel.RoleRegulator {
		return nil
	}
	if utils.SameAddress(callerAddress, party) && callerRole == role {
		return nil
	}
	return serviceerror.CustomServiceError(serviceerror.AuthorizationError,
		fmt.Sprintf("caller %s is not the %s of this batch", callerAddress, role))
}

func (s *batchService) requireTargetRole(ctx context.Context, target string, role identitymodel.Role) *serviceerror.ServiceError {
	targetRole, svcErr := s.roleOf(ctx, target)
	if svcErr != nil {
		return svcErr
	}
	if targetRole != role {
		return serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("address %s does not have the %s role", target, role))
	}
	return nil
}

// commitTransition applies update and the audit row in one transaction.
// update reports false when the batch left its expected status in the meantime.
func (s *batchService) commitTransition(
	ctx context.Context,
	batch *model.Batch,
	next model.Status,
	actionBy string,
	reason *string,
	update func(tx dbmodel.TxInterface, now int64) (bool, error),
) (*model.Batch, *serviceerror.ServiceError) {
	store := s.stores.Batch.(BatchStore)
	now := utils.GetCurrentTimeMillis()
	previous := batch.Status

	err := s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			applied, err := update(tx, now)
			if err != nil {
				return err
			}
			if !applied {
				return errStaleState
			}
			return nil
		},
		func(tx dbmodel.TxInterface) error {
			return store.CreateStatusAudit(tx, &model.StatusAudit{
				AuditID:        utils.GenerateUUID(),
				BatchID:        batch.BatchID,
				PreviousStatus: &previous,
				CurrentStatus:  next,
				ActionBy:       actionBy,
				ActionTime:     now,
				Reason:         reason,
			})
		},
	})
	if err != nil {
		if errors.Is(err, errStaleState) {
			return nil, serviceerror.CustomServiceError(serviceerror.StateError,
				fmt.Sprintf("batch %d is no longer in status %s", batch.BatchID, previous))
		}
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update batch: %v", err))
	}

	s.metrics.BatchTransition(int(next))

	updated := *batch
	updated.Status = next
	updated.UpdatedTime = now
	updated.Terminal = s.lifecycle.IsTerminal(next)
	return &updated, nil
}

func (s *batchService) publishRecall(ctx context.Context, batch *model.Batch, previous model.Status, recalledBy string, reason *string) {
	if s.notifier == nil {
		return
	}
	event := notification.RecallEvent{
		BatchID:            batch.BatchID,
		DrugName:           batch.DrugName,
		PreviousStatus:     int(previous),
		Manufacturer:       batch.Manufacturer,
		Distributor:        batch.Distributor,
		HealthcareProvider: batch.HealthcareProvider,
		RecalledBy:         recalledBy,
		Reason:             reason,
		RecalledAt:         utils.GetCurrentTimeSeconds(),
	}
	// the recall is committed; delivery must outlive the request
	if err := s.notifier.NotifyBatchRecalled(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("Failed to publish recall notification",
			log.Int64("batch_id", batch.BatchID),
			log.Error(err))
	}
}

func (s *batchService) loadBatch(ctx context.Context, batchID int64) (*model.Batch, *serviceerror.ServiceError) {
	store := s.stores.Batch.(BatchStore)
	batch, err := store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to read batch: %v", err))
	}
	if batch == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.NotFoundError, fmt.Sprintf("batch %d not found", batchID))
	}
	return batch, nil
}

func (s *batchService) roleOf(ctx context.Context, address string) (identitymodel.Role, *serviceerror.ServiceError) {
	userRole, svcErr := s.identity.GetUserRole(ctx, address)
	if svcErr != nil {
		return identitymodel.RoleNone, svcErr
	}
	return userRole.Role, nil
}

func parseTarget(field, value string) (string, *serviceerror.ServiceError) {
	if value == "" {
		return "", serviceerror.CustomServiceError(serviceerror.ValidationError, fmt.Sprintf("%s is required", field))
	}
	address, err := utils.ParseAddress(value)
	if err != nil {
		return "", serviceerror.CustomServiceError(serviceerror.ValidationError, fmt.Sprintf("%s %v", field, err))
	}
	return address, nil
}

func invalidBatchIDError(batchID int64) *serviceerror.ServiceError {
	return serviceerror.CustomServiceError(serviceerror.ValidationError, fmt.Sprintf("invalid batch id: %d", batchID))
}
