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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/pharma-ledger-api/internal/batch/mocks"
	"github.com/wso2/pharma-ledger-api/internal/batch/model"
	"github.com/wso2/pharma-ledger-api/internal/batch/validator"
	identitymocks "github.com/wso2/pharma-ledger-api/internal/identity/mocks"
	identitymodel "github.com/wso2/pharma-ledger-api/internal/identity/model"
	"github.com/wso2/pharma-ledger-api/internal/notification"
	notificationmocks "github.com/wso2/pharma-ledger-api/internal/notification/mocks"
	"github.com/wso2/pharma-ledger-api/internal/system/config"
	dbmocks "github.com/wso2/pharma-ledger-api/internal/system/database/provider/mocks"
	"github.com/wso2/pharma-ledger-api/internal/system/error/serviceerror"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/stores"
)

const (
	regulatorAddr    = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	manufacturerAddr = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	distributorAddr  = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	providerAddr     = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
	strangerAddr     = "0x52908400098527886E0F7030069857D2E4169EE7"
)

type testDeps struct {
	store    *mocks.MockBatchStore
	identity *identitymocks.MockIdentityService
	notifier *notificationmocks.MockRecallNotifier
}

func newTestService(t *testing.T, ledgerConfig config.LedgerConfig) (BatchService, *testDeps) {
	t.Helper()
	if ledgerConfig.MaxDrugNameLength == 0 {
		ledgerConfig.MaxDrugNameLength = 255
	}
	if ledgerConfig.Visibility == "" {
		ledgerConfig.Visibility = config.VisibilityGlobal
	}

	client, _ := dbmocks.NewCommittingClient()
	deps := &testDeps{
		store:    &mocks.MockBatchStore{},
		identity: &identitymocks.MockIdentityService{},
		notifier: &notificationmocks.MockRecallNotifier{},
	}
	registry := stores.NewStoreRegistry(client, nil, deps.store)
	t.Cleanup(func() {
		deps.store.AssertExpectations(t)
		deps.notifier.AssertExpectations(t)
	})
	return NewBatchService(registry, deps.identity, ledgerConfig, deps.notifier, metrics.New()), deps
}

func (d *testDeps) role(address string, role identitymodel.Role) {
	d.identity.On("GetUserRole", mock.Anything, address).
		Return(&identitymodel.UserRole{Address: address, Role: role}, nil)
}

func (d *testDeps) batch(status model.Status) *model.Batch {
	batch := &model.Batch{
		BatchID:           1,
		DrugName:          "Paracetamol",
		Quantity:          100,
		ManufacturingDate: 1700000000,
		ExpiryDate:        1700000000 + 31536000,
		Status:            status,
		Manufacturer:      manufacturerAddr,
	}
	if status >= model.StatusInTransit && status != model.StatusRecalled {
		batch.Distributor = distributorAddr
	}
	if status >= model.StatusDelivered && status != model.StatusRecalled {
		batch.HealthcareProvider = providerAddr
	}
	d.store.On("GetBatch", mock.Anything, int64(1)).Return(batch, nil)
	return batch
}

func (d *testDeps) expectAudit(previous, current model.Status) {
	d.store.On("CreateStatusAudit", mock.Anything, mock.MatchedBy(func(a *model.StatusAudit) bool {
		return a.BatchID == 1 && a.PreviousStatus != nil && *a.PreviousStatus == previous &&
			a.CurrentStatus == current && a.AuditID != ""
	})).Return(nil).Once()
}

func paracetamol() validator.BatchInput {
	return validator.BatchInput{
		DrugName:          "Paracetamol",
		Quantity:          100,
		ManufacturingDate: 1700000000,
		ExpiryDate:        1700000000 + 31536000,
	}
}

func assertKind(t *testing.T, expected serviceerror.ServiceError, actual *serviceerror.ServiceError) {
	t.Helper()
	require.NotNil(t, actual)
	assert.Equal(t, expected.Code, actual.Code, actual.ErrorDescription)
}

func TestCreateBatch_AssignsIDAndCreatedStatus(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)
	deps.store.On("CreateBatch", mock.Anything, mock.MatchedBy(func(b *model.Batch) bool {
		return b.DrugName == "Paracetamol" && b.Status == model.StatusCreated && b.Manufacturer == manufacturerAddr
	})).Return(int64(1), nil)
	deps.store.On("CreateStatusAudit", mock.Anything, mock.MatchedBy(func(a *model.StatusAudit) bool {
		return a.BatchID == 1 && a.PreviousStatus == nil && a.CurrentStatus == model.StatusCreated
	})).Return(nil)

	batch, svcErr := svc.CreateBatch(context.Background(), manufacturerAddr, paracetamol())

	require.Nil(t, svcErr)
	assert.Equal(t, int64(1), batch.BatchID)
	assert.Equal(t, model.StatusCreated, batch.Status)
	assert.Equal(t, manufacturerAddr, batch.Manufacturer)
	assert.Empty(t, batch.Distributor)
}

func TestCreateBatch_ValidatesBeforeRoles(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})

	input := paracetamol()
	input.ExpiryDate = input.ManufacturingDate

	_, svcErr := svc.CreateBatch(context.Background(), "", input)

	assertKind(t, serviceerror.ValidationError, svcErr)
	deps.store.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestCreateBatch_RequiresManufacturer(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.role(distributorAddr, identitymodel.RoleDistributor)

	_, svcErr := svc.CreateBatch(context.Background(), distributorAddr, paracetamol())
	assertKind(t, serviceerror.AuthorizationError, svcErr)

	_, svcErr = svc.CreateBatch(context.Background(), "", paracetamol())
	assertKind(t, serviceerror.AuthorizationError, svcErr)
}

func TestCreateBatch_DatabaseFailure(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)
	deps.store.On("CreateBatch", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	_, svcErr := svc.CreateBatch(context.Background(), manufacturerAddr, paracetamol())

	assertKind(t, serviceerror.DatabaseError, svcErr)
}

func TestTransferToDistributor_SetsCustodyAndStatus(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusCreated)
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)
	deps.role(distributorAddr, identitymodel.RoleDistributor)
	deps.store.On("AssignDistributor", mock.Anything, int64(1), distributorAddr,
		model.StatusCreated, model.StatusInTransit, mock.AnythingOfType("int64")).Return(true, nil)
	deps.expectAudit(model.StatusCreated, model.StatusInTransit)

	batch, svcErr := svc.TransferToDistributor(context.Background(), manufacturerAddr, 1, distributorAddr)

	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusInTransit, batch.Status)
	assert.Equal(t, distributorAddr, batch.Distributor)
}

func TestTransferToDistributor_CheckOrder(t *testing.T) {
	t.Run("malformed target is a validation error", func(t *testing.T) {
		svc, _ := newTestService(t, config.LedgerConfig{})
		_, svcErr := svc.TransferToDistributor(context.Background(), manufacturerAddr, 1, "0x12")
		assertKind(t, serviceerror.ValidationError, svcErr)
	})

	t.Run("missing caller is an authorization error", func(t *testing.T) {
		svc, _ := newTestService(t, config.LedgerConfig{})
		_, svcErr := svc.TransferToDistributor(context.Background(), "", 1, distributorAddr)
		assertKind(t, serviceerror.AuthorizationError, svcErr)
	})

	t.Run("unknown batch is not found", func(t *testing.T) {
		svc, deps := newTestService(t, config.LedgerConfig{})
		deps.store.On("GetBatch", mock.Anything, int64(1)).Return(nil, nil)
		_, svcErr := svc.TransferToDistributor(context.Background(), manufacturerAddr, 1, distributorAddr)
		assertKind(t, serviceerror.NotFoundError, svcErr)
	})

	t.Run("wrong status wins over wrong actor", func(t *testing.T) {
		svc, deps := newTestService(t, config.LedgerConfig{})
		deps.batch(model.StatusInTransit)
		_, svcErr := svc.TransferToDistributor(context.Background(), strangerAddr, 1, distributorAddr)
		assertKind(t, serviceerror.StateError, svcErr)
	})

	t.Run("non manufacturer is unauthorized", func(t *testing.T) {
		svc, deps := newTestService(t, config.LedgerConfig{})
		deps.batch(model.StatusCreated)
		deps.role(regulatorAddr, identitymodel.RoleRegulator)
		_, svcErr := svc.TransferToDistributor(context.Background(), regulatorAddr, 1, distributorAddr)
		assertKind(t, serviceerror.AuthorizationError, svcErr)
	})

	t.Run("target without distributor role is a validation error", func(t *testing.T) {
		svc, deps := newTestService(t, config.LedgerConfig{})
		deps.batch(model.StatusCreated)
		deps.role(manufacturerAddr, identitymodel.RoleManufacturer)
		deps.role(providerAddr, identitymodel.RoleHealthcareProvider)
		_, svcErr := svc.TransferToDistributor(context.Background(), manufacturerAddr, 1, providerAddr)
		assertKind(t, serviceerror.ValidationError, svcErr)
	})
}

func TestTransferToDistributor_StaleStateIsStateError(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusCreated)
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)
	deps.role(distributorAddr, identitymodel.RoleDistributor)
	deps.store.On("AssignDistributor", mock.Anything, int64(1), distributorAddr,
		model.StatusCreated, model.StatusInTransit, mock.Anything).Return(false, nil)

	_, svcErr := svc.TransferToDistributor(context.Background(), manufacturerAddr, 1, distributorAddr)

	assertKind(t, serviceerror.StateError, svcErr)
	deps.store.AssertNotCalled(t, "CreateStatusAudit", mock.Anything, mock.Anything)
}

func TestTransferToHealthcare_RequiresBatchDistributor(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusInTransit)
	deps.role(strangerAddr, identitymodel.RoleDistributor)

	_, svcErr := svc.TransferToHealthcare(context.Background(), strangerAddr, 1, providerAddr)

	assertKind(t, serviceerror.AuthorizationError, svcErr)
}

func TestTransferToHealthcare_SetsCustodyAndStatus(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusInTransit)
	deps.role(distributorAddr, identitymodel.RoleDistributor)
	deps.role(providerAddr, identitymodel.RoleHealthcareProvider)
	deps.store.On("AssignHealthcareProvider", mock.Anything, int64(1), providerAddr,
		model.StatusInTransit, model.StatusDelivered, mock.Anything).Return(true, nil)
	deps.expectAudit(model.StatusInTransit, model.StatusDelivered)

	batch, svcErr := svc.TransferToHealthcare(context.Background(), distributorAddr, 1, providerAddr)

	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusDelivered, batch.Status)
	assert.Equal(t, providerAddr, batch.HealthcareProvider)
}

func TestVerifyBatch_ByProviderOrRegulator(t *testing.T) {
	for _, caller := range []string{providerAddr, regulatorAddr} {
		t.Run(caller, func(t *testing.T) {
			svc, deps := newTestService(t, config.LedgerConfig{})
			deps.batch(model.StatusDelivered)
			deps.role(providerAddr, identitymodel.RoleHealthcareProvider)
			deps.role(regulatorAddr, identitymodel.RoleRegulator)
			deps.store.On("CompareAndSetStatus", mock.Anything, int64(1),
				model.StatusDelivered, model.StatusVerified, mock.Anything).Return(true, nil)
			deps.expectAudit(model.StatusDelivered, model.StatusVerified)

			batch, svcErr := svc.VerifyBatch(context.Background(), caller, 1)

			require.Nil(t, svcErr)
			assert.Equal(t, model.StatusVerified, batch.Status)
		})
	}
}

func TestVerifyBatch_Errors(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusDelivered)
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)

	_, svcErr := svc.VerifyBatch(context.Background(), manufacturerAddr, 1)
	assertKind(t, serviceerror.AuthorizationError, svcErr)

	svc, deps = newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusVerified)
	_, svcErr = svc.VerifyBatch(context.Background(), providerAddr, 1)
	assertKind(t, serviceerror.StateError, svcErr)
}

func TestRecallBatch_PublishesEventAfterCommit(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusInTransit)
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)
	deps.store.On("CompareAndSetStatus", mock.Anything, int64(1),
		model.StatusInTransit, model.StatusRecalled, mock.Anything).Return(true, nil)
	deps.store.On("CreateStatusAudit", mock.Anything, mock.MatchedBy(func(a *model.StatusAudit) bool {
		return a.CurrentStatus == model.StatusRecalled && a.Reason != nil && *a.Reason == "contamination"
	})).Return(nil)
	deps.notifier.On("NotifyBatchRecalled", mock.Anything, mock.MatchedBy(func(e notification.RecallEvent) bool {
		return e.BatchID == 1 && e.PreviousStatus == int(model.StatusInTransit) &&
			e.Distributor == distributorAddr && e.RecalledBy == manufacturerAddr
	})).Return(nil)

	batch, svcErr := svc.RecallBatch(context.Background(), manufacturerAddr, 1, " contamination ")

	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusRecalled, batch.Status)
}

func TestRecallBatch_NotificationOutlivesCallerContext(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusDelivered)
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps.store.On("CompareAndSetStatus", mock.Anything, int64(1),
		model.StatusDelivered, model.StatusRecalled, mock.Anything).Return(true, nil)
	deps.store.On("CreateStatusAudit", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)
	deps.notifier.On("NotifyBatchRecalled", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), mock.Anything).Return(nil)

	batch, svcErr := svc.RecallBatch(ctx, manufacturerAddr, 1, "")

	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusRecalled, batch.Status)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestRecallBatch_NotificationFailureDoesNotFailRecall(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusCreated)
	deps.role(regulatorAddr, identitymodel.RoleRegulator)
	deps.store.On("CompareAndSetStatus", mock.Anything, int64(1),
		model.StatusCreated, model.StatusRecalled, mock.Anything).Return(true, nil)
	deps.store.On("CreateStatusAudit", mock.Anything, mock.Anything).Return(nil)
	deps.notifier.On("NotifyBatchRecalled", mock.Anything, mock.Anything).Return(errors.New("webhook down"))

	batch, svcErr := svc.RecallBatch(context.Background(), regulatorAddr, 1, "")

	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusRecalled, batch.Status)
}

func TestRecallBatch_VerifiedPolicy(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{AllowRecallAfterVerified: false})
	deps.batch(model.StatusVerified)

	_, svcErr := svc.RecallBatch(context.Background(), manufacturerAddr, 1, "")
	assertKind(t, serviceerror.StateError, svcErr)

	svc, deps = newTestService(t, config.LedgerConfig{AllowRecallAfterVerified: true})
	deps.batch(model.StatusVerified)
	deps.role(manufacturerAddr, identitymodel.RoleManufacturer)
	deps.store.On("CompareAndSetStatus", mock.Anything, int64(1),
		model.StatusVerified, model.StatusRecalled, mock.Anything).Return(true, nil)
	deps.store.On("CreateStatusAudit", mock.Anything, mock.Anything).Return(nil)
	deps.notifier.On("NotifyBatchRecalled", mock.Anything, mock.Anything).Return(nil)

	batch, svcErr := svc.RecallBatch(context.Background(), manufacturerAddr, 1, "")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusRecalled, batch.Status)
}

func TestRecallBatch_RecalledIsTerminal(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{AllowRecallAfterVerified: true})
	deps.batch(model.StatusRecalled)

	_, svcErr := svc.RecallBatch(context.Background(), regulatorAddr, 1, "")
	assertKind(t, serviceerror.StateError, svcErr)
	_, svcErr = svc.VerifyBatch(context.Background(), regulatorAddr, 1)
	assertKind(t, serviceerror.StateError, svcErr)
	_, svcErr = svc.TransferToDistributor(context.Background(), manufacturerAddr, 1, distributorAddr)
	assertKind(t, serviceerror.StateError, svcErr)
}

func TestRecallBatch_DistributorCannotRecall(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusInTransit)
	deps.role(distributorAddr, identitymodel.RoleDistributor)

	_, svcErr := svc.RecallBatch(context.Background(), distributorAddr, 1, "")

	assertKind(t, serviceerror.AuthorizationError, svcErr)
}

func TestGetBatchDetails(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusCreated)
	deps.store.On("GetBatch", mock.Anything, int64(2)).Return(nil, nil)

	batch, svcErr := svc.GetBatchDetails(context.Background(), 1)
	require.Nil(t, svcErr)
	assert.Equal(t, "Paracetamol", batch.DrugName)
	assert.False(t, batch.Terminal)

	_, svcErr = svc.GetBatchDetails(context.Background(), 2)
	assertKind(t, serviceerror.NotFoundError, svcErr)

	_, svcErr = svc.GetBatchDetails(context.Background(), 0)
	assertKind(t, serviceerror.ValidationError, svcErr)
}

func TestGetBatchDetails_TerminalFollowsRecallPolicy(t *testing.T) {
	tests := []struct {
		name         string
		status       model.Status
		allowRecall  bool
		wantTerminal bool
	}{
		{name: "delivered", status: model.StatusDelivered, wantTerminal: false},
		{name: "verified", status: model.StatusVerified, wantTerminal: true},
		{name: "verified recallable", status: model.StatusVerified, allowRecall: true, wantTerminal: false},
		{name: "recalled", status: model.StatusRecalled, allowRecall: true, wantTerminal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t, config.LedgerConfig{AllowRecallAfterVerified: tt.allowRecall})
			deps.batch(tt.status)

			batch, svcErr := svc.GetBatchDetails(context.Background(), 1)

			require.Nil(t, svcErr)
			assert.Equal(t, tt.wantTerminal, batch.Terminal)
		})
	}
}

func TestGetAllBatchesWithStatus_GlobalVisibility(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{Visibility: config.VisibilityGlobal})
	status := model.StatusInTransit
	deps.store.On("ListBatches", mock.Anything, model.BatchFilter{Status: &status}).
		Return([]model.BatchSummary{{BatchID: 1, Status: status, ExpiryDate: 10}}, nil)

	summaries, svcErr := svc.GetAllBatchesWithStatus(context.Background(), "", &status)

	require.Nil(t, svcErr)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].BatchID)
}

func TestGetAllBatchesWithStatus_CustodyVisibility(t *testing.T) {
	custody := config.LedgerConfig{Visibility: config.VisibilityCustody}

	t.Run("regulator sees everything", func(t *testing.T) {
		svc, deps := newTestService(t, custody)
		deps.role(regulatorAddr, identitymodel.RoleRegulator)
		deps.store.On("ListBatches", mock.Anything, model.BatchFilter{}).Return([]model.BatchSummary{}, nil)

		_, svcErr := svc.GetAllBatchesWithStatus(context.Background(), regulatorAddr, nil)
		require.Nil(t, svcErr)
	})

	t.Run("parties see their custody", func(t *testing.T) {
		svc, deps := newTestService(t, custody)
		deps.role(distributorAddr, identitymodel.RoleDistributor)
		deps.store.On("ListBatches", mock.Anything, model.BatchFilter{Party: distributorAddr}).Return([]model.BatchSummary{}, nil)

		_, svcErr := svc.GetAllBatchesWithStatus(context.Background(), distributorAddr, nil)
		require.Nil(t, svcErr)
	})

	t.Run("unassigned callers see nothing", func(t *testing.T) {
		svc, deps := newTestService(t, custody)
		deps.role(strangerAddr, identitymodel.RoleNone)

		summaries, svcErr := svc.GetAllBatchesWithStatus(context.Background(), strangerAddr, nil)
		require.Nil(t, svcErr)
		assert.Empty(t, summaries)
	})

	t.Run("caller is required", func(t *testing.T) {
		svc, _ := newTestService(t, custody)
		_, svcErr := svc.GetAllBatchesWithStatus(context.Background(), "", nil)
		assertKind(t, serviceerror.AuthorizationError, svcErr)
	})
}

func TestGetBatchHistory(t *testing.T) {
	svc, deps := newTestService(t, config.LedgerConfig{})
	deps.batch(model.StatusCreated)
	deps.store.On("ListStatusAudits", mock.Anything, int64(1)).
		Return([]model.StatusAudit{{AuditID: "a", BatchID: 1, CurrentStatus: model.StatusCreated}}, nil)

	audits, svcErr := svc.GetBatchHistory(context.Background(), 1)

	require.Nil(t, svcErr)
	assert.Len(t, audits, 1)
}
