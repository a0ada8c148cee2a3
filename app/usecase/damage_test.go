package usecase_test

import (
	"context"
	"testing"

	"inventory-service/app/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDamagedTransfer(f *fixture) (*domain.Transfer, []*domain.DamageRecord) {
	transfer := f.store.seedTransfer(domain.Transfer{
		FromShopID: 1, ToShopID: 2,
		Status: domain.TransferStatusReceived,
		Lines: []domain.TransferLine{{
			ProductID: 100, RequestedQuantity: 20, ShippedQuantity: 20,
			ReceivedQuantity: 17, DamagedQuantity: 3,
		}},
	})

	records := []*domain.DamageRecord{
		{
			TransferID: transfer.ID, ProductID: 100, DamagedQuantity: 2,
			UnitCost: decimal.RequireFromString("12.50"),
			Severity: domain.DamageSeverityModerate, ReportedBy: 9,
		},
		{
			TransferID: transfer.ID, ProductID: 100, DamagedQuantity: 1,
			UnitCost: decimal.RequireFromString("12.50"),
			Severity: domain.DamageSeverityTotalLoss, ReportedBy: 9,
		},
	}
	for _, record := range records {
		f.store.damageSeq++
		record.ID = f.store.damageSeq
		f.store.damages[record.ID] = record
	}
	return transfer, records
}

func TestFileInsuranceClaim(t *testing.T) {
	f := newFixture()
	_, records := seedDamagedTransfer(f)

	record, err := f.damage.FileInsuranceClaim(context.Background(), records[0].ID,
		domain.InsuranceClaimRequest{ClaimNumber: "CLM-1001"})
	require.NoError(t, err)
	assert.True(t, record.InsuranceClaimed)
	require.NotNil(t, record.InsuranceClaimNumber)
	assert.Equal(t, "CLM-1001", *record.InsuranceClaimNumber)
}

func TestFileInsuranceClaimIdempotent(t *testing.T) {
	f := newFixture()
	_, records := seedDamagedTransfer(f)

	_, err := f.damage.FileInsuranceClaim(context.Background(), records[0].ID,
		domain.InsuranceClaimRequest{ClaimNumber: "CLM-1001"})
	require.NoError(t, err)

	// same number again is a no-op, not an error
	record, err := f.damage.FileInsuranceClaim(context.Background(), records[0].ID,
		domain.InsuranceClaimRequest{ClaimNumber: "CLM-1001"})
	require.NoError(t, err)
	assert.Equal(t, "CLM-1001", *record.InsuranceClaimNumber)

	_, err = f.damage.FileInsuranceClaim(context.Background(), records[0].ID,
		domain.InsuranceClaimRequest{ClaimNumber: "CLM-2002"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFileInsuranceClaimUnknownRecord(t *testing.T) {
	f := newFixture()
	_, err := f.damage.FileInsuranceClaim(context.Background(), 404,
		domain.InsuranceClaimRequest{ClaimNumber: "CLM-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByTransferID(t *testing.T) {
	f := newFixture()
	transfer, _ := seedDamagedTransfer(f)

	records, err := f.damage.GetByTransferID(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = f.damage.GetByTransferID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTotalDamageValue(t *testing.T) {
	f := newFixture()
	transfer, _ := seedDamagedTransfer(f)

	// 2 * 12.50 + 1 * 12.50
	total, err := f.damage.TotalDamageValue(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("37.50")))
}
