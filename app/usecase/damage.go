package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"inventory-service/app/domain"

	"github.com/shopspring/decimal"
)

type damageUsecase struct {
	damageRepo   domain.DamageRecordRepository
	transferRepo domain.TransferRepository
}

func NewDamageUsecase(damageRepo domain.DamageRecordRepository, transferRepo domain.TransferRepository) domain.DamageTracker {
	return &damageUsecase{damageRepo, transferRepo}
}

// FileInsuranceClaim is idempotent for the same claim number; a different
// number after a claim has been filed is a conflict.
func (u *damageUsecase) FileInsuranceClaim(ctx context.Context, id int64, req domain.InsuranceClaimRequest) (domain.DamageRecord, error) {
	record, err := u.damageRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[damageUsecase] FileInsuranceClaim", "getRecord", err)
		return domain.DamageRecord{}, err
	}

	if record.InsuranceClaimed {
		if record.InsuranceClaimNumber != nil && *record.InsuranceClaimNumber == req.ClaimNumber {
			return record, nil
		}
		return domain.DamageRecord{}, fmt.Errorf("%w: damage record %d already claimed under a different number",
			domain.ErrConflict, id)
	}

	if err := u.damageRepo.UpdateInsuranceClaim(ctx, id, req.ClaimNumber); err != nil {
		slog.ErrorContext(ctx, "[damageUsecase] FileInsuranceClaim", "updateClaim", err)
		return domain.DamageRecord{}, err
	}

	record.InsuranceClaimed = true
	claimNumber := req.ClaimNumber
	record.InsuranceClaimNumber = &claimNumber

	slog.InfoContext(ctx, "[damageUsecase] FileInsuranceClaim", "record", id)
	return record, nil
}

func (u *damageUsecase) GetByTransferID(ctx context.Context, transferID int64) ([]domain.DamageRecord, error) {
	if _, err := u.transferRepo.GetByID(ctx, transferID); err != nil {
		slog.ErrorContext(ctx, "[damageUsecase] GetByTransferID", "getTransfer", err)
		return nil, err
	}

	records, err := u.damageRepo.GetByTransferID(ctx, transferID)
	if err != nil {
		slog.ErrorContext(ctx, "[damageUsecase] GetByTransferID", "getRecords", err)
		return nil, err
	}
	return records, nil
}

func (u *damageUsecase) TotalDamageValue(ctx context.Context, transferID int64) (decimal.Decimal, error) {
	records, err := u.GetByTransferID(ctx, transferID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.TotalDamageValue())
	}
	return total, nil
}
