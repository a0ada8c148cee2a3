package domain_test

import (
	"testing"

	"inventory-service/app/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.TransferStatus
		to   domain.TransferStatus
		want bool
	}{
		{"pending to approved", domain.TransferStatusPending, domain.TransferStatusApproved, true},
		{"approved to in_transit", domain.TransferStatusApproved, domain.TransferStatusInTransit, true},
		{"in_transit to received", domain.TransferStatusInTransit, domain.TransferStatusReceived, true},
		{"received to completed", domain.TransferStatusReceived, domain.TransferStatusCompleted, true},
		{"pending to in_transit skips approval", domain.TransferStatusPending, domain.TransferStatusInTransit, false},
		{"pending to completed skips everything", domain.TransferStatusPending, domain.TransferStatusCompleted, false},
		{"approved back to pending", domain.TransferStatusApproved, domain.TransferStatusPending, false},
		{"received to in_transit", domain.TransferStatusReceived, domain.TransferStatusInTransit, false},
		{"completed to anything", domain.TransferStatusCompleted, domain.TransferStatusReceived, false},
		{"pending to cancelled", domain.TransferStatusPending, domain.TransferStatusCancelled, true},
		{"approved to cancelled", domain.TransferStatusApproved, domain.TransferStatusCancelled, true},
		{"in_transit to cancelled", domain.TransferStatusInTransit, domain.TransferStatusCancelled, true},
		{"received to cancelled", domain.TransferStatusReceived, domain.TransferStatusCancelled, false},
		{"completed to cancelled", domain.TransferStatusCompleted, domain.TransferStatusCancelled, false},
		{"cancelled to cancelled", domain.TransferStatusCancelled, domain.TransferStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransferStatusIsActive(t *testing.T) {
	assert.True(t, domain.TransferStatusPending.IsActive())
	assert.True(t, domain.TransferStatusApproved.IsActive())
	assert.True(t, domain.TransferStatusInTransit.IsActive())
	assert.False(t, domain.TransferStatusReceived.IsActive())
	assert.False(t, domain.TransferStatusCompleted.IsActive())
	assert.False(t, domain.TransferStatusCancelled.IsActive())
}

func TestTransferStatusIsTerminal(t *testing.T) {
	assert.True(t, domain.TransferStatusCompleted.IsTerminal())
	assert.True(t, domain.TransferStatusCancelled.IsTerminal())
	assert.False(t, domain.TransferStatusReceived.IsTerminal())
	assert.False(t, domain.TransferStatusPending.IsTerminal())
}

func TestTransferLineShip(t *testing.T) {
	line := domain.TransferLine{RequestedQuantity: 20}

	require.NoError(t, line.Ship(15))
	assert.Equal(t, int64(15), line.ShippedQuantity)
	assert.Equal(t, int64(5), line.PendingQuantity())

	// exactly the remaining pending quantity is allowed
	require.NoError(t, line.Ship(5))
	assert.Equal(t, int64(20), line.ShippedQuantity)
	assert.Equal(t, int64(0), line.PendingQuantity())

	assert.ErrorIs(t, line.Ship(1), domain.ErrInvalidQuantity)
	assert.Equal(t, int64(20), line.ShippedQuantity)
}

func TestTransferLineShipRejectsInvalid(t *testing.T) {
	line := domain.TransferLine{RequestedQuantity: 10}

	assert.ErrorIs(t, line.Ship(0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, line.Ship(-3), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, line.Ship(11), domain.ErrInvalidQuantity)
	assert.Equal(t, int64(0), line.ShippedQuantity)
}

func TestTransferLineReceive(t *testing.T) {
	line := domain.TransferLine{RequestedQuantity: 20, ShippedQuantity: 20}

	require.NoError(t, line.Receive(18, 2))
	assert.Equal(t, int64(18), line.ReceivedQuantity)
	assert.Equal(t, int64(2), line.DamagedQuantity)
	assert.Equal(t, int64(0), line.OutstandingQuantity())
	assert.False(t, line.HasDiscrepancy())
}

func TestTransferLineReceivePartial(t *testing.T) {
	line := domain.TransferLine{RequestedQuantity: 20, ShippedQuantity: 20}

	require.NoError(t, line.Receive(10, 0))
	assert.Equal(t, int64(10), line.OutstandingQuantity())
	assert.True(t, line.HasDiscrepancy())

	require.NoError(t, line.Receive(8, 2))
	assert.Equal(t, int64(0), line.OutstandingQuantity())
	assert.False(t, line.HasDiscrepancy())
}

func TestTransferLineReceiveRejectsInvalid(t *testing.T) {
	line := domain.TransferLine{RequestedQuantity: 10, ShippedQuantity: 10}

	assert.ErrorIs(t, line.Receive(0, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, line.Receive(-1, 1), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, line.Receive(1, -1), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, line.Receive(9, 2), domain.ErrInvalidQuantity)
	assert.Equal(t, int64(0), line.ReceivedQuantity)
	assert.Equal(t, int64(0), line.DamagedQuantity)
}

func TestTransferLineDamagedIsNotDiscrepant(t *testing.T) {
	line := domain.TransferLine{RequestedQuantity: 10, ShippedQuantity: 10}
	require.NoError(t, line.Receive(0, 10))
	assert.False(t, line.HasDiscrepancy())
}

func TestTransferAllLinesReconciled(t *testing.T) {
	transfer := domain.Transfer{
		Lines: []domain.TransferLine{
			{RequestedQuantity: 10, ShippedQuantity: 10, ReceivedQuantity: 10},
			{RequestedQuantity: 5, ShippedQuantity: 5, ReceivedQuantity: 3, DamagedQuantity: 2},
		},
	}
	assert.True(t, transfer.AllLinesReconciled())

	transfer.Lines[1].DamagedQuantity = 1
	assert.False(t, transfer.AllLinesReconciled())
	assert.True(t, transfer.HasDiscrepancy())
}

func TestTransferLineByID(t *testing.T) {
	transfer := domain.Transfer{
		Lines: []domain.TransferLine{{ID: 7, ProductID: 100}, {ID: 8, ProductID: 200}},
	}

	line, ok := transfer.LineByID(8)
	assert.True(t, ok)
	assert.Equal(t, int64(200), line.ProductID)

	_, ok = transfer.LineByID(99)
	assert.False(t, ok)
}
