package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/model"
)

func processPendingSpend(t *testing.T, processor *Processor) *model.Transaction {
	t.Helper()
	resp, err := processor.Process(context.Background(), Request{
		UserID:   "user-1",
		Merchant: "Lucky Casino",
		Amount:   75,
		Category: model.CategoryEntertainment,
	})
	require.NoError(t, err)
	require.Equal(t, model.JustificationPending, resp.Transaction.JustificationStatus)
	return resp.Transaction
}

func TestProcessor_Justify_Accepted(t *testing.T) {
	processor, _ := newTestProcessor(t)
	txn := processPendingSpend(t, processor)

	result, err := processor.Justify(context.Background(), txn.ID, "I needed a gift for my brother's birthday")
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, model.JustificationJustified, result.Transaction.JustificationStatus)
	assert.Equal(t, model.ClassificationResponsible, result.Transaction.FinalClassification)
	// The original verdict is preserved for history.
	assert.Equal(t, model.ClassificationIrresponsible, result.Transaction.OriginalClassification)
	require.NotNil(t, result.BudgetAdjustment)
	assert.False(t, result.BudgetAdjustment.Adjusted)
	assert.NotEmpty(t, result.BudgetAdjustment.Reason)
}

func TestProcessor_Justify_Rejected(t *testing.T) {
	processor, _ := newTestProcessor(t)
	txn := processPendingSpend(t, processor)

	result, err := processor.Justify(context.Background(), txn.ID, "it looked fun")
	require.NoError(t, err)

	assert.False(t, result.Accepted)
	assert.Equal(t, model.JustificationRejected, result.Transaction.JustificationStatus)
	assert.Equal(t, model.ClassificationIrresponsible, result.Transaction.FinalClassification)
	assert.Nil(t, result.BudgetAdjustment)
}

func TestProcessor_Justify_ConflictWhenNotPending(t *testing.T) {
	processor, _ := newTestProcessor(t)
	txn := processPendingSpend(t, processor)

	_, err := processor.Justify(context.Background(), txn.ID, "it looked fun")
	require.NoError(t, err)

	// A second attempt hits the terminal state.
	_, err = processor.Justify(context.Background(), txn.ID, "I needed it after all")
	require.Error(t, err)
	assert.Equal(t, common.CodeConflict, common.ErrorCode(err))
}

func TestProcessor_Justify_HeuristicFallback(t *testing.T) {
	processor, reasoner := newTestProcessor(t)
	txn := processPendingSpend(t, processor)
	reasoner.JustifyErr = errors.New("provider unavailable")

	result, err := processor.Justify(context.Background(), txn.ID, "my laptop broke and I needed it for work")
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, model.ClassificationResponsible, result.Transaction.FinalClassification)

	txn2 := processPendingSpend(t, processor)
	result, err = processor.Justify(context.Background(), txn2.ID, "felt like treating myself")
	require.NoError(t, err)
	assert.False(t, result.Accepted)
}

func TestProcessor_Justify_Validation(t *testing.T) {
	processor, _ := newTestProcessor(t)

	_, err := processor.Justify(context.Background(), "txn-1", "   ")
	require.Error(t, err)
	assert.Equal(t, common.CodeValidation, common.ErrorCode(err))

	long := make([]byte, MaxJustificationLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = processor.Justify(context.Background(), "txn-1", string(long))
	require.Error(t, err)
	assert.Equal(t, common.CodeValidation, common.ErrorCode(err))

	_, err = processor.Justify(context.Background(), "missing-txn", "I needed it")
	require.Error(t, err)
	assert.Equal(t, common.CodeNotFound, common.ErrorCode(err))
}
