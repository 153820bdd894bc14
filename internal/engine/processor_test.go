package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/storage"
	"github.com/capling-app/capling/internal/testutil"
)

func newTestProcessor(t *testing.T) (*Processor, *MockReasoner) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	reasoner := NewMockReasoner()
	return New(store, reasoner, nil), reasoner
}

func TestProcessor_Process_SpendOnNewAccount(t *testing.T) {
	processor, reasoner := newTestProcessor(t)
	ctx := context.Background()

	resp, err := processor.Process(ctx, Request{
		UserID:   "user-1",
		Merchant: "Corner Grocery",
		Amount:   5.50,
		Category: model.CategoryFood,
	})
	require.NoError(t, err)

	assert.Equal(t, model.TypeDebit, resp.Transaction.Type)
	assert.InDelta(t, 5.50, resp.Transaction.Amount, 0.001)
	assert.InDelta(t, 994.50, resp.NewBalance, 0.001)
	assert.Equal(t, model.ClassificationResponsible, resp.Analysis.Classification)
	assert.Equal(t, model.JustificationNone, resp.Transaction.JustificationStatus)
	assert.False(t, resp.ShouldShowGoalAllocation)
	assert.Equal(t, 1, reasoner.AnalyzeCallCount())
}

func TestProcessor_Process_DepositSkipsReasoner(t *testing.T) {
	processor, reasoner := newTestProcessor(t)
	ctx := context.Background()

	// First spend the balance down so we can see the credit applied.
	first, err := processor.Process(ctx, Request{
		UserID:   "user-1",
		Merchant: "Corner Grocery",
		Amount:   900,
		Category: model.CategoryFood,
	})
	require.NoError(t, err)
	assert.InDelta(t, 100, first.NewBalance, 0.001)

	resp, err := processor.Process(ctx, Request{
		UserID:   "user-1",
		Merchant: "Paycheck",
		Amount:   -500,
		Category: model.CategoryIncome,
	})
	require.NoError(t, err)

	assert.Equal(t, model.TypeCredit, resp.Transaction.Type)
	assert.InDelta(t, 500, resp.Transaction.Amount, 0.001)
	assert.InDelta(t, 600, resp.NewBalance, 0.001)
	assert.Equal(t, model.ClassificationResponsible, resp.Analysis.Classification)
	assert.InDelta(t, 1.0, resp.Analysis.Confidence, 0.001)
	assert.Equal(t, model.JustificationNone, resp.Transaction.JustificationStatus)
	assert.False(t, resp.ShouldShowGoalAllocation)
	// Only the first spend consulted the reasoner.
	assert.Equal(t, 1, reasoner.AnalyzeCallCount())
}

func TestProcessor_Process_FallbackWhenReasonerFails(t *testing.T) {
	processor, reasoner := newTestProcessor(t)
	reasoner.AnalyzeErr = errors.New("provider unavailable")
	ctx := context.Background()

	resp, err := processor.Process(ctx, Request{
		UserID:   "user-1",
		Merchant: "Mystery Store",
		Amount:   20,
		Category: model.CategoryShopping,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ClassificationNeutral, resp.Analysis.Classification)
	assert.InDelta(t, 0.5, resp.Analysis.Confidence, 0.001)
	assert.Equal(t, "Transaction processed - analysis unavailable", resp.Analysis.Reflection)
	// Neutral spends still need a justification.
	assert.Equal(t, model.JustificationPending, resp.Transaction.JustificationStatus)
	// The failure never blocks the ledger write.
	assert.InDelta(t, 980, resp.NewBalance, 0.001)
}

func TestProcessor_Process_IrresponsibleShowsGoalAllocation(t *testing.T) {
	processor, _ := newTestProcessor(t)

	resp, err := processor.Process(context.Background(), Request{
		UserID:   "user-1",
		Merchant: "Lucky Casino",
		Amount:   50,
		Category: model.CategoryEntertainment,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ClassificationIrresponsible, resp.Analysis.Classification)
	assert.Equal(t, model.JustificationPending, resp.Transaction.JustificationStatus)
	assert.True(t, resp.ShouldShowGoalAllocation)
	assert.NotEmpty(t, resp.Transaction.ImprovementSuggestion)
}

func TestProcessor_Process_Validation(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantCode string
	}{
		{
			name:     "missing user ID",
			req:      Request{Merchant: "Store", Amount: 10, Category: model.CategoryShopping},
			wantCode: common.CodeAuthentication,
		},
		{
			name:     "missing merchant",
			req:      Request{UserID: "user-1", Amount: 10, Category: model.CategoryShopping},
			wantCode: common.CodeValidation,
		},
		{
			name: "merchant too long",
			req: Request{
				UserID:   "user-1",
				Merchant: string(make([]byte, MaxMerchantLength+1)),
				Amount:   10,
				Category: model.CategoryShopping,
			},
			wantCode: common.CodeValidation,
		},
		{
			name:     "zero amount",
			req:      Request{UserID: "user-1", Merchant: "Store", Amount: 0, Category: model.CategoryShopping},
			wantCode: common.CodeValidation,
		},
		{
			name:     "amount below minimum",
			req:      Request{UserID: "user-1", Merchant: "Store", Amount: 0.001, Category: model.CategoryShopping},
			wantCode: common.CodeValidation,
		},
		{
			name:     "amount above maximum",
			req:      Request{UserID: "user-1", Merchant: "Store", Amount: 10000.01, Category: model.CategoryShopping},
			wantCode: common.CodeValidation,
		},
		{
			name:     "invalid category",
			req:      Request{UserID: "user-1", Merchant: "Store", Amount: 10, Category: "gambling"},
			wantCode: common.CodeValidation,
		},
		{
			name: "description too long",
			req: Request{
				UserID:      "user-1",
				Merchant:    "Store",
				Amount:      10,
				Category:    model.CategoryShopping,
				Description: string(make([]byte, MaxDescriptionLength+1)),
			},
			wantCode: common.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, reasoner := newTestProcessor(t)

			_, err := processor.Process(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, common.ErrorCode(err))
			// Validation failures must not touch the reasoner.
			assert.Equal(t, 0, reasoner.AnalyzeCallCount())

			// And must not leave any transaction behind.
			if tt.req.UserID != "" {
				txns, listErr := processor.List(context.Background(), tt.req.UserID, 10)
				require.NoError(t, listErr)
				assert.Empty(t, txns)
			}
		})
	}
}

func TestProcessor_Process_BalanceConservation(t *testing.T) {
	processor, _ := newTestProcessor(t)
	ctx := context.Background()

	amounts := []float64{25.00, -100.00, 3.99, 742.10, -0.50}
	expected := storage.DefaultStartingBalance
	var last float64
	for _, amount := range amounts {
		category := model.CategoryShopping
		if amount < 0 {
			category = model.CategoryIncome
		}
		resp, err := processor.Process(ctx, Request{
			UserID:   "user-1",
			Merchant: "Various",
			Amount:   amount,
			Category: category,
		})
		require.NoError(t, err)
		expected -= amount
		last = resp.NewBalance
	}

	assert.InDelta(t, expected, last, 0.001)
}

func TestProcessor_Process_ConcurrentSameAccount(t *testing.T) {
	processor, _ := newTestProcessor(t)
	ctx := context.Background()

	// Materialize the account first so every goroutine hits the same row.
	_, err := processor.Process(ctx, Request{
		UserID:   "user-1",
		Merchant: "Setup",
		Amount:   1,
		Category: model.CategoryShopping,
	})
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, procErr := processor.Process(ctx, Request{
				UserID:   "user-1",
				Merchant: "Concurrent Spend",
				Amount:   10,
				Category: model.CategoryShopping,
			})
			errs <- procErr
		}()
	}
	wg.Wait()
	close(errs)
	for procErr := range errs {
		require.NoError(t, procErr)
	}

	txns, err := processor.List(ctx, "user-1", 50)
	require.NoError(t, err)
	require.Len(t, txns, workers+1)
}

func TestProcessor_List(t *testing.T) {
	processor, _ := newTestProcessor(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := processor.Process(ctx, Request{
			UserID:    "user-1",
			Merchant:  "Store",
			Amount:    10,
			Category:  model.CategoryShopping,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	txns, err := processor.List(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	// Newest first.
	assert.True(t, txns[0].Timestamp.After(txns[1].Timestamp))

	_, err = processor.List(ctx, "", 10)
	require.Error(t, err)
	assert.Equal(t, common.CodeAuthentication, common.ErrorCode(err))
}
