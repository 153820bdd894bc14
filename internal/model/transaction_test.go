package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationValid(t *testing.T) {
	assert.True(t, ClassificationResponsible.Valid())
	assert.True(t, ClassificationIrresponsible.Valid())
	assert.True(t, ClassificationNeutral.Valid())
	assert.False(t, Classification("reckless").Valid())
	assert.False(t, Classification("").Valid())
}

func TestCategoryValid(t *testing.T) {
	for _, category := range Categories {
		assert.True(t, category.Valid(), "category %s should be valid", category)
	}
	assert.False(t, Category("gambling").Valid())
	assert.False(t, Category("").Valid())
}

func TestSignedDelta(t *testing.T) {
	credit := Transaction{Type: TypeCredit, Amount: 500}
	assert.InDelta(t, 500, credit.SignedDelta(), 0.001)
	assert.True(t, credit.IsDeposit())

	debit := Transaction{Type: TypeDebit, Amount: 23.50}
	assert.InDelta(t, -23.50, debit.SignedDelta(), 0.001)
	assert.False(t, debit.IsDeposit())
}

func TestFixedAnalyses(t *testing.T) {
	deposit := DepositAnalysis()
	assert.Equal(t, ClassificationResponsible, deposit.Classification)
	assert.InDelta(t, 1.0, deposit.Confidence, 0.001)
	assert.Equal(t, "Deposit added to your account", deposit.Reflection)

	fallback := FallbackAnalysis()
	assert.Equal(t, ClassificationNeutral, fallback.Classification)
	assert.InDelta(t, 0.5, fallback.Confidence, 0.001)
	assert.Equal(t, "Transaction processed - analysis unavailable", fallback.Reflection)
}
