package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BillStatusPending, BillStatusPaid))
	assert.True(t, CanTransition(BillStatusPending, BillStatusCancelled))
	assert.True(t, CanTransition(BillStatusPaid, BillStatusCancelled))

	assert.False(t, CanTransition(BillStatusPaid, BillStatusPending))
	assert.False(t, CanTransition(BillStatusCancelled, BillStatusPending))
	assert.False(t, CanTransition(BillStatusCancelled, BillStatusPaid))
	assert.False(t, CanTransition(BillStatusCancelled, BillStatusCancelled))
	assert.False(t, CanTransition(BillStatusPending, "SHIPPED"))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.True(t, ValidPaymentMethod(PaymentMethodCard))
	assert.False(t, ValidPaymentMethod("CHEQUE"))
	assert.False(t, ValidPaymentMethod(""))
}
