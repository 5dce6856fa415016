package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	when := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	record, err := env.payments.RecordPayment(ctx, &RecordPaymentInput{
		Kind:         enum.PaymentKindCollection,
		Amount:       price("120.456"),
		Method:       " card ",
		Reference:    "S-42",
		Counterparty: "Acme",
		Date:         &when,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, "120.46", record.Amount.StringFixed(2))
	assert.Equal(t, "card", record.Method)
	assert.True(t, record.Date.Equal(when))

	stored, err := env.payments.GetPayment(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentKindCollection, stored.Kind)
	assert.Equal(t, "S-42", stored.Reference)
}

func TestRecordPayment_AmountMustBePositive(t *testing.T) {
	env := newTestEnv(t)

	for _, amount := range []string{"0", "-5"} {
		_, err := env.payments.RecordPayment(context.Background(), &RecordPaymentInput{Amount: price(amount)})

		appErr := assertKind(t, err, apperror.KindValidation)
		assert.Equal(t, "amount", appErr.Errors[0].Field)
	}
}

func TestRecordPayment_InvalidKind(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.RecordPayment(context.Background(), &RecordPaymentInput{
		Kind:   enum.PaymentKind(7),
		Amount: price("1"),
	})

	assertKind(t, err, apperror.KindValidation)
}

func TestListPayments_FilterByKindAndReference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inputs := []RecordPaymentInput{
		{Kind: enum.PaymentKindPayment, Amount: price("10"), Reference: "P-1"},
		{Kind: enum.PaymentKindCollection, Amount: price("20"), Reference: "S-1"},
		{Kind: enum.PaymentKindCollection, Amount: price("30"), Reference: "S-2"},
	}
	for i := range inputs {
		_, err := env.payments.RecordPayment(ctx, &inputs[i])
		require.NoError(t, err)
	}

	collection := enum.PaymentKindCollection
	byKind, err := env.payments.ListPayments(ctx, &repository.PaymentFilterParams{Kind: &collection})
	require.NoError(t, err)
	assert.Len(t, byKind.Items, 2)

	byRef, err := env.payments.ListPayments(ctx, &repository.PaymentFilterParams{Reference: "P-1"})
	require.NoError(t, err)
	require.Len(t, byRef.Items, 1)
	assert.True(t, byRef.Items[0].Amount.Equal(price("10")))
}

func TestGetPayment_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.GetPayment(context.Background(), uuid.New())

	assertKind(t, err, apperror.KindNotFound)
}
