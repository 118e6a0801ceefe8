package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyleft/internal/amqp"
	"moneyleft/internal/core"
	"moneyleft/internal/tax"
)

func newSimulator(t *testing.T, income *fakeIncomeStore, deductions *fakeDeductionStore, opts ...Option) *TaxSimulator {
	t.Helper()
	sim, err := NewTaxSimulator(income, deductions, tax.DefaultTable(), opts...)
	require.NoError(t, err)
	return sim
}

func TestTaxSimulator_SumsIncomeAndSubtractsDeductions(t *testing.T) {
	income := &fakeIncomeStore{income: []core.LedgerEntry{
		{Amount: dec("400000")},
		{Amount: dec("350000")},
		{Amount: dec("250000")},
	}}
	deductions := &fakeDeductionStore{list: []core.TaxDeduction{
		{ID: 1, Title: "Insurance", Amount: dec("60000")},
		{ID: 2, Title: "Donation", Amount: dec("9000")},
	}}

	res, err := newSimulator(t, income, deductions).Simulate(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, income.year)
	assert.True(t, res.TotalIncome.Equal(dec("1000000")))
	assert.True(t, res.RawTax.Equal(dec("115000")), "raw tax %s", res.RawTax)
	assert.True(t, res.Deductions.Equal(dec("69000")))
	assert.True(t, res.MustPay.Equal(dec("46000")), "must pay %s", res.MustPay)
}

func TestTaxSimulator_DeductionsExceedTaxClampToZero(t *testing.T) {
	income := &fakeIncomeStore{income: []core.LedgerEntry{{Amount: dec("200000")}}}
	deductions := &fakeDeductionStore{list: []core.TaxDeduction{{Title: "Big", Amount: dec("10000")}}}

	res, err := newSimulator(t, income, deductions).Simulate(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, res.RawTax.Equal(dec("2500")))
	assert.True(t, res.MustPay.IsZero())
}

func TestTaxSimulator_NeverNegative(t *testing.T) {
	for _, incomeTotal := range []string{"0", "1", "149999", "300000", "999999.99", "7000000"} {
		for _, deduction := range []string{"0.01", "1000", "5000000"} {
			income := &fakeIncomeStore{income: []core.LedgerEntry{{Amount: dec(incomeTotal)}}}
			deductions := &fakeDeductionStore{list: []core.TaxDeduction{{Amount: dec(deduction)}}}
			res, err := newSimulator(t, income, deductions).Simulate(context.Background(), 2025)
			require.NoError(t, err)
			assert.False(t, res.MustPay.IsNegative(), "income %s deduction %s gave %s", incomeTotal, deduction, res.MustPay)
		}
	}
}

func TestTaxSimulator_NoIncomeNoDeductions(t *testing.T) {
	res, err := newSimulator(t, &fakeIncomeStore{}, &fakeDeductionStore{}).Simulate(context.Background(), 2030)
	require.NoError(t, err)
	assert.True(t, res.TotalIncome.IsZero())
	assert.True(t, res.MustPay.IsZero())
}

func TestTaxSimulator_FailsWholeOnEitherFetch(t *testing.T) {
	_, err := newSimulator(t, &fakeIncomeStore{err: errDown}, &fakeDeductionStore{}).Simulate(context.Background(), 2025)
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)

	_, err = newSimulator(t, &fakeIncomeStore{}, &fakeDeductionStore{err: errDown}).Simulate(context.Background(), 2025)
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

func TestTaxSimulator_InvalidYear(t *testing.T) {
	income := &fakeIncomeStore{}
	_, err := newSimulator(t, income, &fakeDeductionStore{}).Simulate(context.Background(), 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Zero(t, income.year, "storage is not queried")
}

func TestTaxSimulator_InjectedTable(t *testing.T) {
	flat, err := tax.NewTable([]tax.Bracket{{Lower: decimal.Zero, Rate: dec("0.5"), Unbounded: true}})
	require.NoError(t, err)

	sim, err := NewTaxSimulator(&fakeIncomeStore{income: []core.LedgerEntry{{Amount: dec("100")}}}, &fakeDeductionStore{}, flat)
	require.NoError(t, err)

	res, err := sim.Simulate(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, res.MustPay.Equal(dec("50")))
}

func TestTaxSimulator_RejectsInvalidTable(t *testing.T) {
	_, err := NewTaxSimulator(&fakeIncomeStore{}, &fakeDeductionStore{}, tax.Table{})
	assert.ErrorIs(t, err, tax.ErrInvalidTable)
}

func TestTaxSimulator_DeductionCRUD(t *testing.T) {
	store := &fakeDeductionStore{}
	pub := &recordingPublisher{}
	sim := newSimulator(t, &fakeIncomeStore{}, store, WithPublisher(pub))
	ctx := context.Background()

	id, err := sim.AddDeduction(ctx, " Insurance ", dec("60000"))
	require.NoError(t, err)
	assert.Equal(t, "Insurance", store.list[0].Title)

	_, err = sim.AddDeduction(ctx, "", dec("1"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = sim.AddDeduction(ctx, "Zero", decimal.Zero)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	list, err := sim.ListDeductions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, sim.RemoveDeduction(ctx, id))
	assert.Equal(t, []int64{id}, store.deleted)

	store.deleteErr = core.ErrNotFound
	assert.ErrorIs(t, sim.RemoveDeduction(ctx, 99), core.ErrNotFound)

	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.EventDeductionAdded, pub.events[0].Type)
	assert.Equal(t, amqp.EventDeductionRemoved, pub.events[1].Type)
}

func TestTaxSimulator_ListDeductionsEmpty(t *testing.T) {
	list, err := newSimulator(t, &fakeIncomeStore{}, &fakeDeductionStore{}).ListDeductions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
