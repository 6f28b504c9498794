package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaas/tally/internal/model"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func btx(date, desc string, amount float64) model.Transaction {
	a := decimal.NewFromFloat(amount)
	return model.Transaction{
		TransactionDate: d(date),
		Description:     desc,
		Amount:          a,
		Type:            model.ClassifyType(a, desc, nil),
	}
}

func testWindow() Window {
	return Window{
		Start:        d("2025-06-01"),
		End:          d("2025-06-10"),
		PeriodicCost: decimal.NewFromInt(100),
		IncomeBudget: decimal.NewFromInt(1000),
	}
}

func TestProjectAllocation(t *testing.T) {
	p := Project(nil, testWindow(), nil, d("2025-06-05"))

	assert.Equal(t, 10, p.WindowDays)
	assert.Equal(t, 5, p.ElapsedDays)
	assert.Equal(t, 5, p.RemainingDays)
	assert.Equal(t, "10", p.DailyPeriodicRate.String())
	assert.Equal(t, "50", p.AllocatedPeriodicCost.String())
}

func TestProjectNetSpend(t *testing.T) {
	txns := []model.Transaction{
		btx("2025-06-01", "APARTMENTS LLC RENT", 100), // smoothed, not direct spend
		btx("2025-06-02", "TRADER JOE'S #112", 40),
		btx("2025-06-03", "PAYROLL DEPOSIT", -20),
		btx("2025-06-07", "CHIPOTLE 1234", 15),   // future as of today
		btx("2025-05-20", "SAFEWAY #55", 60),     // outside window
		btx("2025-06-12", "UBER TRIP", 30),       // outside window
		{TransactionDate: d("2025-06-04"), Description: "INTERNET PAYMENT - THANK YOU", Amount: decimal.NewFromInt(-500), Type: model.TypeCreditCardPayment},
	}

	p := Project(txns, testWindow(), KeywordPredicate([]string{"RENT"}), d("2025-06-05"))

	assert.Equal(t, "40", p.NonPeriodicExpense.String())
	assert.Equal(t, "20", p.IncomeReceived.String())
	// 40 direct + 50 allocated - 20 income
	assert.Equal(t, "70", p.ActualNetSpend.String())
	assert.Equal(t, "930", p.RemainingBudget.String())
	assert.Equal(t, "14", p.ProjectedDailyRate.String())
	assert.Equal(t, "140", p.ProjectedEndTotal.String())
}

func TestProjectBurndownSeries(t *testing.T) {
	txns := []model.Transaction{
		btx("2025-06-01", "APARTMENTS LLC RENT", 100),
		btx("2025-06-02", "TRADER JOE'S #112", 40),
		btx("2025-06-03", "PAYROLL DEPOSIT", -20),
	}

	p := Project(txns, testWindow(), KeywordPredicate([]string{"RENT"}), d("2025-06-05"))
	require.Len(t, p.Series, 10)

	first := p.Series[0]
	assert.Equal(t, d("2025-06-01"), first.Date)
	assert.Equal(t, "1000", first.IdealRemaining.String())
	require.NotNil(t, first.ActualRemaining)
	// rent payment smoothed away, only the daily allocation burns
	assert.Equal(t, "990", first.ActualRemaining.String())

	today := p.Series[4]
	require.NotNil(t, today.ActualRemaining)
	assert.Equal(t, p.RemainingBudget.String(), today.ActualRemaining.String())

	future := p.Series[5]
	assert.Equal(t, d("2025-06-06"), future.Date)
	assert.Nil(t, future.ActualRemaining)
	assert.Equal(t, "500", future.IdealRemaining.String())

	last := p.Series[9]
	assert.Equal(t, d("2025-06-10"), last.Date)
	assert.Equal(t, "100", last.IdealRemaining.String())
}

func TestProjectSingleDayWindow(t *testing.T) {
	w := Window{
		Start:        d("2025-07-01"),
		End:          d("2025-07-01"),
		PeriodicCost: decimal.NewFromInt(100),
		IncomeBudget: decimal.NewFromInt(100),
	}

	p := Project(nil, w, nil, d("2025-07-01"))
	assert.Equal(t, 1, p.WindowDays)
	assert.Equal(t, 1, p.ElapsedDays)
	assert.Equal(t, "100", p.DailyPeriodicRate.String())
	assert.Equal(t, "100", p.AllocatedPeriodicCost.String())
	require.Len(t, p.Series, 1)
	require.NotNil(t, p.Series[0].ActualRemaining)
	assert.Equal(t, "0", p.Series[0].ActualRemaining.String())
}

func TestProjectBeforeWindowStarts(t *testing.T) {
	p := Project(nil, testWindow(), nil, d("2025-05-01"))

	assert.Equal(t, 0, p.ElapsedDays)
	assert.Equal(t, 10, p.RemainingDays)
	assert.True(t, p.AllocatedPeriodicCost.IsZero())
	assert.True(t, p.ActualNetSpend.IsZero())
	for _, pt := range p.Series {
		assert.Nil(t, pt.ActualRemaining)
	}
}

func TestProjectElapsedClampedToWindow(t *testing.T) {
	p := Project(nil, testWindow(), nil, d("2025-08-01"))

	assert.Equal(t, 10, p.ElapsedDays)
	assert.Equal(t, 0, p.RemainingDays)
	assert.Equal(t, "100", p.AllocatedPeriodicCost.String())
	for _, pt := range p.Series {
		assert.NotNil(t, pt.ActualRemaining)
	}
}

func TestKeywordPredicate(t *testing.T) {
	pred := KeywordPredicate([]string{"RENT"})

	assert.True(t, pred(btx("2025-06-01", "Apartments LLC Rent", 1200)))
	assert.False(t, pred(btx("2025-06-01", "APARTMENTS LLC RENT", -1200)), "refunds are not periodic cost payments")
	assert.False(t, pred(btx("2025-06-01", "TRADER JOE'S", 40)))
}
