package planning

import (
	"context"
	"testing"
	"time"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/internal/utils"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/allocation"
	"github.com/payplan/payplan/pkg/debt"
	"github.com/payplan/payplan/pkg/income"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/payplan/payplan/pkg/user"
	"github.com/payplan/payplan/pkg/warning"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx               context.Context
	accountId         int
	incomeService     income.Service
	debtRepo          *debt.StubRepository
	debtService       debt.Service
	allocationService allocation.Service
	warningService    warning.Service
	planning          *ServiceImpl
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := user.WithUser(context.Background(), user.User{Id: 1})
	accountService := account.NewService(account.NewStubRepository())
	acc, err := accountService.CreateAccount(ctx, "Household")
	require.NoError(t, err)

	incomeService := income.NewService(income.NewStubRepository())
	debtRepo := debt.NewStubRepository()
	debtService := debt.NewService(debtRepo, accountService)
	paycheckService := paycheck.NewService(incomeService)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	allocationService := allocation.NewService(allocation.NewStubRepository(), accountService, clock)
	warningService := warning.NewService(warning.NewStubRepository(), accountService)

	return &fixture{
		ctx:               ctx,
		accountId:         acc.Id,
		incomeService:     incomeService,
		debtRepo:          debtRepo,
		debtService:       debtService,
		allocationService: allocationService,
		warningService:    warningService,
		planning:          NewService(accountService, debtService, paycheckService, allocationService, warningService),
	}
}

func (f *fixture) addIncome(t *testing.T, amount int64) {
	t.Helper()
	_, err := f.incomeService.CreateSource(f.ctx, income.Source{
		Name:      "Salary",
		Amount:    decimal.NewFromInt(amount),
		Frequency: dates.Monthly,
		StartDate: dates.Date(2025, 1, 1),
	})
	require.NoError(t, err)
}

func (f *fixture) addDebt(t *testing.T, amount int64, dueDate string) debt.Debt {
	t.Helper()
	due, err := dates.Parse(dueDate)
	require.NoError(t, err)
	created, err := f.debtService.CreateDebt(f.ctx, debt.Debt{
		AccountId: f.accountId,
		Name:      "Rent",
		Amount:    decimal.NewFromInt(amount),
		DueDate:   due,
	})
	require.NoError(t, err)
	return created
}

func TestServiceImpl_GetPlanningData(t *testing.T) {
	january := dates.YearMonth{Year: 2025, Month: 1}

	t.Run("should return one paycheck, one instance and no warnings when income covers the debt", func(t *testing.T) {
		// given
		f := setup(t)
		f.addIncome(t, 5000)
		f.addDebt(t, 3000, "2025-01-15")

		// when
		data, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)

		// then
		require.NoError(t, err)
		require.Len(t, data.CurrentMonth, 1)
		assert.Empty(t, data.Future)
		require.Len(t, data.Instances, 1)
		assert.Equal(t, "Rent", data.Instances[0].DebtName)
		assert.Empty(t, data.Warnings)
		assert.True(t, data.CurrentMonth[0].RemainingAmount.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("should flag insufficient funds when the debt exceeds the income", func(t *testing.T) {
		// given
		f := setup(t)
		f.addIncome(t, 2000)
		f.addDebt(t, 3000, "2025-01-15")

		// when
		data, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)

		// then
		require.NoError(t, err)
		require.Len(t, data.Warnings, 1)
		assert.Equal(t, warning.InsufficientFunds, data.Warnings[0].Type)
		assert.Contains(t, data.Warnings[0].Message, "3000.00")
		assert.Contains(t, data.Warnings[0].Message, "2000.00")
		assert.Equal(t, "1-2025-01-01", data.Warnings[0].Key)
	})

	t.Run("should create no additional instances on a second request", func(t *testing.T) {
		// given
		f := setup(t)
		f.addIncome(t, 5000)
		f.addDebt(t, 3000, "2025-01-15")

		// when
		_, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 2)
		require.NoError(t, err)
		first, err := f.debtRepo.ListInstances(f.ctx, f.accountId)
		require.NoError(t, err)
		_, err = f.planning.GetPlanningData(f.ctx, f.accountId, january, 2)
		require.NoError(t, err)
		second, err := f.debtRepo.ListInstances(f.ctx, f.accountId)
		require.NoError(t, err)

		// then
		assert.Len(t, first, 3)
		assert.Len(t, second, 3)
	})

	t.Run("should join allocations onto the paycheck views", func(t *testing.T) {
		// given
		f := setup(t)
		f.addIncome(t, 5000)
		f.addDebt(t, 3000, "2025-01-15")
		_, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)
		require.NoError(t, err)
		instances, err := f.debtRepo.ListInstances(f.ctx, f.accountId)
		require.NoError(t, err)
		require.Len(t, instances, 1)
		require.NoError(t, f.allocationService.Allocate(f.ctx, f.accountId, instances[0].Id, "1-2025-01-01", nil, nil))

		// when
		data, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)

		// then
		require.NoError(t, err)
		require.Len(t, data.CurrentMonth, 1)
		require.Len(t, data.CurrentMonth[0].AllocatedDebts, 1)
		entry := data.CurrentMonth[0].AllocatedDebts[0]
		assert.Equal(t, "Rent", entry.DebtName)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(3000)))
		assert.True(t, data.CurrentMonth[0].RemainingAmount.Equal(decimal.NewFromInt(2000)))
		assert.Empty(t, data.Warnings)
	})

	t.Run("should surface a late payment and hide it again after dismissal", func(t *testing.T) {
		// given
		f := setup(t)
		f.addIncome(t, 5000)
		f.addDebt(t, 3000, "2025-01-15")
		_, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)
		require.NoError(t, err)
		instances, err := f.debtRepo.ListInstances(f.ctx, f.accountId)
		require.NoError(t, err)
		lateDate := dates.Date(2025, 1, 20)
		require.NoError(t, f.allocationService.Allocate(f.ctx, f.accountId, instances[0].Id, "1-2025-01-01", nil, &lateDate))

		// when
		before, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)
		require.NoError(t, err)
		require.Len(t, before.Warnings, 1)
		require.Equal(t, warning.LatePayment, before.Warnings[0].Type)
		require.NoError(t, f.warningService.Dismiss(f.ctx, f.accountId, before.Warnings[0].Type, before.Warnings[0].Key))
		after, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)

		// then
		require.NoError(t, err)
		assert.Empty(t, after.Warnings)
	})

	t.Run("should leave hidden instances out of the planning result", func(t *testing.T) {
		// given
		f := setup(t)
		f.addIncome(t, 2000)
		f.addDebt(t, 3000, "2025-01-15")
		_, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)
		require.NoError(t, err)
		instances, err := f.debtRepo.ListInstances(f.ctx, f.accountId)
		require.NoError(t, err)
		require.NoError(t, f.debtService.SetInstanceActive(f.ctx, f.accountId, instances[0].Id, false))

		// when
		data, err := f.planning.GetPlanningData(f.ctx, f.accountId, january, 0)

		// then
		require.NoError(t, err)
		assert.Empty(t, data.Instances)
		assert.Empty(t, data.Warnings)
		hidden, err := f.debtService.ListHiddenInstances(f.ctx, f.accountId, january, 0)
		require.NoError(t, err)
		assert.Len(t, hidden, 1)
	})

	t.Run("should reject a user who is not a member of the account", func(t *testing.T) {
		// given
		f := setup(t)
		outsider := user.WithUser(context.Background(), user.User{Id: 99})

		// when
		_, err := f.planning.GetPlanningData(outsider, f.accountId, january, 0)

		// then
		assert.ErrorIs(t, err, account.ErrNotMember)
	})
}
