package debt

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/internal/test_utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repository, int) {
	ctx := context.Background()
	db := openDb()
	repository := NewRepository(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})

	var accountId int
	err := db.QueryRow(ctx, "INSERT INTO budget_account (name) VALUES ('Test Account') RETURNING id").
		Scan(&accountId)
	require.NoError(t, err)
	return ctx, repository, accountId
}

func TestRepositoryImpl_CreateDebt(t *testing.T) {
	t.Run("should create a debt and read it back", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt := debtTemplate(Debt{AccountId: accountId})

		// when
		created, err := repo.CreateDebt(ctx, debt)

		// then
		require.NoError(t, err)
		require.NotEmpty(t, created.Id)

		stored, err := repo.GetDebt(ctx, created.Id)
		require.NoError(t, err)
		assertDebtsEqual(t, debt, stored)
	})

	t.Run("should store a debt without a category", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt := debtTemplate(Debt{AccountId: accountId})
		debt.CategoryId = nil

		// when
		created, err := repo.CreateDebt(ctx, debt)

		// then
		require.NoError(t, err)
		stored, err := repo.GetDebt(ctx, created.Id)
		require.NoError(t, err)
		require.Nil(t, stored.CategoryId)
	})
}

func TestRepositoryImpl_GetDebt(t *testing.T) {
	t.Run("should return ErrDebtNotFound when debt does not exist", func(t *testing.T) {
		// given
		ctx, repo, _ := setupTestRepository(t)

		// when
		_, err := repo.GetDebt(ctx, 99999)

		// then
		require.ErrorIs(t, err, ErrDebtNotFound)
	})
}

func TestRepositoryImpl_ListDebts(t *testing.T) {
	t.Run("should return only debts of the given account ordered by id", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		first, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId, Name: "Mortgage"}))
		require.NoError(t, err)
		second, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId, Name: "Car Loan"}))
		require.NoError(t, err)

		// when
		debts, err := repo.ListDebts(ctx, accountId)

		// then
		require.NoError(t, err)
		require.Len(t, debts, 2)
		require.Equal(t, first.Id, debts[0].Id)
		require.Equal(t, second.Id, debts[1].Id)

		other, err := repo.ListDebts(ctx, accountId+1)
		require.NoError(t, err)
		require.Empty(t, other)
	})
}

func TestRepositoryImpl_UpdateDebt(t *testing.T) {
	t.Run("should update template fields", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		created, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId, Name: "Old Name"}))
		require.NoError(t, err)

		// when
		created.Name = "New Name"
		created.Amount = decimal.NewFromInt(750)
		created.DueDate = dates.Date(2025, 3, 28)
		updated, err := repo.UpdateDebt(ctx, created)

		// then
		require.NoError(t, err)
		stored, err := repo.GetDebt(ctx, updated.Id)
		require.NoError(t, err)
		require.Equal(t, "New Name", stored.Name)
		require.True(t, stored.Amount.Equal(decimal.NewFromInt(750)))
		require.Equal(t, dates.Date(2025, 3, 28), stored.DueDate)
	})

	t.Run("should return ErrDebtNotFound when debt belongs to another account", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		created, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)

		// when
		created.AccountId = accountId + 1
		_, err = repo.UpdateDebt(ctx, created)

		// then
		require.ErrorIs(t, err, ErrDebtNotFound)
	})
}

func TestRepositoryImpl_CreateInstance(t *testing.T) {
	t.Run("should return ErrDuplicateInstance for a second instance of the same month", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		instance := monthlyInstance(debt, 2025, 2)

		first, err := repo.CreateInstance(ctx, instance)
		require.NoError(t, err)
		require.NotEmpty(t, first.Id)

		// when
		_, err = repo.CreateInstance(ctx, instance)

		// then
		require.ErrorIs(t, err, ErrDuplicateInstance)

		// the unique constraint covers one debt and month, not the account
		otherDebt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		_, err = repo.CreateInstance(ctx, monthlyInstance(otherDebt, 2025, 2))
		require.NoError(t, err)
	})

	t.Run("should allow the same debt in different months", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)

		// when
		_, err = repo.CreateInstance(ctx, monthlyInstance(debt, 2025, 1))
		require.NoError(t, err)
		_, err = repo.CreateInstance(ctx, monthlyInstance(debt, 2025, 2))

		// then
		require.NoError(t, err)

		instances, err := repo.ListInstances(ctx, accountId)
		require.NoError(t, err)
		require.Len(t, instances, 2)
	})
}

func TestRepositoryImpl_ListInstances(t *testing.T) {
	t.Run("should return instances of the account ordered by month", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		_, err = repo.CreateInstance(ctx, monthlyInstance(debt, 2025, 3))
		require.NoError(t, err)
		_, err = repo.CreateInstance(ctx, monthlyInstance(debt, 2024, 12))
		require.NoError(t, err)

		// when
		instances, err := repo.ListInstances(ctx, accountId)

		// then
		require.NoError(t, err)
		require.Len(t, instances, 2)
		require.Equal(t, 2024, instances[0].Year)
		require.Equal(t, 12, instances[0].Month)
		require.Equal(t, 2025, instances[1].Year)
		require.Equal(t, 3, instances[1].Month)
	})
}

func TestRepositoryImpl_ListInstanceViews(t *testing.T) {
	t.Run("should join the template and keep both due dates", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt := debtTemplate(Debt{AccountId: accountId, Name: "Mortgage", DueDate: dates.Date(2025, 1, 15)})
		debt.Amount = decimal.NewFromInt(1200)
		created, err := repo.CreateDebt(ctx, debt)
		require.NoError(t, err)
		instance := monthlyInstance(created, 2025, 2)
		instance.DueDate = dates.Date(2025, 2, 15)
		_, err = repo.CreateInstance(ctx, instance)
		require.NoError(t, err)

		// when
		views, err := repo.ListInstanceViews(ctx, accountId,
			dates.YearMonth{Year: 2025, Month: 1}, dates.YearMonth{Year: 2025, Month: 3}, true)

		// then
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.Equal(t, "Mortgage", views[0].DebtName)
		require.True(t, views[0].Amount.Equal(decimal.NewFromInt(1200)))
		require.Equal(t, dates.Date(2025, 2, 15), views[0].DueDate)
		require.Equal(t, dates.Date(2025, 1, 15), views[0].TemplateDueDate)
	})

	t.Run("should return only instances inside the month window", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		for _, month := range []int{1, 2, 3, 4, 5} {
			_, err = repo.CreateInstance(ctx, monthlyInstance(debt, 2025, month))
			require.NoError(t, err)
		}

		// when
		views, err := repo.ListInstanceViews(ctx, accountId,
			dates.YearMonth{Year: 2025, Month: 2}, dates.YearMonth{Year: 2025, Month: 4}, true)

		// then
		require.NoError(t, err)
		require.Len(t, views, 3)
		require.Equal(t, 2, views[0].Month)
		require.Equal(t, 3, views[1].Month)
		require.Equal(t, 4, views[2].Month)
	})

	t.Run("should span a year boundary", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		_, err = repo.CreateInstance(ctx, monthlyInstance(debt, 2024, 12))
		require.NoError(t, err)
		_, err = repo.CreateInstance(ctx, monthlyInstance(debt, 2025, 1))
		require.NoError(t, err)

		// when
		views, err := repo.ListInstanceViews(ctx, accountId,
			dates.YearMonth{Year: 2024, Month: 12}, dates.YearMonth{Year: 2025, Month: 1}, true)

		// then
		require.NoError(t, err)
		require.Len(t, views, 2)
	})

	t.Run("should filter by the active flag", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		visible, err := repo.CreateInstance(ctx, monthlyInstance(debt, 2025, 1))
		require.NoError(t, err)
		otherDebt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		hidden, err := repo.CreateInstance(ctx, monthlyInstance(otherDebt, 2025, 1))
		require.NoError(t, err)
		ok, err := repo.SetInstanceActive(ctx, accountId, hidden.Id, false)
		require.NoError(t, err)
		require.True(t, ok)

		from := dates.YearMonth{Year: 2025, Month: 1}
		to := dates.YearMonth{Year: 2025, Month: 1}

		// when
		active, err := repo.ListInstanceViews(ctx, accountId, from, to, true)
		require.NoError(t, err)
		inactive, err := repo.ListInstanceViews(ctx, accountId, from, to, false)
		require.NoError(t, err)

		// then
		require.Len(t, active, 1)
		require.Equal(t, visible.Id, active[0].Id)
		require.Len(t, inactive, 1)
		require.Equal(t, hidden.Id, inactive[0].Id)
	})
}

func TestRepositoryImpl_SetInstanceActive(t *testing.T) {
	t.Run("should flip the flag and report the row as found", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		instance, err := repo.CreateInstance(ctx, monthlyInstance(debt, 2025, 6))
		require.NoError(t, err)

		// when
		found, err := repo.SetInstanceActive(ctx, accountId, instance.Id, false)

		// then
		require.NoError(t, err)
		require.True(t, found)
		stored, err := repo.GetInstance(ctx, instance.Id)
		require.NoError(t, err)
		require.False(t, stored.IsActive)
	})

	t.Run("should report false for an instance of another account", func(t *testing.T) {
		// given
		ctx, repo, accountId := setupTestRepository(t)
		debt, err := repo.CreateDebt(ctx, debtTemplate(Debt{AccountId: accountId}))
		require.NoError(t, err)
		instance, err := repo.CreateInstance(ctx, monthlyInstance(debt, 2025, 6))
		require.NoError(t, err)

		// when
		found, err := repo.SetInstanceActive(ctx, accountId+1, instance.Id, false)

		// then
		require.NoError(t, err)
		require.False(t, found)
		stored, err := repo.GetInstance(ctx, instance.Id)
		require.NoError(t, err)
		require.True(t, stored.IsActive)
	})
}

func debtTemplate(partial Debt) Debt {
	name := "Test debt " + uuid.NewString()[0:8]
	if partial.Name != "" {
		name = partial.Name
	}

	amount := decimal.NewFromInt(int64(rand.Intn(900) + 100))
	if !partial.Amount.IsZero() {
		amount = partial.Amount
	}

	dueDate := dates.Date(2025, 1, 15)
	if !partial.DueDate.IsZero() {
		dueDate = partial.DueDate
	}

	categoryId := partial.CategoryId
	if categoryId == nil {
		category := rand.Intn(10) + 1
		categoryId = &category
	}

	return Debt{
		AccountId:    partial.AccountId,
		Name:         name,
		Amount:       amount,
		InterestRate: decimal.NewFromFloat(float64(rand.Intn(2000)) / 100),
		DueDate:      dueDate,
		CategoryId:   categoryId,
	}
}

func monthlyInstance(debt Debt, year int, month int) MonthlyInstance {
	return MonthlyInstance{
		AccountId: debt.AccountId,
		DebtId:    debt.Id,
		Year:      year,
		Month:     month,
		DueDate:   dates.DayInMonth(dates.YearMonth{Year: year, Month: month}, debt.DueDate.Day()),
		IsActive:  true,
	}
}

func assertDebtsEqual(t *testing.T, expected Debt, actual Debt) {
	require.Equal(t, expected.AccountId, actual.AccountId)
	require.Equal(t, expected.Name, actual.Name)
	require.True(t, expected.Amount.Equal(actual.Amount), "amount %s != %s", expected.Amount, actual.Amount)
	require.True(t, expected.InterestRate.Equal(actual.InterestRate), "interest rate %s != %s", expected.InterestRate, actual.InterestRate)
	require.Equal(t, expected.DueDate, actual.DueDate)
	require.Equal(t, expected.CategoryId, actual.CategoryId)
}
