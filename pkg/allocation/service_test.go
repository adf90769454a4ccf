package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/internal/utils"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (context.Context, *StubRepository, *ServiceImpl, int) {
	t.Helper()
	ctx := user.WithUser(context.Background(), user.User{Id: 1})
	accountService := account.NewService(account.NewStubRepository())
	acc, err := accountService.CreateAccount(ctx, "Household")
	require.NoError(t, err)
	repo := NewStubRepository()
	clock := &utils.MockClock{FixedNow: time.Date(2025, 1, 20, 10, 30, 0, 0, time.UTC)}
	return ctx, repo, NewService(repo, accountService, clock), acc.Id
}

func amountOf(value int64) *decimal.Decimal {
	d := decimal.NewFromInt(value)
	return &d
}

func TestServiceImpl_Allocate(t *testing.T) {
	t.Run("should update instead of creating a second row for the same pair", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)

		// when
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", amountOf(300), nil))
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", amountOf(450), nil))

		// then
		allocations, err := repo.ListForWindow(ctx, accountId, dates.YearMonth{Year: 2025, Month: 1}, dates.YearMonth{Year: 2025, Month: 1})
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		require.NotNil(t, allocations[0].PaymentAmount)
		assert.True(t, allocations[0].PaymentAmount.Equal(decimal.NewFromInt(450)))
	})

	t.Run("should record the allocating user", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)

		// when
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", nil, nil))

		// then
		a, err := repo.GetByPair(ctx, accountId, 10, "1-2025-01-01")
		require.NoError(t, err)
		assert.Equal(t, 1, a.UserId)
		assert.False(t, a.Paid)
	})

	t.Run("should reject a user who is not a member of the account", func(t *testing.T) {
		// given
		_, _, service, accountId := setupService(t)
		outsider := user.WithUser(context.Background(), user.User{Id: 99})

		// when
		err := service.Allocate(outsider, accountId, 10, "1-2025-01-01", nil, nil)

		// then
		assert.ErrorIs(t, err, account.ErrNotMember)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should fail when the allocation does not exist", func(t *testing.T) {
		// given
		ctx, _, service, accountId := setupService(t)

		// when
		err := service.Update(ctx, accountId, 10, "1-2025-01-01", amountOf(100), nil, "")

		// then
		assert.ErrorIs(t, err, ErrAllocationNotFound)
	})

	t.Run("should overwrite amount, date and note", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", amountOf(300), nil))
		paymentDate := dates.Date(2025, 1, 14)

		// when
		err := service.Update(ctx, accountId, 10, "1-2025-01-01", amountOf(250), &paymentDate, "pay early")

		// then
		require.NoError(t, err)
		a, err := repo.GetByPair(ctx, accountId, 10, "1-2025-01-01")
		require.NoError(t, err)
		assert.True(t, a.PaymentAmount.Equal(decimal.NewFromInt(250)))
		require.NotNil(t, a.PaymentDate)
		assert.Equal(t, paymentDate, *a.PaymentDate)
		assert.Equal(t, "pay early", a.Note)
	})
}

func TestServiceImpl_Unallocate(t *testing.T) {
	t.Run("should remove an existing allocation", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", nil, nil))

		// when
		err := service.Unallocate(ctx, accountId, 10, "1-2025-01-01")

		// then
		require.NoError(t, err)
		_, err = repo.GetByPair(ctx, accountId, 10, "1-2025-01-01")
		assert.ErrorIs(t, err, ErrAllocationNotFound)
	})

	t.Run("should be a no-op when nothing is allocated", func(t *testing.T) {
		// given
		ctx, _, service, accountId := setupService(t)

		// when
		err := service.Unallocate(ctx, accountId, 10, "1-2025-01-01")

		// then
		assert.NoError(t, err)
	})
}

func TestServiceImpl_Move(t *testing.T) {
	t.Run("should reassign the instance to the target paycheck", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", amountOf(300), nil))

		// when
		err := service.Move(ctx, accountId, 10, "1-2025-01-01", "1-2025-01-15", amountOf(300), nil)

		// then
		require.NoError(t, err)
		_, err = repo.GetByPair(ctx, accountId, 10, "1-2025-01-01")
		assert.ErrorIs(t, err, ErrAllocationNotFound)
		moved, err := repo.GetByPair(ctx, accountId, 10, "1-2025-01-15")
		require.NoError(t, err)
		assert.True(t, moved.PaymentAmount.Equal(decimal.NewFromInt(300)))
	})

	t.Run("should update the target allocation when one already exists", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", amountOf(300), nil))
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-15", amountOf(100), nil))

		// when
		err := service.Move(ctx, accountId, 10, "1-2025-01-01", "1-2025-01-15", amountOf(300), nil)

		// then
		require.NoError(t, err)
		allocations, err := repo.ListForWindow(ctx, accountId, dates.YearMonth{Year: 2025, Month: 1}, dates.YearMonth{Year: 2025, Month: 1})
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, "1-2025-01-15", allocations[0].PaycheckId)
		assert.True(t, allocations[0].PaymentAmount.Equal(decimal.NewFromInt(300)))
	})
}

func TestServiceImpl_MarkPaid(t *testing.T) {
	t.Run("should default the payment date to today and append a note", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", amountOf(300), nil))
		created, err := repo.GetByPair(ctx, accountId, 10, "1-2025-01-01")
		require.NoError(t, err)

		// when
		err = service.MarkPaid(ctx, accountId, 10, created.Id, nil, nil)

		// then
		require.NoError(t, err)
		paid, err := repo.GetAllocation(ctx, accountId, created.Id)
		require.NoError(t, err)
		assert.True(t, paid.Paid)
		require.NotNil(t, paid.PaymentDate)
		assert.Equal(t, dates.Date(2025, 1, 20), *paid.PaymentDate)
		assert.Equal(t, "Marked paid on 2025-01-20", paid.Note)
	})

	t.Run("should keep an explicit payment date and amount", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", amountOf(300), nil))
		created, err := repo.GetByPair(ctx, accountId, 10, "1-2025-01-01")
		require.NoError(t, err)
		paymentDate := dates.Date(2025, 1, 18)

		// when
		err = service.MarkPaid(ctx, accountId, 10, created.Id, amountOf(280), &paymentDate)

		// then
		require.NoError(t, err)
		paid, err := repo.GetAllocation(ctx, accountId, created.Id)
		require.NoError(t, err)
		assert.True(t, paid.PaymentAmount.Equal(decimal.NewFromInt(280)))
		assert.Equal(t, paymentDate, *paid.PaymentDate)
		assert.Equal(t, "Marked paid on 2025-01-18", paid.Note)
	})

	t.Run("should fail when the allocation belongs to another instance", func(t *testing.T) {
		// given
		ctx, repo, service, accountId := setupService(t)
		require.NoError(t, service.Allocate(ctx, accountId, 10, "1-2025-01-01", nil, nil))
		created, err := repo.GetByPair(ctx, accountId, 10, "1-2025-01-01")
		require.NoError(t, err)

		// when
		err = service.MarkPaid(ctx, accountId, 11, created.Id, nil, nil)

		// then
		assert.ErrorIs(t, err, ErrAllocationNotFound)
	})
}
