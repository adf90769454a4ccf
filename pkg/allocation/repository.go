package allocation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/pkg/debt"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateAllocation(ctx context.Context, a Allocation) (Allocation, error)
	GetAllocation(ctx context.Context, accountId int, allocationId int) (Allocation, error)
	GetByPair(ctx context.Context, accountId int, instanceId int, paycheckId string) (Allocation, error)
	UpdateAllocation(ctx context.Context, a Allocation) (Allocation, error)
	DeleteByPair(ctx context.Context, accountId int, instanceId int, paycheckId string) (bool, error)
	ListForWindow(ctx context.Context, accountId int, from dates.YearMonth, to dates.YearMonth) ([]Allocation, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const allocationColumns = `id, account_id, monthly_debt_instance_id, paycheck_id, user_id,
	payment_amount, payment_date, paid, note, created_at, updated_at`

// CreateAllocation inserts a ledger row. A violation of the unique
// (instance, paycheck, account) constraint becomes ErrDuplicateAllocation so
// the service can fall through to update. A missing instance reference
// becomes debt.ErrInstanceNotFound.
func (r *RepositoryImpl) CreateAllocation(ctx context.Context, a Allocation) (Allocation, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO debt_allocation
			(account_id, monthly_debt_instance_id, paycheck_id, user_id, payment_amount, payment_date, paid, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		a.AccountId, a.InstanceId, a.PaycheckId, a.UserId, a.PaymentAmount, a.PaymentDate, a.Paid, a.Note).
		Scan(&a.Id, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Allocation{}, ErrDuplicateAllocation
			case "23503":
				return Allocation{}, debt.ErrInstanceNotFound
			}
		}
		log.Errorf("Error creating allocation for instance %d: %v", a.InstanceId, err)
		return Allocation{}, err
	}
	return a, nil
}

func (r *RepositoryImpl) GetAllocation(ctx context.Context, accountId int, allocationId int) (Allocation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+allocationColumns+`
		FROM debt_allocation
		WHERE id = $1 AND account_id = $2`, allocationId, accountId)
	a, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Allocation{}, ErrAllocationNotFound
		}
		log.Errorf("Error fetching allocation %d: %v", allocationId, err)
		return Allocation{}, err
	}
	return a, nil
}

func (r *RepositoryImpl) GetByPair(ctx context.Context, accountId int, instanceId int, paycheckId string) (Allocation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+allocationColumns+`
		FROM debt_allocation
		WHERE account_id = $1 AND monthly_debt_instance_id = $2 AND paycheck_id = $3`,
		accountId, instanceId, paycheckId)
	a, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Allocation{}, ErrAllocationNotFound
		}
		log.Errorf("Error fetching allocation for instance %d and paycheck %s: %v", instanceId, paycheckId, err)
		return Allocation{}, err
	}
	return a, nil
}

func (r *RepositoryImpl) UpdateAllocation(ctx context.Context, a Allocation) (Allocation, error) {
	err := r.db.QueryRow(ctx, `
		UPDATE debt_allocation
		SET paycheck_id = $1, payment_amount = $2, payment_date = $3, paid = $4, note = $5, updated_at = now()
		WHERE id = $6 AND account_id = $7
		RETURNING updated_at`,
		a.PaycheckId, a.PaymentAmount, a.PaymentDate, a.Paid, a.Note, a.Id, a.AccountId).
		Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Allocation{}, ErrAllocationNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Allocation{}, ErrDuplicateAllocation
		}
		log.Errorf("Error updating allocation %d: %v", a.Id, err)
		return Allocation{}, err
	}
	return a, nil
}

func (r *RepositoryImpl) DeleteByPair(ctx context.Context, accountId int, instanceId int, paycheckId string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM debt_allocation
		WHERE account_id = $1 AND monthly_debt_instance_id = $2 AND paycheck_id = $3`,
		accountId, instanceId, paycheckId)
	if err != nil {
		log.Errorf("Error deleting allocation for instance %d and paycheck %s: %v", instanceId, paycheckId, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListForWindow returns the account's allocations whose instances fall inside
// the month window, regardless of the instance's active flag.
func (r *RepositoryImpl) ListForWindow(ctx context.Context, accountId int, from dates.YearMonth, to dates.YearMonth) ([]Allocation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.account_id, a.monthly_debt_instance_id, a.paycheck_id, a.user_id,
		       a.payment_amount, a.payment_date, a.paid, a.note, a.created_at, a.updated_at
		FROM debt_allocation a
		JOIN monthly_debt_instance i ON i.id = a.monthly_debt_instance_id
		WHERE a.account_id = $1
		  AND (i.year * 12 + i.month) BETWEEN $2 AND $3
		ORDER BY a.id`,
		accountId, from.Year*12+from.Month, to.Year*12+to.Month)
	if err != nil {
		log.Errorf("Error fetching allocations for account %d: %v", accountId, err)
		return nil, err
	}
	defer rows.Close()

	var allocations []Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

func scanAllocation(row pgx.Row) (Allocation, error) {
	var (
		a      Allocation
		amount decimal.NullDecimal
		date   *time.Time
	)
	err := row.Scan(&a.Id, &a.AccountId, &a.InstanceId, &a.PaycheckId, &a.UserId,
		&amount, &date, &a.Paid, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Allocation{}, err
	}
	if amount.Valid {
		a.PaymentAmount = &amount.Decimal
	}
	if date != nil {
		normalized := dates.Date(date.Year(), date.Month(), date.Day())
		a.PaymentDate = &normalized
	}
	return a, nil
}
