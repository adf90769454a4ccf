package debt

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payplan/payplan/internal/dates"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateDebt(ctx context.Context, d Debt) (Debt, error)
	GetDebt(ctx context.Context, debtId int) (Debt, error)
	ListDebts(ctx context.Context, accountId int) ([]Debt, error)
	UpdateDebt(ctx context.Context, d Debt) (Debt, error)
	CreateInstance(ctx context.Context, inst MonthlyInstance) (MonthlyInstance, error)
	GetInstance(ctx context.Context, instanceId int) (MonthlyInstance, error)
	ListInstances(ctx context.Context, accountId int) ([]MonthlyInstance, error)
	ListInstanceViews(ctx context.Context, accountId int, from dates.YearMonth, to dates.YearMonth, active bool) ([]InstanceView, error)
	SetInstanceActive(ctx context.Context, accountId int, instanceId int, isActive bool) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateDebt(ctx context.Context, d Debt) (Debt, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO debt (account_id, name, amount, interest_rate, due_date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		d.AccountId, d.Name, d.Amount, d.InterestRate, d.DueDate, d.CategoryId).
		Scan(&d.Id)
	if err != nil {
		log.Errorf("Error creating debt: %v", err)
		return Debt{}, err
	}
	return d, nil
}

func (r *RepositoryImpl) GetDebt(ctx context.Context, debtId int) (Debt, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, account_id, name, amount, interest_rate, due_date, category_id
		FROM debt
		WHERE id = $1`, debtId)
	d, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debt{}, ErrDebtNotFound
		}
		log.Errorf("Error fetching debt %d: %v", debtId, err)
		return Debt{}, err
	}
	return d, nil
}

func (r *RepositoryImpl) ListDebts(ctx context.Context, accountId int) ([]Debt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, name, amount, interest_rate, due_date, category_id
		FROM debt
		WHERE account_id = $1
		ORDER BY id`, accountId)
	if err != nil {
		log.Errorf("Error fetching debts for account %d: %v", accountId, err)
		return nil, err
	}
	defer rows.Close()

	var debts []Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *RepositoryImpl) UpdateDebt(ctx context.Context, d Debt) (Debt, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE debt
		SET name = $1, amount = $2, interest_rate = $3, due_date = $4, category_id = $5
		WHERE id = $6 AND account_id = $7`,
		d.Name, d.Amount, d.InterestRate, d.DueDate, d.CategoryId, d.Id, d.AccountId)
	if err != nil {
		log.Errorf("Error updating debt %d: %v", d.Id, err)
		return Debt{}, err
	}
	if tag.RowsAffected() == 0 {
		return Debt{}, ErrDebtNotFound
	}
	return d, nil
}

// CreateInstance inserts a monthly instance and maps a violation of the
// (debt_id, year, month) unique constraint to ErrDuplicateInstance so the
// populator can treat a concurrent insert as benign.
func (r *RepositoryImpl) CreateInstance(ctx context.Context, inst MonthlyInstance) (MonthlyInstance, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO monthly_debt_instance (account_id, debt_id, year, month, due_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		inst.AccountId, inst.DebtId, inst.Year, inst.Month, inst.DueDate, inst.IsActive).
		Scan(&inst.Id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return MonthlyInstance{}, ErrDuplicateInstance
		}
		log.Errorf("Error creating monthly instance for debt %d: %v", inst.DebtId, err)
		return MonthlyInstance{}, err
	}
	return inst, nil
}

func (r *RepositoryImpl) GetInstance(ctx context.Context, instanceId int) (MonthlyInstance, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, account_id, debt_id, year, month, due_date, is_active
		FROM monthly_debt_instance
		WHERE id = $1`, instanceId)
	inst, err := scanInstance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MonthlyInstance{}, ErrInstanceNotFound
		}
		log.Errorf("Error fetching monthly instance %d: %v", instanceId, err)
		return MonthlyInstance{}, err
	}
	return inst, nil
}

// ListInstances loads every instance of the account regardless of window or
// active flag. The populator needs the full set so instances created by
// earlier runs still suppress duplicates.
func (r *RepositoryImpl) ListInstances(ctx context.Context, accountId int) ([]MonthlyInstance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, debt_id, year, month, due_date, is_active
		FROM monthly_debt_instance
		WHERE account_id = $1
		ORDER BY year, month, debt_id`, accountId)
	if err != nil {
		log.Errorf("Error fetching monthly instances for account %d: %v", accountId, err)
		return nil, err
	}
	defer rows.Close()

	var instances []MonthlyInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

func (r *RepositoryImpl) ListInstanceViews(ctx context.Context, accountId int, from dates.YearMonth, to dates.YearMonth, active bool) ([]InstanceView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.account_id, i.debt_id, i.year, i.month, i.due_date, i.is_active,
		       d.name, d.amount, d.due_date
		FROM monthly_debt_instance i
		JOIN debt d ON d.id = i.debt_id
		WHERE i.account_id = $1
		  AND (i.year * 12 + i.month) BETWEEN $2 AND $3
		  AND i.is_active = $4
		ORDER BY i.year, i.month, i.debt_id`,
		accountId, from.Year*12+from.Month, to.Year*12+to.Month, active)
	if err != nil {
		log.Errorf("Error fetching instance views for account %d: %v", accountId, err)
		return nil, err
	}
	defer rows.Close()

	var views []InstanceView
	for rows.Next() {
		var (
			view        InstanceView
			dueDate     time.Time
			templateDue time.Time
		)
		err := rows.Scan(&view.Id, &view.AccountId, &view.DebtId, &view.Year, &view.Month,
			&dueDate, &view.IsActive, &view.DebtName, &view.Amount, &templateDue)
		if err != nil {
			return nil, err
		}
		view.DueDate = normalizeDate(dueDate)
		view.TemplateDueDate = normalizeDate(templateDue)
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *RepositoryImpl) SetInstanceActive(ctx context.Context, accountId int, instanceId int, isActive bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE monthly_debt_instance
		SET is_active = $1
		WHERE id = $2 AND account_id = $3`,
		isActive, instanceId, accountId)
	if err != nil {
		log.Errorf("Error updating active flag of monthly instance %d: %v", instanceId, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanDebt(row pgx.Row) (Debt, error) {
	var (
		d       Debt
		dueDate time.Time
	)
	err := row.Scan(&d.Id, &d.AccountId, &d.Name, &d.Amount, &d.InterestRate, &dueDate, &d.CategoryId)
	if err != nil {
		return Debt{}, err
	}
	d.DueDate = normalizeDate(dueDate)
	return d, nil
}

func scanInstance(row pgx.Row) (MonthlyInstance, error) {
	var (
		inst    MonthlyInstance
		dueDate time.Time
	)
	err := row.Scan(&inst.Id, &inst.AccountId, &inst.DebtId, &inst.Year, &inst.Month, &dueDate, &inst.IsActive)
	if err != nil {
		return MonthlyInstance{}, err
	}
	inst.DueDate = normalizeDate(dueDate)
	return inst, nil
}

func normalizeDate(d time.Time) time.Time {
	return dates.Date(d.Year(), d.Month(), d.Day())
}
