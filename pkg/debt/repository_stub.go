package debt

import (
	"context"

	"github.com/payplan/payplan/internal/dates"
)

type StubRepository struct {
	debts          map[int]Debt
	instances      map[int]MonthlyInstance
	nextDebtId     int
	nextInstanceId int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		debts:          make(map[int]Debt),
		instances:      make(map[int]MonthlyInstance),
		nextDebtId:     1,
		nextInstanceId: 1,
	}
}

func (r *StubRepository) CreateDebt(_ context.Context, d Debt) (Debt, error) {
	d.Id = r.nextDebtId
	r.nextDebtId++
	r.debts[d.Id] = d
	return d, nil
}

func (r *StubRepository) GetDebt(_ context.Context, debtId int) (Debt, error) {
	d, ok := r.debts[debtId]
	if !ok {
		return Debt{}, ErrDebtNotFound
	}
	return d, nil
}

func (r *StubRepository) ListDebts(_ context.Context, accountId int) ([]Debt, error) {
	var debts []Debt
	for id := 1; id < r.nextDebtId; id++ {
		if d, ok := r.debts[id]; ok && d.AccountId == accountId {
			debts = append(debts, d)
		}
	}
	return debts, nil
}

func (r *StubRepository) UpdateDebt(_ context.Context, d Debt) (Debt, error) {
	existing, ok := r.debts[d.Id]
	if !ok || existing.AccountId != d.AccountId {
		return Debt{}, ErrDebtNotFound
	}
	r.debts[d.Id] = d
	return d, nil
}

func (r *StubRepository) CreateInstance(_ context.Context, inst MonthlyInstance) (MonthlyInstance, error) {
	for _, existing := range r.instances {
		if existing.DebtId == inst.DebtId && existing.Year == inst.Year && existing.Month == inst.Month {
			return MonthlyInstance{}, ErrDuplicateInstance
		}
	}
	inst.Id = r.nextInstanceId
	r.nextInstanceId++
	r.instances[inst.Id] = inst
	return inst, nil
}

func (r *StubRepository) GetInstance(_ context.Context, instanceId int) (MonthlyInstance, error) {
	inst, ok := r.instances[instanceId]
	if !ok {
		return MonthlyInstance{}, ErrInstanceNotFound
	}
	return inst, nil
}

func (r *StubRepository) ListInstances(_ context.Context, accountId int) ([]MonthlyInstance, error) {
	var instances []MonthlyInstance
	for id := 1; id < r.nextInstanceId; id++ {
		if inst, ok := r.instances[id]; ok && inst.AccountId == accountId {
			instances = append(instances, inst)
		}
	}
	return instances, nil
}

func (r *StubRepository) ListInstanceViews(ctx context.Context, accountId int, from dates.YearMonth, to dates.YearMonth, active bool) ([]InstanceView, error) {
	instances, err := r.ListInstances(ctx, accountId)
	if err != nil {
		return nil, err
	}
	var views []InstanceView
	for _, inst := range instances {
		month := dates.YearMonth{Year: inst.Year, Month: inst.Month}
		if month.Before(from) || month.After(to) || inst.IsActive != active {
			continue
		}
		d := r.debts[inst.DebtId]
		views = append(views, InstanceView{
			MonthlyInstance: inst,
			DebtName:        d.Name,
			Amount:          d.Amount,
			TemplateDueDate: d.DueDate,
		})
	}
	return views, nil
}

func (r *StubRepository) SetInstanceActive(_ context.Context, accountId int, instanceId int, isActive bool) (bool, error) {
	inst, ok := r.instances[instanceId]
	if !ok || inst.AccountId != accountId {
		return false, nil
	}
	inst.IsActive = isActive
	r.instances[instanceId] = inst
	return true, nil
}
