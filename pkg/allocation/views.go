package allocation

import (
	"time"

	"github.com/payplan/payplan/pkg/debt"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/shopspring/decimal"
)

// AllocatedDebt is one debt payment assigned to a paycheck. Amount is the
// effective payment: the allocation's override when present, the debt amount
// otherwise. DueDate belongs to the month's instance while TemplateDueDate is
// the debt's original one; the UI needs both.
type AllocatedDebt struct {
	AllocationId    int
	InstanceId      int
	DebtId          int
	DebtName        string
	Amount          decimal.Decimal
	PaymentDate     *time.Time
	Paid            bool
	Note            string
	DueDate         time.Time
	TemplateDueDate time.Time
}

// PaycheckView is a projected paycheck with the debts allocated to it.
// A negative RemainingAmount means the paycheck is over-allocated.
type PaycheckView struct {
	Paycheck        paycheck.Paycheck
	AllocatedDebts  []AllocatedDebt
	RemainingAmount decimal.Decimal
}

// BuildPaycheckViews joins projected paychecks with stored allocations and the
// instances they point at. Allocations referencing paychecks or instances
// outside the given sets are left out; they belong to another window.
func BuildPaycheckViews(paychecks []paycheck.Paycheck, instances []debt.InstanceView, allocations []Allocation) []PaycheckView {
	instancesById := make(map[int]debt.InstanceView, len(instances))
	for _, inst := range instances {
		instancesById[inst.Id] = inst
	}
	byPaycheck := make(map[string][]Allocation, len(allocations))
	for _, a := range allocations {
		byPaycheck[a.PaycheckId] = append(byPaycheck[a.PaycheckId], a)
	}

	views := make([]PaycheckView, 0, len(paychecks))
	for _, p := range paychecks {
		view := PaycheckView{Paycheck: p, RemainingAmount: p.Amount}
		for _, a := range byPaycheck[p.Id] {
			inst, ok := instancesById[a.InstanceId]
			if !ok {
				continue
			}
			amount := inst.Amount
			if a.PaymentAmount != nil {
				amount = *a.PaymentAmount
			}
			view.AllocatedDebts = append(view.AllocatedDebts, AllocatedDebt{
				AllocationId:    a.Id,
				InstanceId:      inst.Id,
				DebtId:          inst.DebtId,
				DebtName:        inst.DebtName,
				Amount:          amount,
				PaymentDate:     a.PaymentDate,
				Paid:            a.Paid,
				Note:            a.Note,
				DueDate:         inst.DueDate,
				TemplateDueDate: inst.TemplateDueDate,
			})
			view.RemainingAmount = view.RemainingAmount.Sub(amount)
		}
		views = append(views, view)
	}
	return views
}
