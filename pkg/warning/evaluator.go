package warning

import (
	"fmt"
	"strconv"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/pkg/allocation"
	"github.com/payplan/payplan/pkg/debt"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/shopspring/decimal"
)

// Evaluate derives warnings from one planning window. It is a pure function
// of its inputs:
//
//   - insufficient_funds when the window's debt total exceeds its income
//     total, keyed by the first paycheck of the window
//   - late_payment for each allocation paying after its instance's due date,
//     keyed by "{debtId}:{paycheckId}"
//   - debt_unpaid for each debt left without any allocation once allocating
//     has started, keyed by the debt id
func Evaluate(paychecks []paycheck.Paycheck, instances []debt.InstanceView, allocations []allocation.Allocation) []Warning {
	var warnings []Warning

	totalIncome := decimal.Zero
	for _, p := range paychecks {
		totalIncome = totalIncome.Add(p.Amount)
	}
	totalDebt := decimal.Zero
	for _, inst := range instances {
		totalDebt = totalDebt.Add(inst.Amount)
	}
	if totalDebt.GreaterThan(totalIncome) {
		key := ""
		if len(paychecks) > 0 {
			key = paychecks[0].Id
		}
		warnings = append(warnings, Warning{
			Type:     InsufficientFunds,
			Key:      key,
			Severity: SeverityHigh,
			Message: fmt.Sprintf("Debts due in this window total %s but projected income is %s",
				totalDebt.StringFixed(2), totalIncome.StringFixed(2)),
		})
	}

	instancesById := make(map[int]debt.InstanceView, len(instances))
	for _, inst := range instances {
		instancesById[inst.Id] = inst
	}
	allocatedInstances := make(map[int]bool, len(allocations))
	for _, a := range allocations {
		allocatedInstances[a.InstanceId] = true
		inst, ok := instancesById[a.InstanceId]
		if !ok || a.PaymentDate == nil {
			continue
		}
		if a.PaymentDate.After(inst.DueDate) {
			warnings = append(warnings, Warning{
				Type:     LatePayment,
				Key:      fmt.Sprintf("%d:%s", inst.DebtId, a.PaycheckId),
				Severity: SeverityMedium,
				Message: fmt.Sprintf("%s is scheduled for %s, after its due date %s",
					inst.DebtName, dates.Format(*a.PaymentDate), dates.Format(inst.DueDate)),
			})
		}
	}

	// Unpaid debts only become a signal once the user has started allocating,
	// otherwise a freshly populated month would flag every debt.
	if len(allocations) > 0 {
		seenDebts := make(map[int]bool)
		for _, inst := range instances {
			if allocatedInstances[inst.Id] || seenDebts[inst.DebtId] {
				continue
			}
			seenDebts[inst.DebtId] = true
			warnings = append(warnings, Warning{
				Type:     DebtUnpaid,
				Key:      strconv.Itoa(inst.DebtId),
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("%s has no payment allocated", inst.DebtName),
			})
		}
	}

	return warnings
}

// FilterDismissed drops every warning the given dismissals suppress.
func FilterDismissed(warnings []Warning, dismissals []Dismissal) []Warning {
	if len(dismissals) == 0 {
		return warnings
	}
	type dismissalKey struct {
		warningType Type
		key         string
	}
	dismissed := make(map[dismissalKey]bool, len(dismissals))
	for _, d := range dismissals {
		dismissed[dismissalKey{d.Type, d.Key}] = true
	}
	kept := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if !dismissed[dismissalKey{w.Type, w.Key}] {
			kept = append(kept, w)
		}
	}
	return kept
}
