package paycheck

import (
	"fmt"
	"time"

	"github.com/payplan/payplan/internal/dates"
	"github.com/shopspring/decimal"
)

// Paycheck is one projected occurrence of an income source. Paychecks are
// never persisted; allocations reference them by the deterministic id below,
// so the same occurrence maps to the same id on every request.
type Paycheck struct {
	Id        string
	SourceId  int
	UserId    int
	Name      string
	Amount    decimal.Decimal
	Date      time.Time
	Frequency dates.Frequency
}

// OccurrenceId builds the stable identifier of a paycheck occurrence,
// "{sourceId}-{YYYY-MM-DD}".
func OccurrenceId(sourceId int, date time.Time) string {
	return fmt.Sprintf("%d-%s", sourceId, dates.Format(date))
}

// Projection splits projected paychecks into the requested month and the
// lookahead beyond it.
type Projection struct {
	CurrentMonth []Paycheck
	Future       []Paycheck
}

func (p Projection) All() []Paycheck {
	all := make([]Paycheck, 0, len(p.CurrentMonth)+len(p.Future))
	all = append(all, p.CurrentMonth...)
	all = append(all, p.Future...)
	return all
}
