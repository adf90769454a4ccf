package debt

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDebtNotFound      = errors.New("debt not found")
	ErrInstanceNotFound  = errors.New("monthly debt instance not found")
	ErrDuplicateInstance = errors.New("monthly debt instance already exists")
)

// Debt is a recurring bill template owned by a budget account. The day of
// month of DueDate is the significant part; its (year, month) is the first
// month a monthly instance may exist for.
type Debt struct {
	Id           int
	AccountId    int
	Name         string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	DueDate      time.Time
	CategoryId   *int
}

// MonthlyInstance is one concrete month's occurrence of a debt template.
// Instances are never hard-deleted; hiding one flips IsActive instead so
// allocation history survives.
type MonthlyInstance struct {
	Id        int
	AccountId int
	DebtId    int
	Year      int
	Month     int
	DueDate   time.Time
	IsActive  bool
}

// InstanceView is an instance joined with its template. Planning and warning
// evaluation need the template's name and amount next to the instance, and
// both due dates: TemplateDueDate for the month-indicator display, DueDate for
// the month in question. The two must not be conflated.
type InstanceView struct {
	MonthlyInstance
	DebtName        string
	Amount          decimal.Decimal
	TemplateDueDate time.Time
}
